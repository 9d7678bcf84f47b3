// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"

	"seller-assistant/internal/common/config"
	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/retry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client with connection retry and error mapping.
type Client struct {
	client zbc.Client
	cfg    config.CamundaConfig
	policy retry.Policy
	log    logger.Logger
}

// Connect creates a Zeebe client and waits for the broker topology under policy.
func Connect(ctx context.Context, cfg config.CamundaConfig, policy retry.Policy, log logger.Logger) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, cfg: cfg, policy: policy, log: log}
	if err := c.HealthCheck(ctx); err != nil {
		_ = zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}

	log.Info("Zeebe client connected", map[string]interface{}{
		"gatewayAddress": cfg.BrokerAddress,
	})
	return c, nil
}

// Raw returns the underlying Zeebe client for job workers.
func (c *Client) Raw() zbc.Client {
	return c.client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck requests the broker topology, retrying transient failures.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := retry.Do(ctx, c.policy, c.log, "zeebe_topology", func(ctx context.Context) (struct{}, error) {
		reqCtx, cancel := context.WithTimeout(ctx, config.GetDuration(c.cfg.RequestTimeout))
		defer cancel()

		if _, err := c.client.NewTopologyCommand().Send(reqCtx); err != nil {
			return struct{}{}, MapZeebeError(err, "topology")
		}
		return struct{}{}, nil
	})
	return err
}

var transientPhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
}

// MapZeebeError converts a Zeebe client error into the application taxonomy.
// Connectivity problems are retryable transport failures.
func MapZeebeError(err error, operation string) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	op := "zeebe_" + operation

	switch {
	case strings.Contains(msg, "permission denied") || strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "unauthorized"):
		return errors.NewCredentialError(fmt.Sprintf("zeebe %s rejected: %s", operation, err.Error()))
	case strings.Contains(msg, "resource exhausted"):
		return errors.NewRateLimitError(op, err)
	}
	for _, phrase := range transientPhrases {
		if strings.Contains(msg, phrase) {
			return errors.NewTransportError(op, err)
		}
	}
	terminal := errors.NewTransportError(op, err)
	terminal.Retryable = false
	return terminal
}
