// Package llm talks to an OpenAI-compatible chat-completions endpoint.
package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"seller-assistant/internal/common/errors"
	httpclient "seller-assistant/internal/common/http"
	"seller-assistant/internal/common/metrics"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Request is one chat completion with a system instruction and a user message.
type Request struct {
	Operation string
	System    string
	User      string
	MaxTokens int
}

// Completer performs a single completion attempt. Retries belong to the caller.
type Completer interface {
	Complete(ctx context.Context, apiKey string, req Request) (string, error)
}

type Config struct {
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client is a Completer backed by openai-go with SDK retries disabled.
type Client struct {
	openai    openai.Client
	model     string
	maxTokens int
}

func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithHTTPClient(httpclient.NewClient(cfg.Timeout)),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	return &Client{
		openai:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends req and returns the first choice's content, trimmed.
func (c *Client) Complete(ctx context.Context, apiKey string, req Request) (string, error) {
	op := req.Operation
	if op == "" {
		op = "completion"
	}
	if strings.TrimSpace(apiKey) == "" {
		metrics.RemoteCalls.WithLabelValues(op, "credential").Inc()
		return "", errors.NewCredentialError("api key is empty")
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		MaxTokens: openai.Int(int64(maxTokens)),
	}

	resp, err := c.openai.Chat.Completions.New(ctx, params, option.WithAPIKey(apiKey))
	if err != nil {
		classified := classify(op, err)
		metrics.RemoteCalls.WithLabelValues(op, strings.ToLower(string(errors.CodeOf(classified)))).Inc()
		return "", classified
	}

	if len(resp.Choices) == 0 {
		metrics.RemoteCalls.WithLabelValues(op, "malformed").Inc()
		return "", errors.NewMalformedResponseError("no choices in response", nil)
	}

	metrics.RemoteCalls.WithLabelValues(op, "success").Inc()
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classify maps SDK and transport failures onto the error taxonomy.
func classify(op string, err error) error {
	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return errors.NewRateLimitError(op, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewCredentialError(fmt.Sprintf("provider rejected the key with status %d", apiErr.StatusCode))
		default:
			return errors.NewTransportError(op, err)
		}
	}
	if stderrors.Is(err, context.Canceled) {
		stdErr := errors.NewTransportError(op, err)
		stdErr.Retryable = false
		return stdErr
	}
	return errors.NewTransportError(op, err)
}
