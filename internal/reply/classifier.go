package reply

import (
	"context"
	"fmt"
	"strings"

	"seller-assistant/internal/common/llm"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/retry"
)

// Remote routes every completion through the shared retry policy.
type Remote struct {
	Completer llm.Completer
	Policy    retry.Policy
	Log       logger.Logger
}

func (r *Remote) call(ctx context.Context, apiKey string, req llm.Request) (string, error) {
	return retry.Do(ctx, r.Policy, r.Log, req.Operation, func(ctx context.Context) (string, error) {
		return r.Completer.Complete(ctx, apiKey, req)
	})
}

// RemoteClassifier asks the language model for one label from the closed intent set.
type RemoteClassifier struct {
	Remote *Remote
}

func classificationPrompt() string {
	labels := make([]string, len(Intents))
	for i, l := range Intents {
		labels[i] = string(l)
	}
	return fmt.Sprintf(
		"You classify customer messages sent to an online print shop. "+
			"Reply with exactly one of these labels and nothing else: %s.",
		strings.Join(labels, ", "),
	)
}

func (c *RemoteClassifier) Classify(ctx context.Context, message, apiKey string) (IntentLabel, error) {
	out, err := c.Remote.call(ctx, apiKey, llm.Request{
		Operation: "classify",
		System:    classificationPrompt(),
		User:      message,
		MaxTokens: 10,
	})
	if err != nil {
		return IntentOther, err
	}
	return ParseIntentLabel(out), nil
}
