// Package app builds the shared components from configuration.
package app

import (
	"fmt"
	"time"

	"seller-assistant/internal/common/config"
	"seller-assistant/internal/common/llm"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/observability"
	"seller-assistant/internal/common/retry"
	"seller-assistant/internal/reply"
	"seller-assistant/internal/sale"
)

// RetryPolicy converts the retry section into a retry.Policy.
func RetryPolicy(cfg *config.Config) retry.Policy {
	p := retry.DefaultPolicy()
	p.MaxAttempts = cfg.Retry.MaxAttempts
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.MaxAttempts > config.MaxRetryAttempts {
		p.MaxAttempts = config.MaxRetryAttempts
	}
	p.InitialDelay = config.GetDuration(cfg.Retry.InitialDelay)
	p.MaxDelay = p.InitialDelay * time.Duration(1<<(p.MaxAttempts-1))
	return p
}

// Examples returns the reference table, read from reply.examples_path when set.
func Examples(cfg *config.Config) ([]reply.ReferenceExample, error) {
	if cfg.Reply.ExamplesPath == "" {
		return reply.DefaultExamples(), nil
	}
	examples, err := reply.LoadExamples(cfg.Reply.ExamplesPath)
	if err != nil {
		return nil, fmt.Errorf("load reference examples: %w", err)
	}
	return examples, nil
}

// NewCompleter returns the chat-completions client configured by the llm section.
func NewCompleter(cfg *config.Config) *llm.Client {
	return llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   config.GetDuration(cfg.LLM.Timeout),
	})
}

// NewPipeline wires the reply pipeline.
func NewPipeline(cfg *config.Config, completer llm.Completer, log logger.Logger, obs *observability.Observability) (*reply.Pipeline, error) {
	examples, err := Examples(cfg)
	if err != nil {
		return nil, err
	}
	return reply.NewPipeline(examples, completer, reply.Options{
		SimilarityThreshold: cfg.Reply.SimilarityThreshold,
		MinKeyTermLength:    cfg.Reply.MinKeyTermLength,
		MinCandidateLength:  cfg.Reply.MinCandidateLength,
		RetryPolicy:         RetryPolicy(cfg),
	}, log.With(map[string]interface{}{"component": "reply"}), obs), nil
}

// NewScheduler wires the sale planner and scheduler in the configured timezone.
func NewScheduler(cfg *config.Config, log logger.Logger, onPlan func(sale.Plan)) *sale.Scheduler {
	planner := sale.NewPlanner(cfg.Sale.Percentage, cfg.Sale.CreateURL, nil)
	return sale.NewScheduler(planner, sale.SystemClock(cfg.Sale.Location()), nil,
		log.With(map[string]interface{}{"component": "sale"}), onPlan)
}
