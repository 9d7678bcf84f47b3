package reply

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/llm"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/metrics"
	"seller-assistant/internal/common/observability"
	"seller-assistant/internal/common/retry"
)

// Options tunes a Pipeline. Zero values take the package defaults.
type Options struct {
	SimilarityThreshold float64
	MinKeyTermLength    int
	MinCandidateLength  int
	RetryPolicy         retry.Policy
}

// Pipeline runs the matching cascade and generation for one message at a time.
type Pipeline struct {
	matchers   []Matcher
	variations *VariationGenerator
	fallbacks  *FallbackGenerator
	minKeyTerm int
	log        logger.Logger
	obs        *observability.Observability
}

// NewPipeline wires the default cascade: exact/near, keyword, then remote intent.
// examples is not modified.
func NewPipeline(examples []ReferenceExample, completer llm.Completer, opts Options, log logger.Logger, obs *observability.Observability) *Pipeline {
	if opts.RetryPolicy.MaxAttempts == 0 {
		opts.RetryPolicy = retry.DefaultPolicy()
	}
	if opts.MinKeyTermLength == 0 {
		opts.MinKeyTermLength = DefaultMinKeyTermLength
	}
	if obs == nil {
		obs = observability.Noop()
	}

	remote := &Remote{Completer: completer, Policy: opts.RetryPolicy, Log: log}
	return NewPipelineWithMatchers(
		[]Matcher{
			&ExactMatcher{Examples: examples, Threshold: opts.SimilarityThreshold},
			&KeywordMatcher{Examples: examples},
			&IntentMatcher{Examples: examples, Classifier: &RemoteClassifier{Remote: remote}},
		},
		NewVariationGenerator(remote, log, opts.MinCandidateLength),
		NewFallbackGenerator(remote, log, opts.MinCandidateLength, examples),
		opts.MinKeyTermLength,
		log,
		obs,
	)
}

// NewPipelineWithMatchers builds a pipeline from an explicit matcher chain.
func NewPipelineWithMatchers(matchers []Matcher, variations *VariationGenerator, fallbacks *FallbackGenerator, minKeyTerm int, log logger.Logger, obs *observability.Observability) *Pipeline {
	if obs == nil {
		obs = observability.Noop()
	}
	return &Pipeline{
		matchers:   matchers,
		variations: variations,
		fallbacks:  fallbacks,
		minKeyTerm: minKeyTerm,
		log:        log,
		obs:        obs,
	}
}

// GenerateResponse returns exactly ResultSetSize candidates for message. A blank or
// rejected apiKey returns CREDENTIAL_INVALID and a blank message INVALID_INPUT; every
// other remote failure degrades to local templates.
func (p *Pipeline) GenerateResponse(ctx context.Context, message, apiKey string) (_ ResultSet, err error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.NewCredentialError("api key is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.NewInvalidInputError("message must not be empty")
	}

	start := time.Now()
	ctx, span := p.obs.StartSpan(ctx, "reply.generate", nil)
	defer func() { observability.EndSpan(span, err) }()

	keyTerms := ExtractKeyTerms(message, p.minKeyTerm)
	q := Query{Message: message, APIKey: apiKey}
	intent := IntentOther

	for _, m := range p.matchers {
		stageStart := time.Now()
		res, ok, matchErr := m.Match(ctx, q)
		p.obs.RecordStage(ctx, string(m.Name()), time.Since(stageStart))

		if matchErr != nil {
			reason := strings.ToLower(string(errors.CodeOf(matchErr)))
			if reason == "" {
				reason = "error"
			}
			if stderrors.Is(matchErr, errors.ErrCredentialInvalid) {
				return nil, p.rejected(string(m.Name()), matchErr)
			}
			metrics.ReplyDegradations.WithLabelValues(string(m.Name()), reason).Inc()
			p.log.Warn("Reply generation degraded", map[string]interface{}{
				"stage":  string(m.Name()),
				"reason": reason,
				"error":  matchErr.Error(),
			})
			span.RecordError(matchErr)
			break
		}
		if res.Intent.Valid() {
			intent = res.Intent
		}
		if !ok {
			continue
		}

		variations, err := p.variations.Generate(ctx, *res.Example, keyTerms, apiKey)
		if err != nil {
			return nil, p.rejected("variation", err)
		}
		rs := make(ResultSet, 0, ResultSetSize)
		rs = append(rs, CandidateResponse{Text: res.Example.Response, IsExactMatch: true, Source: res.Source})
		rs = append(rs, variations...)
		p.finish(ctx, rs, res.Source, start)
		return rs, nil
	}

	fallbacks, err := p.fallbacks.Generate(ctx, message, intent, keyTerms, apiKey)
	if err != nil {
		return nil, p.rejected("fallback", err)
	}
	rs := ResultSet(fallbacks)
	p.finish(ctx, rs, rs[0].Source, start)
	return rs, nil
}

func (p *Pipeline) rejected(stage string, err error) error {
	metrics.ReplyDegradations.WithLabelValues(stage, strings.ToLower(string(errors.ErrCodeCredentialInvalid))).Inc()
	p.log.Warn("API key rejected by provider", map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
	return err
}

func (p *Pipeline) finish(ctx context.Context, rs ResultSet, source MatchSource, start time.Time) {
	elapsed := time.Since(start)
	metrics.ReplyResults.WithLabelValues(string(source)).Inc()
	metrics.ReplyDuration.WithLabelValues(string(source)).Observe(elapsed.Seconds())
	p.obs.RecordStage(ctx, "total", elapsed)
	p.log.Info("Reply candidates ready", map[string]interface{}{
		"source":     string(source),
		"candidates": len(rs),
		"durationMs": elapsed.Milliseconds(),
	})
}
