package reply

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/llm"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/metrics"
	"seller-assistant/internal/common/validation"
)

// DefaultMinCandidateLength is the shortest generated text accepted.
const DefaultMinCandidateLength = 20

// VariationCount and FallbackCount are the numbers of candidates each generator returns.
const (
	VariationCount = 2
	FallbackCount  = 3
)

const generationSystemPrompt = "You write short, friendly customer-service replies for an online print shop. " +
	"Respond only with a JSON array of strings. Do not add any other text or code fences."

// generation holds what both generators share.
type generation struct {
	remote    *Remote
	log       logger.Logger
	minLength int
}

func (g *generation) minLen() int {
	if g.minLength > 0 {
		return g.minLength
	}
	return DefaultMinCandidateLength
}

// degrade records a recovered failure. It never changes what the caller receives.
func (g *generation) degrade(stage, reason string, err error) {
	fields := map[string]interface{}{"stage": stage, "reason": reason}
	if err != nil {
		fields["error"] = err.Error()
	}
	g.log.Warn("Reply generation degraded", fields)
	metrics.ReplyDegradations.WithLabelValues(stage, reason).Inc()
}

// fetch calls the remote endpoint and returns filtered candidates. A rejected key
// is returned; any other failure is logged and yields nil.
func (g *generation) fetch(ctx context.Context, stage, apiKey, prompt string, filter candidateFilter) ([]string, error) {
	raw, err := g.remote.call(ctx, apiKey, llm.Request{
		Operation: stage,
		System:    generationSystemPrompt,
		User:      prompt,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrCredentialInvalid) {
			return nil, err
		}
		g.degrade(stage, strings.ToLower(string(errors.CodeOf(err))), err)
		return nil, nil
	}

	parsed, err := parseCandidates(raw)
	if err != nil {
		g.degrade(stage, "malformed_response", err)
		parsed = splitSentences(raw)
	}

	kept := filter.apply(parsed)
	if len(kept) < filter.limit {
		g.degrade(stage, "insufficient_candidates",
			errors.NewInsufficientCandidatesError(stage, len(kept), filter.limit))
	}
	return kept, nil
}

// parseCandidates accepts a JSON array of strings, optionally wrapped in a code fence.
func parseCandidates(raw string) ([]string, error) {
	body := stripCodeFence(raw)

	res, err := validation.ValidateJSON(validation.CandidateArray, body)
	if err != nil {
		return nil, errors.NewMalformedResponseError("not JSON", err)
	}
	if !res.Valid {
		return nil, errors.NewMalformedResponseError(res.Error(), nil)
	}

	var out []string
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, errors.NewMalformedResponseError("decode array", err)
	}
	return out, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// candidateFilter drops texts that are too short, equal the original, leak a key
// term, or repeat an earlier candidate.
type candidateFilter struct {
	keyTerms  []string
	original  string
	minLength int
	limit     int
}

func (f candidateFilter) apply(in []string) []string {
	seen := make(map[string]struct{})
	original := strings.ToLower(strings.TrimSpace(f.original))
	out := make([]string, 0, f.limit)

	for _, c := range in {
		c = cleanCandidate(c)
		norm := strings.ToLower(c)
		if len(c) < f.minLength {
			continue
		}
		if original != "" && norm == original {
			continue
		}
		if containsAnyTerm(c, f.keyTerms) {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, c)
		if len(out) == f.limit {
			break
		}
	}
	return out
}

// pad fills candidates up to want with intent templates, then guard strings.
// Nothing already present, and nothing equal to avoid, is added twice.
func pad(generated []string, intent IntentLabel, avoid string, want int) []CandidateResponse {
	out := make([]CandidateResponse, 0, want)
	seen := map[string]struct{}{strings.ToLower(avoid): {}}

	add := func(text string, source MatchSource) {
		if len(out) == want {
			return
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, CandidateResponse{Text: text, Source: source})
	}

	for _, g := range generated {
		add(g, SourceGenerated)
	}
	for _, t := range LocalTemplates(intent, avoid) {
		add(t, SourceTemplate)
	}
	for _, t := range guardTemplates {
		add(t, SourceTemplate)
	}
	return out
}

// VariationGenerator rephrases a matched reference response.
type VariationGenerator struct {
	generation
}

func NewVariationGenerator(remote *Remote, log logger.Logger, minLength int) *VariationGenerator {
	return &VariationGenerator{generation{remote: remote, log: log, minLength: minLength}}
}

func variationPrompt(example ReferenceExample) string {
	return fmt.Sprintf(
		"Rewrite the reply below in exactly %d different ways. Keep the same tone and meaning, "+
			"leave out details that only apply to one customer, and make each version different "+
			"from the original and from each other.\n\nTopic: %s\nReply: %s",
		VariationCount, example.Intent, example.Response,
	)
}

// Generate returns VariationCount candidates, or CREDENTIAL_INVALID when the
// endpoint rejects apiKey.
func (g *VariationGenerator) Generate(ctx context.Context, example ReferenceExample, keyTerms []string, apiKey string) ([]CandidateResponse, error) {
	generated, err := g.fetch(ctx, "variation", apiKey, variationPrompt(example), candidateFilter{
		keyTerms:  keyTerms,
		original:  example.Response,
		minLength: g.minLen(),
		limit:     VariationCount,
	})
	if err != nil {
		return nil, err
	}
	return pad(generated, example.Intent, example.Response, VariationCount), nil
}

// FallbackGenerator writes new replies when nothing matched.
type FallbackGenerator struct {
	generation
	examples []ReferenceExample
}

func NewFallbackGenerator(remote *Remote, log logger.Logger, minLength int, examples []ReferenceExample) *FallbackGenerator {
	return &FallbackGenerator{
		generation: generation{remote: remote, log: log, minLength: minLength},
		examples:   examples,
	}
}

func (g *FallbackGenerator) prompt(message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are examples of how this shop answers customers:\n\n")
	for _, e := range g.examples {
		fmt.Fprintf(&b, "Customer: %s\nReply: %s\n\n", e.CustomerMessage, e.Response)
	}
	fmt.Fprintf(&b,
		"Write exactly %d different replies to the customer message below in the same style. "+
			"Answer the general topic and do not repeat specific details from the message such as "+
			"sizes, places, names or order numbers.\n\nCustomer: %s",
		FallbackCount, message,
	)
	return b.String()
}

// Generate returns FallbackCount candidates, none marked as exact matches, or
// CREDENTIAL_INVALID when the endpoint rejects apiKey.
func (g *FallbackGenerator) Generate(ctx context.Context, message string, intent IntentLabel, keyTerms []string, apiKey string) ([]CandidateResponse, error) {
	generated, err := g.fetch(ctx, "fallback", apiKey, g.prompt(message), candidateFilter{
		keyTerms:  keyTerms,
		minLength: g.minLen(),
		limit:     FallbackCount,
	})
	if err != nil {
		return nil, err
	}
	return pad(generated, intent, "", FallbackCount), nil
}
