package reply

import (
	"context"
	"strings"
)

// Query is what each matcher sees.
type Query struct {
	Message string
	APIKey  string
}

// Result is a matcher outcome. Intent is set by the intent matcher even when
// no example carries the classified label.
type Result struct {
	Example *ReferenceExample
	Source  MatchSource
	Intent  IntentLabel
}

// Matcher is one stage of the cascade. ok is false when the stage found nothing;
// err is set only when the stage itself could not run.
type Matcher interface {
	Name() MatchSource
	Match(ctx context.Context, q Query) (res Result, ok bool, err error)
}

// DefaultSimilarityThreshold is the minimum Jaccard score for a near match.
const DefaultSimilarityThreshold = 0.8

// ExactMatcher finds a case-insensitive exact match first, then the first
// example whose similarity reaches Threshold.
type ExactMatcher struct {
	Examples  []ReferenceExample
	Threshold float64
}

func (m *ExactMatcher) Name() MatchSource { return SourceExact }

func (m *ExactMatcher) Match(_ context.Context, q Query) (Result, bool, error) {
	msg := strings.ToLower(strings.TrimSpace(q.Message))
	for i := range m.Examples {
		if strings.ToLower(strings.TrimSpace(m.Examples[i].CustomerMessage)) == msg {
			return Result{Example: &m.Examples[i], Source: SourceExact, Intent: m.Examples[i].Intent}, true, nil
		}
	}

	threshold := m.Threshold
	if threshold == 0 {
		threshold = DefaultSimilarityThreshold
	}
	for i := range m.Examples {
		if Similarity(q.Message, m.Examples[i].CustomerMessage) >= threshold {
			return Result{Example: &m.Examples[i], Source: SourceSimilar, Intent: m.Examples[i].Intent}, true, nil
		}
	}
	return Result{}, false, nil
}

// KeywordMatcher returns the first example whose key terms all occur in the message.
// Examples without key terms never match.
type KeywordMatcher struct {
	Examples []ReferenceExample
}

func (m *KeywordMatcher) Name() MatchSource { return SourceKeyword }

func (m *KeywordMatcher) Match(_ context.Context, q Query) (Result, bool, error) {
	msg := strings.ToLower(q.Message)
	for i := range m.Examples {
		terms := m.Examples[i].KeyTerms
		if len(terms) == 0 {
			continue
		}
		all := true
		for _, t := range terms {
			if !strings.Contains(msg, strings.ToLower(t)) {
				all = false
				break
			}
		}
		if all {
			return Result{Example: &m.Examples[i], Source: SourceKeyword, Intent: m.Examples[i].Intent}, true, nil
		}
	}
	return Result{}, false, nil
}

// Classifier labels a message with an intent.
type Classifier interface {
	Classify(ctx context.Context, message, apiKey string) (IntentLabel, error)
}

// IntentMatcher classifies the message remotely and returns the first example with that intent.
type IntentMatcher struct {
	Examples   []ReferenceExample
	Classifier Classifier
}

func (m *IntentMatcher) Name() MatchSource { return SourceIntent }

func (m *IntentMatcher) Match(ctx context.Context, q Query) (Result, bool, error) {
	label, err := m.Classifier.Classify(ctx, q.Message, q.APIKey)
	if err != nil {
		return Result{Intent: IntentOther}, false, err
	}
	for i := range m.Examples {
		if m.Examples[i].Intent == label {
			return Result{Example: &m.Examples[i], Source: SourceIntent, Intent: label}, true, nil
		}
	}
	return Result{Intent: label}, false, nil
}
