package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Do you ship to the UK?", b: "Do you ship to the UK?", want: 1},
		{name: "case insensitive", a: "DO YOU SHIP", b: "do you ship", want: 1},
		{name: "disjoint", a: "hello there", b: "goodbye now", want: 0},
		{name: "half overlap", a: "a b", b: "b c", want: 1.0 / 3.0},
		{name: "both empty", a: "", b: "   ", want: 0},
		{name: "one empty", a: "", b: "hello", want: 0},
		{name: "repeated tokens count once", a: "ship ship ship", b: "ship", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, Similarity(tt.a, tt.b), Similarity(tt.b, tt.a), 1e-9, "must be symmetric")
		})
	}
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	for _, e := range DefaultExamples() {
		assert.Equal(t, 1.0, Similarity(e.CustomerMessage, e.CustomerMessage), e.CustomerMessage)
	}
}

func TestExtractKeyTerms(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{
			name:    "size with trailing punctuation",
			message: "Are you able to print this on a 24x36?",
			want:    []string{"able", "print", "this", "24x36"},
		},
		{
			name:    "short tokens dropped",
			message: "Do you ship to the UK?",
			want:    []string{"ship"},
		},
		{
			name:    "mixed symbols without digits dropped",
			message: "e-mail me at shop@example",
			want:    nil,
		},
		{
			name:    "duplicates removed and lower-cased",
			message: "London LONDON london!",
			want:    []string{"london"},
		},
		{
			name:    "digit tokens kept",
			message: "Order #12345 please",
			want:    []string{"order", "12345", "please"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeyTerms(tt.message, DefaultMinKeyTermLength))
		})
	}
}

func TestExtractKeyTerms_TunableLength(t *testing.T) {
	assert.Equal(t, []string{"you", "ship", "the"}, ExtractKeyTerms("Do you ship to the UK?", 2))
	assert.Empty(t, ExtractKeyTerms("Do you ship to the UK?", 4))
}

func TestSplitSentences(t *testing.T) {
	raw := "Here are some options:\n1. Thanks for your message! We will reply soon.\n- \"Another option is here.\""
	got := splitSentences(raw)
	assert.Equal(t, []string{
		"Here are some options:",
		"Thanks for your message!",
		"We will reply soon.",
		"Another option is here.",
	}, got)
}
