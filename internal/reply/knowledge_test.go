package reply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExamples_ReturnsIndependentCopies(t *testing.T) {
	a := DefaultExamples()
	a[0].Response = "changed"
	a[0].KeyTerms[0] = "changed"

	b := DefaultExamples()
	assert.NotEqual(t, "changed", b[0].Response)
	assert.Equal(t, "print", b[0].KeyTerms[0])
}

func TestDefaultExamples_WellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range DefaultExamples() {
		assert.NotEmpty(t, e.CustomerMessage)
		assert.NotEmpty(t, e.Response)
		assert.True(t, e.Intent.Valid())
		assert.False(t, seen[e.CustomerMessage], "duplicate message %q", e.CustomerMessage)
		seen[e.CustomerMessage] = true
	}
}

func TestLoadExamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examples.yaml")
	body := `
- customerMessage: Do you offer gift wrapping?
  response: Hi! Yes, every order can be gift wrapped for free. Just leave a note at checkout.
  intent: customization_request
  keyTerms: [gift, wrap]
- customerMessage: Where is my parcel?
  response: Hi! Your parcel is on its way and should arrive within a few days.
  intent: shipping_update
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	examples, err := LoadExamples(path)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, IntentCustomizationRequest, examples[0].Intent)
	assert.Equal(t, []string{"gift", "wrap"}, examples[0].KeyTerms)
	assert.Empty(t, examples[1].KeyTerms)
}

func TestParseExamples_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown intent", body: "- {customerMessage: a, response: b, intent: billing}"},
		{name: "missing response", body: "- {customerMessage: a, intent: other}"},
		{name: "empty list", body: "[]"},
		{name: "not yaml", body: "- [unbalanced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExamples([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadExamples_MissingFile(t *testing.T) {
	_, err := LoadExamples(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
