// Package reply turns a customer message into three candidate replies: a matched
// reference response plus two variations, or three generated fallbacks.
package reply

import "strings"

// IntentLabel is the closed set of topics the classifier may return.
type IntentLabel string

const (
	IntentShippingUpdate       IntentLabel = "shipping_update"
	IntentShippingInquiry      IntentLabel = "shipping_inquiry"
	IntentCustomizationRequest IntentLabel = "customization_request"
	IntentOrderStatus          IntentLabel = "order_status"
	IntentReturns              IntentLabel = "returns"
	IntentOther                IntentLabel = "other"
)

// Intents lists every label in the order advertised to the classifier.
var Intents = []IntentLabel{
	IntentShippingUpdate,
	IntentShippingInquiry,
	IntentCustomizationRequest,
	IntentOrderStatus,
	IntentReturns,
	IntentOther,
}

// ParseIntentLabel matches s verbatim after trimming. Anything unknown is IntentOther.
func ParseIntentLabel(s string) IntentLabel {
	s = strings.TrimSpace(s)
	for _, l := range Intents {
		if string(l) == s {
			return l
		}
	}
	return IntentOther
}

// Valid reports whether l is one of Intents.
func (l IntentLabel) Valid() bool {
	for _, known := range Intents {
		if l == known {
			return true
		}
	}
	return false
}

// ReferenceExample is one known message with its approved response.
type ReferenceExample struct {
	CustomerMessage string      `json:"customerMessage" yaml:"customerMessage"`
	Response        string      `json:"response" yaml:"response"`
	Intent          IntentLabel `json:"intent" yaml:"intent"`
	KeyTerms        []string    `json:"keyTerms" yaml:"keyTerms"`
}

// MatchSource says which stage produced a candidate.
type MatchSource string

const (
	SourceExact     MatchSource = "exact"
	SourceSimilar   MatchSource = "similar"
	SourceKeyword   MatchSource = "keyword"
	SourceIntent    MatchSource = "intent"
	SourceGenerated MatchSource = "generated"
	SourceTemplate  MatchSource = "template"
)

// CandidateResponse is one proposed reply.
type CandidateResponse struct {
	Text         string      `json:"text"`
	IsExactMatch bool        `json:"isExactMatch"`
	Source       MatchSource `json:"source"`
}

// ResultSetSize is the number of candidates every pipeline run returns.
const ResultSetSize = 3

// ResultSet always holds exactly ResultSetSize candidates.
type ResultSet []CandidateResponse

// Texts returns just the candidate texts in order.
func (rs ResultSet) Texts() []string {
	out := make([]string, len(rs))
	for i, c := range rs {
		out[i] = c.Text
	}
	return out
}
