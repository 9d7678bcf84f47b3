package reply

import (
	"fmt"
	"os"

	"seller-assistant/internal/common/validation"

	"gopkg.in/yaml.v3"
)

var defaultExamples = []ReferenceExample{
	{
		CustomerMessage: "Are you able to print this on a 24x36?",
		Response:        "Hi! Unfortunately, the largest size we are able to offer is 13x19 inches, as that is the maximum our printer can handle. Please let me know if you would like to go ahead with that size instead!",
		Intent:          IntentCustomizationRequest,
		KeyTerms:        []string{"print", "24x36"},
	},
	{
		CustomerMessage: "Do you ship to the UK?",
		Response:        "Hi there! Yes, we ship to the UK. Orders usually arrive within 7-14 business days after dispatch, and you will receive a tracking number as soon as your order ships.",
		Intent:          IntentShippingInquiry,
		KeyTerms:        []string{"ship", "uk"},
	},
	{
		CustomerMessage: "Has my order shipped yet?",
		Response:        "Hi! Your order is being prepared and will ship within the next 1-3 business days. You will get an email with tracking details as soon as it is on its way.",
		Intent:          IntentShippingUpdate,
		KeyTerms:        []string{"shipped", "yet"},
	},
	{
		CustomerMessage: "What is the status of my order?",
		Response:        "Hi! Thanks for checking in. Your order is in production right now, and I will send you an update with tracking information as soon as it ships.",
		Intent:          IntentOrderStatus,
		KeyTerms:        []string{"status", "order"},
	},
	{
		CustomerMessage: "Can I return my print if I don't like it?",
		Response:        "Hi! Since every print is made to order, we are not able to accept returns for a change of mind. If your print arrives damaged or with a defect, please send me a photo and I will make it right.",
		Intent:          IntentReturns,
		KeyTerms:        []string{"return"},
	},
	{
		CustomerMessage: "Can you add a name to the design?",
		Response:        "Hi! Yes, we can personalize the design for you. Please send me the exact text you would like added and I will share a preview before printing.",
		Intent:          IntentCustomizationRequest,
		KeyTerms:        []string{"add a name"},
	},
	{
		CustomerMessage: "How long does shipping take to the US?",
		Response:        "Hi! Orders within the US usually arrive in 3-5 business days after dispatch. You will receive a tracking number by email once your order ships.",
		Intent:          IntentShippingInquiry,
		KeyTerms:        []string{"how long", "shipping"},
	},
	{
		CustomerMessage: "Did you receive my order?",
		Response:        "Hi! Yes, we have received your order and it is now in our production queue. I will let you know as soon as it ships.",
		Intent:          IntentOrderStatus,
		KeyTerms:        []string{"receive", "order"},
	},
}

// DefaultExamples returns a fresh copy of the built-in reference table.
func DefaultExamples() []ReferenceExample {
	out := make([]ReferenceExample, len(defaultExamples))
	for i, e := range defaultExamples {
		e.KeyTerms = append([]string(nil), e.KeyTerms...)
		out[i] = e
	}
	return out
}

// LoadExamples reads a YAML reference table. The file must be a non-empty list
// of examples with known intents.
func LoadExamples(path string) ([]ReferenceExample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read examples %s: %w", path, err)
	}
	return ParseExamples(data)
}

// ParseExamples validates and decodes a YAML reference table.
func ParseExamples(data []byte) ([]ReferenceExample, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse examples: %w", err)
	}

	res, err := validation.Validate(validation.ReferenceExamples, doc)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, fmt.Errorf("invalid examples: %s", res.Error())
	}

	var examples []ReferenceExample
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("decode examples: %w", err)
	}
	return examples, nil
}
