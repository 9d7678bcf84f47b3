package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schemas are compiled once and reused.
var (
	// CandidateArray is the shape remote generation calls must return.
	CandidateArray = mustCompile(`{
		"type": "array",
		"items": {"type": "string"}
	}`)

	// GenerateReplyInput is the job/request payload for reply generation.
	GenerateReplyInput = mustCompile(`{
		"type": "object",
		"required": ["message"],
		"properties": {
			"message": {"type": "string", "minLength": 1},
			"apiKey":  {"type": "string"},
			"requestId": {"type": "string"}
		}
	}`)

	// ReferenceExamples is the override file format for the reference table.
	ReferenceExamples = mustCompile(`{
		"type": "array",
		"minItems": 1,
		"items": {
			"type": "object",
			"required": ["customerMessage", "response", "intent"],
			"properties": {
				"customerMessage": {"type": "string", "minLength": 1},
				"response": {"type": "string", "minLength": 1},
				"intent": {"enum": ["shipping_update", "shipping_inquiry", "customization_request", "order_status", "returns", "other"]},
				"keyTerms": {"type": "array", "items": {"type": "string", "minLength": 1}}
			}
		}
	}`)
)

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return s
}

// Validate checks a Go value (maps, slices, structs with json tags) against schema.
func Validate(schema *gojsonschema.Schema, document interface{}) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return toResult(result), nil
}

// ValidateJSON checks raw JSON text against schema.
func ValidateJSON(schema *gojsonschema.Schema, raw string) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out
}

// GetErrorMessages flattens errors into "field: message" strings.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return messages
}

// Error joins all messages; useful when a single error string is needed.
func (vr *ValidationResult) Error() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
