package api

import (
	"seller-assistant/internal/reply"
	"seller-assistant/internal/sale"
)

type ReplyRequest struct {
	Message string `json:"message" binding:"required"`
	APIKey  string `json:"apiKey,omitempty"`
}

type ReplyResponse struct {
	RequestID  string                    `json:"requestId"`
	Replies    []string                  `json:"replies"`
	Candidates []reply.CandidateResponse `json:"candidates"`
}

type CredentialRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

type SaleResponse struct {
	Plan    *sale.Plan `json:"plan,omitempty"`
	NextRun string     `json:"nextRun,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ErrorResponse struct {
	RequestID string    `json:"requestId,omitempty"`
	Error     ErrorBody `json:"error"`
}
