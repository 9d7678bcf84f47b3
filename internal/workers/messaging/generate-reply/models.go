// internal/workers/messaging/generate-reply/models.go
package generatereply

type Input struct {
	Message   string `json:"message"`
	APIKey    string `json:"apiKey,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	RequestID     string      `json:"requestId,omitempty"`
	Replies       []string    `json:"replies"`
	Candidates    []Candidate `json:"candidates"`
	PrimarySource string      `json:"primarySource"`
}

type Candidate struct {
	Text         string `json:"text"`
	IsExactMatch bool   `json:"isExactMatch"`
	Source       string `json:"source"`
}
