package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("gemini API key not set")
	ErrUnknownModel  = errors.New("unknown model")
)

// FallbackText is shown when the reply carries no text part.
const FallbackText = "No response from Gemini API."

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata json.RawMessage `json:"usageMetadata"`
}

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// APIError is a non-2xx reply from the generation endpoint.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini returned status %d: %s", e.StatusCode, e.Message)
}

// Reply is the decoded generation result.
type Reply struct {
	Text  string
	Found bool
	Usage json.RawMessage
}

type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty"
	StatusError Status = "error"
)

// Answer is what the UI shows. Text is always set.
type Answer struct {
	Text     string
	Status   Status
	Usage    json.RawMessage
	Duration time.Duration
}

// OK reports whether Text came from the model.
func (a Answer) OK() bool {
	return a.Status == StatusOK
}
