package types

import (
	"strings"
	"time"
)

// Method is an HTTP method supported by the endpoint tester
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// ParseMethod normalizes a method string, reporting whether it is supported
func ParseMethod(s string) (Method, bool) {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodGet:
		return MethodGet, true
	case MethodPost:
		return MethodPost, true
	}
	return "", false
}

// Endpoint describes one callable backend route
type Endpoint struct {
	Path        string `json:"path" yaml:"path"`
	Method      Method `json:"method" yaml:"method"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	SampleBody  string `json:"sampleBody,omitempty" yaml:"sampleBody,omitempty"`
}

// Label returns the "METHOD path" form shown in endpoint pickers
func (e Endpoint) Label() string {
	return string(e.Method) + " " + e.Path
}

// HasSample reports whether the endpoint ships a sample request body
func (e Endpoint) HasSample() bool {
	return e.SampleBody != ""
}

// Role identifies the speaker of a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// HistoryEntry is one user/assistant pair sent as conversation context
type HistoryEntry struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message             string         `json:"message"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
}

// ChatResponse is the success body of POST /chat
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorKind classifies why a request did not produce a success result
type ErrorKind string

const (
	ErrorNone                 ErrorKind = ""
	ErrorInvalidRequestBody   ErrorKind = "InvalidRequestBody"
	ErrorNetworkFailure       ErrorKind = "NetworkFailure"
	ErrorBackend              ErrorKind = "BackendError"
	ErrorResponseParseFailure ErrorKind = "ResponseParseFailure"
)

// Result is the normalized outcome of one request.
// A success carries Status and Data; a failure carries Error and Kind.
type Result struct {
	Status    int       `json:"status,omitempty" yaml:"status,omitempty"`
	Data      any       `json:"data,omitempty" yaml:"data,omitempty"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	Kind      ErrorKind `json:"-" yaml:"-"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Success builds a success result
func Success(status int, data any, at time.Time) Result {
	return Result{Status: status, Data: data, Timestamp: at}
}

// Failure builds an error result
func Failure(kind ErrorKind, message string, at time.Time) Result {
	return Result{Error: message, Kind: kind, Timestamp: at}
}

// IsError reports whether the result is the error variant
func (r Result) IsError() bool {
	return r.Error != ""
}
