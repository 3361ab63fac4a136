package mock

import "time"

// Config represents the mock backend configuration
type Config struct {
	// Delay is applied before every chat reply
	Delay time.Duration `json:"delay" yaml:"delay"`
	// Unconfigured makes /chat fail the way a backend without an AI key does
	Unconfigured bool `json:"unconfigured" yaml:"unconfigured"`
	// ContextTurns is how many history entries a reply takes into account
	ContextTurns int `json:"contextTurns" yaml:"contextTurns"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Body      string        `json:"body"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}

// validationError mirrors one entry of a 422 detail list
type validationError struct {
	Type string   `json:"type"`
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
}
