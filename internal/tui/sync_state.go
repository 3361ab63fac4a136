package tui

import (
	"context"
	"sync"
)

// RequestState tracks the single endpoint test allowed in flight
type RequestState struct {
	mu     sync.Mutex
	active bool
	path   string
	cancel context.CancelFunc
}

// Start marks a test of path as running. It returns false when another test
// is still active.
func (r *RequestState) Start(path string, cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return false
	}
	r.active = true
	r.path = path
	r.cancel = cancel
	return true
}

// IsActive returns whether a test is running
func (r *RequestState) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Path returns the endpoint being tested, or "" when idle
func (r *RequestState) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Finish marks the test as done and releases its context
func (r *RequestState) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.active = false
	r.path = ""
	r.cancel = nil
}

// Cancel aborts the running test. The result still arrives and must be
// passed to Finish.
func (r *RequestState) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active && r.cancel != nil {
		r.cancel()
	}
}
