package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/studiowebux/restchat/internal/conversation"
	"github.com/studiowebux/restchat/internal/registry"
	"github.com/studiowebux/restchat/internal/types"
)

// Tab is one of the two top level views
type Tab string

const (
	TabChat Tab = "chat"
	TabAPI  Tab = "api"
)

// Backend performs requests. *executor.Executor satisfies it.
type Backend interface {
	Execute(ctx context.Context, endpoint types.Endpoint, body string) types.Result
	Chat(ctx context.Context, message string, history []types.HistoryEntry) (string, types.Result)
}

// PathResult is the latest result stored for one endpoint
type PathResult struct {
	Path   string
	Result types.Result
}

// Session owns the view shell state: active tab, chat transcript and the
// latest result per endpoint. All methods are safe for concurrent use.
type Session struct {
	backend  Backend
	registry *registry.Registry
	chat     *conversation.Store
	window   int
	logger   zerolog.Logger

	mu        sync.Mutex
	tab       Tab
	results   map[string]types.Result
	order     []string
	chatError string
	inflight  map[uint64]context.CancelFunc
	nextCall  uint64
}

// Option configures a Session
type Option func(*Session)

// WithHistoryWindow sets how many trailing turns are sent with each message
func WithHistoryWindow(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithLogger sets the session logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a session on the chat tab
func New(backend Backend, reg *registry.Registry, opts ...Option) *Session {
	s := &Session{
		backend:  backend,
		registry: reg,
		chat:     conversation.New(),
		window:   conversation.DefaultWindow,
		logger:   zerolog.Nop(),
		tab:      TabChat,
		results:  make(map[string]types.Result),
		inflight: make(map[uint64]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the endpoint registry
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// Tab returns the selected tab
func (s *Session) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// SetTab selects a tab
func (s *Session) SetTab(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
}

// ToggleTab switches to the other tab and returns it
func (s *Session) ToggleTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tab == TabChat {
		s.tab = TabAPI
	} else {
		s.tab = TabChat
	}
	return s.tab
}

// Turns returns a copy of the chat transcript
func (s *Session) Turns() []types.Turn {
	return s.chat.Turns()
}

// ChatError returns the message of the last failed chat request
func (s *Session) ChatError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatError
}

// ChatCall is a chat request whose user turn is already in the transcript
type ChatCall struct {
	session *Session
	pending conversation.Pending
}

// Message returns the trimmed message being sent
func (c *ChatCall) Message() string {
	return c.pending.Message
}

// History returns the history window sent with the message
func (c *ChatCall) History() []types.HistoryEntry {
	return c.pending.History
}

// ChatOutcome is what a ChatCall produced
type ChatOutcome struct {
	Reply  string
	Result types.Result
	// Stale is set when the transcript was cleared while the call was in
	// flight. Nothing was recorded.
	Stale bool
}

// PrepareChat appends the user turn and snapshots the history window ending
// with it. Blank text returns false and changes nothing.
func (s *Session) PrepareChat(text string) (*ChatCall, bool) {
	pending, ok := s.chat.Begin(text, s.window)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	s.chatError = ""
	s.mu.Unlock()

	return &ChatCall{session: s, pending: pending}, true
}

// Do sends the message. The reply is appended only if the transcript has not
// been cleared since PrepareChat. ClearChat cancels ctx for in-flight calls.
func (c *ChatCall) Do(ctx context.Context) ChatOutcome {
	s := c.session
	ctx, id := s.track(ctx)
	defer s.untrack(id)

	reply, result := s.backend.Chat(ctx, c.pending.Message, c.pending.History)

	if !s.chat.Current(c.pending.Token) {
		s.logger.Debug().Msg("dropping chat reply for cleared conversation")
		return ChatOutcome{Result: result, Stale: true}
	}

	if result.IsError() {
		if !s.setChatError(c.pending.Token, result.Error) {
			return ChatOutcome{Result: result, Stale: true}
		}
		s.logger.Warn().Str("kind", string(result.Kind)).Msg(result.Error)
		return ChatOutcome{Result: result}
	}

	if !s.chat.AppendAssistantIf(c.pending.Token, reply) {
		return ChatOutcome{Result: result, Stale: true}
	}
	return ChatOutcome{Reply: reply, Result: result}
}

// setChatError raises the banner unless the transcript was cleared after
// token was issued. ClearChat resets the banner under the same lock.
func (s *Session) setChatError(token conversation.Token, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.chat.Current(token) {
		return false
	}
	s.chatError = msg
	return true
}

// SendChat prepares and sends in one step
func (s *Session) SendChat(ctx context.Context, text string) (ChatOutcome, bool) {
	call, ok := s.PrepareChat(text)
	if !ok {
		return ChatOutcome{}, false
	}
	return call.Do(ctx), true
}

// ClearChat empties the transcript, clears the error banner and cancels
// every in-flight chat request
func (s *Session) ClearChat() {
	s.chat.Clear()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatError = ""
	for id, cancel := range s.inflight {
		cancel()
		delete(s.inflight, id)
	}
}

// InFlight returns the number of chat requests still running
func (s *Session) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

func (s *Session) track(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCall++
	id := s.nextCall
	s.inflight[id] = cancel
	return ctx, id
}

func (s *Session) untrack(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.inflight[id]; ok {
		cancel()
		delete(s.inflight, id)
	}
}

// TestEndpoint runs one request against the endpoint registered at path and
// stores the result. An unregistered path is a caller error.
func (s *Session) TestEndpoint(ctx context.Context, path, body string) (types.Result, error) {
	endpoint, ok := s.registry.Lookup(path)
	if !ok {
		return types.Result{}, fmt.Errorf("unknown endpoint: %s", path)
	}

	result := s.backend.Execute(ctx, endpoint, body)
	s.storeResult(path, result)
	return result, nil
}

func (s *Session) storeResult(path string, result types.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[path]; !exists {
		s.order = append(s.order, path)
	}
	s.results[path] = result
}

// Result returns the latest result for path
func (s *Session) Result(path string) (types.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[path]
	return result, ok
}

// Results returns the latest result per endpoint in first-tested order
func (s *Session) Results() []PathResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PathResult, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, PathResult{Path: path, Result: s.results[path]})
	}
	return out
}
