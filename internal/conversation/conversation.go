// Package conversation holds the in-memory chat transcript and derives the
// bounded history window sent with each chat request.
package conversation

import (
	"strings"
	"sync"

	"github.com/studiowebux/restchat/internal/types"
)

// DefaultWindow is the number of trailing turns sent as history
const DefaultWindow = 10

// Token identifies the store epoch a request was started in.
// Clear advances the epoch so replies to older requests are dropped.
type Token uint64

// Pending describes a chat request that has been started but not answered
type Pending struct {
	Message string
	History []types.HistoryEntry
	Token   Token
}

// Store is an append-only list of turns, safe for concurrent use
type Store struct {
	mu    sync.Mutex
	turns []types.Turn
	epoch Token
}

// New returns an empty store
func New() *Store {
	return &Store{}
}

// AppendUser appends a trimmed user turn. Blank input is ignored.
func (s *Store) AppendUser(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, types.Turn{Role: types.RoleUser, Content: text})
	return true
}

// AppendAssistant appends an assistant turn
func (s *Store) AppendAssistant(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, types.Turn{Role: types.RoleAssistant, Content: text})
}

// AppendAssistantIf appends an assistant turn only if token is still current
func (s *Store) AppendAssistantIf(token Token, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.epoch {
		return false
	}
	s.turns = append(s.turns, types.Turn{Role: types.RoleAssistant, Content: text})
	return true
}

// Begin appends a user turn and captures the history window ending with it,
// together with the current token. It reports false for blank input.
func (s *Store) Begin(text string, window int) (Pending, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pending{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, types.Turn{Role: types.RoleUser, Content: text})
	history := PairTurns(lastTurns(s.turns, window))
	return Pending{Message: text, History: history, Token: s.epoch}, true
}

// Token returns the current epoch
func (s *Store) Token() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Current reports whether token still matches the store epoch
func (s *Store) Current(token Token) bool {
	return s.Token() == token
}

// Clear discards every turn and invalidates outstanding tokens
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.epoch++
}

// Turns returns a copy of the transcript
func (s *Store) Turns() []types.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// BuildHistoryWindow pairs the last maxTurns turns into history entries.
// A non-positive maxTurns uses DefaultWindow.
func (s *Store) BuildHistoryWindow(maxTurns int) []types.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PairTurns(lastTurns(s.turns, maxTurns))
}

func lastTurns(turns []types.Turn, n int) []types.Turn {
	if n <= 0 {
		n = DefaultWindow
	}
	if len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}

// PairTurns groups turns by role. A user turn opens an entry and the next
// assistant turn closes it. A user turn that is not answered before the next
// user turn keeps an empty assistant side; an assistant turn with no open
// entry gets an empty user side.
func PairTurns(turns []types.Turn) []types.HistoryEntry {
	entries := make([]types.HistoryEntry, 0, (len(turns)+1)/2)
	open := false

	for _, turn := range turns {
		switch turn.Role {
		case types.RoleUser:
			entries = append(entries, types.HistoryEntry{User: turn.Content})
			open = true
		case types.RoleAssistant:
			if open {
				entries[len(entries)-1].Assistant = turn.Content
				open = false
				continue
			}
			entries = append(entries, types.HistoryEntry{Assistant: turn.Content})
		}
	}

	return entries
}
