// Package mock provides a stand-in for the AI chat backend. It serves the
// same routes with canned health data and echo replies, so the client can be
// exercised without an AI provider.
package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/studiowebux/restchat/internal/types"
)

const (
	// DefaultContextTurns matches how much history the real backend reads
	DefaultContextTurns = 5

	// MsgUnconfigured is the chat error of a backend without an AI key
	MsgUnconfigured = "Gemini API not configured. Please set GEMINI_API_KEY environment variable."

	maxLogs = 1000
)

// Server represents the mock backend
type Server struct {
	config Config
	logger zerolog.Logger

	logs      []RequestLog
	logsMutex sync.RWMutex
}

// NewServer creates a new mock backend
func NewServer(config Config, logger zerolog.Logger) *Server {
	if config.ContextTurns <= 0 {
		config.ContextTurns = DefaultContextTurns
	}
	return &Server{
		config: config,
		logger: logger,
		logs:   make([]RequestLog, 0),
	}
}

// Handler returns the backend routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.record)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)
	r.Post("/chat", s.handleChat)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("mock backend listening")
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"message":           "restchat mock backend is running",
		"gemini_configured": !s.config.Unconfigured,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "restchat mock backend (echo replies, no AI provider)",
		"success": true,
		"metadata": map[string]any{
			"processed_by": "restchat-mock",
		},
		"result": map[string]any{
			"model_type": "echo",
			"statistics": map[string]any{
				"count": len(s.Logs()),
			},
		},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message             *string              `json:"message"`
		ConversationHistory []types.HistoryEntry `json:"conversation_history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, validationError{Type: "json_invalid", Loc: []string{"body"}, Msg: "JSON decode error"})
		return
	}
	if req.Message == nil {
		writeValidation(w, validationError{Type: "missing", Loc: []string{"body", "message"}, Msg: "Field required"})
		return
	}

	if s.config.Unconfigured {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": MsgUnconfigured})
		return
	}

	if s.config.Delay > 0 {
		select {
		case <-time.After(s.config.Delay):
		case <-r.Context().Done():
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"response": s.reply(*req.Message, req.ConversationHistory),
		"status":   "success",
	})
}

// reply builds a markdown echo that shows which context the backend saw
func (s *Server) reply(message string, history []types.HistoryEntry) string {
	// Clients include the message being sent as the last, unanswered entry
	if n := len(history); n > 0 && history[n-1].User == message && history[n-1].Assistant == "" {
		history = history[:n-1]
	}
	if len(history) > s.config.ContextTurns {
		history = history[len(history)-s.config.ContextTurns:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**You said:** %s\n", message)
	if len(history) == 0 {
		b.WriteString("\n_No earlier messages in context._")
		return b.String()
	}

	fmt.Fprintf(&b, "\nContext (%d earlier exchanges):\n", len(history))
	for _, entry := range history {
		fmt.Fprintf(&b, "- %s\n", entry.User)
	}
	return strings.TrimRight(b.String(), "\n")
}

// record logs each request and keeps it for Logs
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		bodyBytes, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		entry := RequestLog{
			Timestamp: start,
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(bodyBytes),
			Status:    ww.Status(),
			Duration:  time.Since(start),
		}
		s.logRequest(entry)
		s.logger.Info().
			Str("method", entry.Method).
			Str("path", entry.Path).
			Int("status", entry.Status).
			Dur("duration", entry.Duration).
			Msg("mock request")
	})
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	// Keep only the most recent logs
	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}
}

// Logs returns all logged requests
func (s *Server) Logs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

func writeValidation(w http.ResponseWriter, errs ...validationError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
