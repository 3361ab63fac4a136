package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/restchat/internal/config"
	"gopkg.in/yaml.v3"
)

// newBackend serves the three default routes. Chat echoes the message.
func newBackend(t *testing.T, chatStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy","message":"backend is running","gemini_configured":true}`))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"restchat test backend"}`))
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(chatStatus)
		if chatStatus != http.StatusOK {
			_, _ = w.Write([]byte(`{"detail":"Gemini API not configured"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "echo: " + req.Message, "status": "success"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, baseURL string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: baseURL},
		Chat:    config.ChatConfig{HistoryWindow: config.DefaultHistoryWindow},
		Log:     config.LogConfig{Level: "info"},
	}
	app, err := NewApp(cfg, zerolog.Nop())
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	app.Out = &out
	app.Err = &errOut
	app.Color = false
	return app, &out, &errOut
}

func TestRunText(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "health"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "/health  200")
	assert.Contains(t, text, `"status": "healthy"`)
	assert.Contains(t, text, "Response Summary:")
	assert.Contains(t, text, "Message: backend is running")
	assert.NotContains(t, text, "\x1b[", "colors are off")
}

func TestRunJSON(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/", OutputFormat: "json"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, float64(200), got["status"])
	assert.Equal(t, map[string]any{"message": "restchat test backend"}, got["data"])
	assert.NotEmpty(t, got["timestamp"])
}

func TestRunYAMLWithSample(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/chat", Sample: true, OutputFormat: "yaml"})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	data := got["data"].(map[string]any)
	assert.Equal(t, "echo: Hello! Can you tell me about artificial intelligence?", data["response"])
}

func TestRunInvalidBody(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/chat", Body: "{oops", OutputFormat: "json"})
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Contains(t, out.String(), `"error": "Invalid JSON in request body"`)
}

func TestRunBackendError(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/chat", Body: `{"message":"hi"}`})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, out.String(), "ERROR")
	assert.Contains(t, out.String(), "HTTP 500: Gemini API not configured")
}

func TestRunUnknownEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t, "http://localhost:1")

	err := Run(context.Background(), app, RunOptions{Path: "/nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown endpoint /nope")
	assert.False(t, errors.Is(err, ErrRequestFailed))
}

func TestRunUnknownFormat(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, _, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/health", OutputFormat: "xml"})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestRunQuery(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/health", Query: "status"})
	require.NoError(t, err)
	assert.Equal(t, "\"healthy\"\n", out.String())

	out.Reset()
	err = Run(context.Background(), app, RunOptions{Path: "/chat", Sample: true, Query: "{reply: response}", OutputFormat: "yaml"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "reply:")
	assert.Contains(t, out.String(), "echo: Hello!")
}

func TestRunQueryInvalidExpression(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/health", Query: "items[?"})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunQueryIgnoredOnError(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError)
	app, out, _ := newTestApp(t, srv.URL)

	err := Run(context.Background(), app, RunOptions{Path: "/chat", Body: `{"message":"hi"}`, Query: "response"})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, out.String(), "Gemini API not configured")
}

func TestReadBody(t *testing.T) {
	body, err := readBody("-", strings.NewReader(`{"message":"piped"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"message":"piped"}`, body)

	body, err = readBody(`{"a":1}`, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, body)
}

func TestChat(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	err := Chat(context.Background(), app, ChatOptions{Message: "hi there"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi there\n", out.String())
}

func TestChatFailure(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError)
	app, _, errOut := newTestApp(t, srv.URL)

	err := Chat(context.Background(), app, ChatOptions{Message: "hi"})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, errOut.String(), "Gemini API not configured")

	assert.Error(t, Chat(context.Background(), app, ChatOptions{}))
}

func TestCheck(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, out, _ := newTestApp(t, srv.URL)

	results, err := Check(context.Background(), app, CheckOptions{Chat: true})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "/health", results[0].Endpoint.Path)
	assert.Equal(t, "/", results[1].Endpoint.Path)
	assert.Equal(t, "/chat", results[2].Endpoint.Path)
	for _, r := range results {
		assert.True(t, r.Passed(), r.Endpoint.Label())
	}

	require.NoError(t, PrintCheck(app, results))
	assert.Equal(t, 3, strings.Count(out.String(), "PASS"))
}

func TestCheckReportsFailures(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError)
	app, out, _ := newTestApp(t, srv.URL)

	results, err := Check(context.Background(), app, CheckOptions{Chat: true})
	require.NoError(t, err)

	err = PrintCheck(app, results)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "AI provider key")
}

func TestCheckWithoutChat(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	app, _, _ := newTestApp(t, srv.URL)

	results, err := Check(context.Background(), app, CheckOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestListEndpoints(t *testing.T) {
	app, out, _ := newTestApp(t, "http://localhost:1")

	require.NoError(t, ListEndpoints(app, ""))
	assert.Contains(t, out.String(), "/health")
	assert.Contains(t, out.String(), "POST")

	out.Reset()
	require.NoError(t, ListEndpoints(app, "zzzz"))
	assert.Contains(t, out.String(), "no endpoints match")
}

func TestNewAppLoadsEndpointsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints:\n  - path: /status\n    method: GET\n"), 0644))

	cfg := &config.Config{
		Backend:   config.BackendConfig{BaseURL: "http://localhost:1"},
		Endpoints: config.EndpointsConfig{File: path},
	}
	app, err := NewApp(cfg, zerolog.Nop())
	require.NoError(t, err)

	_, ok := app.Registry.Lookup("/status")
	assert.True(t, ok)
	assert.Equal(t, 1, app.Registry.Len())
}
