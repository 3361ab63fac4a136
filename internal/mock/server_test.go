package mock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/restchat/internal/executor"
	"github.com/studiowebux/restchat/internal/registry"
	"github.com/studiowebux/restchat/internal/render"
	"github.com/studiowebux/restchat/internal/types"
)

func newExecutor(t *testing.T, cfg Config) (*executor.Executor, *Server) {
	t.Helper()
	srv := NewServer(cfg, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	exec, err := executor.New(ts.URL)
	require.NoError(t, err)
	return exec, srv
}

func TestDefaultEndpointsSucceed(t *testing.T) {
	exec, srv := newExecutor(t, Config{})

	for _, endpoint := range registry.DefaultEndpoints() {
		t.Run(endpoint.Label(), func(t *testing.T) {
			result := exec.Execute(context.Background(), endpoint, endpoint.SampleBody)
			require.False(t, result.IsError(), result.Error)
			assert.Equal(t, http.StatusOK, result.Status)
		})
	}

	assert.Len(t, srv.Logs(), 3)
}

func TestHealthReportsConfiguration(t *testing.T) {
	health, _ := registry.Default().Lookup("/health")

	tests := []struct {
		name         string
		unconfigured bool
		want         bool
	}{
		{"configured", false, true},
		{"unconfigured", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, _ := newExecutor(t, Config{Unconfigured: tt.unconfigured})
			result := exec.Execute(context.Background(), health, "")
			require.False(t, result.IsError())
			data := result.Data.(map[string]any)
			assert.Equal(t, "healthy", data["status"])
			assert.Equal(t, tt.want, data["gemini_configured"])
		})
	}
}

func TestRootFeedsSummary(t *testing.T) {
	exec, _ := newExecutor(t, Config{})
	root, _ := registry.Default().Lookup("/")

	result := exec.Execute(context.Background(), root, "")
	require.False(t, result.IsError(), result.Error)

	labels := map[string]string{}
	for _, line := range render.Summarize(result.Data) {
		labels[line.Label] = line.Value
	}
	assert.Equal(t, "restchat-mock", labels["Processed by"])
	assert.Equal(t, "echo", labels["Model"])
	assert.Contains(t, labels, "Data points")
	assert.Contains(t, labels, "Message")
}

func TestChatEchoesWithContext(t *testing.T) {
	exec, _ := newExecutor(t, Config{ContextTurns: 2})

	reply, result := exec.Chat(context.Background(), "third", []types.HistoryEntry{
		{User: "first", Assistant: "a"},
		{User: "second", Assistant: "b"},
		{User: "also second", Assistant: "c"},
	})

	require.False(t, result.IsError(), result.Error)
	assert.Contains(t, reply, "**You said:** third")
	assert.Contains(t, reply, "Context (2 earlier exchanges)")
	assert.NotContains(t, reply, "- first")
	assert.Contains(t, reply, "- also second")
}

func TestChatWithoutHistory(t *testing.T) {
	exec, _ := newExecutor(t, Config{})

	reply, result := exec.Chat(context.Background(), "hi", nil)

	require.False(t, result.IsError())
	assert.Contains(t, reply, "No earlier messages")
}

func TestChatSkipsPendingEntry(t *testing.T) {
	exec, _ := newExecutor(t, Config{})

	reply, result := exec.Chat(context.Background(), "next", []types.HistoryEntry{
		{User: "first", Assistant: "a"},
		{User: "next"},
	})

	require.False(t, result.IsError(), result.Error)
	assert.Contains(t, reply, "Context (1 earlier exchanges)")
	assert.NotContains(t, reply, "- next")
}

func TestChatUnconfigured(t *testing.T) {
	exec, _ := newExecutor(t, Config{Unconfigured: true})

	_, result := exec.Chat(context.Background(), "hi", nil)

	assert.Equal(t, types.ErrorBackend, result.Kind)
	assert.Equal(t, MsgUnconfigured, result.Error)
}

func TestChatValidation(t *testing.T) {
	exec, _ := newExecutor(t, Config{})
	chat, _ := registry.Default().Lookup(registry.ChatPath)

	result := exec.Execute(context.Background(), chat, `{"conversation_history": []}`)

	assert.Equal(t, types.ErrorBackend, result.Kind)
	assert.True(t, strings.HasPrefix(result.Error, "HTTP 422: "), result.Error)
	assert.Contains(t, result.Error, `"Field required"`)
}

func TestChatDelayHonoursCancellation(t *testing.T) {
	exec, _ := newExecutor(t, Config{Delay: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, result := exec.Chat(ctx, "hi", nil)

	assert.Equal(t, types.ErrorNetworkFailure, result.Kind)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestUnknownRoute(t *testing.T) {
	srv := NewServer(Config{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLogs(t *testing.T) {
	srv := NewServer(Config{}, zerolog.Nop())
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"x"}`)))

	logs := srv.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "/chat", logs[0].Path)
	assert.Equal(t, `{"message":"x"}`, logs[0].Body)
	assert.Equal(t, http.StatusOK, logs[0].Status)

	srv.ClearLogs()
	assert.Empty(t, srv.Logs())
}
