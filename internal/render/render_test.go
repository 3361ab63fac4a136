package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/restchat/internal/types"
)

var at = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func TestRenderSuccess(t *testing.T) {
	v := Render("/health", types.Success(200, map[string]any{"message": "ok"}, at))

	assert.Equal(t, StatusSuccess, v.Class)
	assert.True(t, v.ShowStatus())
	assert.False(t, v.Collapsed())
	assert.Equal(t, "{\n  \"message\": \"ok\"\n}", v.Body)

	var back any
	require.NoError(t, json.Unmarshal([]byte(v.Body), &back))
	assert.Equal(t, map[string]any{"message": "ok"}, back)
}

func TestRenderError(t *testing.T) {
	v := Render("/chat", types.Failure(types.ErrorBackend, "HTTP 500: boom", at))

	assert.Equal(t, StatusError, v.Class)
	assert.False(t, v.ShowStatus())
	assert.Equal(t, "{\n  \"error\": \"HTTP 500: boom\"\n}", v.Body)
	assert.Empty(t, v.Summary)
}

func TestRenderDoesNotEscapeHTML(t *testing.T) {
	v := Render("/", types.Success(200, map[string]any{"html": "<b>&</b>"}, at))
	assert.Contains(t, v.Body, "<b>&</b>")
}

func TestRenderNullData(t *testing.T) {
	v := Render("/", types.Success(204, nil, at))
	assert.Equal(t, "null", v.Body)
	assert.Empty(t, v.Summary)
}

func TestToggle(t *testing.T) {
	result := types.Success(200, map[string]any{"message": "ok"}, at)
	v := Render("/", result)

	v.Toggle()
	assert.True(t, v.Collapsed())
	v.Toggle()
	assert.False(t, v.Collapsed())
	assert.Equal(t, result, v.Result)
}

func TestCopy(t *testing.T) {
	v := Render("/health", types.Success(200, map[string]any{"status": "healthy"}, at))

	var copied string
	v.Copy(func(text string) error {
		copied = text
		return nil
	})

	assert.JSONEq(t, `{"status":200,"data":{"status":"healthy"},"timestamp":"2025-01-01T10:00:00Z"}`, copied)
	assert.True(t, strings.HasPrefix(copied, "{\n  \""))

	assert.NotPanics(t, func() {
		v.Copy(func(string) error { return errors.New("clipboard denied") })
		v.Copy(nil)
	})
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []SummaryLine
	}{
		{
			name: "all fields",
			data: `{"message":"done","success":true,"metadata":{"processed_by":"gemini"},
				"result":{"statistics":{"count":42},"model_type":"classifier"}}`,
			want: []SummaryLine{
				{"Message", "done"},
				{"Success", "✓"},
				{"Processed by", "gemini"},
				{"Data points", "42"},
				{"Model", "classifier"},
			},
		},
		{
			name: "success false still shown",
			data: `{"success":false}`,
			want: []SummaryLine{{"Success", "✗"}},
		},
		{
			name: "statistics without count",
			data: `{"result":{"statistics":{}}}`,
			want: []SummaryLine{{"Data points", ""}},
		},
		{
			name: "empty message skipped",
			data: `{"message":"","status":"healthy"}`,
			want: nil,
		},
		{
			name: "non object data",
			data: `"hello"`,
			want: nil,
		},
		{
			name: "null data",
			data: `null`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data any
			require.NoError(t, json.Unmarshal([]byte(tt.data), &data))
			assert.Equal(t, tt.want, Summarize(data))
		})
	}
}

func TestNewSummarizerInvalidExpression(t *testing.T) {
	_, err := NewSummarizer([]SummaryRule{{Label: "Broken", Expr: "foo[?"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}

func TestCustomSummarizer(t *testing.T) {
	s, err := NewSummarizer([]SummaryRule{{Label: "Reply", Expr: "response"}})
	require.NoError(t, err)

	lines := s.Summarize(map[string]any{"response": "hi"})
	assert.Equal(t, []SummaryLine{{"Reply", "hi"}}, lines)
}

func TestHighlight(t *testing.T) {
	src := `{"message": "ok"}`
	out := Highlight(src)

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "message")
}
