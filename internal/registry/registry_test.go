package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/restchat/internal/types"
)

func TestDefaultOrder(t *testing.T) {
	reg := Default()

	var labels []string
	for _, ep := range reg.All() {
		labels = append(labels, ep.Label())
	}

	assert.Equal(t, []string{"GET /health", "GET /", "POST /chat"}, labels)
}

func TestDefaultChatSample(t *testing.T) {
	ep, ok := Default().Lookup(ChatPath)
	require.True(t, ok)
	require.True(t, ep.HasSample())

	var sample map[string]any
	require.NoError(t, json.Unmarshal([]byte(ep.SampleBody), &sample))
	assert.Equal(t, "Hello! Can you tell me about artificial intelligence?", sample["message"])
	assert.Equal(t, []any{}, sample["conversation_history"])
	assert.Contains(t, ep.SampleBody, "\n  \"message\"")
}

func TestLookup(t *testing.T) {
	reg := Default()

	tests := []struct {
		path   string
		found  bool
		method types.Method
	}{
		{"/health", true, types.MethodGet},
		{"/", true, types.MethodGet},
		{"/chat", true, types.MethodPost},
		{"/missing", false, ""},
		{"health", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ep, ok := reg.Lookup(tt.path)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.path, ok, tt.found)
			}
			if ep.Method != tt.method {
				t.Errorf("Lookup(%q) method = %q, want %q", tt.path, ep.Method, tt.method)
			}
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	reg := Default()

	all := reg.All()
	all[0].Path = "/mutated"

	ep, ok := reg.Lookup("/health")
	require.True(t, ok)
	assert.Equal(t, "/health", ep.Path)
	assert.Equal(t, "/health", reg.All()[0].Path)
}

func TestSearch(t *testing.T) {
	reg := Default()

	tests := []struct {
		name  string
		query string
		first string
		count int
	}{
		{"empty query returns all", "", "/health", 3},
		{"path ranks first", "/chat", "/chat", -1},
		{"method ranks first", "POST", "/chat", -1},
		{"health ranks first", "health", "/health", -1},
		{"no match", "zzzz", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.Search(tt.query)
			if tt.count >= 0 {
				require.Len(t, got, tt.count)
			}
			if tt.first != "" {
				require.NotEmpty(t, got)
				assert.Equal(t, tt.first, got[0].Path)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		data    string
		wantErr string
		want    []types.Endpoint
	}{
		{
			name: "yaml",
			ext:  ".yaml",
			data: `endpoints:
  - path: /health
    method: get
    description: Health
`,
			want: []types.Endpoint{{Path: "/health", Method: types.MethodGet, Description: "Health"}},
		},
		{
			name: "jsonc with comments",
			ext:  ".jsonc",
			data: `{
  // backend routes
  "endpoints": [
    {"path": "/chat", "method": "POST", "sampleBody": "{\"message\": \"hi\"}"}, /* trailing */
  ]
}`,
			want: []types.Endpoint{{Path: "/chat", Method: types.MethodPost, SampleBody: `{"message": "hi"}`}},
		},
		{
			name:    "unsupported format",
			ext:     ".toml",
			data:    "",
			wantErr: "unsupported endpoints file format",
		},
		{
			name:    "empty list",
			ext:     ".json",
			data:    `{"endpoints": []}`,
			wantErr: "no endpoints defined",
		},
		{
			name:    "missing leading slash",
			ext:     ".json",
			data:    `{"endpoints": [{"path": "health", "method": "GET"}]}`,
			wantErr: "path must start with '/'",
		},
		{
			name:    "unsupported method",
			ext:     ".json",
			data:    `{"endpoints": [{"path": "/x", "method": "DELETE"}]}`,
			wantErr: "method must be GET or POST",
		},
		{
			name:    "duplicate path",
			ext:     ".json",
			data:    `{"endpoints": [{"path": "/x", "method": "GET"}, {"path": "/x", "method": "POST"}]}`,
			wantErr: "duplicate path /x",
		},
		{
			name:    "invalid sample body",
			ext:     ".json",
			data:    `{"endpoints": [{"path": "/x", "method": "POST", "sampleBody": "{nope"}]}`,
			wantErr: "sampleBody is not valid JSON",
		},
		{
			name:    "sample body on GET",
			ext:     ".json",
			data:    `{"endpoints": [{"path": "/x", "method": "GET", "sampleBody": "{}"}]}`,
			wantErr: "only allowed on POST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.ext)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "endpoints.yml")
	content := `endpoints:
  - path: /status
    method: GET
  - path: /ask
    method: POST
    sampleBody: '{"message": "hello"}'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	_, ok := reg.Lookup("/health")
	assert.False(t, ok, "loaded file replaces the defaults")

	ep, ok := reg.Lookup("/ask")
	require.True(t, ok)
	assert.True(t, ep.HasSample())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
