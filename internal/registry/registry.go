package registry

import (
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/restchat/internal/types"
)

// ChatPath is the backend route used by the chat view
const ChatPath = "/chat"

const chatSampleBody = `{
  "message": "Hello! Can you tell me about artificial intelligence?",
  "conversation_history": []
}`

// Registry is an ordered, immutable set of endpoint descriptors
type Registry struct {
	endpoints []types.Endpoint
	byPath    map[string]int
}

// New builds a registry from descriptors, keeping their order.
// Callers are expected to validate the list first (see Validate).
func New(endpoints []types.Endpoint) *Registry {
	r := &Registry{
		endpoints: make([]types.Endpoint, len(endpoints)),
		byPath:    make(map[string]int, len(endpoints)),
	}
	copy(r.endpoints, endpoints)
	for i, ep := range r.endpoints {
		r.byPath[ep.Path] = i
	}
	return r
}

// Default returns the registry of the known backend routes
func Default() *Registry {
	return New(DefaultEndpoints())
}

// DefaultEndpoints returns the built-in descriptor list
func DefaultEndpoints() []types.Endpoint {
	return []types.Endpoint{
		{
			Path:        "/health",
			Method:      types.MethodGet,
			Description: "Health check endpoint - verifies backend status and AI provider configuration",
		},
		{
			Path:        "/",
			Method:      types.MethodGet,
			Description: "Root endpoint - basic backend information",
		},
		{
			Path:        ChatPath,
			Method:      types.MethodPost,
			Description: "Chat with the AI backend - send messages and get AI responses",
			SampleBody:  chatSampleBody,
		},
	}
}

// All returns a copy of the descriptors in registry order
func (r *Registry) All() []types.Endpoint {
	out := make([]types.Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Len returns the number of descriptors
func (r *Registry) Len() int {
	return len(r.endpoints)
}

// Lookup finds a descriptor by path
func (r *Registry) Lookup(path string) (types.Endpoint, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return types.Endpoint{}, false
	}
	return r.endpoints[i], true
}

// Search fuzzy-matches descriptors against "METHOD path description".
// An empty query returns every descriptor in registry order; otherwise
// matches are ordered best first.
func (r *Registry) Search(query string) []types.Endpoint {
	if query == "" {
		return r.All()
	}

	matches := fuzzy.FindFrom(query, searchSource(r.endpoints))
	out := make([]types.Endpoint, 0, len(matches))
	for _, match := range matches {
		out = append(out, r.endpoints[match.Index])
	}
	return out
}

// searchSource adapts the descriptor slice to fuzzy.Source
type searchSource []types.Endpoint

func (s searchSource) String(i int) string {
	return s[i].Label() + " " + s[i].Description
}

func (s searchSource) Len() int {
	return len(s)
}
