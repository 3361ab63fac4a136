package render

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// Highlight colors JSON for a 256-color terminal.
// The input is returned unchanged if highlighting fails.
func Highlight(source string) string {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, "json", highlightFormatter, highlightStyle); err != nil {
		return source
	}
	return buf.String()
}
