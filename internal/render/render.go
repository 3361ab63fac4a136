// Package render turns a types.Result into the pieces shown by the result
// panel: a status class, pretty JSON, and a best-effort summary.
package render

import (
	"bytes"
	"encoding/json"

	"github.com/atotto/clipboard"
	"github.com/studiowebux/restchat/internal/types"
)

// StatusClass is the visual class of a rendered result
type StatusClass string

const (
	StatusSuccess StatusClass = "success"
	StatusError   StatusClass = "error"
)

// ClipboardWriter writes text to a clipboard
type ClipboardWriter func(text string) error

// SystemClipboard writes to the host clipboard
var SystemClipboard ClipboardWriter = clipboard.WriteAll

// View is the rendered form of one result. Collapse state is view-only and
// never touches the result itself.
type View struct {
	Path    string
	Result  types.Result
	Class   StatusClass
	Body    string
	Summary []SummaryLine

	collapsed bool
}

// Render builds the view for the result of testing path
func Render(path string, result types.Result) *View {
	v := &View{
		Path:   path,
		Result: result,
		Class:  StatusSuccess,
	}

	if result.IsError() {
		v.Class = StatusError
		v.Body = PrettyJSON(map[string]string{"error": result.Error})
		return v
	}

	v.Body = PrettyJSON(result.Data)
	v.Summary = Summarize(result.Data)
	return v
}

// Collapsed reports whether the body is hidden
func (v *View) Collapsed() bool {
	return v.collapsed
}

// Toggle flips between collapsed and expanded
func (v *View) Toggle() {
	v.collapsed = !v.collapsed
}

// ShowStatus reports whether a status badge should be shown
func (v *View) ShowStatus() bool {
	return v.Result.Status != 0
}

// Full returns the pretty JSON of the whole result object
func (v *View) Full() string {
	return PrettyJSON(v.Result)
}

// Copy writes the full result JSON to the clipboard. Failures are ignored.
func (v *View) Copy(write ClipboardWriter) {
	if write == nil {
		return
	}
	_ = write(v.Full())
}

// PrettyJSON encodes value with a two space indent without escaping HTML.
// Nil encodes as null.
func PrettyJSON(value any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "null"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
