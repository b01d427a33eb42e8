package ui

import (
	"strings"

	"github.com/alecthomas/chroma/quick"
)

// highlightJSON colorizes a JSON document for terminal display. Highlighting
// is best effort; the plain source is returned when the formatter fails.
func highlightJSON(src string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, src, "json", "terminal256", "monokai"); err != nil {
		return src
	}
	return sb.String()
}
