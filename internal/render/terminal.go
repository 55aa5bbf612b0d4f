package render

import (
	"github.com/charmbracelet/glamour"
)

// Terminal renders a markdown document for ANSI terminal output.
// Falls back to the raw markdown if the renderer cannot be built.
func Terminal(markdown string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
