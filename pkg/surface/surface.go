// Package surface defines output rendering for evaluation results.
// Implementations handle different output targets: terminal, JSON, Markdown.
package surface

import (
	"io"

	"github.com/charapi/charapi/pkg/evaluate"
)

// Renderer produces formatted output from an EvaluationResult.
type Renderer interface {
	// Render writes the formatted result to the writer.
	Render(w io.Writer, result *evaluate.EvaluationResult) error
}

// ForFormat returns the renderer for a format name. Unknown formats fall
// back to the terminal renderer.
func ForFormat(format string) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{}
	case "markdown":
		return &MarkdownRenderer{}
	default:
		return &TerminalRenderer{}
	}
}
