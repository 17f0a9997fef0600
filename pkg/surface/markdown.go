package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/charapi/charapi/pkg/evaluate"
)

// MarkdownRenderer produces a Markdown report, the format used for archived
// evaluations.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, result *evaluate.EvaluationResult) error {
	_, err := io.WriteString(w, r.Build(result))
	return err
}

// Build returns the Markdown report as a string.
func (r *MarkdownRenderer) Build(result *evaluate.EvaluationResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s (EIN %s)\n\n", result.OrganizationName, result.EIN))
	sb.WriteString(fmt.Sprintf("**Score:** %.1f", result.Score))
	if result.Grade != "" {
		sb.WriteString(fmt.Sprintf(" (Grade %s)", result.Grade))
	}
	sb.WriteString(fmt.Sprintf("  \n**Evaluated:** %s\n\n", result.EvaluatedAt.Format("2006-01-02")))

	sb.WriteString("| Metric | Value | Status |\n|--------|-------|--------|\n")
	for _, cat := range categoryOrder {
		for _, m := range metricsInCategory(result.Metrics, cat) {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", m.Name, m.DisplayValue, m.Status))
		}
	}
	sb.WriteString("\n")

	if len(result.Compliance.Issues) > 0 {
		sb.WriteString("## Compliance issues\n\n")
		for _, issue := range result.Compliance.Issues {
			sb.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		sb.WriteString("\n")
	}

	if result.Summary != "" {
		sb.WriteString("## Summary\n\n")
		sb.WriteString(result.Summary)
		sb.WriteString("\n")
	}

	if len(result.DataSources) > 0 {
		sb.WriteString(fmt.Sprintf("\n_Data sources: %s_\n", strings.Join(result.DataSources, ", ")))
	}

	return sb.String()
}
