package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charapi/charapi/pkg/evaluate"
)

// TerminalRenderer renders EvaluationResult as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func statusColor(status evaluate.Status) string {
	if noColor() {
		return ""
	}
	switch status {
	case evaluate.StatusOutstanding:
		return colorGreen
	case evaluate.StatusAcceptable:
		return colorYellow
	case evaluate.StatusUnacceptable:
		return colorRed
	default:
		return colorDim
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

// categoryOrder fixes the section order in reports.
var categoryOrder = []evaluate.Category{
	evaluate.CategoryFinancial,
	evaluate.CategoryCompliance,
	evaluate.CategoryOrganizationType,
	evaluate.CategoryValidation,
	evaluate.CategoryPreference,
}

var categoryTitles = map[evaluate.Category]string{
	evaluate.CategoryFinancial:        "Financial Health",
	evaluate.CategoryCompliance:       "Compliance",
	evaluate.CategoryOrganizationType: "Organization Type",
	evaluate.CategoryValidation:       "External Validation",
	evaluate.CategoryPreference:       "Donor Preferences",
}

func (r *TerminalRenderer) Render(w io.Writer, result *evaluate.EvaluationResult) error {
	// Header
	header := fmt.Sprintf("%s (EIN %s)", result.OrganizationName, result.EIN)
	if result.Grade != "" {
		header += fmt.Sprintf(" — Grade %s", result.Grade)
	}
	fmt.Fprintf(w, "%s\n", bold(header))
	fmt.Fprintf(w, "Score: %.1f — %d outstanding / %d acceptable / %d unacceptable / %d unknown\n\n",
		result.Score, result.OutstandingCount, result.AcceptableCount,
		result.UnacceptableCount, result.UnknownCount)

	// Metrics by category
	for _, cat := range categoryOrder {
		metrics := metricsInCategory(result.Metrics, cat)
		if len(metrics) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s\n", bold(categoryTitles[cat]))
		for _, m := range metrics {
			status := colored(string(m.Status), statusColor(m.Status))
			fmt.Fprintf(w, "  %-28s %-14s %s\n", m.Name, m.DisplayValue, status)
			if m.Ranges.Outstanding != "" {
				fmt.Fprintf(w, "  %-28s %s\n", "",
					dim(fmt.Sprintf("outstanding %s, acceptable %s", m.Ranges.Outstanding, m.Ranges.Acceptable)))
			}
		}
		fmt.Fprintln(w)
	}

	// Compliance issues get their own block when present.
	if len(result.Compliance.Issues) > 0 {
		fmt.Fprintln(w, bold("Compliance issues:"))
		for _, issue := range result.Compliance.Issues {
			fmt.Fprintf(w, "  %s %s\n", colored("!", colorRed), issue)
		}
		fmt.Fprintln(w)
	}

	// Summary
	if result.Summary != "" {
		fmt.Fprintln(w, bold("Summary:"))
		for _, line := range wrapText(result.Summary, 76) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	return nil
}

func metricsInCategory(metrics []evaluate.Metric, cat evaluate.Category) []evaluate.Metric {
	var out []evaluate.Metric
	for _, m := range metrics {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
