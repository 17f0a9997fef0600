package surface_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charapi/charapi/pkg/evaluate"
	"github.com/charapi/charapi/pkg/surface"
)

func sampleResult() *evaluate.EvaluationResult {
	return &evaluate.EvaluationResult{
		EIN:              "530196605",
		OrganizationName: "American National Red Cross",
		Score:            83.3,
		Metrics: []evaluate.Metric{
			{
				Name:         "Program Expense Ratio",
				Value:        evaluate.NumberValue(90.9),
				Status:       evaluate.StatusOutstanding,
				Category:     evaluate.CategoryFinancial,
				Ranges:       evaluate.Range{Outstanding: ">=80.0%", Acceptable: ">=75.0%"},
				DisplayValue: "90.9%",
			},
			{
				Name:         "IRS Publication 78 Listing",
				Value:        evaluate.BoolValue(true),
				Status:       evaluate.StatusOutstanding,
				Category:     evaluate.CategoryCompliance,
				Ranges:       evaluate.Range{Outstanding: "Listed", Acceptable: "Listed"},
				DisplayValue: "Listed",
			},
			{
				Name:         "Charity Navigator Rating",
				Value:        evaluate.Null,
				Status:       evaluate.StatusUnknown,
				Category:     evaluate.CategoryValidation,
				Ranges:       evaluate.Range{Outstanding: ">=4 stars", Acceptable: ">=3 stars"},
				DisplayValue: "Not rated",
			},
		},
		Compliance:       evaluate.ComplianceCheck{IsCompliant: true},
		OutstandingCount: 2,
		UnknownCount:     1,
		TotalMetrics:     3,
		Summary:          "American National Red Cross shows efficiently allocating 90.9% of expenses to programs.",
		EvaluatedAt:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DataSources:      []string{"ProPublica", "CharityAPI"},
	}
}

func TestTerminalRender(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := &surface.TerminalRenderer{}
	if err := r.Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"American National Red Cross (EIN 530196605)",
		"Score: 83.3",
		"Financial Health",
		"Program Expense Ratio",
		"90.9%",
		"outstanding >=80.0%, acceptable >=75.0%",
		"Compliance",
		"External Validation",
		"Not rated",
		"Summary:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "\033[") {
		t.Error("expected no ANSI escapes with NO_COLOR set")
	}
	if strings.Contains(out, "Grade") {
		t.Error("gradeless result should not print a grade")
	}
}

func TestTerminalRenderComplianceIssues(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	result := sampleResult()
	result.Compliance = evaluate.ComplianceCheck{
		IsCompliant: false,
		Issues:      []string{"Tax-exempt status revoked"},
	}

	var buf bytes.Buffer
	if err := (&surface.TerminalRenderer{}).Render(&buf, result); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "Tax-exempt status revoked") {
		t.Errorf("output missing the compliance issue:\n%s", buf.String())
	}
}

func TestJSONRenderRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.JSONRenderer{}).Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded evaluate.EvaluationResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.EIN != "530196605" || decoded.Score != 83.3 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Grade != "" {
		t.Errorf("empty grade should stay empty, got %q", decoded.Grade)
	}
}

func TestMarkdownRender(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.MarkdownRenderer{}).Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# American National Red Cross (EIN 530196605)",
		"**Score:** 83.3",
		"| Program Expense Ratio | 90.9% | OUTSTANDING |",
		"## Summary",
		"_Data sources: ProPublica, CharityAPI_",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
