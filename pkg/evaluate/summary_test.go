package evaluate_test

import (
	"strings"
	"testing"

	"github.com/charapi/charapi/pkg/evaluate"
)

func metric(name string, cat evaluate.Category, status evaluate.Status, display string) evaluate.Metric {
	return evaluate.Metric{
		Name:         name,
		Status:       status,
		Category:     cat,
		DisplayValue: display,
	}
}

func TestGenerateSummaryHealthyOrganization(t *testing.T) {
	result := &evaluate.EvaluationResult{
		OrganizationName: "Helping Hands",
		Metrics: []evaluate.Metric{
			metric("Program Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusOutstanding, "85.0%"),
			metric("Admin Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusOutstanding, "8.0%"),
			metric("Fundraising Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusOutstanding, "5.0%"),
			metric("Charity Navigator Rating", evaluate.CategoryValidation, evaluate.StatusOutstanding, "4-star"),
		},
		Financial:    evaluate.FinancialMetrics{NetAssets: 300_000},
		Compliance:   evaluate.ComplianceCheck{IsCompliant: true},
		TotalMetrics: 4,
	}

	summary := evaluate.GenerateSummary(result)

	if !strings.HasPrefix(summary, "Helping Hands shows ") {
		t.Errorf("summary should open with the name, got %q", summary)
	}
	if !strings.Contains(summary, "spending 85.0% on programs with only 8.0% on administrative costs") {
		t.Errorf("summary missing the combined program/admin strength: %q", summary)
	}
	if !strings.Contains(summary, "just 5.0% on fundraising") {
		t.Errorf("summary missing the fundraising strength: %q", summary)
	}
	if !strings.Contains(summary, "holding a 4-star Charity Navigator rating") {
		t.Errorf("summary missing the rating strength: %q", summary)
	}
	if strings.Contains(summary, "though") {
		t.Errorf("healthy organization should have no concerns clause: %q", summary)
	}
	if strings.Contains(summary, "confidence") {
		t.Errorf("full data should produce no confidence caveat: %q", summary)
	}
}

func TestGenerateSummaryMissionClause(t *testing.T) {
	result := &evaluate.EvaluationResult{
		OrganizationName: "Bright Futures",
		Metrics: []evaluate.Metric{
			{
				Name:         "Mission Alignment",
				Value:        evaluate.StringValue("B21"),
				Status:       evaluate.StatusOutstanding,
				Category:     evaluate.CategoryPreference,
				DisplayValue: "Education (High)",
			},
			metric("Program Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusOutstanding, "82.0%"),
		},
		TotalMetrics: 2,
	}

	summary := evaluate.GenerateSummary(result)
	if !strings.Contains(summary, "Bright Futures, focused on Education,") {
		t.Errorf("summary missing the mission clause: %q", summary)
	}
}

func TestGenerateSummaryComplianceConcerns(t *testing.T) {
	result := &evaluate.EvaluationResult{
		OrganizationName: "Shady Org",
		Metrics: []evaluate.Metric{
			metric("IRS Publication 78 Listing", evaluate.CategoryCompliance, evaluate.StatusUnacceptable, "Not listed"),
			metric("Tax-Exempt Status", evaluate.CategoryCompliance, evaluate.StatusUnacceptable, "Revoked"),
		},
		Compliance: evaluate.ComplianceCheck{
			IsCompliant: false,
			Issues: []string{
				"Not in IRS Publication 78",
				"Tax-exempt status revoked",
				"No recent Form 990 filing",
			},
		},
		TotalMetrics: 2,
	}

	summary := evaluate.GenerateSummary(result)
	if !strings.Contains(summary, "showing critical compliance failures including Not in IRS Publication 78, Tax-exempt status revoked") {
		t.Errorf("summary missing the compliance concern: %q", summary)
	}
	if strings.Contains(summary, "No recent Form 990 filing") {
		t.Errorf("compliance concern should list at most two issues: %q", summary)
	}
}

func TestGenerateSummaryMissingFinancialData(t *testing.T) {
	result := &evaluate.EvaluationResult{
		OrganizationName: "Opaque Org",
		Metrics: []evaluate.Metric{
			metric("Program Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusUnknown, "Unknown"),
			metric("Admin Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusUnknown, "Unknown"),
			metric("Fundraising Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusUnknown, "Unknown"),
			metric("IRS Publication 78 Listing", evaluate.CategoryCompliance, evaluate.StatusOutstanding, "Listed"),
		},
		Compliance:   evaluate.ComplianceCheck{IsCompliant: true},
		TotalMetrics: 4,
	}

	summary := evaluate.GenerateSummary(result)
	if !strings.Contains(summary, "detailed financial breakdowns are not available") {
		t.Errorf("summary missing the missing-data concern: %q", summary)
	}
	if !strings.Contains(summary, "low confidence due to missing financial data") {
		t.Errorf("summary missing the low-confidence caveat: %q", summary)
	}
}

func TestGenerateSummaryFilingExemptSuppressesMissingData(t *testing.T) {
	result := &evaluate.EvaluationResult{
		OrganizationName: "Small Chapel",
		Metrics: []evaluate.Metric{
			metric("Program Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusUnknown, "Unknown"),
			metric("Admin Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusUnknown, "Unknown"),
			metric("Fundraising Expense Ratio", evaluate.CategoryFinancial, evaluate.StatusUnknown, "Unknown"),
			metric("Form 990 Filing Required", evaluate.CategoryOrganizationType, evaluate.StatusAcceptable, "No"),
		},
		Compliance:   evaluate.ComplianceCheck{IsCompliant: true},
		TotalMetrics: 4,
	}

	summary := evaluate.GenerateSummary(result)
	if strings.Contains(summary, "detailed financial breakdowns are not available") {
		t.Errorf("filing-exempt organizations should not get the missing-data concern: %q", summary)
	}
	if strings.Contains(summary, "low confidence") {
		t.Errorf("filing-exempt organizations should not get the low-confidence caveat: %q", summary)
	}
}

func TestGenerateSummaryNoData(t *testing.T) {
	result := &evaluate.EvaluationResult{OrganizationName: "Mystery Org"}

	summary := evaluate.GenerateSummary(result)
	if summary != "Mystery Org has limited data available for assessment." {
		t.Errorf("summary = %q", summary)
	}
}
