package evaluate

import (
	"fmt"
	"strings"
)

// GenerateSummary synthesizes the narrative paragraph for a completed
// evaluation. It is state-free templating over the result: strengths in a
// fixed priority order (at most four), concerns likewise (at most three),
// and an optional confidence caveat.
func GenerateSummary(result *EvaluationResult) string {
	mission := missionDescription(result)
	strengths := identifyStrengths(result)
	concerns := identifyConcerns(result)
	confidence := assessConfidence(result)

	return buildSummarySentence(result.OrganizationName, mission, strengths, concerns, confidence)
}

// isForm990Exempt reports whether the filing requirement metric marks the
// organization as not required to file. Exempt organizations get no missing-
// data concerns for their empty expense breakdowns.
func isForm990Exempt(result *EvaluationResult) bool {
	m := findMetric(result.Metrics, "Form 990 Filing Required")
	return m != nil && m.DisplayValue == "No"
}

func missionDescription(result *EvaluationResult) string {
	m := findMetric(result.Metrics, "Mission Alignment")
	if m == nil {
		return ""
	}
	code, ok := m.Value.Str()
	if !ok || code == "" {
		return ""
	}
	return "focused on " + SectorName(code)
}

func identifyStrengths(result *EvaluationResult) []string {
	var strengths []string

	outstanding := filterMetrics(result.Metrics, StatusOutstanding)

	program := findCategoryMetric(outstanding, CategoryFinancial, "Program")
	admin := findCategoryMetric(outstanding, CategoryFinancial, "Admin")
	fundraising := findCategoryMetric(outstanding, CategoryFinancial, "Fundraising")

	if program != nil && admin != nil {
		strengths = append(strengths, fmt.Sprintf(
			"spending %s on programs with only %s on administrative costs",
			program.DisplayValue, admin.DisplayValue))
	} else if program != nil {
		strengths = append(strengths, fmt.Sprintf(
			"efficiently allocating %s of expenses to programs", program.DisplayValue))
	}

	if fundraising != nil {
		strengths = append(strengths, fmt.Sprintf("just %s on fundraising", fundraising.DisplayValue))
	}

	if rating := findCategoryMetric(outstanding, CategoryValidation, "Navigator"); rating != nil {
		strengths = append(strengths, fmt.Sprintf("holding a %s Charity Navigator rating", rating.DisplayValue))
	}

	if years := findCategoryMetric(outstanding, CategoryOrganizationType, "Years"); years != nil {
		if n, ok := years.Value.Number(); ok {
			strengths = append(strengths, fmt.Sprintf("operating for %d years", int(n)))
		}
	}

	if geo := findCategoryMetric(outstanding, CategoryPreference, "Geographic"); geo != nil {
		state, _, _ := strings.Cut(geo.DisplayValue, " ")
		strengths = append(strengths, "based in the preferred state of "+state)
	}

	if result.Financial.NetAssets > 0 && len(strengths) < 3 {
		strengths = append(strengths, fmt.Sprintf(
			"maintaining %s in positive net assets", formatDollars(result.Financial.NetAssets)))
	}

	if len(strengths) > 4 {
		strengths = strengths[:4]
	}
	return strengths
}

func identifyConcerns(result *EvaluationResult) []string {
	var concerns []string

	unacceptable := filterMetrics(result.Metrics, StatusUnacceptable)

	if !result.Compliance.IsCompliant && len(result.Compliance.Issues) > 0 {
		issues := result.Compliance.Issues
		if len(issues) > 2 {
			issues = issues[:2]
		}
		concerns = append(concerns, "showing critical compliance failures including "+strings.Join(issues, ", "))
	}

	complianceUnacceptable := filterCategory(unacceptable, CategoryCompliance)
	if len(complianceUnacceptable) > 0 && len(concerns) == 0 {
		concerns = append(concerns, "failing "+strings.ToLower(complianceUnacceptable[0].Name))
	}

	financialUnacceptable := filterCategory(unacceptable, CategoryFinancial)
	for i := range financialUnacceptable {
		m := &financialUnacceptable[i]
		switch {
		case strings.Contains(m.Name, "Admin"):
			concerns = append(concerns, "high administrative expenses at "+m.DisplayValue)
		case strings.Contains(m.Name, "Fundraising"):
			concerns = append(concerns, "high fundraising costs at "+m.DisplayValue)
		case strings.Contains(m.Name, "Net Assets"):
			concerns = append(concerns, "negative net assets indicating financial instability")
		case strings.Contains(m.Name, "Program"):
			concerns = append(concerns, "spending only "+m.DisplayValue+" on programs")
		}
	}

	financialUnknown := filterCategory(filterMetrics(result.Metrics, StatusUnknown), CategoryFinancial)
	if len(financialUnknown) >= 3 && len(financialUnacceptable) == 0 && !isForm990Exempt(result) {
		concerns = append(concerns, "detailed financial breakdowns are not available to assess program efficiency")
	}

	preferenceUnacceptable := filterCategory(unacceptable, CategoryPreference)
	if mission := findMetric(preferenceUnacceptable, "Mission"); mission != nil {
		sector, _, _ := strings.Cut(mission.DisplayValue, " (")
		concerns = append(concerns, "its "+sector+" mission is a lower priority area")
	}
	if size := findMetric(preferenceUnacceptable, "Size"); size != nil {
		revenue := result.Financial.TotalRevenue
		if revenue > 100_000_000 {
			concerns = append(concerns, fmt.Sprintf(
				"as a large national organization with %s in revenue, it falls outside the preferred focus on smaller, grassroots charities",
				formatDollars(revenue)))
		} else if revenue > 5_000_000 {
			concerns = append(concerns, fmt.Sprintf(
				"its large size (%s revenue) doesn't align with preferences for smaller organizations",
				formatDollars(revenue)))
		}
	}

	if len(concerns) > 3 {
		concerns = concerns[:3]
	}
	return concerns
}

func assessConfidence(result *EvaluationResult) string {
	unknown := filterMetrics(result.Metrics, StatusUnknown)
	if len(unknown) == 0 {
		return ""
	}

	financialUnknown := filterCategory(unknown, CategoryFinancial)
	total := float64(result.TotalMetrics)

	switch {
	case len(financialUnknown) >= 3 && !isForm990Exempt(result):
		return "This assessment has low confidence due to missing financial data"
	case float64(len(unknown)) >= total*0.4:
		return "This assessment has moderate confidence due to limited data availability"
	case float64(len(unknown)) >= total*0.2:
		return "This assessment has good confidence despite some missing data"
	default:
		return ""
	}
}

func buildSummarySentence(name, mission string, strengths, concerns []string, confidence string) string {
	base := name
	if mission != "" {
		base = name + ", " + mission + ","
	}

	switch {
	case len(strengths) > 0 && len(concerns) > 0:
		if mission != "" {
			base = base + " " + joinClauses(strengths) + ", though " + joinClauses(concerns)
		} else {
			base = base + " shows " + joinClauses(strengths) + ", though " + joinClauses(concerns)
		}
	case len(strengths) > 0:
		if mission != "" {
			base = base + " " + joinClauses(strengths)
		} else {
			base = base + " shows " + joinClauses(strengths)
		}
	case len(concerns) > 0:
		if mission != "" {
			base = base + " though it has concerns including " + joinClauses(concerns)
		} else {
			base = base + " has concerns including " + joinClauses(concerns)
		}
	default:
		if mission == "" {
			base = base + " has limited data available for assessment"
		}
	}

	if confidence != "" {
		return base + ". " + confidence + "."
	}
	return base + "."
}

// joinClauses joins with "and" grammar: an Oxford comma for three or more
// clauses, a bare "and" for two.
func joinClauses(clauses []string) string {
	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	case 2:
		return clauses[0] + " and " + clauses[1]
	default:
		return strings.Join(clauses[:len(clauses)-1], ", ") + ", and " + clauses[len(clauses)-1]
	}
}

func findMetric(metrics []Metric, nameSubstring string) *Metric {
	for i := range metrics {
		if strings.Contains(metrics[i].Name, nameSubstring) {
			return &metrics[i]
		}
	}
	return nil
}

func findCategoryMetric(metrics []Metric, cat Category, nameSubstring string) *Metric {
	for i := range metrics {
		if metrics[i].Category == cat && strings.Contains(metrics[i].Name, nameSubstring) {
			return &metrics[i]
		}
	}
	return nil
}

func filterMetrics(metrics []Metric, status Status) []Metric {
	var out []Metric
	for _, m := range metrics {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}

func filterCategory(metrics []Metric, cat Category) []Metric {
	var out []Metric
	for _, m := range metrics {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}
