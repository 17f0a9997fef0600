package evaluate

import (
	"fmt"
	"time"

	"github.com/charapi/charapi/pkg/config"
)

// AnalyzeOrganizationType scores the four classification codes. A nil record
// is a distinct terminal case: score zero with a single "data not available"
// issue, not the same as zero penalties.
func AnalyzeOrganizationType(rec *DirectoryRecord, oc config.OrgTypeConfig, now time.Time) OrganizationType {
	if rec == nil {
		return OrganizationType{
			Issues: []string{"Organization type data not available"},
		}
	}

	var score float64
	var issues []string

	subsection := rec.Subsection
	if subsection != 3 {
		score -= oc.Non501c3Penalty
		issues = append(issues, fmt.Sprintf("Not a 501(c)(3) organization (subsection: %d)", subsection))
	}

	foundation := rec.Foundation
	if foundation != oc.PublicCharityCode {
		score -= oc.PrivateFoundationPenalty
		issues = append(issues, fmt.Sprintf("Private foundation, not public charity (code: %d)", foundation))
	}

	filingReq := rec.FilingReq
	if filingReq != 1 {
		score -= oc.NoFilingRequirementPenalty
		issues = append(issues, "Not required to file Form 990 (lack of transparency)")
	}

	var yearsOperating *int
	if rec.Ruling != 0 {
		years := now.Year() - rec.Ruling/100
		yearsOperating = &years
		if years >= oc.EstablishedYearsThreshold {
			score += oc.EstablishedBonus
		}
	}

	return OrganizationType{
		Score:             score,
		Issues:            issues,
		Subsection:        &subsection,
		FoundationType:    &foundation,
		FilingRequirement: &filingReq,
		YearsOperating:    yearsOperating,
	}
}

// OrganizationTypeMetricsList re-expresses the four classification checks as
// independent metrics. Unlike the scalar score, the filing requirement is
// informational here: filing-exempt organizations are not penalized.
func OrganizationTypeMetricsList(rec *DirectoryRecord, oc config.OrgTypeConfig, now time.Time) []Metric {
	if rec == nil {
		return []Metric{
			unknownOrgTypeMetric("501(c)(3) Status", "501(c)(3)", "501(c)(3)"),
			unknownOrgTypeMetric("Public Charity Status", "Public Charity", "Public Charity"),
			unknownOrgTypeMetric("Form 990 Filing Required", "Yes", "No"),
			unknownOrgTypeMetric("Years Operating", fmt.Sprintf(">=%d years", oc.EstablishedYearsThreshold), "Any"),
		}
	}

	metrics := make([]Metric, 0, 4)

	subStatus := StatusOutstanding
	subDisplay := "501(c)(3)"
	if rec.Subsection != 3 {
		subStatus = StatusUnacceptable
		subDisplay = fmt.Sprintf("501(c)(%d)", rec.Subsection)
	}
	metrics = append(metrics, Metric{
		Name:         "501(c)(3) Status",
		Value:        NumberValue(float64(rec.Subsection)),
		Status:       subStatus,
		Category:     CategoryOrganizationType,
		Ranges:       Range{Outstanding: "501(c)(3)", Acceptable: "501(c)(3)"},
		DisplayValue: subDisplay,
	})

	fndStatus := StatusOutstanding
	fndDisplay := "Public Charity"
	if rec.Foundation != oc.PublicCharityCode {
		fndStatus = StatusUnacceptable
		fndDisplay = fmt.Sprintf("Private Foundation (code %d)", rec.Foundation)
	}
	metrics = append(metrics, Metric{
		Name:         "Public Charity Status",
		Value:        NumberValue(float64(rec.Foundation)),
		Status:       fndStatus,
		Category:     CategoryOrganizationType,
		Ranges:       Range{Outstanding: "Public Charity", Acceptable: "Public Charity"},
		DisplayValue: fndDisplay,
	})

	// Informational only: whether an organization must file tells the summary
	// generator how to read missing financial data, it does not move the score.
	filingDisplay := "Yes"
	if rec.FilingReq != 1 {
		filingDisplay = "No"
	}
	metrics = append(metrics, Metric{
		Name:         "Form 990 Filing Required",
		Value:        BoolValue(rec.FilingReq == 1),
		Status:       StatusAcceptable,
		Category:     CategoryOrganizationType,
		Ranges:       Range{Outstanding: "Yes", Acceptable: "No"},
		DisplayValue: filingDisplay,
	})

	yearsMetric := Metric{
		Name:         "Years Operating",
		Value:        Null,
		Status:       StatusUnknown,
		Category:     CategoryOrganizationType,
		Ranges:       Range{Outstanding: fmt.Sprintf(">=%d years", oc.EstablishedYearsThreshold), Acceptable: "Any"},
		DisplayValue: "Unknown",
	}
	if rec.Ruling != 0 {
		years := now.Year() - rec.Ruling/100
		yearsMetric.Value = NumberValue(float64(years))
		yearsMetric.DisplayValue = fmt.Sprintf("%d years", years)
		if years >= oc.EstablishedYearsThreshold {
			yearsMetric.Status = StatusOutstanding
		} else {
			yearsMetric.Status = StatusAcceptable
		}
	}
	metrics = append(metrics, yearsMetric)

	return metrics
}

func unknownOrgTypeMetric(name, outstanding, acceptable string) Metric {
	return Metric{
		Name:         name,
		Value:        Null,
		Status:       StatusUnknown,
		Category:     CategoryOrganizationType,
		Ranges:       Range{Outstanding: outstanding, Acceptable: acceptable},
		DisplayValue: "Unknown",
	}
}
