package evaluate

import "github.com/charapi/charapi/pkg/config"

// Compliance issue wording is fixed; the summary generator depends on the
// order and text being stable.
const (
	issueNotInPub78     = "Not in IRS Publication 78"
	issueRevoked        = "Tax-exempt status revoked"
	issueNoRecentFiling = "No recent Form 990 filing"
)

// CheckCompliance evaluates the three compliance conditions for an EIN.
// Missing data counts against the organization: absence of proof of
// compliance is non-compliance, not unknown.
func CheckCompliance(r *FieldResolver, ein string) (ComplianceCheck, error) {
	inPub78, err := resolveBool(r, "in_pub78", ein)
	if err != nil {
		return ComplianceCheck{}, err
	}
	isRevoked, err := resolveBool(r, "is_revoked", ein)
	if err != nil {
		return ComplianceCheck{}, err
	}
	hasRecentFiling, err := resolveBool(r, "has_recent_filing", ein)
	if err != nil {
		return ComplianceCheck{}, err
	}

	var issues []string
	if !inPub78 {
		issues = append(issues, issueNotInPub78)
	}
	if isRevoked {
		issues = append(issues, issueRevoked)
	}
	if !hasRecentFiling {
		issues = append(issues, issueNoRecentFiling)
	}

	return ComplianceCheck{
		IsCompliant:     len(issues) == 0,
		Issues:          issues,
		InPub78:         inPub78,
		IsRevoked:       isRevoked,
		HasRecentFiling: hasRecentFiling,
	}, nil
}

// resolveBool resolves a field and defaults null to false.
func resolveBool(r *FieldResolver, field, ein string) (bool, error) {
	v, err := r.Resolve(field, ein)
	if err != nil {
		return false, err
	}
	b, _ := v.Bool()
	return b, nil
}

// ComplianceMetricsList re-expresses the three compliance conditions as
// status-bucketed metrics. A passing condition is OUTSTANDING; a failing one
// is UNACCEPTABLE unless its rule marks absence as acceptable.
func ComplianceMetricsList(check ComplianceCheck, cc config.ComplianceConfig) []Metric {
	return []Metric{
		complianceMetric("IRS Publication 78 Listing", check.InPub78, "Listed", "Not listed", cc.Pub78),
		complianceMetric("Tax-Exempt Status", !check.IsRevoked, "Active", "Revoked", cc.Revocation),
		complianceMetric("Recent Form 990 Filing", check.HasRecentFiling, "Yes", "No", cc.RecentFiling),
	}
}

func complianceMetric(name string, passed bool, passLabel, failLabel string, rule config.ComplianceRule) Metric {
	status := StatusOutstanding
	display := passLabel
	if !passed {
		display = failLabel
		if rule.AcceptableIfAbsent {
			status = StatusAcceptable
		} else {
			status = StatusUnacceptable
		}
	}

	return Metric{
		Name:     name,
		Value:    BoolValue(passed),
		Status:   status,
		Category: CategoryCompliance,
		Ranges: Range{
			Outstanding: passLabel,
			Acceptable:  passLabel,
		},
		DisplayValue: display,
	}
}
