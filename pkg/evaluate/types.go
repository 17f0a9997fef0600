// Package evaluate implements the charapi charity evaluation engine.
// It classifies registry and manual data into status-bucketed metrics,
// aggregates them into a score, and synthesizes a narrative summary.
package evaluate

import (
	"encoding/json"
	"time"
)

// Status is a strict ordinal quality ranking assigned to each metric.
type Status string

const (
	StatusOutstanding  Status = "OUTSTANDING"
	StatusAcceptable   Status = "ACCEPTABLE"
	StatusUnacceptable Status = "UNACCEPTABLE"
	StatusUnknown      Status = "UNKNOWN"
)

// Category identifies which evaluation domain produced a metric.
type Category string

const (
	CategoryFinancial        Category = "FINANCIAL"
	CategoryCompliance       Category = "COMPLIANCE"
	CategoryOrganizationType Category = "ORGANIZATION_TYPE"
	CategoryValidation       Category = "VALIDATION"
	CategoryPreference       Category = "PREFERENCE"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindString
)

// Value is the tagged union carried by a Metric: a bool, a number, a string,
// or null. Classifiers construct one of the typed variants; consumers ask for
// the variant they expect instead of duck-typing.
type Value struct {
	kind valueKind
	b    bool
	n    float64
	s    string
}

// Null is the absent value.
var Null = Value{}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: kindBool, b: b} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: kindNumber, n: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: kindString, s: s} }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == kindNull }

// Bool returns the boolean variant. ok is false for any other variant.
func (v Value) Bool() (b, ok bool) { return v.b, v.kind == kindBool }

// Number returns the numeric variant. ok is false for any other variant.
func (v Value) Number() (n float64, ok bool) { return v.n, v.kind == kindNumber }

// Str returns the string variant. ok is false for any other variant.
func (v Value) Str() (s string, ok bool) { return v.s, v.kind == kindString }

// MarshalJSON renders the underlying variant directly.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindBool:
		return json.Marshal(v.b)
	case kindNumber:
		return json.Marshal(v.n)
	case kindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON restores a Value from its JSON form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case bool:
		*v = BoolValue(t)
	case float64:
		*v = NumberValue(t)
	case string:
		*v = StringValue(t)
	default:
		*v = Null
	}
	return nil
}

// Range holds the human-readable threshold labels a metric is judged against.
type Range struct {
	Outstanding string `json:"outstanding"`
	Acceptable  string `json:"acceptable"`
}

// Metric is the uniform output unit of every classifier.
// Metrics are pure value objects: created once, never mutated.
type Metric struct {
	Name         string   `json:"name"`
	Value        Value    `json:"value"`
	Status       Status   `json:"status"`
	Category     Category `json:"category"`
	Ranges       Range    `json:"ranges"`
	DisplayValue string   `json:"display_value"`
}

// Filing is one annual filing record from the filings registry.
// Missing amounts are zero.
type Filing struct {
	TaxPeriod           int   `json:"tax_prd"`
	TotalRevenue        int64 `json:"totrevenue"`
	TotalExpenses       int64 `json:"totfuncexpns"`
	TotalAssets         int64 `json:"totassetsend"`
	TotalLiabilities    int64 `json:"totliabend"`
	ProgramExpenses     int64 `json:"totprogrevexp"`
	AdminExpenses       int64 `json:"totadminexp"`
	FundraisingExpenses int64 `json:"totfndrsexp"`
}

// Organization is the filings registry's header record for an EIN.
type Organization struct {
	EIN  string `json:"ein"`
	Name string `json:"name"`
}

// DirectoryRecord is the classification registry's record for an EIN.
// Zero Ruling or TaxPeriod means the field was absent upstream.
type DirectoryRecord struct {
	EIN           string `json:"ein"`
	Name          string `json:"name"`
	Status        int    `json:"status"`
	Deductibility int    `json:"deductibility"`
	TaxPeriod     int    `json:"tax_period"` // YYYYMM
	NTEECode      string `json:"ntee_cd"`
	Subsection    int    `json:"subsection"`
	Foundation    int    `json:"foundation"`
	FilingReq     int    `json:"filing_req_cd"`
	Ruling        int    `json:"ruling"` // YYYYMM
	State         string `json:"state"`
}

// FinancialMetrics holds one organization's financials from its most recent
// filing. Ratios are percentages derived from the amounts; use
// NewFinancialMetrics so they stay consistent.
type FinancialMetrics struct {
	ProgramExpenseRatio     float64 `json:"program_expense_ratio"`
	AdminExpenseRatio       float64 `json:"admin_expense_ratio"`
	FundraisingExpenseRatio float64 `json:"fundraising_expense_ratio"`
	NetAssets               int64   `json:"net_assets"`
	TotalRevenue            int64   `json:"total_revenue"`
	TotalExpenses           int64   `json:"total_expenses"`
	ProgramExpenses         int64   `json:"program_expenses"`
	AdminExpenses           int64   `json:"admin_expenses"`
	FundraisingExpenses     int64   `json:"fundraising_expenses"`
	TotalAssets             int64   `json:"total_assets"`
	TotalLiabilities        int64   `json:"total_liabilities"`
}

// NewFinancialMetrics derives ratios and net assets from raw amounts.
// When total expenses are zero or negative all three ratios are exactly 0;
// that encodes "undefined", not "good" or "bad".
func NewFinancialMetrics(totalRevenue, totalExpenses, program, admin, fundraising, totalAssets, totalLiabilities int64) FinancialMetrics {
	m := FinancialMetrics{
		TotalRevenue:        totalRevenue,
		TotalExpenses:       totalExpenses,
		ProgramExpenses:     program,
		AdminExpenses:       admin,
		FundraisingExpenses: fundraising,
		TotalAssets:         totalAssets,
		TotalLiabilities:    totalLiabilities,
		NetAssets:           totalAssets - totalLiabilities,
	}
	if totalExpenses > 0 {
		m.ProgramExpenseRatio = float64(program) / float64(totalExpenses) * 100
		m.AdminExpenseRatio = float64(admin) / float64(totalExpenses) * 100
		m.FundraisingExpenseRatio = float64(fundraising) / float64(totalExpenses) * 100
	}
	return m
}

// ComplianceCheck is the boolean compliance record for an organization.
// IsCompliant is true exactly when Issues is empty.
type ComplianceCheck struct {
	IsCompliant     bool     `json:"is_compliant"`
	Issues          []string `json:"issues"`
	InPub78         bool     `json:"in_pub78"`
	IsRevoked       bool     `json:"is_revoked"`
	HasRecentFiling bool     `json:"has_recent_filing"`
}

// OrganizationType is the classification scoring record.
// Nil code fields mean the classification registry had no data.
type OrganizationType struct {
	Score             float64  `json:"score"`
	Issues            []string `json:"issues"`
	Subsection        *int     `json:"subsection"`
	FoundationType    *int     `json:"foundation_type"`
	FilingRequirement *int     `json:"filing_requirement"`
	YearsOperating    *int     `json:"years_operating"`
}

// ExternalValidation carries the third-party star rating, if any.
type ExternalValidation struct {
	Rating *int    `json:"charity_navigator_rating"`
	Score  float64 `json:"charity_navigator_score"`
}

// EvaluationResult is the root aggregate produced by one evaluation.
// It is constructed once; the summary is attached as the final step and the
// result is never mutated afterward.
type EvaluationResult struct {
	EIN               string             `json:"ein"`
	OrganizationName  string             `json:"organization_name"`
	Score             float64            `json:"score"`
	Grade             string             `json:"grade,omitempty"`
	Metrics           []Metric           `json:"metrics"`
	Financial         FinancialMetrics   `json:"financial_metrics"`
	Compliance        ComplianceCheck    `json:"compliance_check"`
	OrganizationType  OrganizationType   `json:"organization_type"`
	Validation        ExternalValidation `json:"external_validation"`
	OutstandingCount  int                `json:"outstanding_count"`
	AcceptableCount   int                `json:"acceptable_count"`
	UnacceptableCount int                `json:"unacceptable_count"`
	UnknownCount      int                `json:"unknown_count"`
	TotalMetrics      int                `json:"total_metrics"`
	Summary           string             `json:"summary"`
	EvaluatedAt       time.Time          `json:"evaluated_at"`
	DataSources       []string           `json:"data_sources_used"`
}

// ConfigurationError reports a field or scoring misconfiguration.
// It is fatal: classifiers never swallow it.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return "configuration error: field " + e.Field + ": " + e.Reason
	}
	return "configuration error: " + e.Reason
}
