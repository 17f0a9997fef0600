package evaluate

import (
	"fmt"
	"strconv"

	"github.com/charapi/charapi/pkg/config"
)

// ExtractFinancialMetrics builds the financial record from the most recent
// filing, with expense breakdowns overridden by manual data where present.
// A nil filing yields an all-zero record.
func ExtractFinancialMetrics(filing *Filing, r *FieldResolver, ein string) (FinancialMetrics, error) {
	var f Filing
	if filing != nil {
		f = *filing
	}

	program, err := overrideAmount(r, "program_expenses", ein, f.ProgramExpenses)
	if err != nil {
		return FinancialMetrics{}, err
	}
	admin, err := overrideAmount(r, "admin_expenses", ein, f.AdminExpenses)
	if err != nil {
		return FinancialMetrics{}, err
	}
	fundraising, err := overrideAmount(r, "fundraising_expenses", ein, f.FundraisingExpenses)
	if err != nil {
		return FinancialMetrics{}, err
	}

	return NewFinancialMetrics(
		f.TotalRevenue, f.TotalExpenses,
		program, admin, fundraising,
		f.TotalAssets, f.TotalLiabilities,
	), nil
}

func overrideAmount(r *FieldResolver, field, ein string, fallback int64) (int64, error) {
	v, err := r.Resolve(field, ein)
	if err != nil {
		return 0, err
	}
	if n, ok := v.Number(); ok {
		return int64(n), nil
	}
	return fallback, nil
}

// SectorBenchmarks resolves the financial thresholds for an organization's
// NTEE sector. An unmapped letter or empty code yields the defaults.
func SectorBenchmarks(fc config.FinancialConfig, nteeCode string) config.Benchmarks {
	b := fc.Benchmarks
	letter := sectorLetter(nteeCode)
	if letter == "" {
		return b
	}
	ov, ok := fc.SectorOverrides[letter]
	if !ok {
		return b
	}
	if ov.ProgramOutstanding != nil {
		b.ProgramOutstanding = *ov.ProgramOutstanding
	}
	if ov.ProgramAcceptable != nil {
		b.ProgramAcceptable = *ov.ProgramAcceptable
	}
	if ov.AdminOutstanding != nil {
		b.AdminOutstanding = *ov.AdminOutstanding
	}
	if ov.AdminAcceptable != nil {
		b.AdminAcceptable = *ov.AdminAcceptable
	}
	if ov.FundraisingOutstanding != nil {
		b.FundraisingOutstanding = *ov.FundraisingOutstanding
	}
	if ov.FundraisingAcceptable != nil {
		b.FundraisingAcceptable = *ov.FundraisingAcceptable
	}
	return b
}

// FinancialMetricsList classifies the four financial metrics against sector
// benchmarks. filingExempt marks organizations not required to file a
// detailed return, whose zero ratios are acceptable rather than unknown.
func FinancialMetricsList(m FinancialMetrics, b config.Benchmarks, filingExempt bool) []Metric {
	metrics := []Metric{
		programMetric(m.ProgramExpenseRatio, b, filingExempt),
		spendingLimitMetric("Admin Expense Ratio", m.AdminExpenseRatio, b.AdminOutstanding, b.AdminAcceptable, filingExempt),
		spendingLimitMetric("Fundraising Expense Ratio", m.FundraisingExpenseRatio, b.FundraisingOutstanding, b.FundraisingAcceptable, filingExempt),
		netAssetsMetric(m.NetAssets),
	}
	return metrics
}

func programMetric(ratio float64, b config.Benchmarks, filingExempt bool) Metric {
	var status Status
	switch {
	case ratio >= b.ProgramOutstanding:
		status = StatusOutstanding
	case ratio >= b.ProgramAcceptable:
		status = StatusAcceptable
	case ratio == 0 && filingExempt:
		status = StatusAcceptable
	case ratio > 0:
		status = StatusUnacceptable
	default:
		status = StatusUnknown
	}

	display := formatPercent(ratio)
	if status == StatusUnknown {
		display = "Unknown"
	}

	return Metric{
		Name:     "Program Expense Ratio",
		Value:    NumberValue(ratio),
		Status:   status,
		Category: CategoryFinancial,
		Ranges: Range{
			Outstanding: ">=" + formatPercent(b.ProgramOutstanding),
			Acceptable:  ">=" + formatPercent(b.ProgramAcceptable),
		},
		DisplayValue: display,
	}
}

// spendingLimitMetric classifies a cost ratio where lower is better.
func spendingLimitMetric(name string, ratio, outstandingLimit, acceptableLimit float64, filingExempt bool) Metric {
	var status Status
	switch {
	case ratio == 0 && filingExempt:
		status = StatusAcceptable
	case ratio == 0:
		status = StatusUnknown
	case ratio <= outstandingLimit:
		status = StatusOutstanding
	case ratio <= acceptableLimit:
		status = StatusAcceptable
	default:
		status = StatusUnacceptable
	}

	display := formatPercent(ratio)
	if status == StatusUnknown {
		display = "Unknown"
	}

	return Metric{
		Name:     name,
		Value:    NumberValue(ratio),
		Status:   status,
		Category: CategoryFinancial,
		Ranges: Range{
			Outstanding: "<=" + formatPercent(outstandingLimit),
			Acceptable:  "<=" + formatPercent(acceptableLimit),
		},
		DisplayValue: display,
	}
}

func netAssetsMetric(netAssets int64) Metric {
	var status Status
	switch {
	case netAssets > 0:
		status = StatusAcceptable
	case netAssets < 0:
		status = StatusUnacceptable
	default:
		status = StatusUnknown
	}

	display := formatDollars(netAssets)
	if status == StatusUnknown {
		display = "Unknown"
	}

	return Metric{
		Name:     "Net Assets",
		Value:    NumberValue(float64(netAssets)),
		Status:   status,
		Category: CategoryFinancial,
		Ranges: Range{
			Outstanding: ">$0",
			Acceptable:  ">$0",
		},
		DisplayValue: display,
	}
}

// LegacyFinancialScore computes the weighted financial sub-score retained for
// the weighted scoring mode. A zero target or limit denominator is a
// configuration error, not a crash.
func LegacyFinancialScore(m FinancialMetrics, w config.FinancialWeights) (float64, error) {
	if w.ProgramTarget <= 0 {
		return 0, &ConfigurationError{Reason: "financial weights: program_target must be > 0"}
	}
	if w.AdminLimit <= 0 {
		return 0, &ConfigurationError{Reason: "financial weights: admin_limit must be > 0"}
	}
	if w.FundraisingLimit <= 0 {
		return 0, &ConfigurationError{Reason: "financial weights: fundraising_limit must be > 0"}
	}

	program := w.ProgramMax * m.ProgramExpenseRatio / w.ProgramTarget
	if program > w.ProgramMax {
		program = w.ProgramMax
	}

	admin := w.AdminMax * (w.AdminLimit - m.AdminExpenseRatio) / w.AdminLimit
	if admin < 0 {
		admin = 0
	}

	fundraising := w.FundraisingMax * (w.FundraisingLimit - m.FundraisingExpenseRatio) / w.FundraisingLimit
	if fundraising < 0 {
		fundraising = 0
	}

	stability := 0.0
	if m.NetAssets > 0 {
		stability = w.StabilityMax
	}

	return program + admin + fundraising + stability, nil
}

// formatPercent renders a ratio to one decimal place with a percent sign.
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio)
}

// formatDollars renders a dollar amount with thousands separators and sign.
func formatDollars(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := groups[0]
	for _, g := range groups[1:] {
		out += "," + g
	}
	return sign + "$" + out
}
