package evaluate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charapi/charapi/pkg/config"
)

// fiscalYearPlaceholder marks a manual-data path segment that should be
// substituted with the current fiscal year. The resolver walks back two
// additional years so the most recent non-trivial entry wins.
const fiscalYearPlaceholder = "{current_fiscal_year}"

// ManualStore provides read-only access to the manual override document.
// Lookup returns the raw value at a dot-path for a normalized EIN, or nil if
// any segment is absent.
type ManualStore interface {
	Lookup(dotPath, ein string) any
}

// FieldResolver resolves named data fields to values, dispatching by
// configured source. It never performs I/O: registry payloads are supplied up
// front via the setters, and the manual store is loaded elsewhere.
type FieldResolver struct {
	fields    map[string]config.FieldConfig
	manual    ManualStore
	now       time.Time
	filing    *Filing
	directory *DirectoryRecord
}

// NewFieldResolver creates a resolver over the given field routing.
func NewFieldResolver(fields map[string]config.FieldConfig, manual ManualStore, now time.Time) *FieldResolver {
	return &FieldResolver{fields: fields, manual: manual, now: now}
}

// SetFiling supplies the most recent filings-registry record.
func (r *FieldResolver) SetFiling(f *Filing) { r.filing = f }

// SetDirectoryRecord supplies the classification-registry payload.
func (r *FieldResolver) SetDirectoryRecord(d *DirectoryRecord) { r.directory = d }

// NormalizeEIN strips separator punctuation from an EIN, leaving digits only.
func NormalizeEIN(ein string) string {
	var b strings.Builder
	for _, c := range ein {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Resolve returns the value of a configured field for an EIN, or Null when
// the underlying data is absent. An undeclared field or unknown source is a
// ConfigurationError.
func (r *FieldResolver) Resolve(field, ein string) (Value, error) {
	fc, ok := r.fields[field]
	if !ok {
		return Null, &ConfigurationError{Field: field, Reason: "not declared in data_fields"}
	}

	switch fc.Source {
	case "manual":
		return r.resolveManual(fc, field, ein), nil
	case "propublica":
		return r.resolveFiling(fc, field)
	case "charityapi":
		return r.resolveDirectory(fc, field)
	default:
		return Null, &ConfigurationError{Field: field, Reason: fmt.Sprintf("unknown source %q", fc.Source)}
	}
}

func (r *FieldResolver) resolveManual(fc config.FieldConfig, field, ein string) Value {
	if r.manual == nil {
		return Null
	}

	path := fc.Path
	if path == "" {
		path = field
	}
	id := NormalizeEIN(ein)

	if !strings.Contains(path, fiscalYearPlaceholder) {
		return toValue(r.manual.Lookup(path, id))
	}

	// Most recent non-trivial entry wins: current year first, then the two
	// prior years.
	year := r.now.Year()
	for offset := 0; offset < 3; offset++ {
		p := strings.ReplaceAll(path, fiscalYearPlaceholder, strconv.Itoa(year-offset))
		v := toValue(r.manual.Lookup(p, id))
		if n, ok := v.Number(); ok && n != 0 {
			return v
		}
		if s, ok := v.Str(); ok && s != "" && s != "0" {
			return v
		}
	}
	return Null
}

func (r *FieldResolver) resolveFiling(fc config.FieldConfig, field string) (Value, error) {
	if r.filing == nil {
		return Null, nil
	}
	switch fc.Path {
	case "totrevenue":
		return NumberValue(float64(r.filing.TotalRevenue)), nil
	case "totfuncexpns":
		return NumberValue(float64(r.filing.TotalExpenses)), nil
	case "totassetsend":
		return NumberValue(float64(r.filing.TotalAssets)), nil
	case "totliabend":
		return NumberValue(float64(r.filing.TotalLiabilities)), nil
	case "totprogrevexp":
		return NumberValue(float64(r.filing.ProgramExpenses)), nil
	case "totadminexp":
		return NumberValue(float64(r.filing.AdminExpenses)), nil
	case "totfndrsexp":
		return NumberValue(float64(r.filing.FundraisingExpenses)), nil
	default:
		return Null, &ConfigurationError{Field: field, Reason: fmt.Sprintf("unknown propublica attribute %q", fc.Path)}
	}
}

// resolveDirectory derives compliance and classification fields from the
// directory payload. The derivations are bespoke per attribute rather than
// plain lookups: listing means deductibility 1, an active status means not
// revoked, and a filing is recent when its tax period is at most three years
// old.
func (r *FieldResolver) resolveDirectory(fc config.FieldConfig, field string) (Value, error) {
	if r.directory == nil {
		return Null, nil
	}
	switch fc.Path {
	case "deductibility":
		return BoolValue(r.directory.Deductibility == 1), nil
	case "status":
		return BoolValue(r.directory.Status != 1), nil
	case "tax_period":
		if r.directory.TaxPeriod == 0 {
			return BoolValue(false), nil
		}
		taxYear := r.directory.TaxPeriod / 100
		return BoolValue(r.now.Year()-taxYear <= 3), nil
	case "ntee_cd":
		if r.directory.NTEECode == "" {
			return Null, nil
		}
		return StringValue(r.directory.NTEECode), nil
	case "state":
		if r.directory.State == "" {
			return Null, nil
		}
		return StringValue(r.directory.State), nil
	default:
		return Null, &ConfigurationError{Field: field, Reason: fmt.Sprintf("unknown charityapi attribute %q", fc.Path)}
	}
}

// toValue converts a decoded YAML/JSON scalar into a Value.
func toValue(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null
	case bool:
		return BoolValue(t)
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case float64:
		return NumberValue(t)
	case string:
		return StringValue(t)
	default:
		return Null
	}
}
