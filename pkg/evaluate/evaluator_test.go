package evaluate_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/charapi/charapi/pkg/config"
	"github.com/charapi/charapi/pkg/evaluate"
)

type fakeFilings struct {
	org     *evaluate.Organization
	filings []evaluate.Filing
	err     error
}

func (f *fakeFilings) GetOrganization(ctx context.Context, ein string) (*evaluate.Organization, error) {
	return f.org, f.err
}

func (f *fakeFilings) GetAllFilings(ctx context.Context, ein string) ([]evaluate.Filing, error) {
	return f.filings, f.err
}

type fakeDirectory struct {
	rec *evaluate.DirectoryRecord
	err error
}

func (f *fakeDirectory) GetOrganization(ctx context.Context, ein string) (*evaluate.DirectoryRecord, error) {
	return f.rec, f.err
}

func healthyFixture() (*fakeFilings, *fakeDirectory, fakeManual) {
	filings := &fakeFilings{
		org: &evaluate.Organization{EIN: "530196605", Name: "Helping Hands"},
		filings: []evaluate.Filing{
			{
				TaxPeriod:        202412,
				TotalRevenue:     1_000_000,
				TotalExpenses:    1_000_000,
				TotalAssets:      500_000,
				TotalLiabilities: 200_000,
			},
			{TaxPeriod: 202312, TotalRevenue: 900_000},
		},
	}
	directory := &fakeDirectory{
		rec: &evaluate.DirectoryRecord{
			EIN:           "530196605",
			Name:          "HELPING HANDS",
			Status:        1,
			Deductibility: 1,
			TaxPeriod:     202412,
			NTEECode:      "P30",
			Subsection:    3,
			Foundation:    15,
			FilingReq:     1,
			Ruling:        199001,
			State:         "VT",
		},
	}
	manual := fakeManual{
		"financials.2026.program_expenses|530196605":     750_000,
		"financials.2026.admin_expenses|530196605":       150_000,
		"financials.2026.fundraising_expenses|530196605": 100_000,
		"charity_navigator.rating|530196605":             4,
	}
	return filings, directory, manual
}

func newTestEvaluator(cfg *config.Config) *evaluate.Evaluator {
	filings, directory, manual := healthyFixture()
	ev := evaluate.NewEvaluator(cfg, filings, directory, manual)
	ev.Now = testNow
	return ev
}

func TestEvaluateHealthyOrganization(t *testing.T) {
	ev := newTestEvaluator(config.DefaultConfig())

	result, err := ev.Evaluate(context.Background(), "53-0196605")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	if result.OrganizationName != "Helping Hands" {
		t.Errorf("name = %q, want Helping Hands", result.OrganizationName)
	}
	if result.TotalMetrics != 12 {
		t.Fatalf("total metrics = %d, want 12", result.TotalMetrics)
	}
	if result.OutstandingCount != 8 || result.AcceptableCount != 4 {
		t.Errorf("counts = %d outstanding / %d acceptable, want 8/4",
			result.OutstandingCount, result.AcceptableCount)
	}
	if result.UnacceptableCount != 0 || result.UnknownCount != 0 {
		t.Errorf("unexpected unacceptable=%d unknown=%d", result.UnacceptableCount, result.UnknownCount)
	}

	// 8 outstanding x 10 + 4 acceptable x 5 over 120 possible.
	want := 100.0 / 120.0 * 100.0
	if diff := result.Score - want; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("score = %f, want %f", result.Score, want)
	}
	if result.Grade != "" {
		t.Errorf("percentage mode should not assign a grade, got %q", result.Grade)
	}

	program := findByName(t, result.Metrics, "Program Expense Ratio")
	if program.Status != evaluate.StatusAcceptable || program.DisplayValue != "75.0%" {
		t.Errorf("program metric = %s/%q, want ACCEPTABLE/75.0%%", program.Status, program.DisplayValue)
	}
	fundraising := findByName(t, result.Metrics, "Fundraising Expense Ratio")
	if fundraising.Status != evaluate.StatusOutstanding {
		t.Errorf("fundraising metric = %s, want OUTSTANDING", fundraising.Status)
	}

	if !result.Compliance.IsCompliant {
		t.Errorf("expected compliant, got issues %v", result.Compliance.Issues)
	}
	if result.Summary == "" {
		t.Error("expected a non-empty summary")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	ev := newTestEvaluator(config.DefaultConfig())

	first, err := ev.Evaluate(context.Background(), "530196605")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	second, err := ev.Evaluate(context.Background(), "530196605")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("same inputs should produce identical results")
	}
}

func TestEvaluateWeightedMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.Mode = "weighted"
	ev := newTestEvaluator(cfg)

	result, err := ev.Evaluate(context.Background(), "530196605")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}

	// financial 40 + 0 + 20*(15-10)/15 + 20, validation 20, no compliance
	// penalty, org type bonus 5.
	want := 40.0 + 20.0*5.0/15.0 + 20.0 + 20.0 + 5.0
	if diff := result.Score - want; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("score = %f, want %f", result.Score, want)
	}
	if result.Grade != "A" {
		t.Errorf("grade = %q, want A", result.Grade)
	}
}

func TestEvaluateDegradesOnFetchErrors(t *testing.T) {
	ev := evaluate.NewEvaluator(
		config.DefaultConfig(),
		&fakeFilings{err: errors.New("propublica unreachable")},
		&fakeDirectory{err: errors.New("charityapi unreachable")},
		fakeManual{},
	)
	ev.Now = testNow

	result, err := ev.Evaluate(context.Background(), "530196605")
	if err != nil {
		t.Fatalf("fetch failures must not fail the evaluation: %v", err)
	}

	if result.OrganizationName != "Unknown" {
		t.Errorf("name = %q, want Unknown", result.OrganizationName)
	}
	// Nothing resolvable: financials unknown, compliance failing safe.
	if result.Compliance.IsCompliant {
		t.Error("expected non-compliant when registries are unreachable")
	}
	if result.UnknownCount == 0 {
		t.Error("expected unknown metrics when registries are unreachable")
	}
	if result.Summary == "" {
		t.Error("expected a summary even with no data")
	}
}

func TestEvaluateConfigurationErrorIsFatal(t *testing.T) {
	cfg := config.DefaultConfig()
	delete(cfg.DataFields, "program_expenses")
	ev := newTestEvaluator(cfg)

	_, err := ev.Evaluate(context.Background(), "530196605")
	var cerr *evaluate.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigurationError for an undeclared field, got %v", err)
	}
}

func TestEvaluateFallsBackToDirectoryName(t *testing.T) {
	_, directory, manual := healthyFixture()
	ev := evaluate.NewEvaluator(config.DefaultConfig(), &fakeFilings{}, directory, manual)
	ev.Now = testNow

	result, err := ev.Evaluate(context.Background(), "530196605")
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if result.OrganizationName != "HELPING HANDS" {
		t.Errorf("name = %q, want the directory fallback HELPING HANDS", result.OrganizationName)
	}
}

func TestEvaluateBatch(t *testing.T) {
	ev := newTestEvaluator(config.DefaultConfig())

	results, err := ev.EvaluateBatch(context.Background(), []string{"530196605", "131624147"})
	if err != nil {
		t.Fatalf("EvaluateBatch() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].EIN != "530196605" || results[1].EIN != "131624147" {
		t.Errorf("result EINs = %q, %q", results[0].EIN, results[1].EIN)
	}
}

func findByName(t *testing.T, metrics []evaluate.Metric, name string) evaluate.Metric {
	t.Helper()
	for _, m := range metrics {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("metric %q not found", name)
	return evaluate.Metric{}
}
