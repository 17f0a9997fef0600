package evaluate

import (
	"context"
	"fmt"
	"time"

	"github.com/charapi/charapi/pkg/config"
)

// FilingsClient fetches organization and filing history data from the
// filings registry (ProPublica). A nil record with a nil error means the
// registry had no data; the evaluator treats fetch failures the same way.
type FilingsClient interface {
	GetOrganization(ctx context.Context, ein string) (*Organization, error)
	GetAllFilings(ctx context.Context, ein string) ([]Filing, error)
}

// DirectoryClient fetches the classification record from the compliance
// registry (CharityAPI).
type DirectoryClient interface {
	GetOrganization(ctx context.Context, ein string) (*DirectoryRecord, error)
}

// Evaluator composes the classifiers with the external collaborators into
// one end-to-end evaluation call.
type Evaluator struct {
	cfg       *config.Config
	filings   FilingsClient
	directory DirectoryClient
	manual    ManualStore

	// Now is the evaluation clock, injectable for tests.
	Now func() time.Time
}

// NewEvaluator creates an evaluator over the given collaborators.
func NewEvaluator(cfg *config.Config, filings FilingsClient, directory DirectoryClient, manual ManualStore) *Evaluator {
	return &Evaluator{
		cfg:       cfg,
		filings:   filings,
		directory: directory,
		manual:    manual,
		Now:       time.Now,
	}
}

// Evaluate runs the full evaluation pipeline for one EIN. Missing upstream
// data degrades individual metrics to UNKNOWN; only configuration problems
// abort the evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, ein string) (*EvaluationResult, error) {
	ein = NormalizeEIN(ein)
	if ein == "" {
		return nil, fmt.Errorf("invalid EIN: no digits")
	}
	now := e.Now()

	// Fetch failures and genuine absence look identical from here on: both
	// are a nil payload.
	org, err := e.filings.GetOrganization(ctx, ein)
	if err != nil {
		org = nil
	}
	filings, err := e.filings.GetAllFilings(ctx, ein)
	if err != nil {
		filings = nil
	}
	rec, err := e.directory.GetOrganization(ctx, ein)
	if err != nil {
		rec = nil
	}

	resolver := NewFieldResolver(e.cfg.DataFields, e.manual, now)
	resolver.SetDirectoryRecord(rec)

	var latest *Filing
	if len(filings) > 0 {
		latest = &filings[0]
	}
	resolver.SetFiling(latest)

	financial, err := ExtractFinancialMetrics(latest, resolver, ein)
	if err != nil {
		return nil, err
	}

	compliance, err := CheckCompliance(resolver, ein)
	if err != nil {
		return nil, err
	}

	orgType := AnalyzeOrganizationType(rec, e.cfg.Scoring.OrganizationType, now)

	validation, err := GetValidationData(resolver, ein)
	if err != nil {
		return nil, err
	}

	nteeCode := ""
	filingExempt := false
	if rec != nil {
		nteeCode = rec.NTEECode
		filingExempt = rec.FilingReq != 1
	}
	benchmarks := SectorBenchmarks(e.cfg.Scoring.Financial, nteeCode)

	var metrics []Metric
	metrics = append(metrics, FinancialMetricsList(financial, benchmarks, filingExempt)...)
	metrics = append(metrics, ComplianceMetricsList(compliance, e.cfg.Scoring.Compliance)...)
	metrics = append(metrics, OrganizationTypeMetricsList(rec, e.cfg.Scoring.OrganizationType, now)...)
	metrics = append(metrics, ValidationMetricsList(validation)...)
	metrics = append(metrics, PreferenceMetricsList(rec, financial.TotalRevenue, e.cfg.Preferences)...)

	counts := CountStatuses(metrics)

	var score float64
	var grade string
	if ScoringMode(e.cfg.Scoring.Mode) == ScoringModeWeighted {
		financialScore, err := LegacyFinancialScore(financial, e.cfg.Scoring.Financial.Weights)
		if err != nil {
			return nil, err
		}
		compliancePenalty := 0.0
		if !compliance.IsCompliant {
			compliancePenalty = -e.cfg.Scoring.Compliance.NonCompliantPenalty
		}
		score = WeightedScore(financialScore, validation.Score, compliancePenalty, orgType.Score)
		grade = AssignGrade(score)
	} else {
		score = PercentageScore(counts)
	}

	name := "Unknown"
	if org != nil && org.Name != "" {
		name = org.Name
	} else if rec != nil && rec.Name != "" {
		name = rec.Name
	}

	result := &EvaluationResult{
		EIN:               ein,
		OrganizationName:  name,
		Score:             score,
		Grade:             grade,
		Metrics:           metrics,
		Financial:         financial,
		Compliance:        compliance,
		OrganizationType:  orgType,
		Validation:        validation,
		OutstandingCount:  counts.Outstanding,
		AcceptableCount:   counts.Acceptable,
		UnacceptableCount: counts.Unacceptable,
		UnknownCount:      counts.Unknown,
		TotalMetrics:      counts.Total,
		EvaluatedAt:       now,
		DataSources:       []string{"ProPublica", "CharityAPI", "Charity Navigator"},
	}

	// Attaching the summary is the final step; the result is read-only after.
	result.Summary = GenerateSummary(result)

	return result, nil
}

// EvaluateBatch evaluates identifiers sequentially.
func (e *Evaluator) EvaluateBatch(ctx context.Context, eins []string) ([]*EvaluationResult, error) {
	results := make([]*EvaluationResult, 0, len(eins))
	for _, ein := range eins {
		r, err := e.Evaluate(ctx, ein)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
