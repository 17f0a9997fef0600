package evaluate_test

import (
	"testing"

	"github.com/charapi/charapi/pkg/config"
	"github.com/charapi/charapi/pkg/evaluate"
)

func TestGetValidationDataRated(t *testing.T) {
	fields := config.DefaultConfig().DataFields
	manual := fakeManual{"charity_navigator.rating|530196605": 4}
	r := evaluate.NewFieldResolver(fields, manual, testNow())

	val, err := evaluate.GetValidationData(r, "530196605")
	if err != nil {
		t.Fatalf("GetValidationData() error: %v", err)
	}
	if val.Rating == nil || *val.Rating != 4 {
		t.Fatalf("rating = %v, want 4", val.Rating)
	}
	if val.Score != 20 {
		t.Errorf("score = %f, want 20 (4 stars x 5)", val.Score)
	}
}

func TestGetValidationDataUnrated(t *testing.T) {
	r := evaluate.NewFieldResolver(config.DefaultConfig().DataFields, fakeManual{}, testNow())

	val, err := evaluate.GetValidationData(r, "530196605")
	if err != nil {
		t.Fatalf("GetValidationData() error: %v", err)
	}
	if val.Rating != nil {
		t.Errorf("rating = %v, want nil", val.Rating)
	}
	if val.Score != 0 {
		t.Errorf("score = %f, want 0", val.Score)
	}
}

func TestValidationMetricsList(t *testing.T) {
	tests := []struct {
		name        string
		rating      *int
		wantStatus  evaluate.Status
		wantDisplay string
	}{
		{"unrated", nil, evaluate.StatusUnknown, "Not rated"},
		{"four stars", intPtr(4), evaluate.StatusOutstanding, "4-star"},
		{"three stars", intPtr(3), evaluate.StatusAcceptable, "3-star"},
		{"two stars", intPtr(2), evaluate.StatusUnacceptable, "2-star"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := evaluate.ValidationMetricsList(evaluate.ExternalValidation{Rating: tt.rating})
			if len(metrics) != 1 {
				t.Fatalf("expected 1 metric, got %d", len(metrics))
			}
			if metrics[0].Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", metrics[0].Status, tt.wantStatus)
			}
			if metrics[0].DisplayValue != tt.wantDisplay {
				t.Errorf("display = %q, want %q", metrics[0].DisplayValue, tt.wantDisplay)
			}
		})
	}
}

func intPtr(n int) *int { return &n }
