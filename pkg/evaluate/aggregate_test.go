package evaluate_test

import (
	"testing"

	"github.com/charapi/charapi/pkg/evaluate"
)

func statusMetrics(statuses ...evaluate.Status) []evaluate.Metric {
	metrics := make([]evaluate.Metric, len(statuses))
	for i, s := range statuses {
		metrics[i] = evaluate.Metric{Name: "m", Status: s, Category: evaluate.CategoryFinancial}
	}
	return metrics
}

func TestCountStatuses(t *testing.T) {
	metrics := statusMetrics(
		evaluate.StatusOutstanding,
		evaluate.StatusOutstanding,
		evaluate.StatusAcceptable,
		evaluate.StatusUnacceptable,
		evaluate.StatusUnknown,
	)

	c := evaluate.CountStatuses(metrics)
	if c.Outstanding != 2 || c.Acceptable != 1 || c.Unacceptable != 1 || c.Unknown != 1 {
		t.Errorf("counts = %+v, want 2/1/1/1", c)
	}
	if c.Total != 5 {
		t.Errorf("total = %d, want 5", c.Total)
	}
}

func TestPercentageScore(t *testing.T) {
	tests := []struct {
		name     string
		statuses []evaluate.Status
		want     float64
	}{
		{"no metrics", nil, 0},
		{"all outstanding", statuses(evaluate.StatusOutstanding, 4), 100},
		{"all acceptable", statuses(evaluate.StatusAcceptable, 4), 50},
		{"all unacceptable", statuses(evaluate.StatusUnacceptable, 4), 0},
		{"all unknown", statuses(evaluate.StatusUnknown, 4), 0},
		{
			"one outstanding one acceptable",
			[]evaluate.Status{evaluate.StatusOutstanding, evaluate.StatusAcceptable},
			75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := evaluate.CountStatuses(statusMetrics(tt.statuses...))
			if got := evaluate.PercentageScore(counts); got != tt.want {
				t.Errorf("score = %f, want %f", got, tt.want)
			}
		})
	}
}

func statuses(s evaluate.Status, n int) []evaluate.Status {
	out := make([]evaluate.Status, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestWeightedScore(t *testing.T) {
	got := evaluate.WeightedScore(66.67, 20, -50, -25)
	if got != 11.67 {
		t.Errorf("score = %f, want 11.67", got)
	}
}

func TestAssignGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{90, "A"},
		{89.99, "B"},
		{75, "B"},
		{74.99, "C"},
		{60, "C"},
		{59.99, "D"},
		{45, "D"},
		{44.99, "F"},
		{150, "A"},
		{-50, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := evaluate.AssignGrade(tt.score); got != tt.want {
			t.Errorf("AssignGrade(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
