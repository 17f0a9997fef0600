package evaluate

// ScoringMode selects how the overall score is computed.
type ScoringMode string

const (
	// ScoringModePercentage buckets metric statuses into a 0-100 percentage.
	ScoringModePercentage ScoringMode = "percentage"
	// ScoringModeWeighted is the legacy weighted-sum design with letter grades.
	ScoringModeWeighted ScoringMode = "weighted"
)

// StatusCounts tallies metrics per status bucket.
type StatusCounts struct {
	Outstanding  int
	Acceptable   int
	Unacceptable int
	Unknown      int
	Total        int
}

// CountStatuses tallies the status of every metric in the list.
func CountStatuses(metrics []Metric) StatusCounts {
	c := StatusCounts{Total: len(metrics)}
	for _, m := range metrics {
		switch m.Status {
		case StatusOutstanding:
			c.Outstanding++
		case StatusAcceptable:
			c.Acceptable++
		case StatusUnacceptable:
			c.Unacceptable++
		default:
			c.Unknown++
		}
	}
	return c
}

// PercentageScore converts status counts into a 0-100 score: outstanding
// metrics earn 10 points, acceptable 5, everything else 0, normalized by the
// 10-point maximum. An empty metric list scores 0.
func PercentageScore(counts StatusCounts) float64 {
	if counts.Total == 0 {
		return 0
	}
	points := float64(counts.Outstanding*10 + counts.Acceptable*5)
	return points / float64(counts.Total*10) * 100
}

// WeightedScore is the legacy aggregate: financial sub-score plus validation
// bonus, compliance penalty, and organization type score.
func WeightedScore(financial, validationBonus, compliancePenalty, orgType float64) float64 {
	return financial + validationBonus + compliancePenalty + orgType
}

// AssignGrade maps a score to a letter grade. Scores are not clamped: values
// over 100 are still an A, negatives still an F.
func AssignGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}
