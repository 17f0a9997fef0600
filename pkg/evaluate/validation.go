package evaluate

import "fmt"

// ratingBonusMultiplier converts a Charity Navigator star rating into the
// legacy validation bonus.
const ratingBonusMultiplier = 5.0

// GetValidationData resolves the external star rating. A null rating yields
// a zero bonus, not an error.
func GetValidationData(r *FieldResolver, ein string) (ExternalValidation, error) {
	v, err := r.Resolve("charity_navigator_rating", ein)
	if err != nil {
		return ExternalValidation{}, err
	}

	n, ok := v.Number()
	if !ok {
		return ExternalValidation{}, nil
	}

	rating := int(n)
	return ExternalValidation{
		Rating: &rating,
		Score:  float64(rating) * ratingBonusMultiplier,
	}, nil
}

// ValidationMetricsList renders the star rating as a metric. Unrated
// organizations are UNKNOWN, not penalized.
func ValidationMetricsList(val ExternalValidation) []Metric {
	m := Metric{
		Name:         "Charity Navigator Rating",
		Value:        Null,
		Status:       StatusUnknown,
		Category:     CategoryValidation,
		Ranges:       Range{Outstanding: ">=4 stars", Acceptable: ">=3 stars"},
		DisplayValue: "Not rated",
	}

	if val.Rating != nil {
		rating := *val.Rating
		m.Value = NumberValue(float64(rating))
		m.DisplayValue = fmt.Sprintf("%d-star", rating)
		switch {
		case rating >= 4:
			m.Status = StatusOutstanding
		case rating >= 3:
			m.Status = StatusAcceptable
		default:
			m.Status = StatusUnacceptable
		}
	}

	return []Metric{m}
}
