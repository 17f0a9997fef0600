package evaluate

import (
	"fmt"

	"github.com/charapi/charapi/pkg/config"
)

// PreferenceMetricsList evaluates the donor preference checks. Each check is
// independently toggleable; disabled checks are omitted entirely rather than
// reported as UNKNOWN.
func PreferenceMetricsList(rec *DirectoryRecord, totalRevenue int64, pc config.PreferencesConfig) []Metric {
	var metrics []Metric

	if m := missionAlignmentMetric(rec, pc.MissionAlignment); m != nil {
		metrics = append(metrics, *m)
	}
	if m := geographicAlignmentMetric(rec, pc.GeographicAlignment); m != nil {
		metrics = append(metrics, *m)
	}
	if m := organizationSizeMetric(totalRevenue, pc.OrganizationSize); m != nil {
		metrics = append(metrics, *m)
	}

	return metrics
}

func missionAlignmentMetric(rec *DirectoryRecord, mc config.MissionConfig) *Metric {
	if !mc.Enabled {
		return nil
	}

	ranges := Range{Outstanding: "High", Acceptable: "Med"}

	if rec == nil {
		return &Metric{
			Name:         "Mission Alignment",
			Value:        Null,
			Status:       StatusUnknown,
			Category:     CategoryPreference,
			Ranges:       ranges,
			DisplayValue: "Unknown",
		}
	}
	if rec.NTEECode == "" {
		return &Metric{
			Name:         "Mission Alignment",
			Value:        Null,
			Status:       StatusUnknown,
			Category:     CategoryPreference,
			Ranges:       ranges,
			DisplayValue: "No NTEE code",
		}
	}

	priority := mc.Priorities[sectorLetter(rec.NTEECode)]
	var status Status
	var label string
	switch priority {
	case "high":
		status = StatusOutstanding
		label = "High"
	case "medium":
		status = StatusAcceptable
		label = "Med"
	default:
		status = StatusUnacceptable
		label = "Low"
	}

	return &Metric{
		Name:         "Mission Alignment",
		Value:        StringValue(rec.NTEECode),
		Status:       status,
		Category:     CategoryPreference,
		Ranges:       ranges,
		DisplayValue: fmt.Sprintf("%s (%s)", SectorName(rec.NTEECode), label),
	}
}

func geographicAlignmentMetric(rec *DirectoryRecord, gc config.GeoConfig) *Metric {
	if !gc.Enabled {
		return nil
	}

	ranges := Range{Outstanding: "Pref", Acceptable: "Accept"}

	if rec == nil {
		return &Metric{
			Name:         "Geographic Alignment",
			Value:        Null,
			Status:       StatusUnknown,
			Category:     CategoryPreference,
			Ranges:       ranges,
			DisplayValue: "Unknown",
		}
	}
	if rec.State == "" {
		return &Metric{
			Name:         "Geographic Alignment",
			Value:        Null,
			Status:       StatusUnknown,
			Category:     CategoryPreference,
			Ranges:       ranges,
			DisplayValue: "No state data",
		}
	}

	var status Status
	var label string
	switch {
	case containsString(gc.PreferredStates, rec.State):
		status = StatusOutstanding
		label = "Pref"
	case containsString(gc.AcceptableStates, rec.State):
		status = StatusAcceptable
		label = "Accept"
	default:
		status = StatusUnacceptable
		label = "Low"
	}

	return &Metric{
		Name:         "Geographic Alignment",
		Value:        StringValue(rec.State),
		Status:       status,
		Category:     CategoryPreference,
		Ranges:       ranges,
		DisplayValue: fmt.Sprintf("%s (%s)", rec.State, label),
	}
}

// organizationSizeMetric prefers smaller organizations: the inversion is the
// donor's policy, grassroots charities over national ones.
func organizationSizeMetric(totalRevenue int64, sc config.SizeConfig) *Metric {
	if !sc.Enabled {
		return nil
	}

	ranges := Range{Outstanding: "Small", Acceptable: "Med"}

	if totalRevenue == 0 {
		return &Metric{
			Name:         "Organization Size",
			Value:        NumberValue(0),
			Status:       StatusUnknown,
			Category:     CategoryPreference,
			Ranges:       ranges,
			DisplayValue: "Unknown",
		}
	}

	var status Status
	var label string
	switch {
	case totalRevenue < sc.SmallMax:
		status = StatusOutstanding
		label = "Small"
	case totalRevenue < sc.MediumMax:
		status = StatusAcceptable
		label = "Med"
	default:
		status = StatusUnacceptable
		label = "Large"
	}

	return &Metric{
		Name:         "Organization Size",
		Value:        NumberValue(float64(totalRevenue)),
		Status:       status,
		Category:     CategoryPreference,
		Ranges:       ranges,
		DisplayValue: fmt.Sprintf("%s (%s)", formatDollars(totalRevenue), label),
	}
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
