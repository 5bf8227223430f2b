package health

import "gonum.org/v1/gonum/stat"

// NoScoreLabel is shown wherever no assessment contributed to a value.
const NoScoreLabel = "-"

// Stats summarizes a filtered portfolio.
type Stats struct {
	Total         int          `json:"total"`
	AverageHealth *Score       `json:"average_health"`
	AverageStatus TrafficLight `json:"average_status"`
	AtRiskCount   int          `json:"at_risk_count"`
}

// AverageLabel renders the average health, or "-" when no project
// contributed.
func (s Stats) AverageLabel() string {
	if s.AverageHealth == nil {
		return NoScoreLabel
	}
	return s.AverageHealth.String()
}

// Aggregate computes portfolio statistics for the projects passing f.
// Projects without a relevant assessment are counted in Total only.
func Aggregate(projects []Project, f Filter) Stats {
	filtered := FilterProjects(projects, f)
	stats := Stats{Total: len(filtered), AverageStatus: TrafficLightNone}

	overalls := make([]float64, 0, len(filtered))
	for _, p := range filtered {
		a, ok := SelectRelevant(p.Ratings, f.Year)
		if !ok {
			continue
		}
		overall, _ := overallMean(a.Averages())
		overalls = append(overalls, overall)
		if AtRisk(overall) {
			stats.AtRiskCount++
		}
	}

	if len(overalls) > 0 {
		avg := Score(Round1(stat.Mean(overalls, nil)))
		stats.AverageHealth = &avg
		stats.AverageStatus = Classify(float64(avg))
	}
	return stats
}
