package health

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// MinSubScore and MaxSubScore bound a single sub-criterion rating.
	MinSubScore = 1
	MaxSubScore = 5

	goodThreshold    = 4.0
	warningThreshold = 3.0
)

// TrafficLight is the three-band status derived from a score.
type TrafficLight string

const (
	TrafficLightGood     TrafficLight = "good"
	TrafficLightWarning  TrafficLight = "warning"
	TrafficLightCritical TrafficLight = "critical"
	// TrafficLightNone marks a row without any score; Classify never returns it.
	TrafficLightNone TrafficLight = "none"
)

// Round1 rounds half-up to one decimal. Scores are never negative.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// DimensionAverage is the mean of the sub-scores rounded to one decimal.
// Empty input yields 0 together with ErrEmptyInput.
func DimensionAverage(sub []int) (Score, error) {
	if len(sub) == 0 {
		return 0, ErrEmptyInput
	}
	values := make([]float64, len(sub))
	for i, v := range sub {
		values[i] = float64(v)
	}
	return Score(Round1(stat.Mean(values, nil))), nil
}

// OverallScore is the unweighted mean of the dimension scores rounded to one
// decimal. It reports false when there is nothing to average.
func OverallScore(dims []Score) (Score, bool) {
	mean, ok := overallMean(dims)
	if !ok {
		return 0, false
	}
	return Score(Round1(mean)), true
}

func overallMean(dims []Score) (float64, bool) {
	if len(dims) == 0 {
		return 0, false
	}
	values := make([]float64, len(dims))
	for i, d := range dims {
		values[i] = float64(d)
	}
	return stat.Mean(values, nil), true
}

// Classify maps a score onto its traffic light. Each band includes its
// lower bound.
func Classify(score float64) TrafficLight {
	switch {
	case score >= goodThreshold:
		return TrafficLightGood
	case score >= warningThreshold:
		return TrafficLightWarning
	default:
		return TrafficLightCritical
	}
}

// AtRisk reports whether an overall score falls outside the good band, so
// warning scores count as well as critical ones.
func AtRisk(overall float64) bool {
	return overall < goodThreshold
}
