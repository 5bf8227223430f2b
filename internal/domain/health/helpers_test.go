package health_test

import "github.com/luisamog/ARKHO-PHS/internal/domain/health"

// scored builds an assessment whose five dimension averages are given
// directly, in display order.
func scored(week string, averages ...float64) health.Assessment {
	a := health.Assessment{Week: week}
	for i, d := range health.Dimensions {
		v := averages[len(averages)-1]
		if i < len(averages) {
			v = averages[i]
		}
		a.SetDimension(d, health.DimensionScore{Average: health.Score(v)})
	}
	return a
}

func uniformInput(week string, v int) health.AssessmentInput {
	in := health.AssessmentInput{Week: week, Scores: map[health.Dimension]health.SubScores{}}
	for _, d := range health.Dimensions {
		in.Scores[d] = health.SubScores{v, v, v, v}
	}
	return in
}
