package health

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// PortfolioAverageLabel names the aggregate trend series.
	PortfolioAverageLabel = "Portfolio Average"
	// MaxTrendPeriods caps an unscoped trend to the most recent weeks.
	MaxTrendPeriods = 12

	portfolioColor = "#1e3a5f"
)

var seriesPalette = []string{"#3182ce", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899", "#6366f1"}

// Series is one line of a trend chart. Points align with Trend.Periods and
// hold nil where there is no assessment for that exact week.
type Series struct {
	Label     string     `json:"label"`
	ProjectID string     `json:"project_id,omitempty"`
	Color     string     `json:"color,omitempty"`
	Points    []*float64 `json:"points"`
}

// Trend is a period-aligned set of series.
type Trend struct {
	Periods []string `json:"periods"`
	Series  []Series `json:"series"`
}

// BuildTrend aligns every project's overall score on the union of observed
// weeks. With a year only that year's weeks are used; without one only the
// last MaxTrendPeriods weeks are kept. Values are never carried forward.
func BuildTrend(projects []Project, year string) Trend {
	periods := trendPeriods(projects, year)

	// overall per project per week, looked up by exact week; the first
	// assessment of a week wins.
	byProject := make([]map[string]float64, len(projects))
	for i, p := range projects {
		scores := make(map[string]float64, len(p.Ratings))
		for _, a := range p.Ratings {
			if _, seen := scores[a.Week]; seen {
				continue
			}
			if overall, ok := overallMean(a.Averages()); ok {
				scores[a.Week] = overall
			}
		}
		byProject[i] = scores
	}

	average := Series{
		Label:  PortfolioAverageLabel,
		Color:  portfolioColor,
		Points: make([]*float64, len(periods)),
	}
	for i, week := range periods {
		var values []float64
		for _, scores := range byProject {
			if v, ok := scores[week]; ok {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			average.Points[i] = point(stat.Mean(values, nil))
		}
	}

	series := make([]Series, 0, len(projects)+1)
	series = append(series, average)
	for i, p := range projects {
		line := Series{
			Label:     p.Name,
			ProjectID: p.ID,
			Color:     seriesPalette[i%len(seriesPalette)],
			Points:    make([]*float64, len(periods)),
		}
		for j, week := range periods {
			if v, ok := byProject[i][week]; ok {
				line.Points[j] = point(v)
			}
		}
		series = append(series, line)
	}

	return Trend{Periods: periods, Series: series}
}

func trendPeriods(projects []Project, year string) []string {
	seen := make(map[string]struct{})
	for _, p := range projects {
		for _, a := range p.Ratings {
			if year != "" && !inYear(a.Week, year) {
				continue
			}
			seen[a.Week] = struct{}{}
		}
	}

	periods := make([]string, 0, len(seen))
	for week := range seen {
		periods = append(periods, week)
	}
	sort.Strings(periods)

	if year == "" && len(periods) > MaxTrendPeriods {
		periods = periods[len(periods)-MaxTrendPeriods:]
	}
	return periods
}

func point(v float64) *float64 {
	r := round2(v)
	return &r
}
