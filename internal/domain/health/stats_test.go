package health_test

import (
	"testing"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Empty(t *testing.T) {
	stats := health.Aggregate(nil, health.Filter{})
	require.Equal(t, 0, stats.Total)
	require.Nil(t, stats.AverageHealth)
	require.Equal(t, "-", stats.AverageLabel())
	require.Equal(t, 0, stats.AtRiskCount)
	require.Equal(t, health.TrafficLightNone, stats.AverageStatus)
}

func TestAggregate_AverageAndRisk(t *testing.T) {
	projects := []health.Project{
		{ID: "p1", Ratings: []health.Assessment{scored("2024-W01", 2), scored("2024-W02", 3.5)}},
		{ID: "p2", Ratings: []health.Assessment{scored("2024-W02", 4.5)}},
		{ID: "p3", Ratings: []health.Assessment{scored("2024-W03", 5)}},
	}

	stats := health.Aggregate(projects, health.Filter{})
	require.Equal(t, 3, stats.Total)
	require.NotNil(t, stats.AverageHealth)
	require.Equal(t, "4.3", stats.AverageLabel())
	require.Equal(t, 1, stats.AtRiskCount)
	require.Equal(t, health.TrafficLightGood, stats.AverageStatus)
}

func TestAggregate_ProjectsWithoutScoreOnlyCountInTotal(t *testing.T) {
	projects := []health.Project{
		{ID: "p1", Ratings: []health.Assessment{scored("2024-W10", 4.5)}},
		{ID: "p2"},
		{ID: "p3", Ratings: []health.Assessment{scored("2023-W30", 1)}},
	}

	stats := health.Aggregate(projects, health.Filter{Year: "2024"})
	require.Equal(t, 3, stats.Total)
	require.Equal(t, "4.5", stats.AverageLabel())
	require.Equal(t, 0, stats.AtRiskCount)
}

func TestAggregate_YearFallback(t *testing.T) {
	projects := []health.Project{
		{ID: "p1", Ratings: []health.Assessment{scored("2023-W40", 3), scored("2024-W02", 5)}},
	}

	stats := health.Aggregate(projects, health.Filter{Year: "2023"})
	require.Equal(t, "3.0", stats.AverageLabel())
	require.Equal(t, 1, stats.AtRiskCount)
	require.Equal(t, health.TrafficLightWarning, stats.AverageStatus)

	stats = health.Aggregate(projects, health.Filter{})
	require.Equal(t, "5.0", stats.AverageLabel())
	require.Equal(t, 0, stats.AtRiskCount)
}

func TestAggregate_RiskUsesUnroundedOverall(t *testing.T) {
	// Overall is 3.96: it displays as 4.0 but is still below the good band.
	projects := []health.Project{
		{ID: "p1", Ratings: []health.Assessment{scored("2024-W01", 4, 4, 4, 4, 3.8)}},
	}

	stats := health.Aggregate(projects, health.Filter{})
	require.Equal(t, "4.0", stats.AverageLabel())
	require.Equal(t, 1, stats.AtRiskCount)
}

func TestAggregate_RespectsView(t *testing.T) {
	projects := []health.Project{
		{ID: "p1", Status: health.StatusActive, Ratings: []health.Assessment{scored("2024-W01", 2)}},
		{ID: "p2", Status: health.StatusClosed, Ratings: []health.Assessment{scored("2024-W01", 5)}},
	}

	stats := health.Aggregate(projects, health.Filter{View: health.StatusClosed})
	require.Equal(t, 1, stats.Total)
	require.Equal(t, "5.0", stats.AverageLabel())
	require.Equal(t, 0, stats.AtRiskCount)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	projects := []health.Project{
		{ID: "p1", Ratings: []health.Assessment{scored("2024-W05", 3), scored("2024-W01", 4)}},
	}

	health.Aggregate(projects, health.Filter{Year: "2024"})
	require.Equal(t, "2024-W05", projects[0].Ratings[0].Week)
	require.Equal(t, "2024-W01", projects[0].Ratings[1].Week)
}
