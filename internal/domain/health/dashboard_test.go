package health_test

import (
	"testing"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	projects := portfolio()
	projects[0].Ratings = []health.Assessment{scored("2023-W50", 3), scored("2024-W02", 4)}
	projects[2].Ratings = []health.Assessment{scored("2022-W10", 3), scored("bogus", 1)}

	opts := health.Options(projects)
	require.Equal(t, []string{"2024", "2023", "2022"}, opts.Years)
	require.Equal(t, []string{"Ana", "Bea"}, opts.Deliveries)
	require.Equal(t, []string{"Luis", "Marta"}, opts.Leaders)
	require.Equal(t, []string{"Ivan", "Tom"}, opts.TechLeads)
}

func TestRows(t *testing.T) {
	projects := []health.Project{
		{ID: "p1", Name: "Alpha", Status: health.StatusActive, Ratings: []health.Assessment{
			scored("2023-W40", 2, 3, 4, 5, 1),
			scored("2024-W02", 5),
		}},
		{ID: "p2", Name: "Beta", Status: health.StatusActive},
	}

	rows := health.Rows(projects, health.Filter{Year: "2023"})
	require.Len(t, rows, 2)

	alpha := rows[0]
	require.Equal(t, "2023-W40", alpha.Week)
	require.Equal(t, "3.0", alpha.Overall.String())
	require.Equal(t, health.TrafficLightWarning, alpha.OverallStatus)
	require.Len(t, alpha.Dimensions, 5)
	require.Equal(t, health.DimensionDelivery, alpha.Dimensions[0].Dimension)
	require.Equal(t, health.TrafficLightCritical, alpha.Dimensions[0].Status)
	require.Equal(t, health.TrafficLightGood, alpha.Dimensions[3].Status)

	beta := rows[1]
	require.Empty(t, beta.Week)
	require.Nil(t, beta.Overall)
	require.Equal(t, health.TrafficLightNone, beta.OverallStatus)
	for _, cell := range beta.Dimensions {
		require.Nil(t, cell.Score)
		require.Equal(t, health.TrafficLightNone, cell.Status)
	}
}

func TestHistory(t *testing.T) {
	p := health.Project{ID: "p1", Ratings: []health.Assessment{
		scored("2024-W02", 3),
		scored("2024-W10", 4),
		scored("2023-W50", 2),
	}}

	history := health.History(p)
	require.Len(t, history, 3)
	require.Equal(t, "2024-W10", history[0].Assessment.Week)
	require.Equal(t, health.TrafficLightGood, history[0].Status)
	require.Equal(t, "2024-W02", history[1].Assessment.Week)
	require.Equal(t, "2023-W50", history[2].Assessment.Week)
	require.Equal(t, health.TrafficLightCritical, history[2].Status)

	// Stored order is preserved.
	require.Equal(t, "2024-W02", p.Ratings[0].Week)
}
