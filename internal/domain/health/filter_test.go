package health_test

import (
	"testing"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/stretchr/testify/require"
)

func portfolio() []health.Project {
	return []health.Project{
		{ID: "p1", Name: "Alpha", Delivery: "Ana", Leader: "Luis", TechLead: "Tom", Status: health.StatusActive},
		{ID: "p2", Name: "Beta", Delivery: "Ana", Leader: "Marta", TechLead: "Tom"},
		{ID: "p3", Name: "Gamma", Delivery: "Bea", Leader: "Luis", TechLead: "Ivan", Status: health.StatusClosed},
		{ID: "p4", Name: "Delta", Delivery: "Bea", Leader: "Luis", TechLead: "Tom", Status: health.StatusActive},
	}
}

func ids(projects []health.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterProjects_StatusView(t *testing.T) {
	// A missing status counts as active.
	active := health.FilterProjects(portfolio(), health.Filter{})
	require.Equal(t, []string{"p1", "p2", "p4"}, ids(active))

	closed := health.FilterProjects(portfolio(), health.Filter{View: health.StatusClosed})
	require.Equal(t, []string{"p3"}, ids(closed))
}

func TestFilterProjects_Attributes(t *testing.T) {
	got := health.FilterProjects(portfolio(), health.Filter{Delivery: "Ana"})
	require.Equal(t, []string{"p1", "p2"}, ids(got))

	got = health.FilterProjects(portfolio(), health.Filter{Leader: "Luis", TechLead: "Tom"})
	require.Equal(t, []string{"p1", "p4"}, ids(got))

	got = health.FilterProjects(portfolio(), health.Filter{Delivery: "Bea", Leader: "Marta"})
	require.Empty(t, got)

	// Exact match only.
	got = health.FilterProjects(portfolio(), health.Filter{Leader: "luis"})
	require.Empty(t, got)
}

func TestFilterProjects_YearDoesNotExclude(t *testing.T) {
	projects := portfolio()
	projects[0].Ratings = []health.Assessment{scored("2023-W01", 4)}

	got := health.FilterProjects(projects, health.Filter{Year: "2024"})
	require.Equal(t, []string{"p1", "p2", "p4"}, ids(got))
}
