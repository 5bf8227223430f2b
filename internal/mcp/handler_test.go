package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/luisamog/ARKHO-PHS/internal/domain/project"
	"github.com/stretchr/testify/require"
)

type projectStub struct {
	createFn    func(context.Context, project.CreateRequest) (*health.Project, error)
	updateFn    func(context.Context, project.UpdateRequest) (*health.Project, error)
	archiveFn   func(context.Context, string) (*health.Project, error)
	getFn       func(context.Context, string) (*health.Project, error)
	listFn      func(context.Context, health.Filter) ([]health.Project, error)
	statsFn     func(context.Context, health.Filter) (health.Stats, error)
	trendFn     func(context.Context, health.Filter) (health.Trend, error)
	dashboardFn func(context.Context, health.Filter) (*project.Dashboard, error)
	optionsFn   func(context.Context) (health.FilterOptions, error)
	historyFn   func(context.Context, string) ([]health.HistoryEntry, error)
	recordFn    func(context.Context, project.RecordRequest) (*project.RecordOutcome, error)
}

func (p projectStub) Create(ctx context.Context, req project.CreateRequest) (*health.Project, error) {
	return p.createFn(ctx, req)
}
func (p projectStub) Update(ctx context.Context, req project.UpdateRequest) (*health.Project, error) {
	return p.updateFn(ctx, req)
}
func (p projectStub) Archive(ctx context.Context, id string) (*health.Project, error) {
	return p.archiveFn(ctx, id)
}
func (p projectStub) Get(ctx context.Context, id string) (*health.Project, error) {
	return p.getFn(ctx, id)
}
func (p projectStub) List(ctx context.Context, f health.Filter) ([]health.Project, error) {
	return p.listFn(ctx, f)
}
func (p projectStub) Stats(ctx context.Context, f health.Filter) (health.Stats, error) {
	return p.statsFn(ctx, f)
}
func (p projectStub) Trend(ctx context.Context, f health.Filter) (health.Trend, error) {
	return p.trendFn(ctx, f)
}
func (p projectStub) Dashboard(ctx context.Context, f health.Filter) (*project.Dashboard, error) {
	return p.dashboardFn(ctx, f)
}
func (p projectStub) Options(ctx context.Context) (health.FilterOptions, error) {
	return p.optionsFn(ctx)
}
func (p projectStub) History(ctx context.Context, id string) ([]health.HistoryEntry, error) {
	return p.historyFn(ctx, id)
}
func (p projectStub) RecordAssessment(ctx context.Context, req project.RecordRequest) (*project.RecordOutcome, error) {
	return p.recordFn(ctx, req)
}

type activityStub struct {
	listFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (a activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.listFn(ctx, opts)
}

func uniformDimensions(v int) map[string]DimensionParams {
	out := make(map[string]DimensionParams, len(health.Dimensions))
	for _, d := range health.Dimensions {
		out[string(d)] = DimensionParams{Sub: []int{v, v, v, v}}
	}
	return out
}

func TestHandler_ProjectCommands(t *testing.T) {
	ctx := context.Background()

	var created project.CreateRequest
	var updated project.UpdateRequest
	var listed health.Filter
	handler := NewHandler(
		projectStub{
			createFn: func(_ context.Context, req project.CreateRequest) (*health.Project, error) {
				created = req
				return &health.Project{ID: "p1", Name: req.Name, Status: health.StatusActive}, nil
			},
			updateFn: func(_ context.Context, req project.UpdateRequest) (*health.Project, error) {
				updated = req
				return &health.Project{ID: req.ID}, nil
			},
			archiveFn: func(_ context.Context, id string) (*health.Project, error) {
				return &health.Project{ID: id, Status: health.StatusClosed}, nil
			},
			getFn: func(_ context.Context, id string) (*health.Project, error) {
				return &health.Project{ID: id, Name: "Apollo"}, nil
			},
			listFn: func(_ context.Context, f health.Filter) ([]health.Project, error) {
				listed = f
				return []health.Project{
					{ID: "p1", Name: "Apollo", Status: health.StatusClosed, Ratings: []health.Assessment{
						{Week: "2024-W01", Delivery: health.DimensionScore{Average: 2}, Team: health.DimensionScore{Average: 2},
							Stakeholders: health.DimensionScore{Average: 2}, Value: health.DimensionScore{Average: 2}, Risk: health.DimensionScore{Average: 2}},
					}},
					{ID: "p2", Name: "Hermes", Status: health.StatusClosed},
				}, nil
			},
		},
		activityStub{},
	)

	res, err := handler.Handle(ctx, "create_project", mustJSON(t, CreateProjectParams{Name: "Apollo", TechLead: "Ivan"}))
	require.NoError(t, err)
	require.Equal(t, "Apollo", res.(*health.Project).Name)
	require.Equal(t, "Ivan", created.TechLead)

	_, err = handler.Handle(ctx, "update_project", json.RawMessage(`{"id":"p1","leader":"Marta"}`))
	require.NoError(t, err)
	require.Equal(t, "p1", updated.ID)
	require.NotNil(t, updated.Leader)
	require.Equal(t, "Marta", *updated.Leader)
	require.Nil(t, updated.Name)

	res, err = handler.Handle(ctx, "archive_project", mustJSON(t, ProjectIDParams{ID: "p1"}))
	require.NoError(t, err)
	require.Equal(t, health.StatusClosed, res.(*health.Project).Status)

	_, err = handler.Handle(ctx, "get_project", mustJSON(t, ProjectIDParams{ID: "p1"}))
	require.NoError(t, err)

	res, err = handler.Handle(ctx, "list_projects", mustJSON(t, FilterParams{Year: "2024", View: "closed"}))
	require.NoError(t, err)
	require.Equal(t, health.Filter{Year: "2024", View: health.StatusClosed}, listed)
	summaries := res.([]ProjectSummaryResponse)
	require.Len(t, summaries, 2)
	require.Equal(t, 1, summaries[0].Assessments)
	require.Equal(t, "2024-W01", summaries[0].LatestWeek)
	require.Equal(t, health.TrafficLightCritical, summaries[0].Light)
	require.Nil(t, summaries[1].Overall)
	require.Equal(t, health.TrafficLightNone, summaries[1].Light)
}

func TestHandler_RecordAssessment(t *testing.T) {
	ctx := context.Background()

	var got project.RecordRequest
	handler := NewHandler(projectStub{
		recordFn: func(_ context.Context, req project.RecordRequest) (*project.RecordOutcome, error) {
			got = req
			a, err := health.NewAssessment(req.Input)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", project.ErrInvalidInput, err)
			}
			if !req.Overwrite && a.Week == "2024-W07" {
				return &project.RecordOutcome{
					Assessment:           a,
					ConfirmationRequired: true,
					Warning:              &health.DuplicatePeriodWarning{ProjectID: req.ProjectID, Week: a.Week},
				}, nil
			}
			return &project.RecordOutcome{Assessment: a, Replaced: req.Overwrite}, nil
		},
	}, activityStub{})
	handler.now = func() time.Time { return time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC) }

	dims := uniformDimensions(4)
	dims["RI"] = DimensionParams{Sub: []int{2, 3, 2, 3}, Notes: []string{"vendor delay"}}
	res, err := handler.Handle(ctx, "record_assessment", mustJSON(t, RecordAssessmentParams{
		ProjectID:  "p1",
		Dimensions: dims,
	}))
	require.NoError(t, err)
	require.Equal(t, "2024-W10", got.Input.Week)
	require.Equal(t, health.SubScores{2, 3, 2, 3}, got.Input.Scores[health.DimensionRisk])
	require.Equal(t, "vendor delay", got.Input.Notes[health.DimensionRisk][0])
	resp := res.(RecordAssessmentResponse)
	require.Equal(t, "2.5", resp.Averages["RI"])
	require.Equal(t, "3.7", resp.Overall)
	require.Equal(t, health.TrafficLightWarning, resp.Light)
	require.False(t, resp.ConfirmationRequired)

	res, err = handler.Handle(ctx, "record_assessment", mustJSON(t, RecordAssessmentParams{
		ProjectID: "p1", Week: "2024-W07", Dimensions: uniformDimensions(5),
	}))
	require.NoError(t, err)
	resp = res.(RecordAssessmentResponse)
	require.True(t, resp.ConfirmationRequired)
	require.Contains(t, resp.Warning, "2024-W07")
	require.Empty(t, resp.Overall)

	res, err = handler.Handle(ctx, "record_assessment", mustJSON(t, RecordAssessmentParams{
		ProjectID: "p1", Week: "2024-W07", Dimensions: uniformDimensions(5), Overwrite: true,
	}))
	require.NoError(t, err)
	require.True(t, res.(RecordAssessmentResponse).Replaced)
}

func TestHandler_PortfolioCommands(t *testing.T) {
	ctx := context.Background()

	avg := health.Score(3.4)
	handler := NewHandler(
		projectStub{
			statsFn: func(_ context.Context, f health.Filter) (health.Stats, error) {
				if f.Delivery == "nobody" {
					return health.Stats{AverageStatus: health.TrafficLightNone}, nil
				}
				return health.Stats{Total: 3, AverageHealth: &avg, AverageStatus: health.TrafficLightWarning, AtRiskCount: 2}, nil
			},
			trendFn: func(_ context.Context, f health.Filter) (health.Trend, error) {
				return health.Trend{Periods: []string{"2024-W01"}}, nil
			},
			dashboardFn: func(_ context.Context, f health.Filter) (*project.Dashboard, error) {
				return &project.Dashboard{Filter: f}, nil
			},
			optionsFn: func(_ context.Context) (health.FilterOptions, error) {
				return health.FilterOptions{Years: []string{"2024"}}, nil
			},
			historyFn: func(_ context.Context, id string) ([]health.HistoryEntry, error) {
				a := health.Assessment{Week: "2024-W02", Risk: health.DimensionScore{Average: 3, Notes: health.Notes{"", "late"}}}
				return []health.HistoryEntry{{Assessment: a, Overall: 0.6, Status: health.TrafficLightCritical}}, nil
			},
		},
		activityStub{listFn: func(_ context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
			require.Equal(t, "p1", opts.ProjectID)
			require.Equal(t, 5, opts.Limit)
			return []activity.ActivityEntry{{ProjectID: "p1", ActivityType: activity.TypeAssessmentRecorded, Week: "2024-W02"}}, nil
		}},
	)

	res, err := handler.Handle(ctx, "get_portfolio_stats", nil)
	require.NoError(t, err)
	require.Equal(t, StatsResponse{Total: 3, AverageHealth: "3.4", AverageStatus: health.TrafficLightWarning, AtRiskCount: 2}, res)

	res, err = handler.Handle(ctx, "get_portfolio_stats", mustJSON(t, FilterParams{Delivery: "nobody"}))
	require.NoError(t, err)
	require.Equal(t, "-", res.(StatsResponse).AverageHealth)

	_, err = handler.Handle(ctx, "get_trend", mustJSON(t, FilterParams{Year: "2024"}))
	require.NoError(t, err)

	res, err = handler.Handle(ctx, "get_dashboard", mustJSON(t, FilterParams{Leader: "Luis"}))
	require.NoError(t, err)
	require.Equal(t, "Luis", res.(*project.Dashboard).Filter.Leader)

	_, err = handler.Handle(ctx, "get_filter_options", nil)
	require.NoError(t, err)

	res, err = handler.Handle(ctx, "get_history", mustJSON(t, ProjectIDParams{ID: "p1"}))
	require.NoError(t, err)
	history := res.([]HistoryEntryResponse)
	require.Len(t, history, 1)
	require.Equal(t, "3.0", history[0].Averages["RI"])
	require.Equal(t, "late", history[0].Notes["RI"][1])
	require.NotContains(t, history[0].Notes, "EN")

	res, err = handler.Handle(ctx, "get_recent_activity", mustJSON(t, GetRecentActivityParams{ProjectID: "p1", Limit: 5}))
	require.NoError(t, err)
	require.Len(t, res.([]ActivityEntryResponse), 1)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	handler := NewHandler(
		projectStub{
			getFn: func(_ context.Context, _ string) (*health.Project, error) {
				return nil, project.ErrProjectNotFound
			},
			createFn: func(_ context.Context, _ project.CreateRequest) (*health.Project, error) {
				return nil, project.ErrDuplicateID
			},
			recordFn: func(_ context.Context, req project.RecordRequest) (*project.RecordOutcome, error) {
				if _, err := health.NewAssessment(req.Input); err != nil {
					return nil, fmt.Errorf("%w: %w", project.ErrInvalidInput, err)
				}
				return &project.RecordOutcome{}, nil
			},
		},
		activityStub{},
	)

	codeOf := func(err error) string {
		t.Helper()
		require.Error(t, err)
		apiErr, ok := err.(*APIError)
		require.True(t, ok, "got %T: %v", err, err)
		return apiErr.Code
	}

	_, err := handler.Handle(ctx, "get_project", mustJSON(t, ProjectIDParams{ID: "nope"}))
	require.Equal(t, "PROJECT_NOT_FOUND", codeOf(err))

	_, err = handler.Handle(ctx, "create_project", mustJSON(t, CreateProjectParams{ID: "p1", Name: "x"}))
	require.Equal(t, "DUPLICATE_PROJECT", codeOf(err))

	_, err = handler.Handle(ctx, "record_assessment", mustJSON(t, RecordAssessmentParams{
		ProjectID: "p1", Week: "2024-7", Dimensions: uniformDimensions(3),
	}))
	require.Equal(t, "INVALID_WEEK", codeOf(err))

	dims := uniformDimensions(3)
	dims["EN"] = DimensionParams{Sub: []int{3, 3, 3}}
	_, err = handler.Handle(ctx, "record_assessment", mustJSON(t, RecordAssessmentParams{ProjectID: "p1", Dimensions: dims}))
	require.Equal(t, "INVALID_SCORE", codeOf(err))

	dims = uniformDimensions(3)
	delete(dims, "SH")
	_, err = handler.Handle(ctx, "record_assessment", mustJSON(t, RecordAssessmentParams{ProjectID: "p1", Week: "2024-W01", Dimensions: dims}))
	require.Equal(t, "MISSING_DIMENSION", codeOf(err))

	dims = uniformDimensions(3)
	dims["XX"] = DimensionParams{Sub: []int{3, 3, 3, 3}}
	_, err = handler.Handle(ctx, "record_assessment", mustJSON(t, RecordAssessmentParams{ProjectID: "p1", Dimensions: dims}))
	require.Equal(t, "INVALID_INPUT", codeOf(err))

	_, err = handler.Handle(ctx, "list_projects", mustJSON(t, FilterParams{View: "paused"}))
	require.Equal(t, "INVALID_INPUT", codeOf(err))

	_, err = handler.Handle(ctx, "get_project", json.RawMessage(`{"id":`))
	require.Equal(t, "INVALID_INPUT", codeOf(err))

	_, err = handler.Handle(ctx, "activate", nil)
	require.Equal(t, "UNKNOWN_METHOD", codeOf(err))
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
