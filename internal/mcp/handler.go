package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/luisamog/ARKHO-PHS/internal/domain/project"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*health.Project, error)
	Update(ctx context.Context, req project.UpdateRequest) (*health.Project, error)
	Archive(ctx context.Context, id string) (*health.Project, error)
	Get(ctx context.Context, id string) (*health.Project, error)
	List(ctx context.Context, f health.Filter) ([]health.Project, error)
	Stats(ctx context.Context, f health.Filter) (health.Stats, error)
	Trend(ctx context.Context, f health.Filter) (health.Trend, error)
	Dashboard(ctx context.Context, f health.Filter) (*project.Dashboard, error)
	Options(ctx context.Context) (health.FilterOptions, error)
	History(ctx context.Context, id string) ([]health.HistoryEntry, error)
	RecordAssessment(ctx context.Context, req project.RecordRequest) (*project.RecordOutcome, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	projects ProjectService
	activity ActivityService
	now      func() time.Time
}

// NewHandler creates a new MCP handler.
func NewHandler(projects ProjectService, activitySvc ActivityService) *Handler {
	return &Handler{
		projects: projects,
		activity: activitySvc,
		now:      time.Now,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Create(ctx, project.CreateRequest{
			ID:       req.ID,
			Name:     req.Name,
			Client:   req.Client,
			Leader:   req.Leader,
			Delivery: req.Delivery,
			TechLead: req.TechLead,
		})
	case "update_project":
		var req UpdateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Update(ctx, project.UpdateRequest{
			ID:       req.ID,
			Name:     req.Name,
			Client:   req.Client,
			Leader:   req.Leader,
			Delivery: req.Delivery,
			TechLead: req.TechLead,
		})
	case "archive_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Archive(ctx, req.ID)
	case "get_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Get(ctx, req.ID)
	case "list_projects":
		f, err := decodeFilter(params)
		if err != nil {
			return nil, err
		}
		projects, err := h.projects.List(ctx, f)
		if err != nil {
			return nil, err
		}
		return summarize(projects, f), nil
	case "record_assessment":
		var req RecordAssessmentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		input, err := h.assessmentInput(req)
		if err != nil {
			return nil, err
		}
		outcome, err := h.projects.RecordAssessment(ctx, project.RecordRequest{
			ProjectID: req.ProjectID,
			Input:     input,
			Overwrite: req.Overwrite,
		})
		if err != nil {
			return nil, err
		}
		return recordResponse(req.ProjectID, outcome), nil
	case "get_portfolio_stats":
		f, err := decodeFilter(params)
		if err != nil {
			return nil, err
		}
		stats, err := h.projects.Stats(ctx, f)
		if err != nil {
			return nil, err
		}
		return StatsResponse{
			Total:         stats.Total,
			AverageHealth: stats.AverageLabel(),
			AverageStatus: stats.AverageStatus,
			AtRiskCount:   stats.AtRiskCount,
		}, nil
	case "get_trend":
		f, err := decodeFilter(params)
		if err != nil {
			return nil, err
		}
		return h.projects.Trend(ctx, f)
	case "get_dashboard":
		f, err := decodeFilter(params)
		if err != nil {
			return nil, err
		}
		return h.projects.Dashboard(ctx, f)
	case "get_filter_options":
		return h.projects.Options(ctx)
	case "get_history":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.projects.History(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		resp := make([]HistoryEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, HistoryEntryResponse{
				Week:     entry.Assessment.Week,
				Averages: averagesByKey(entry.Assessment),
				Overall:  entry.Overall.String(),
				Light:    entry.Status,
				Notes:    notesByKey(entry.Assessment),
			})
		}
		return resp, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.activity.GetRecentActivity(ctx, activity.ListActivityOptions{
			ProjectID:    req.ProjectID,
			ActivityType: req.Type,
			Limit:        req.Limit,
			Offset:       req.Offset,
		})
		if err != nil {
			return nil, err
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				ProjectID: entry.ProjectID,
				Week:      entry.Week,
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

func decodeFilter(params json.RawMessage) (health.Filter, error) {
	var req FilterParams
	if err := decodeParams(params, &req); err != nil {
		return health.Filter{}, err
	}
	f, err := req.Filter()
	if err != nil {
		return health.Filter{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return f, nil
}

func (h *Handler) assessmentInput(req RecordAssessmentParams) (health.AssessmentInput, error) {
	week := req.Week
	if week == "" {
		week = health.WeekOf(h.now())
	}
	input := health.AssessmentInput{
		Week:   week,
		Scores: make(map[health.Dimension]health.SubScores, len(req.Dimensions)),
		Notes:  make(map[health.Dimension]health.Notes, len(req.Dimensions)),
	}
	for key, dim := range req.Dimensions {
		d := health.Dimension(key)
		if !d.Valid() {
			return health.AssessmentInput{}, fmt.Errorf("%w: unknown dimension %q", ErrInvalidParams, key)
		}
		if len(dim.Sub) != health.SubCriteriaCount {
			return health.AssessmentInput{}, fmt.Errorf("%w: dimension %s needs %d sub-scores, got %d",
				health.ErrInvalidScore, key, health.SubCriteriaCount, len(dim.Sub))
		}
		if len(dim.Notes) > health.SubCriteriaCount {
			return health.AssessmentInput{}, fmt.Errorf("%w: dimension %s has %d notes", ErrInvalidParams, key, len(dim.Notes))
		}
		var sub health.SubScores
		copy(sub[:], dim.Sub)
		var notes health.Notes
		copy(notes[:], dim.Notes)
		input.Scores[d] = sub
		input.Notes[d] = notes
	}
	return input, nil
}

func summarize(projects []health.Project, f health.Filter) []ProjectSummaryResponse {
	rows := health.Rows(projects, f)
	resp := make([]ProjectSummaryResponse, 0, len(rows))
	for i, row := range rows {
		resp = append(resp, ProjectSummaryResponse{
			ID:          row.ProjectID,
			Name:        row.Name,
			Client:      row.Client,
			Leader:      row.Leader,
			Delivery:    row.Delivery,
			TechLead:    row.TechLead,
			Status:      row.Status,
			Assessments: len(projects[i].Ratings),
			LatestWeek:  row.Week,
			Overall:     row.Overall,
			Light:       row.OverallStatus,
		})
	}
	return resp
}

func recordResponse(projectID string, outcome *project.RecordOutcome) RecordAssessmentResponse {
	resp := RecordAssessmentResponse{
		ProjectID:            projectID,
		Week:                 outcome.Assessment.Week,
		Replaced:             outcome.Replaced,
		ConfirmationRequired: outcome.ConfirmationRequired,
	}
	if outcome.Warning != nil {
		resp.Warning = outcome.Warning.Message()
		return resp
	}
	overall := outcome.Assessment.Overall()
	resp.Averages = averagesByKey(outcome.Assessment)
	resp.Overall = overall.String()
	resp.Light = health.Classify(float64(overall))
	return resp
}

func averagesByKey(a health.Assessment) map[string]string {
	out := make(map[string]string, len(health.Dimensions))
	for _, d := range health.Dimensions {
		score, _ := a.Dimension(d)
		out[string(d)] = score.Average.String()
	}
	return out
}

func notesByKey(a health.Assessment) map[string][]string {
	out := make(map[string][]string)
	for _, d := range health.Dimensions {
		score, _ := a.Dimension(d)
		for _, note := range score.Notes {
			if note != "" {
				out[string(d)] = score.Notes[:]
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
