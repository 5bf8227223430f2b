package mcp

import (
	"time"

	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
)

type CreateProjectParams struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Client   string `json:"client,omitempty"`
	Leader   string `json:"leader,omitempty"`
	Delivery string `json:"delivery,omitempty"`
	TechLead string `json:"tech_lead,omitempty"`
}

type UpdateProjectParams struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Client   *string `json:"client,omitempty"`
	Leader   *string `json:"leader,omitempty"`
	Delivery *string `json:"delivery,omitempty"`
	TechLead *string `json:"tech_lead,omitempty"`
}

type ProjectIDParams struct {
	ID string `json:"id"`
}

// FilterParams is shared by every tool that reads the portfolio.
type FilterParams struct {
	Year     string `json:"year,omitempty"`
	Delivery string `json:"delivery,omitempty"`
	Leader   string `json:"leader,omitempty"`
	TechLead string `json:"tech_lead,omitempty"`
	View     string `json:"view,omitempty"`
}

// Filter converts the params to a portfolio filter.
func (p FilterParams) Filter() (health.Filter, error) {
	f := health.Filter{
		Year:     p.Year,
		Delivery: p.Delivery,
		Leader:   p.Leader,
		TechLead: p.TechLead,
	}
	if p.View != "" {
		view, err := health.ParseStatus(p.View)
		if err != nil {
			return health.Filter{}, err
		}
		f.View = view
	}
	return f, nil
}

// DimensionParams carries the four sub-scores of one dimension and their
// optional notes.
type DimensionParams struct {
	Sub   []int    `json:"sub"`
	Notes []string `json:"notes,omitempty"`
}

type RecordAssessmentParams struct {
	ProjectID string `json:"project_id"`
	// Week defaults to the current ISO week.
	Week       string                     `json:"week,omitempty"`
	Dimensions map[string]DimensionParams `json:"dimensions"`
	Overwrite  bool                       `json:"overwrite,omitempty"`
}

type GetRecentActivityParams struct {
	ProjectID string                 `json:"project_id,omitempty"`
	Type      *activity.ActivityType `json:"type,omitempty"`
	Limit     int                    `json:"limit,omitempty"`
	Offset    int                    `json:"offset,omitempty"`
}

// ProjectSummaryResponse is a list_projects row.
type ProjectSummaryResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Client      string              `json:"client"`
	Leader      string              `json:"leader"`
	Delivery    string              `json:"delivery"`
	TechLead    string              `json:"tech_lead"`
	Status      health.Status       `json:"status"`
	Assessments int                 `json:"assessments"`
	LatestWeek  string              `json:"latest_week,omitempty"`
	Overall     *health.Score       `json:"overall,omitempty"`
	Light       health.TrafficLight `json:"traffic_light"`
}

type RecordAssessmentResponse struct {
	ProjectID            string              `json:"project_id"`
	Week                 string              `json:"week"`
	Averages             map[string]string   `json:"averages,omitempty"`
	Overall              string              `json:"overall,omitempty"`
	Light                health.TrafficLight `json:"traffic_light,omitempty"`
	Replaced             bool                `json:"replaced"`
	ConfirmationRequired bool                `json:"confirmation_required"`
	Warning              string              `json:"warning,omitempty"`
}

type StatsResponse struct {
	Total         int                 `json:"total"`
	AverageHealth string              `json:"average_health"`
	AverageStatus health.TrafficLight `json:"average_status"`
	AtRiskCount   int                 `json:"at_risk_count"`
}

type HistoryEntryResponse struct {
	Week     string              `json:"week"`
	Averages map[string]string   `json:"averages"`
	Overall  string              `json:"overall"`
	Light    health.TrafficLight `json:"traffic_light"`
	Notes    map[string][]string `json:"notes,omitempty"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	ProjectID string                `json:"project_id,omitempty"`
	Week      string                `json:"week,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}
