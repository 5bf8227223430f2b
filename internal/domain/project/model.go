package project

import "github.com/luisamog/ARKHO-PHS/internal/domain/health"

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID       string
	Name     string
	Client   string
	Leader   string
	Delivery string
	TechLead string
}

// UpdateRequest edits project metadata. Nil fields are left unchanged.
type UpdateRequest struct {
	ID       string
	Name     *string
	Client   *string
	Leader   *string
	Delivery *string
	TechLead *string
}

// RecordRequest submits an assessment for a project.
type RecordRequest struct {
	ProjectID string
	Input     health.AssessmentInput
	// Overwrite confirms replacing an assessment already stored for the week.
	Overwrite bool
}

// RecordOutcome reports what RecordAssessment did.
type RecordOutcome struct {
	Project              health.Project
	Assessment           health.Assessment
	Replaced             bool
	ConfirmationRequired bool
	Warning              *health.DuplicatePeriodWarning
}

// Dashboard is everything the portfolio view shows, computed from one
// snapshot.
type Dashboard struct {
	Filter health.Filter `json:"filter"`
	Stats  health.Stats  `json:"stats"`
	Rows   []health.Row  `json:"rows"`
	Trend  health.Trend  `json:"trend"`
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}
