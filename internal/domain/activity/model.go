package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated     ActivityType = "project_created"
	TypeProjectUpdated     ActivityType = "project_updated"
	TypeProjectArchived    ActivityType = "project_archived"
	TypeAssessmentRecorded ActivityType = "assessment_recorded"
	TypeAssessmentReplaced ActivityType = "assessment_replaced"
	TypePortfolioImported  ActivityType = "portfolio_imported"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id,omitempty"`
	Week         string       `json:"week,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
