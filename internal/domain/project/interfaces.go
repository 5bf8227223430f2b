package project

import (
	"context"

	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
)

// Repository provides persistence for projects. Every call reads or writes a
// whole snapshot; there are no partial updates of a project.
type Repository interface {
	LoadAll(ctx context.Context) ([]health.Project, error)
	SaveAll(ctx context.Context, projects []health.Project) error
	FindByID(ctx context.Context, id string) (*health.Project, error)
	Create(ctx context.Context, proj *health.Project) error
	Update(ctx context.Context, proj *health.Project) error
}

// ActivityLogger records portfolio events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
