package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/luisamog/ARKHO-PHS/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo       Repository
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new project service. activities may be nil.
func NewService(repo Repository, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, activities: activities, logger: logger}
}

// Create creates a new active project with no assessments.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*health.Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	proj := &health.Project{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Client:    req.Client,
		Leader:    req.Leader,
		Delivery:  req.Delivery,
		TechLead:  req.TechLead,
		Status:    health.StatusActive,
		Ratings:   []health.Assessment{},
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "name", proj.Name)
	s.record(ctx, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      fmt.Sprintf("created project %s", proj.Name),
	})
	return proj, nil
}

// Update edits project metadata. Assessments and status are kept.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*health.Project, error) {
	proj, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		proj.Name = name
	}
	if req.Client != nil {
		proj.Client = *req.Client
	}
	if req.Leader != nil {
		proj.Leader = *req.Leader
	}
	if req.Delivery != nil {
		proj.Delivery = *req.Delivery
	}
	if req.TechLead != nil {
		proj.TechLead = *req.TechLead
	}

	if err := s.update(ctx, proj); err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "project_id", proj.ID)
	s.record(ctx, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectUpdated,
		Summary:      fmt.Sprintf("updated project %s", proj.Name),
	})
	return proj, nil
}

// Archive closes a project. Closing an already closed project is a no-op.
func (s *Service) Archive(ctx context.Context, id string) (*health.Project, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if proj.Status == health.StatusClosed {
		return proj, nil
	}

	proj.Status = health.StatusClosed
	if err := s.update(ctx, proj); err != nil {
		return nil, err
	}

	s.logger.Info("project archived", "project_id", proj.ID)
	s.record(ctx, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectArchived,
		Summary:      fmt.Sprintf("archived project %s", proj.Name),
	})
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*health.Project, error) {
	proj, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// All returns every stored project, active and closed, in insertion order.
func (s *Service) All(ctx context.Context) ([]health.Project, error) {
	return s.loadAll(ctx)
}

// List returns the projects passing f, in insertion order.
func (s *Service) List(ctx context.Context, f health.Filter) ([]health.Project, error) {
	projects, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return health.FilterProjects(projects, f), nil
}

// Stats returns the portfolio statistics for f.
func (s *Service) Stats(ctx context.Context, f health.Filter) (health.Stats, error) {
	projects, err := s.loadAll(ctx)
	if err != nil {
		return health.Stats{}, err
	}
	return health.Aggregate(projects, f), nil
}

// Trend returns the score trend of the projects passing f.
func (s *Service) Trend(ctx context.Context, f health.Filter) (health.Trend, error) {
	projects, err := s.loadAll(ctx)
	if err != nil {
		return health.Trend{}, err
	}
	return health.BuildTrend(health.FilterProjects(projects, f), f.Year), nil
}

// Dashboard computes stats, table rows and trend from a single snapshot.
func (s *Service) Dashboard(ctx context.Context, f health.Filter) (*Dashboard, error) {
	projects, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	if f.View == "" {
		f.View = health.StatusActive
	}
	return &Dashboard{
		Filter: f,
		Stats:  health.Aggregate(projects, f),
		Rows:   health.Rows(projects, f),
		Trend:  health.BuildTrend(health.FilterProjects(projects, f), f.Year),
	}, nil
}

// Options returns the values available to each dashboard filter.
func (s *Service) Options(ctx context.Context) (health.FilterOptions, error) {
	projects, err := s.loadAll(ctx)
	if err != nil {
		return health.FilterOptions{}, err
	}
	return health.Options(projects), nil
}

// History lists a project's assessments, newest first.
func (s *Service) History(ctx context.Context, id string) ([]health.HistoryEntry, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return health.History(*proj), nil
}

// RecordAssessment scores and stores an assessment. When the week already
// has one and Overwrite is not set nothing is written and the outcome asks
// for confirmation.
func (s *Service) RecordAssessment(ctx context.Context, req RecordRequest) (*RecordOutcome, error) {
	proj, err := s.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	assessment, err := health.NewAssessment(req.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	res := health.Record(*proj, assessment, req.Overwrite)
	outcome := &RecordOutcome{
		Project:    res.Project,
		Assessment: assessment,
		Replaced:   res.Replaced,
		Warning:    res.Warning,
	}
	if res.Warning != nil {
		outcome.ConfirmationRequired = true
		s.logger.Info("assessment needs overwrite confirmation", "project_id", proj.ID, "week", assessment.Week)
		return outcome, nil
	}

	if err := s.update(ctx, &res.Project); err != nil {
		return nil, err
	}

	entryType := activity.TypeAssessmentRecorded
	verb := "recorded"
	if res.Replaced {
		entryType = activity.TypeAssessmentReplaced
		verb = "replaced"
	}
	overall := assessment.Overall()
	s.logger.Info("assessment "+verb, "project_id", proj.ID, "week", assessment.Week, "overall", overall.String())
	s.record(ctx, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		Week:         assessment.Week,
		ActivityType: entryType,
		Summary:      fmt.Sprintf("%s assessment %s for %s (overall %s)", verb, assessment.Week, proj.Name, overall),
	})
	return outcome, nil
}

// Import stores a batch of projects. With replace the stored portfolio is
// swapped for the batch; otherwise projects are merged by ID, keeping the
// existing order and appending new ones.
func (s *Service) Import(ctx context.Context, batch []health.Project, replace bool) (*ImportResult, error) {
	incoming := make([]health.Project, 0, len(batch))
	for _, p := range batch {
		p = p.Clone()
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: project %q has no name", ErrInvalidInput, p.ID)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Status == "" {
			p.Status = health.StatusActive
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		incoming = append(incoming, p)
	}

	merged := incoming
	if !replace {
		existing, err := s.loadAll(ctx)
		if err != nil {
			return nil, err
		}
		merged = mergeByID(existing, incoming)
	}

	if err := s.repo.SaveAll(ctx, merged); err != nil {
		return nil, fmt.Errorf("saving projects: %w", err)
	}

	s.logger.Info("portfolio imported", "imported", len(incoming), "total", len(merged), "replace", replace)
	s.record(ctx, &activity.ActivityEntry{
		ActivityType: activity.TypePortfolioImported,
		Summary:      fmt.Sprintf("imported %d projects", len(incoming)),
	})
	return &ImportResult{Imported: len(incoming), Total: len(merged)}, nil
}

func mergeByID(existing, incoming []health.Project) []health.Project {
	index := make(map[string]int, len(existing))
	out := make([]health.Project, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	for i, p := range out {
		index[p.ID] = i
	}
	for _, p := range incoming {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func (s *Service) loadAll(ctx context.Context) ([]health.Project, error) {
	projects, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	return projects, nil
}

func (s *Service) update(ctx context.Context, proj *health.Project) error {
	if err := s.repo.Update(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

// record logs an activity entry; failures are logged and never fail the
// operation that produced them.
func (s *Service) record(ctx context.Context, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}
