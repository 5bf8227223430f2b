package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/luisamog/ARKHO-PHS/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const projectColumns = `id, name, client, leader, delivery, tech_lead, status, created_at`

// LoadAll returns every project in insertion order with its assessments in
// recorded order.
func (r *ProjectRepository) LoadAll(ctx context.Context) ([]health.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	projects := []health.Project{}
	index := make(map[string]int)
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[proj.ID] = len(projects)
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	rows.Close()

	ratings, err := loadAssessments(ctx, r.db, "")
	if err != nil {
		return nil, err
	}
	for projectID, list := range ratings {
		if i, ok := index[projectID]; ok {
			projects[i].Ratings = list
		}
	}

	return projects, nil
}

// SaveAll replaces the stored portfolio with projects.
func (r *ProjectRepository) SaveAll(ctx context.Context, projects []health.Project) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM assessments`); err != nil {
			return fmt.Errorf("failed to clear assessments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		for i := range projects {
			if err := insertProject(ctx, tx, &projects[i], int64(i)); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID retrieves a project by ID with its assessments.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*health.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	proj, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ratings, err := loadAssessments(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	proj.Ratings = ratings[id]
	if proj.Ratings == nil {
		proj.Ratings = []health.Assessment{}
	}

	return proj, nil
}

// Create appends a new project to the portfolio.
func (r *ProjectRepository) Create(ctx context.Context, proj *health.Project) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var next int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM projects`).Scan(&next); err != nil {
			return fmt.Errorf("failed to allocate project position: %w", err)
		}
		return insertProject(ctx, tx, proj, next)
	})
}

// Update overwrites a project's metadata, status and assessments. Its
// position in the portfolio is kept.
func (r *ProjectRepository) Update(ctx context.Context, proj *health.Project) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET name = ?, client = ?, leader = ?, delivery = ?, tech_lead = ?, status = ?
			WHERE id = ?
		`,
			proj.Name,
			proj.Client,
			proj.Leader,
			proj.Delivery,
			proj.TechLead,
			statusOf(proj),
			proj.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if affected == 0 {
			return repository.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM assessments WHERE project_id = ?`, proj.ID); err != nil {
			return fmt.Errorf("failed to clear assessments: %w", err)
		}
		return insertAssessments(ctx, tx, proj)
	})
}

func (r *ProjectRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertProject(ctx context.Context, q querier, proj *health.Project, seq int64) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO projects (id, name, client, leader, delivery, tech_lead, status, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		proj.ID,
		proj.Name,
		proj.Client,
		proj.Leader,
		proj.Delivery,
		proj.TechLead,
		statusOf(proj),
		proj.CreatedAt,
		seq,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("project %s: %w", proj.ID, repository.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return insertAssessments(ctx, q, proj)
}

func insertAssessments(ctx context.Context, q querier, proj *health.Project) error {
	for i, a := range proj.Ratings {
		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to encode assessment %s: %w", a.Week, err)
		}
		_, err = q.ExecContext(ctx,
			`INSERT INTO assessments (project_id, week, position, payload) VALUES (?, ?, ?, ?)`,
			proj.ID, a.Week, i, string(payload))
		if isUniqueViolation(err) {
			return fmt.Errorf("project %s week %s: %w", proj.ID, a.Week, repository.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to store assessment: %w", err)
		}
	}
	return nil
}

// loadAssessments groups stored assessments by project. An empty projectID
// loads every project's.
func loadAssessments(ctx context.Context, q querier, projectID string) (map[string][]health.Assessment, error) {
	query := `SELECT project_id, payload FROM assessments`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY project_id, position`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]health.Assessment)
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		var a health.Assessment
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("failed to decode assessment for %s: %w", id, err)
		}
		out[id] = append(out[id], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*health.Project, error) {
	var proj health.Project
	var status string
	var createdAt sql.NullTime
	err := s.Scan(
		&proj.ID,
		&proj.Name,
		&proj.Client,
		&proj.Leader,
		&proj.Delivery,
		&proj.TechLead,
		&status,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	proj.Status = health.Status(status)
	if createdAt.Valid {
		proj.CreatedAt = createdAt.Time
	}
	proj.Ratings = []health.Assessment{}
	return &proj, nil
}

func statusOf(proj *health.Project) health.Status {
	if proj.Status == "" {
		return health.StatusActive
	}
	return proj.Status
}
