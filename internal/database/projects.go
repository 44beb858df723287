package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusPaused    ProjectStatus = "paused"
)

// ProjectStatuses lists every accepted status value
var ProjectStatuses = []ProjectStatus{
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusPlanned,
	ProjectStatusPaused,
}

// Project represents a fundraising project row
type Project struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Location      string        `json:"location"`
	Status        ProjectStatus `json:"status"`
	Progress      int           `json:"progress"`
	Budget        float64       `json:"budget"`
	Raised        *float64      `json:"raised"`
	Beneficiaries *int64        `json:"beneficiaries"`
	StartDate     *time.Time    `json:"start_date"`
	FeaturedImage string        `json:"featured_image"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ProjectInput holds every client-supplied project column
type ProjectInput struct {
	Title         string        `json:"title" validate:"required"`
	Description   string        `json:"description"`
	Location      string        `json:"location"`
	Status        ProjectStatus `json:"status" validate:"required,oneof=active completed planned paused"`
	Progress      int           `json:"progress" validate:"min=0,max=100"`
	Budget        float64       `json:"budget" validate:"min=0"`
	Raised        *float64      `json:"raised" validate:"omitempty,min=0"`
	Beneficiaries *int64        `json:"beneficiaries" validate:"omitempty,min=0"`
	StartDate     *time.Time    `json:"start_date"`
	FeaturedImage string        `json:"featured_image"`
}

// ProjectUpdate is a partial project update; only set fields are written
type ProjectUpdate struct {
	Title         Optional[string]        `json:"title"`
	Description   Optional[string]        `json:"description"`
	Location      Optional[string]        `json:"location"`
	Status        Optional[ProjectStatus] `json:"status"`
	Progress      Optional[int]           `json:"progress"`
	Budget        Optional[float64]       `json:"budget"`
	Raised        Optional[*float64]      `json:"raised"`
	Beneficiaries Optional[*int64]        `json:"beneficiaries"`
	StartDate     Optional[*time.Time]    `json:"start_date"`
	FeaturedImage Optional[string]        `json:"featured_image"`
}

const projectColumns = `id, title, description, location, status, progress,
	budget, raised, beneficiaries, start_date, featured_image,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(scanner rowScanner) (*Project, error) {
	p := &Project{}
	var raised sql.NullFloat64
	var beneficiaries sql.NullInt64
	var startDate sql.NullTime

	if err := scanner.Scan(&p.ID, &p.Title, &p.Description, &p.Location, &p.Status, &p.Progress,
		&p.Budget, &raised, &beneficiaries, &startDate, &p.FeaturedImage,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	p.Raised = nullFloat64ToPtr(raised)
	p.Beneficiaries = nullInt64ToPtr(beneficiaries)
	p.StartDate = nullTimeToPtr(startDate)
	return p, nil
}

func (db *db) listProjects(ctx context.Context, query string, args ...any) ([]*Project, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// ListProjects returns all projects, newest first
func (db *db) ListProjects(ctx context.Context) ([]*Project, error) {
	return db.listProjects(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY created_at DESC, id DESC
	`)
}

// ListActiveProjects returns projects with status active, newest first
func (db *db) ListActiveProjects(ctx context.Context) ([]*Project, error) {
	return db.listProjects(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE status = ?
		ORDER BY created_at DESC, id DESC
	`, string(ProjectStatusActive))
}

// GetProject retrieves a project by ID. It returns nil, nil when absent.
func (db *db) GetProject(ctx context.Context, id int64) (*Project, error) {
	p, err := scanProject(db.queryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// CreateProject inserts a project and returns the stored row
func (db *db) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	p, err := db.createProject(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("Error creating project")
		return nil, err
	}
	return p, nil
}

func (db *db) createProject(ctx context.Context, in ProjectInput) (*Project, error) {
	result, err := db.exec(ctx, `
		INSERT INTO projects (
			title, description, location, status, progress,
			budget, raised, beneficiaries, start_date, featured_image
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Title, in.Description, in.Location, string(in.Status), in.Progress,
		in.Budget, nullable(in.Raised), nullable(in.Beneficiaries), nullable(in.StartDate), in.FeaturedImage)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInsertID, err)
	}
	if id == 0 {
		return nil, ErrNoInsertID
	}

	created, err := db.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%w: project %d", ErrReadBackMissing, id)
	}
	return created, nil
}

// UpdateProject writes the set fields of patch and returns the stored row.
// updated_at is refreshed even when patch is empty.
func (db *db) UpdateProject(ctx context.Context, id int64, patch ProjectUpdate) (*Project, error) {
	var s setClauses
	addSet(&s, "title", patch.Title)
	addSet(&s, "description", patch.Description)
	addSet(&s, "location", patch.Location)
	if status, ok := patch.Status.Get(); ok {
		addSet(&s, "status", Some(string(status)))
	}
	addSet(&s, "progress", patch.Progress)
	addSet(&s, "budget", patch.Budget)
	addSetNullable(&s, "raised", patch.Raised)
	addSetNullable(&s, "beneficiaries", patch.Beneficiaries)
	addSetNullable(&s, "start_date", patch.StartDate)
	addSet(&s, "featured_image", patch.FeaturedImage)

	query, args := s.statement("projects", true, id)
	if _, err := db.exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	updated, err := db.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: project %d", ErrReadBackMissing, id)
	}
	return updated, nil
}

// DeleteProject removes a project by ID. Deleting a missing project is not an error.
func (db *db) DeleteProject(ctx context.Context, id int64) error {
	if _, err := db.exec(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
