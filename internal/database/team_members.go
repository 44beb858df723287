package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// TeamMember represents a team member shown on the about page
type TeamMember struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Bio        string    `json:"bio"`
	Image      string    `json:"image"`
	Email      string    `json:"email"`
	LinkedIn   string    `json:"linkedin"`
	Twitter    string    `json:"twitter"`
	OrderIndex int       `json:"order_index"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// TeamMemberInput holds every client-supplied team member column
type TeamMemberInput struct {
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role"`
	Bio        string `json:"bio"`
	Image      string `json:"image"`
	Email      string `json:"email" validate:"omitempty,email"`
	LinkedIn   string `json:"linkedin" validate:"omitempty,url"`
	Twitter    string `json:"twitter"`
	OrderIndex int    `json:"order_index"`
	Active     bool   `json:"active"`
}

// TeamMemberUpdate is a partial team member update
type TeamMemberUpdate struct {
	Name       Optional[string] `json:"name"`
	Role       Optional[string] `json:"role"`
	Bio        Optional[string] `json:"bio"`
	Image      Optional[string] `json:"image"`
	Email      Optional[string] `json:"email"`
	LinkedIn   Optional[string] `json:"linkedin"`
	Twitter    Optional[string] `json:"twitter"`
	OrderIndex Optional[int]    `json:"order_index"`
	Active     Optional[bool]   `json:"active"`
}

const teamMemberColumns = `id, name, role, bio, image, email, linkedin, twitter,
	order_index, active, created_at`

func scanTeamMember(scanner rowScanner) (*TeamMember, error) {
	m := &TeamMember{}
	if err := scanner.Scan(&m.ID, &m.Name, &m.Role, &m.Bio, &m.Image, &m.Email, &m.LinkedIn, &m.Twitter,
		&m.OrderIndex, &m.Active, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (db *db) listTeamMembers(ctx context.Context, query string, args ...any) ([]*TeamMember, error) {
	rows, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := []*TeamMember{}
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team members: %w", err)
	}
	return members, nil
}

// ListTeamMembers returns active members in display order
func (db *db) ListTeamMembers(ctx context.Context) ([]*TeamMember, error) {
	return db.listTeamMembers(ctx, `
		SELECT `+teamMemberColumns+`
		FROM team_members
		WHERE active = true
		ORDER BY order_index ASC, id ASC
	`)
}

// ListTeamMembersForAdmin returns every member in display order
func (db *db) ListTeamMembersForAdmin(ctx context.Context) ([]*TeamMember, error) {
	return db.listTeamMembers(ctx, `
		SELECT `+teamMemberColumns+`
		FROM team_members
		ORDER BY order_index ASC, id ASC
	`)
}

// GetTeamMember retrieves a member by ID regardless of the active flag
func (db *db) GetTeamMember(ctx context.Context, id int64) (*TeamMember, error) {
	m, err := scanTeamMember(db.queryRow(ctx, `
		SELECT `+teamMemberColumns+`
		FROM team_members
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	return m, nil
}

// CreateTeamMember inserts a member and returns the stored row
func (db *db) CreateTeamMember(ctx context.Context, in TeamMemberInput) (*TeamMember, error) {
	created, err := db.createTeamMember(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("name", in.Name).Msg("Error creating team member")
		return nil, err
	}
	return created, nil
}

func (db *db) createTeamMember(ctx context.Context, in TeamMemberInput) (*TeamMember, error) {
	result, err := db.exec(ctx, `
		INSERT INTO team_members (
			name, role, bio, image, email, linkedin, twitter,
			order_index, active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Role, in.Bio, in.Image, in.Email, in.LinkedIn, in.Twitter,
		in.OrderIndex, in.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInsertID, err)
	}
	if id == 0 {
		return nil, ErrNoInsertID
	}

	created, err := db.GetTeamMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%w: team member %d", ErrReadBackMissing, id)
	}
	return created, nil
}

// UpdateTeamMember writes the set fields of patch and returns the stored row
func (db *db) UpdateTeamMember(ctx context.Context, id int64, patch TeamMemberUpdate) (*TeamMember, error) {
	var s setClauses
	addSet(&s, "name", patch.Name)
	addSet(&s, "role", patch.Role)
	addSet(&s, "bio", patch.Bio)
	addSet(&s, "image", patch.Image)
	addSet(&s, "email", patch.Email)
	addSet(&s, "linkedin", patch.LinkedIn)
	addSet(&s, "twitter", patch.Twitter)
	addSet(&s, "order_index", patch.OrderIndex)
	addSet(&s, "active", patch.Active)

	query, args := s.statement("team_members", false, id)
	if _, err := db.exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}

	updated, err := db.GetTeamMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: team member %d", ErrReadBackMissing, id)
	}
	return updated, nil
}

// DeleteTeamMember removes a member by ID
func (db *db) DeleteTeamMember(ctx context.Context, id int64) error {
	if _, err := db.exec(ctx, "DELETE FROM team_members WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}
	return nil
}
