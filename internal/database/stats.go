package database

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ProjectStats summarizes the projects table
type ProjectStats struct {
	TotalProjects      int64   `json:"totalProjects"`
	ActiveProjects     int64   `json:"activeProjects"`
	TotalBeneficiaries int64   `json:"totalBeneficiaries"`
	TotalRaised        float64 `json:"totalRaised"`
}

// GetProjectStats runs the four aggregate queries concurrently. Any failure
// fails the whole call; sums over no rows are reported as zero.
func (db *db) GetProjectStats(ctx context.Context) (*ProjectStats, error) {
	var (
		total, active sql.NullInt64
		beneficiaries sql.NullInt64
		raised        sql.NullFloat64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.scalar(ctx, &total, "total projects",
			"SELECT COUNT(*) FROM projects")
	})
	g.Go(func() error {
		return db.scalar(ctx, &active, "active projects",
			"SELECT COUNT(*) FROM projects WHERE status = ?", string(ProjectStatusActive))
	})
	g.Go(func() error {
		return db.scalar(ctx, &beneficiaries, "total beneficiaries",
			"SELECT SUM(beneficiaries) FROM projects WHERE beneficiaries IS NOT NULL")
	})
	g.Go(func() error {
		return db.scalar(ctx, &raised, "total raised",
			"SELECT SUM(raised) FROM projects WHERE raised IS NOT NULL")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ProjectStats{
		TotalProjects:      total.Int64,
		ActiveProjects:     active.Int64,
		TotalBeneficiaries: beneficiaries.Int64,
		TotalRaised:        raised.Float64,
	}, nil
}

func (db *db) scalar(ctx context.Context, dest any, name, query string, args ...any) error {
	if err := db.queryRow(ctx, query, args...).Scan(dest); err != nil {
		return fmt.Errorf("failed to get %s: %w", name, err)
	}
	return nil
}
