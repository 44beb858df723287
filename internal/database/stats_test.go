package database

import (
	"context"
	"testing"
)

func TestGetProjectStats_EmptyTableIsZero(t *testing.T) {
	db := newTestDB(t)

	stats, err := db.GetProjectStats(context.Background())
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if *stats != (ProjectStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestGetProjectStats_Aggregates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	inputs := []ProjectInput{
		{Title: "a", Status: ProjectStatusActive, Raised: float64Ptr(100.25), Beneficiaries: int64Ptr(10)},
		{Title: "b", Status: ProjectStatusActive, Raised: float64Ptr(50)},
		{Title: "c", Status: ProjectStatusCompleted, Beneficiaries: int64Ptr(5)},
		{Title: "d", Status: ProjectStatusPlanned},
	}
	for _, in := range inputs {
		if _, err := db.CreateProject(ctx, in); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}
	}

	stats, err := db.GetProjectStats(ctx)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	want := ProjectStats{
		TotalProjects:      4,
		ActiveProjects:     2,
		TotalBeneficiaries: 15,
		TotalRaised:        150.25,
	}
	if *stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestGetProjectStats_CanceledContextFails(t *testing.T) {
	db := newTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := db.GetProjectStats(ctx); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
