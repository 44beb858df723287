package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/saltyorg/contentdb/internal/database"
)

// run executes one CLI invocation against dbPath and returns stdout
func run(t *testing.T, dbPath, stdin string, args ...string) (string, error) {
	t.Helper()

	c := &cli{}
	t.Cleanup(func() { c.close() })

	cmd := newRootCmd(c)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))

	err := cmd.Execute()
	if closeErr := c.close(); closeErr != nil {
		t.Fatalf("failed to close database: %v", closeErr)
	}
	return out.String(), err
}

func mustRun(t *testing.T, dbPath, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, stdin, args...)
	if err != nil {
		t.Fatalf("contentdb %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("failed to decode output %q: %v", out, err)
	}
	return v
}

func TestProjectsLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	created := decode[database.Project](t, mustRun(t, dbPath,
		`{"title":"Well","status":"active","progress":10,"budget":500,"raised":120.5}`,
		"projects", "create"))
	if created.ID == 0 || created.Title != "Well" || created.Raised == nil || *created.Raised != 120.5 {
		t.Fatalf("unexpected created project %+v", created)
	}
	id := strconv.FormatInt(created.ID, 10)

	updated := decode[database.Project](t, mustRun(t, dbPath, `{"progress":0,"raised":null}`, "projects", "update", id))
	if updated.Progress != 0 || updated.Raised != nil || updated.Budget != 500 {
		t.Fatalf("unexpected updated project %+v", updated)
	}

	active := decode[[]database.Project](t, mustRun(t, dbPath, "", "projects", "list", "--active"))
	if len(active) != 1 || active[0].ID != created.ID {
		t.Fatalf("expected the project in the active list, got %+v", active)
	}

	stats := decode[database.ProjectStats](t, mustRun(t, dbPath, "", "stats"))
	if stats.TotalProjects != 1 || stats.ActiveProjects != 1 || stats.TotalRaised != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	mustRun(t, dbPath, "", "projects", "delete", id)
	if _, err := run(t, dbPath, "", "projects", "get", id); !errors.Is(err, errNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestProjectsCreate_Validates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	if _, err := run(t, dbPath, `{"title":"Well","status":"active","progress":150}`, "projects", "create"); err == nil {
		t.Fatalf("expected progress validation error")
	}
	if _, err := run(t, dbPath, `{"title":"Well","status":"archived"}`, "projects", "create"); err == nil {
		t.Fatalf("expected status validation error")
	}
	if _, err := run(t, dbPath, `{"title":"Well","status":"active","colour":"red"}`, "projects", "create"); err == nil {
		t.Fatalf("expected unknown field error")
	}

	projects := decode[[]database.Project](t, mustRun(t, dbPath, "", "projects", "list"))
	if len(projects) != 0 {
		t.Fatalf("expected nothing stored, got %+v", projects)
	}
}

func TestProjectsUpdate_ValidatesPresentFields(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	created := decode[database.Project](t, mustRun(t, dbPath, `{"title":"Well","status":"planned"}`, "projects", "create"))
	id := strconv.FormatInt(created.ID, 10)

	if _, err := run(t, dbPath, `{"status":"archived"}`, "projects", "update", id); err == nil {
		t.Fatalf("expected status validation error")
	}
	if _, err := run(t, dbPath, `{"title":""}`, "projects", "update", id); err == nil {
		t.Fatalf("expected empty title to be rejected")
	}
	if _, err := run(t, dbPath, `{"raised":-1}`, "projects", "update", id); err == nil {
		t.Fatalf("expected negative raised to be rejected")
	}
}

func TestPostsDraftVisibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	draft := decode[database.BlogPost](t, mustRun(t, dbPath,
		`{"title":"Soon","slug":"soon","category":"news","published":false}`, "posts", "create"))
	id := strconv.FormatInt(draft.ID, 10)

	if _, err := run(t, dbPath, "", "posts", "get", id); !errors.Is(err, errNotFound) {
		t.Fatalf("expected draft hidden from public get, got %v", err)
	}
	admin := decode[database.BlogPost](t, mustRun(t, dbPath, "", "posts", "get", "--admin", id))
	if admin.ID != draft.ID {
		t.Fatalf("expected admin get to return draft, got %+v", admin)
	}

	mustRun(t, dbPath, `{"published":true}`, "posts", "update", id)

	bySlug := decode[database.BlogPost](t, mustRun(t, dbPath, "", "posts", "slug", "soon"))
	if !bySlug.Published {
		t.Fatalf("expected published post by slug, got %+v", bySlug)
	}
	news := decode[[]database.BlogPost](t, mustRun(t, dbPath, "", "posts", "list", "--category", "news"))
	if len(news) != 1 {
		t.Fatalf("expected one news post, got %+v", news)
	}
}

func TestTeamAndGallery(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	mustRun(t, dbPath, `{"name":"B","order_index":2,"active":true}`, "team", "create")
	mustRun(t, dbPath, `{"name":"A","order_index":1,"active":true}`, "team", "create")
	if _, err := run(t, dbPath, `{"name":"C","email":"not-an-email"}`, "team", "create"); err == nil {
		t.Fatalf("expected email validation error")
	}

	team := decode[[]database.TeamMember](t, mustRun(t, dbPath, "", "team", "list"))
	if len(team) != 2 || team[0].Name != "A" {
		t.Fatalf("expected A first, got %+v", team)
	}

	mustRun(t, dbPath, `{"title":"Well","image_url":"/well.jpg","category":"water","active":true}`, "gallery", "create")
	categories := decode[[]string](t, mustRun(t, dbPath, "", "gallery", "categories"))
	if len(categories) != 1 || categories[0] != "water" {
		t.Fatalf("expected [water], got %v", categories)
	}
	empty := decode[[]database.GalleryImage](t, mustRun(t, dbPath, "", "gallery", "list", "--category", "x"))
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %+v", empty)
	}
}

func TestSettingsAndMaintenance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	mustRun(t, dbPath, "", "settings", "set", "maintenance.vacuum_schedule", "off")
	if got := strings.TrimSpace(mustRun(t, dbPath, "", "settings", "get", "maintenance.vacuum_schedule")); got != "off" {
		t.Fatalf("expected off, got %q", got)
	}
	if _, err := run(t, dbPath, "", "settings", "get", "missing.key"); !errors.Is(err, errNotFound) {
		t.Fatalf("expected missing setting error, got %v", err)
	}

	mustRun(t, dbPath, "", "maintain", "--vacuum")

	migrated := decode[map[string]any](t, mustRun(t, dbPath, "", "migrate"))
	if migrated["schema_version"] != float64(1) {
		t.Fatalf("expected schema version 1, got %v", migrated)
	}
}

func TestInvalidID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	for _, arg := range []string{"abc", "0", "-3"} {
		if _, err := run(t, dbPath, "", "projects", "get", arg); err == nil {
			t.Fatalf("expected error for id %q", arg)
		}
	}
}

func TestVersionSkipsDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "never.db")

	out := mustRun(t, dbPath, "", "version")
	if !strings.HasPrefix(out, "contentdb ") {
		t.Fatalf("unexpected version output %q", out)
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, "*")); len(matches) != 0 {
		t.Fatalf("expected no database file, found %v", matches)
	}
}

func TestProjectsCreate_ZonedStartDate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	created := decode[database.Project](t, mustRun(t, dbPath,
		`{"title":"Well","status":"active","start_date":"2024-03-01T00:00:00+02:00"}`,
		"projects", "create"))
	want := time.Date(2024, 2, 29, 22, 0, 0, 0, time.UTC)
	if created.StartDate == nil || !created.StartDate.Equal(want) {
		t.Fatalf("expected start date %v, got %v", want, created.StartDate)
	}

	id := strconv.FormatInt(created.ID, 10)
	mustRun(t, dbPath, `{"start_date":"2024-05-01T09:00:00-05:00"}`, "projects", "update", id)

	projects := decode[[]database.Project](t, mustRun(t, dbPath, "", "projects", "list"))
	if len(projects) != 1 || !projects[0].StartDate.Equal(time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected listed projects %+v", projects)
	}
}

func TestListAdminAndCategoryAreExclusive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	if _, err := run(t, dbPath, "", "posts", "list", "--admin", "--category", "news"); err == nil {
		t.Fatalf("expected posts list to reject --admin with --category")
	}
	if _, err := run(t, dbPath, "", "gallery", "list", "--admin", "--category", "water"); err == nil {
		t.Fatalf("expected gallery list to reject --admin with --category")
	}
}

func TestCommandTimeoutFromSettings(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "content.db")

	if got := strings.TrimSpace(mustRun(t, dbPath, "", "settings", "get", "db.command_timeout")); got != "30s" {
		t.Fatalf("expected default command timeout 30s, got %q", got)
	}

	mustRun(t, dbPath, "", "settings", "set", "db.command_timeout", "1ns")
	if _, err := run(t, dbPath, "", "stats"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected stored timeout to bound the command, got %v", err)
	}

	t.Setenv("CONTENTDB_COMMAND_TIMEOUT", "1m")
	mustRun(t, dbPath, "", "stats")
}
