package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migrate runs all database migrations
func (db *db) Migrate() error {
	ctx := context.Background()
	log.Info().Msg("Running database migrations")

	// Create migrations table if not exists
	_, err := db.exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	err = db.queryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	log.Debug().Int("current_version", currentVersion).Msg("Current schema version")

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}
		log.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("Applying migration")

		if err := db.Transaction(func(tx *sql.Tx) error {
			statements := splitSQLStatements(migration.SQL)
			for i, stmt := range statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d statement %d failed: %w", migration.Version, i+1, err)
				}
			}

			if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
			}

			return nil
		}); err != nil {
			return err
		}
	}

	log.Info().Msg("Database migrations complete")
	return nil
}

// SchemaVersion returns the highest applied migration version
func (db *db) SchemaVersion() (int, error) {
	var version int
	err := db.queryRow(context.Background(), "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

type migration struct {
	Version int
	Name    string
	SQL     string
}

// splitSQLStatements splits a SQL string into individual statements.
// It handles comments and only returns non-empty statements.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		// Skip empty lines and comments
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	// Handle any remaining content without trailing semicolon
	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}

// nowMillis is the column default used for storage-assigned timestamps.
// CURRENT_TIMESTAMP only has second resolution.
const nowMillis = `strftime('%Y-%m-%d %H:%M:%f', 'now')`

var migrations = []migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQL: `
			-- Runtime settings (log rotation, maintenance schedules)
			CREATE TABLE settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE projects (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				location TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'planned',
				progress INTEGER NOT NULL DEFAULT 0,
				budget REAL NOT NULL DEFAULT 0,
				raised REAL,
				beneficiaries INTEGER,
				start_date DATE,
				featured_image TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT (` + nowMillis + `),
				updated_at TIMESTAMP NOT NULL DEFAULT (` + nowMillis + `)
			);
			CREATE INDEX idx_projects_created_at ON projects(created_at);
			CREATE INDEX idx_projects_status ON projects(status);

			CREATE TABLE blog_posts (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				slug TEXT NOT NULL UNIQUE,
				excerpt TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				author TEXT NOT NULL DEFAULT '',
				featured_image TEXT NOT NULL DEFAULT '',
				published BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT (` + nowMillis + `),
				updated_at TIMESTAMP NOT NULL DEFAULT (` + nowMillis + `)
			);
			CREATE INDEX idx_blog_posts_published_created ON blog_posts(published, created_at);

			CREATE TABLE team_members (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT '',
				bio TEXT NOT NULL DEFAULT '',
				image TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				linkedin TEXT NOT NULL DEFAULT '',
				twitter TEXT NOT NULL DEFAULT '',
				order_index INTEGER NOT NULL DEFAULT 0,
				active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP NOT NULL DEFAULT (` + nowMillis + `)
			);
			CREATE INDEX idx_team_members_active_order ON team_members(active, order_index);

			CREATE TABLE gallery_images (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL DEFAULT '',
				image_url TEXT NOT NULL,
				alt_text TEXT NOT NULL DEFAULT '',
				order_index INTEGER NOT NULL DEFAULT 0,
				active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP NOT NULL DEFAULT (` + nowMillis + `)
			);
			CREATE INDEX idx_gallery_images_category_order ON gallery_images(category, active, order_index);
		`,
	},
}
