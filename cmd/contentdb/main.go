package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/contentdb/internal/config"
	"github.com/saltyorg/contentdb/internal/database"
	"github.com/saltyorg/contentdb/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultDBPath = "./contentdb.db"

// skipDatabase marks commands that run without opening the database
const skipDatabase = "skip-database"

// cli holds flags and the opened store for one command invocation
type cli struct {
	dbPath    string
	logFile   string
	logLevel  string
	verbosity int

	timeouts *config.TimeoutConfig
	store    *database.Manager
}

func main() {
	c := &cli{}
	err := newRootCmd(c).Execute()
	if closeErr := c.close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("Failed to close database")
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contentdb",
		Short: "contentdb - content store for projects, posts, team and gallery",
		Long: `contentdb manages the SQLite content store behind the site: projects, blog posts,
team members and gallery images. Records are read and written as JSON.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&c.dbPath, "db", "d", defaultDBPath, "SQLite database path (or set CONTENTDB_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&c.logFile, "log-file", "", "Also write logs to this rotating file (or set CONTENTDB_LOG_FILE)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (or set CONTENTDB_LOG_LEVEL)")
	rootCmd.PersistentFlags().CountVarP(&c.verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:         "version",
			Short:       "Show version information",
			Annotations: map[string]string{skipDatabase: "true"},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "contentdb %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
		c.migrateCmd(),
		c.statsCmd(),
		c.projectsCmd(),
		c.postsCmd(),
		c.teamCmd(),
		c.galleryCmd(),
		c.settingsCmd(),
		c.maintainCmd(),
	)

	return rootCmd
}

// setup applies environment fallbacks, configures logging and opens the store
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("db") && env.DBPath != "" {
		c.dbPath = env.DBPath
	}
	if !flags.Changed("log-file") && env.LogFile != "" {
		c.logFile = env.LogFile
	}
	if !flags.Changed("log-level") && env.LogLevel != "" {
		c.logLevel = env.LogLevel
	}

	logging.Console(c.verbosity)
	c.timeouts = env.Timeouts()
	config.SetGlobalTimeouts(c.timeouts)

	if cmd.Annotations[skipDatabase] == "true" {
		return nil
	}

	db, err := database.New(c.dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.store = db

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	if err := db.InitializeDefaults(); err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}

	loader := config.NewLoader(db)
	if env.CommandTimeout == 0 {
		c.timeouts.Command = loader.Duration("db.command_timeout", c.timeouts.Command)
	}

	level := c.logLevel
	if level == "" && c.verbosity == 0 {
		level = loader.String("log.level", "info")
	}
	if c.logFile != "" {
		logging.Apply(level, loader, c.logFile)
	} else {
		logging.SetLevel(level)
	}

	log.Debug().
		Str("version", version).
		Str("database", c.dbPath).
		Msg("contentdb ready")

	return nil
}

func (c *cli) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// commandContext bounds a command's database work by the configured timeout
func (c *cli) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeouts == nil || c.timeouts.Command <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeouts.Command)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup has already migrated; report where the schema stands
			v, err := c.store.SchemaVersion()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"path": c.store.Path(), "schema_version": v})
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show project totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.commandContext(cmd)
			defer cancel()

			stats, err := c.store.GetProjectStats(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		},
	}
}
