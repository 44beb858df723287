package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/contentdb/internal/config"
	"github.com/saltyorg/contentdb/internal/logging"
	"github.com/saltyorg/contentdb/internal/maintenance"
)

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change stored settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := c.store.GetAllSettings()
				if err != nil {
					return err
				}
				return printJSON(cmd, settings)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Show one setting",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := c.store.GetSetting(args[0])
				if err != nil {
					return err
				}
				if value == "" {
					return fmt.Errorf("setting %s: %w", args[0], errNotFound)
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Store a setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.store.SetSetting(args[0], args[1]); err != nil {
					return err
				}
				log.Info().Str("key", args[0]).Msg("Setting updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Remove a setting; defaults are restored on the next run",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.store.DeleteSetting(args[0])
			},
		},
	)

	return cmd
}

func (c *cli) maintainCmd() *cobra.Command {
	var (
		vacuum bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Optimize the database now, or run scheduled maintenance with --watch",
		Long: `Without --watch, runs PRAGMA optimize (and VACUUM with --vacuum) once.
With --watch, runs the maintenance.* cron schedules until interrupted, logging to
contentdb.log beside the database unless --log-file is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(c.store)
			scheduler := maintenance.New(c.store, maintenance.LoadConfig(loader))

			if !watch {
				if err := scheduler.RunNow(vacuum); err != nil {
					return err
				}
				log.Info().Bool("vacuum", vacuum).Msg("Maintenance complete")
				return nil
			}

			// Long-running: keep a log file beside the database unless one was given
			if c.logFile == "" {
				logging.Apply("", loader, logging.FilePathForDB(c.dbPath))
			}

			if err := scheduler.Start(); err != nil {
				return err
			}
			if err := printJSON(cmd, scheduler.Status()); err != nil {
				scheduler.Stop()
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case sig := <-sigChan:
				log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			case <-cmd.Context().Done():
			}

			scheduler.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&vacuum, "vacuum", false, "Also VACUUM the database")
	cmd.Flags().BoolVar(&watch, "watch", false, "Run the maintenance schedules until interrupted")
	return cmd
}
