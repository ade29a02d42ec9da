// Package cli provides the command-line interface for kanban.
package cli

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/service"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupBoard  = "board"
	groupServer = "server"
)

// annotationSkipConfigCheck marks commands that run with a broken config file.
const annotationSkipConfigCheck = "kanban/skip-config-check"

// NewRootCommand creates the root command for kanban.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	v := newSettings()

	root := &cobra.Command{
		Use:   "kanban",
		Short: "Task tracker with epics, history and a time-ordered schedule",
		Long: `kanban tracks plain tasks, epics and the subtasks that belong to them.

An epic's status and time window are derived from its subtasks. Scheduled
tasks and subtasks may not overlap. Every change is saved to a snapshot
store (csv, json, sqlite or memory) and the same state can be served
over HTTP with "kanban serve".`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			if c.ConfigErr != nil && !skipsConfigCheck(cmd) {
				return fmt.Errorf("load config: %w", c.ConfigErr)
			}
			if err := loadDotEnv(c.Config.WorkDir); err != nil {
				return err
			}

			cfg := resolveConfig(v, c.AppConfig)
			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return c.Apply(cfg)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c != nil {
				c.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("store", "", "Store backend: csv, json, sqlite or memory")
	flags.String("store-path", "", "Snapshot path (default: kanban.csv, kanban.json or kanban.db)")
	flags.Bool("autosave", true, "Save the snapshot after every change")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	bindFlag(v, keyStoreBackend, flags, "store")
	bindFlag(v, keyStorePath, flags, "store-path")
	bindFlag(v, keyStoreAutosave, flags, "autosave")
	bindFlag(v, keyLogLevel, flags, "log-level")
	bindFlag(v, keyLogFile, flags, "log-file")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupBoard, Title: "Board Commands:"},
		&cobra.Group{ID: groupServer, Title: "Server Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Board commands
	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupBoard

	epicCmd := newEpicCommand(c)
	epicCmd.GroupID = groupBoard

	subtaskCmd := newSubtaskCommand(c)
	subtaskCmd.GroupID = groupBoard

	historyCmd := newListCommand(c, "history", "List viewed entities, oldest first", (*service.Service).History)
	historyCmd.GroupID = groupBoard

	prioritizedCmd := newListCommand(c, "prioritized", "List scheduled tasks and subtasks by start time", (*service.Service).Prioritized)
	prioritizedCmd.GroupID = groupBoard

	// Server commands
	serveCmd := newServeCommand(c, v)
	serveCmd.GroupID = groupServer

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	migrateCmd := newMigrateCommand(c)
	migrateCmd.GroupID = groupSetup

	versionCmd := newVersionCommand()
	versionCmd.GroupID = groupSetup
	versionCmd.Annotations = map[string]string{annotationSkipConfigCheck: "true"}

	// Add subcommands
	root.AddCommand(
		taskCmd,
		epicCmd,
		subtaskCmd,
		historyCmd,
		prioritizedCmd,
		serveCmd,
		configCmd,
		migrateCmd,
		versionCmd,
	)

	return root
}

// skipsConfigCheck reports whether cmd or one of its parents tolerates a
// config file that failed to load.
func skipsConfigCheck(cmd *cobra.Command) bool {
	for cur := cmd; cur != nil; cur = cur.Parent() {
		if cur.Annotations[annotationSkipConfigCheck] == "true" {
			return true
		}
	}
	return false
}
