package cli

import (
	"fmt"
	"strings"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/usecase"
	"github.com/spf13/cobra"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		To     string
		ToPath string
		Force  bool
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the snapshot to another store backend",
		Long: `Copy the current snapshot into another store backend.

The source is the configured store (--store / --store-path).
The source snapshot is validated before anything is written, and a
destination that already holds data is left untouched unless --force is given.

Examples:
  # Move from the default CSV file to SQLite
  kanban migrate --to sqlite

  # Copy a JSON snapshot into a specific CSV file
  kanban --store json migrate --to csv --to-path backup/kanban.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to := strings.ToLower(strings.TrimSpace(opts.To))
			if !domain.IsValidBackend(to) {
				return fmt.Errorf("%w: %q (want one of %s)", domain.ErrUnknownBackend, opts.To, strings.Join(domain.AllBackends(), ", "))
			}

			src := c.AppConfig.Store
			srcPath := c.StorePath(src.Backend, src.Path)
			destPath := c.StorePath(to, opts.ToPath)
			if to == src.Backend && destPath == srcPath {
				return fmt.Errorf("source and destination are the same store: %s", srcPath)
			}

			source, sourceCloser, err := c.OpenConfiguredStore()
			if err != nil {
				return fmt.Errorf("open source store: %w", err)
			}
			defer func() { _ = sourceCloser.Close() }()

			dest, destCloser, err := app.OpenStore(to, destPath)
			if err != nil {
				return fmt.Errorf("open destination store: %w", err)
			}
			defer func() { _ = destCloser.Close() }()

			uc := c.MigrateStoreUseCase(source, dest)
			out, err := uc.Execute(cmd.Context(), usecase.MigrateStoreInput{Force: opts.Force})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Replaced {
				_, _ = fmt.Fprintf(w, "Replaced existing data in %s\n", destPath)
			}
			_, _ = fmt.Fprintf(w, "Migrated %d tasks, %d epics, %d subtasks and %d history entries to %s (%s)\n",
				out.Tasks, out.Epics, out.Subtasks, out.History, destPath, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "Destination backend: csv, json, sqlite or memory (required)")
	cmd.Flags().StringVar(&opts.ToPath, "to-path", "", "Destination path (default: backend default file)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite a destination that already holds data")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
