package cli

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/service"
	"github.com/spf13/cobra"
)

// newSubtaskCommand creates the subtask command group.
func newSubtaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"sub"},
		Short:   "Manage subtasks of epics",
	}

	cmd.AddCommand(
		newSubtaskAddCommand(c),
		newListCommand(c, "list", "List subtasks", (*service.Service).Subtasks),
		newShowCommand(c, domain.KindSubtask, (*service.Service).Subtask),
		newSubtaskEditCommand(c),
		newRmCommand(c, domain.KindSubtask, (*service.Service).DeleteSubtask),
		newClearCommand(c, domain.KindSubtask, (*service.Service).DeleteAllSubtasks),
	)
	return cmd
}

// newSubtaskAddCommand creates the subtask add command.
func newSubtaskAddCommand(c *app.Container) *cobra.Command {
	var opts taskOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a subtask in an epic",
		Long: `Create a subtask. --epic must name an existing epic.

Examples:
  kanban subtask add --epic 1 --title "Tag release"
  kanban subtask add -e 1 -t "Deploy" --start 2026-03-02T14:00 --duration 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireTitle(opts.Title); err != nil {
				return err
			}
			st := domain.NewSubtask("", "", opts.EpicID)
			if err := opts.apply(cmd, &st.Task); err != nil {
				return err
			}
			return withService(cmd, c, func(svc *service.Service) error {
				created, err := svc.CreateSubtask(cmd.Context(), st)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created subtask #%d in epic #%d: %s\n", created.ID, created.EpicID, created.Title)
				return nil
			})
		},
	}

	addTaskFlags(cmd, &opts, true)
	_ = cmd.MarkFlagRequired("epic")
	return cmd
}

// newSubtaskEditCommand creates the subtask edit command.
func newSubtaskEditCommand(c *app.Container) *cobra.Command {
	var opts taskOptions

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a subtask",
		Long: `Edit a subtask. Only the flags given are changed.
--epic moves the subtask to another epic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				if err := requireTitle(opts.Title); err != nil {
					return err
				}
			}
			return withService(cmd, c, func(svc *service.Service) error {
				st, err := lookupTask(svc, domain.KindSubtask, id)
				if err != nil {
					return err
				}
				if err := opts.apply(cmd, &st.Task); err != nil {
					return err
				}
				if cmd.Flags().Changed("epic") {
					st.EpicID = opts.EpicID
				}
				applied, err := svc.UpdateSubtask(cmd.Context(), st)
				if err != nil {
					return err
				}
				if !applied {
					return fmt.Errorf("subtask #%d: %w", id, domain.ErrNotFound)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated subtask #%d\n", id)
				return nil
			})
		},
	}

	addTaskFlags(cmd, &opts, true)
	return cmd
}
