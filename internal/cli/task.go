package cli

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/service"
	"github.com/spf13/cobra"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage plain tasks",
	}

	cmd.AddCommand(
		newTaskAddCommand(c),
		newListCommand(c, "list", "List tasks", (*service.Service).Tasks),
		newShowCommand(c, domain.KindTask, (*service.Service).Task),
		newTaskEditCommand(c),
		newRmCommand(c, domain.KindTask, (*service.Service).DeleteTask),
		newClearCommand(c, domain.KindTask, (*service.Service).DeleteAllTasks),
	)
	return cmd
}

// newTaskAddCommand creates the task add command.
func newTaskAddCommand(c *app.Container) *cobra.Command {
	var opts taskOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Long: `Create a task.

A task with both --start and --duration occupies that time window and
must not overlap any other scheduled task or subtask.

Examples:
  kanban task add --title "Write report"
  kanban task add -t "Standup" --start 2026-03-02T09:00 --duration 15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireTitle(opts.Title); err != nil {
				return err
			}
			t := domain.NewTask("", "")
			if err := opts.apply(cmd, &t); err != nil {
				return err
			}
			return withService(cmd, c, func(svc *service.Service) error {
				created, err := svc.CreateTask(cmd.Context(), t)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d: %s\n", created.ID, created.Title)
				return nil
			})
		},
	}

	addTaskFlags(cmd, &opts, false)
	return cmd
}

// newTaskEditCommand creates the task edit command.
func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts taskOptions

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task. Only the flags given are changed.

Examples:
  kanban task edit 3 --status IN_PROGRESS
  kanban task edit 3 --start "" # unschedule`,
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
				current, err := lookupTask(svc, domain.KindTask, id)
				if err != nil {
					return err
				}
				t := current.Task
				if err := opts.apply(cmd, &t); err != nil {
					return err
				}
				applied, err := svc.UpdateTask(cmd.Context(), t)
				if err != nil {
					return err
				}
				if !applied {
					return fmt.Errorf("task #%d: %w", id, domain.ErrNotFound)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", id)
				return nil
			})
		},
	}

	addTaskFlags(cmd, &opts, false)
	return cmd
}
