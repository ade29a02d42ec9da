package cli

import (
	"fmt"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/manager"
	"github.com/forsidenis/kanban/internal/service"
	"github.com/spf13/cobra"
)

// newEpicCommand creates the epic command group.
func newEpicCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epic",
		Short: "Manage epics",
		Long: `Manage epics.

An epic's status and time window are derived from its subtasks and
cannot be edited directly.`,
	}

	cmd.AddCommand(
		newEpicAddCommand(c),
		newListCommand(c, "list", "List epics", (*service.Service).Epics),
		newShowCommand(c, domain.KindEpic, (*service.Service).Epic),
		newEpicEditCommand(c),
		newRmCommand(c, domain.KindEpic, (*service.Service).DeleteEpic),
		newClearCommand(c, domain.KindEpic, (*service.Service).DeleteAllEpics),
		newEpicSubtasksCommand(c),
	)
	return cmd
}

// newEpicAddCommand creates the epic add command.
func newEpicAddCommand(c *app.Container) *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an epic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireTitle(title); err != nil {
				return err
			}
			return withService(cmd, c, func(svc *service.Service) error {
				created, err := svc.CreateEpic(cmd.Context(), domain.NewEpic(title, body))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created epic #%d: %s\n", created.ID, created.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Description")
	return cmd
}

// newEpicEditCommand creates the epic edit command.
func newEpicEditCommand(c *app.Container) *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an epic's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				if err := requireTitle(title); err != nil {
					return err
				}
			}
			return withService(cmd, c, func(svc *service.Service) error {
				e, ok := svc.Lookup(id)
				current, isEpic := e.(domain.Epic)
				if !ok || !isEpic {
					return fmt.Errorf("epic #%d: %w", id, domain.ErrNotFound)
				}
				u := manager.EpicUpdate{ID: id, Title: current.Title, Description: current.Description}
				if cmd.Flags().Changed("title") {
					u.Title = title
				}
				if cmd.Flags().Changed("body") {
					u.Description = body
				}
				applied, err := svc.UpdateEpic(cmd.Context(), u)
				if err != nil {
					return err
				}
				if !applied {
					return fmt.Errorf("epic #%d: %w", id, domain.ErrNotFound)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated epic #%d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Description")
	return cmd
}

// newEpicSubtasksCommand creates the epic subtasks command.
func newEpicSubtasksCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "subtasks <id>",
		Short: "List the subtasks of an epic in epic order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, c, func(svc *service.Service) error {
				return printViews(cmd.OutOrStdout(), format, domain.ToViews(svc.SubtasksByEpic(id)))
			})
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}
