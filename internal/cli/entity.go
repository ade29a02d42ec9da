package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/forsidenis/kanban/internal/app"
	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/service"
	"github.com/spf13/cobra"
)

// Accepted --start layouts besides RFC 3339. Interpreted in local time.
var startLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// taskOptions holds the flags shared by task and subtask add/edit.
// Fields are ordered to minimize memory padding.
type taskOptions struct {
	Title    string
	Body     string
	Status   string
	Start    string
	Duration int64 // Minutes
	EpicID   int
}

func addTaskFlags(cmd *cobra.Command, opts *taskOptions, withEpic bool) {
	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&opts.Body, "body", "b", "", "Description")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Status: NEW, IN_PROGRESS or DONE")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Start time (RFC 3339 or 2006-01-02T15:04); empty clears it on edit")
	cmd.Flags().Int64VarP(&opts.Duration, "duration", "d", 0, "Duration in minutes")
	if withEpic {
		cmd.Flags().IntVarP(&opts.EpicID, "epic", "e", 0, "Owning epic ID")
	}
}

// apply copies the flags the user set onto t.
func (o *taskOptions) apply(cmd *cobra.Command, t *domain.Task) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		t.Title = o.Title
	}
	if flags.Changed("body") {
		t.Description = o.Body
	}
	if flags.Changed("status") {
		st, err := domain.ParseStatus(o.Status)
		if err != nil {
			return fmt.Errorf("%w: %q", err, o.Status)
		}
		t.Status = st
	}
	if flags.Changed("start") {
		start, err := parseStart(o.Start)
		if err != nil {
			return err
		}
		t.StartTime = start
	}
	if flags.Changed("duration") {
		t.Duration = domain.DurationPtr(time.Duration(o.Duration) * time.Minute)
	}
	return nil
}

// parseStart parses a --start value. Empty means no start time.
func parseStart(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid start time %q (want RFC 3339 or 2006-01-02T15:04)", s)
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return domain.ErrEmptyTitle
	}
	return nil
}

// parseID parses a positional entity ID.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// withService runs fn against a loaded service and closes the store afterwards.
func withService(cmd *cobra.Command, c *app.Container, fn func(svc *service.Service) error) error {
	svc, closer, err := c.Service(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	return fn(svc)
}

// lookupTask returns the stored task or subtask with id, without recording history.
func lookupTask(svc *service.Service, kind domain.Kind, id int) (domain.Subtask, error) {
	e, ok := svc.Lookup(id)
	if ok {
		switch v := e.(type) {
		case domain.Task:
			if kind == domain.KindTask {
				return domain.Subtask{Task: v}, nil
			}
		case domain.Subtask:
			if kind == domain.KindSubtask {
				return v, nil
			}
		}
	}
	return domain.Subtask{}, fmt.Errorf("%s #%d: %w", kind.Name(), id, domain.ErrNotFound)
}

// newRmCommand creates an rm subcommand for one entity kind.
func newRmCommand(c *app.Container, kind domain.Kind, del func(*service.Service, context.Context, int) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: fmt.Sprintf("Delete a %s", kind.Name()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, c, func(svc *service.Service) error {
				deleted, err := del(svc, cmd.Context(), id)
				if err != nil {
					return err
				}
				if deleted {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s #%d\n", kind.Name(), id)
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s #%d does not exist\n", kind.Name(), id)
				}
				return nil
			})
		},
	}
}

// newClearCommand creates a clear subcommand for one entity kind.
func newClearCommand(c *app.Container, kind domain.Kind, clearFn func(*service.Service, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: fmt.Sprintf("Delete every %s", kind.Name()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, c, func(svc *service.Service) error {
				if err := clearFn(svc, cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted all %s\n", kind.Plural())
				return nil
			})
		},
	}
}

// newListCommand creates a list command printing the result of list.
func newListCommand[E domain.Entity](c *app.Container, use, short string, list func(*service.Service) []E) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withService(cmd, c, func(svc *service.Service) error {
				return printViews(cmd.OutOrStdout(), format, domain.ToViews(list(svc)))
			})
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

// newShowCommand creates a show command. Showing an entity records it in history.
func newShowCommand[E domain.Entity](c *app.Container, kind domain.Kind, get func(*service.Service, context.Context, int) (E, error)) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show a %s", kind.Name()),
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
				e, err := get(svc, cmd.Context(), id)
				if err != nil {
					return err
				}
				return printView(cmd.OutOrStdout(), format, domain.ToView(e))
			})
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}
