package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// timeLayout is used for start and end times in table output.
const timeLayout = "2006-01-02 15:04"

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "o", formatTable, "Output format: table, json or yaml")
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

// printViews writes a list of entities in the requested format.
func printViews(w io.Writer, format string, views []domain.View) error {
	switch format {
	case formatJSON:
		return writeJSON(w, views)
	case formatYAML:
		return writeYAML(w, views)
	default:
		printViewTable(w, views)
		return nil
	}
}

// printView writes a single entity in the requested format.
func printView(w io.Writer, format string, view domain.View) error {
	switch format {
	case formatJSON:
		return writeJSON(w, view)
	case formatYAML:
		return writeYAML(w, view)
	default:
		printViewDetail(w, view)
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// printViewTable prints entities in TSV format.
func printViewTable(w io.Writer, views []domain.View) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tEPIC\tSTART\tDURATION\tTITLE")

	// Rows
	for _, v := range views {
		epicStr := "-"
		if v.EpicID != nil {
			epicStr = strconv.Itoa(*v.EpicID)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			v.Type,
			v.Status,
			epicStr,
			formatTime(v.StartTime),
			formatMinutes(v.Duration),
			v.Title,
		)
	}
}

// printViewDetail prints one entity as aligned key/value lines.
func printViewDetail(w io.Writer, v domain.View) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintf(tw, "ID:\t%d\n", v.ID)
	_, _ = fmt.Fprintf(tw, "Type:\t%s\n", v.Type)
	_, _ = fmt.Fprintf(tw, "Title:\t%s\n", v.Title)
	_, _ = fmt.Fprintf(tw, "Status:\t%s\n", v.Status.Display())
	if v.EpicID != nil {
		_, _ = fmt.Fprintf(tw, "Epic:\t%d\n", *v.EpicID)
	}
	if v.Type == domain.KindEpic {
		ids := make([]string, 0, len(v.SubtaskIDs))
		for _, id := range v.SubtaskIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		subtasks := "-"
		if len(ids) > 0 {
			subtasks = strings.Join(ids, ", ")
		}
		_, _ = fmt.Fprintf(tw, "Subtasks:\t%s\n", subtasks)
	}
	_, _ = fmt.Fprintf(tw, "Start:\t%s\n", formatTime(v.StartTime))
	_, _ = fmt.Fprintf(tw, "End:\t%s\n", formatTime(v.EndTime))
	_, _ = fmt.Fprintf(tw, "Duration:\t%s\n", formatMinutes(v.Duration))
	if v.Description != "" {
		_, _ = fmt.Fprintf(tw, "\n%s\n", v.Description)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}

func formatMinutes(m *int64) string {
	if m == nil {
		return "-"
	}
	return (time.Duration(*m) * time.Minute).String()
}
