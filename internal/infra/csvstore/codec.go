package csvstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
)

// ErrSubMinuteDuration is returned by Encode for durations the file format
// cannot hold. Durations are stored as whole minutes.
var ErrSubMinuteDuration = errors.New("duration is not a whole number of minutes")

// Header is the first line of every snapshot file.
var Header = []string{"id", "type", "name", "status", "description", "epic", "duration", "startTime"}

const (
	colID = iota
	colType
	colName
	colStatus
	colDescription
	colEpic
	colDuration
	colStartTime
)

// Layouts accepted for startTime, tried in order.
// Files written by this package always use the first one.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Encode writes snap as CSV: the header, one row per entity (tasks, epics,
// subtasks), a blank line and a line of comma-separated history ids.
func Encode(w io.Writer, snap domain.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, t := range snap.Tasks {
		row, err := taskRow(t, domain.KindTask, "")
		if err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write task %d: %w", t.ID, err)
		}
	}
	for _, e := range snap.Epics {
		dur, err := formatMinutes(e.Duration())
		if err != nil {
			return fmt.Errorf("epic %d: %w", e.ID, err)
		}
		row := []string{
			strconv.Itoa(e.ID),
			string(domain.KindEpic),
			e.Title,
			string(e.Status()),
			e.Description,
			"",
			dur,
			formatTime(e.StartTime()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write epic %d: %w", e.ID, err)
		}
	}
	for _, s := range snap.Subtasks {
		row, err := taskRow(s.Task, domain.KindSubtask, strconv.Itoa(s.EpicID))
		if err != nil {
			return fmt.Errorf("subtask %d: %w", s.ID, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write subtask %d: %w", s.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}

	ids := make([]string, 0, len(snap.History))
	for _, id := range snap.History {
		ids = append(ids, strconv.Itoa(id))
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", strings.Join(ids, ",")); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Decode parses a snapshot written by Encode.
// Derived epic columns are ignored. Errors wrap domain.ErrMalformedSnapshot.
func Decode(content []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if len(bytes.TrimSpace(content)) == 0 {
		return snap, nil
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = len(Header)

	header, err := r.Read()
	if err != nil {
		return snap, malformed("read header: %v", err)
	}
	if !slices.Equal(header, Header) {
		return snap, malformed("unexpected header %q", strings.Join(header, ","))
	}

	for {
		rest := content[r.InputOffset():]
		if len(rest) == 0 {
			break
		}
		if tail, ok := cutBlankLine(rest); ok {
			hist, err := parseHistory(tail)
			if err != nil {
				return domain.Snapshot{}, err
			}
			snap.History = hist
			break
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Snapshot{}, malformed("%v", err)
		}
		line, _ := r.FieldPos(0)
		if err := appendRecord(&snap, rec); err != nil {
			return domain.Snapshot{}, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return snap, nil
}

func taskRow(t domain.Task, kind domain.Kind, epic string) ([]string, error) {
	dur, err := formatMinutes(t.Duration)
	if err != nil {
		return nil, err
	}
	return []string{
		strconv.Itoa(t.ID),
		string(kind),
		t.Title,
		string(t.Status),
		t.Description,
		epic,
		dur,
		formatTime(t.StartTime),
	}, nil
}

func appendRecord(snap *domain.Snapshot, rec []string) error {
	id, err := strconv.Atoi(rec[colID])
	if err != nil {
		return malformed("invalid id %q", rec[colID])
	}
	kind, err := domain.ParseKind(rec[colType])
	if err != nil {
		return malformed("invalid type %q", rec[colType])
	}

	if kind == domain.KindEpic {
		snap.Epics = append(snap.Epics, domain.RestoreEpic(id, rec[colName], rec[colDescription]))
		return nil
	}

	status, err := domain.ParseStatus(rec[colStatus])
	if err != nil {
		return malformed("invalid status %q", rec[colStatus])
	}
	dur, err := parseMinutes(rec[colDuration])
	if err != nil {
		return err
	}
	start, err := parseTime(rec[colStartTime])
	if err != nil {
		return err
	}
	t := domain.Task{
		ID:          id,
		Title:       rec[colName],
		Description: rec[colDescription],
		Status:      status,
		Duration:    dur,
		StartTime:   start,
	}

	if kind == domain.KindTask {
		snap.Tasks = append(snap.Tasks, t)
		return nil
	}
	epicID, err := strconv.Atoi(rec[colEpic])
	if err != nil {
		return malformed("subtask %d: invalid epic %q", id, rec[colEpic])
	}
	snap.Subtasks = append(snap.Subtasks, domain.Subtask{Task: t, EpicID: epicID})
	return nil
}

func cutBlankLine(b []byte) ([]byte, bool) {
	switch {
	case bytes.HasPrefix(b, []byte("\r\n")):
		return b[2:], true
	case bytes.HasPrefix(b, []byte("\n")):
		return b[1:], true
	default:
		return nil, false
	}
}

func parseHistory(b []byte) ([]int, error) {
	line := strings.TrimSpace(string(b))
	if line == "" {
		return nil, nil
	}
	parts := strings.Split(line, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, malformed("invalid history id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatMinutes(d *time.Duration) (string, error) {
	if d == nil {
		return "", nil
	}
	if *d%time.Minute != 0 {
		return "", fmt.Errorf("%w: %s", ErrSubMinuteDuration, *d)
	}
	return strconv.FormatInt(int64(*d/time.Minute), 10), nil
}

func parseMinutes(s string) (*time.Duration, error) {
	if s == "" {
		return nil, nil
	}
	m, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, malformed("invalid duration %q", s)
	}
	d := time.Duration(m) * time.Minute
	return &d, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayouts[0])
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for i, layout := range timeLayouts {
		loc := time.UTC
		if i > 0 {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, malformed("invalid start time %q", s)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedSnapshot, fmt.Sprintf(format, args...))
}
