// Package sqlitestore persists snapshots in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
    id INTEGER PRIMARY KEY,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    epic_id INTEGER,
    duration_ns INTEGER,
    start_time TEXT
);

CREATE TABLE IF NOT EXISTS history (
    position INTEGER PRIMARY KEY,
    entity_id INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);
`

const nextIDKey = "next_id"

// Store implements domain.SnapshotStore on top of SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the snapshot. An empty database yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, description, status, epic_id, duration_ns, start_time
		FROM entities ORDER BY id`)
	if err != nil {
		return snap, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                        int
			kind, title, desc, status string
			epicID, durationNS        sql.NullInt64
			startTime                 sql.NullString
		)
		if err := rows.Scan(&id, &kind, &title, &desc, &status, &epicID, &durationNS, &startTime); err != nil {
			return snap, fmt.Errorf("scan entity: %w", err)
		}
		if err := appendRow(&snap, id, kind, title, desc, status, epicID, durationNS, startTime); err != nil {
			return domain.Snapshot{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate entities: %w", err)
	}

	hist, err := s.loadHistory(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.History = hist

	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, nextIDKey).Scan(&snap.NextID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, fmt.Errorf("query next id: %w", err)
	}
	return snap, nil
}

func (s *Store) loadHistory(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entity_id FROM history ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return ids, nil
}

// Save replaces every stored row with snap inside one transaction.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"entities", "history", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (id, type, title, description, status, epic_id, duration_ns, start_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, t := range snap.Tasks {
		if _, err := insert.ExecContext(ctx, t.ID, string(domain.KindTask), t.Title, t.Description, string(t.Status),
			nil, nullDuration(t.Duration), nullTime(t.StartTime)); err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	for _, e := range snap.Epics {
		if _, err := insert.ExecContext(ctx, e.ID, string(domain.KindEpic), e.Title, e.Description, string(e.Status()),
			nil, nullDuration(e.Duration()), nullTime(e.StartTime())); err != nil {
			return fmt.Errorf("insert epic %d: %w", e.ID, err)
		}
	}
	for _, st := range snap.Subtasks {
		if _, err := insert.ExecContext(ctx, st.ID, string(domain.KindSubtask), st.Title, st.Description, string(st.Status),
			st.EpicID, nullDuration(st.Duration), nullTime(st.StartTime)); err != nil {
			return fmt.Errorf("insert subtask %d: %w", st.ID, err)
		}
	}

	for pos, id := range snap.History {
		if _, err := tx.ExecContext(ctx, `INSERT INTO history (position, entity_id) VALUES (?, ?)`, pos, id); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, nextIDKey, snap.NextID); err != nil {
		return fmt.Errorf("insert next id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func appendRow(snap *domain.Snapshot, id int, kindStr, title, desc, statusStr string,
	epicID, durationNS sql.NullInt64, startTime sql.NullString) error {
	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		return fmt.Errorf("%w: entity %d has type %q", domain.ErrMalformedSnapshot, id, kindStr)
	}
	if kind == domain.KindEpic {
		snap.Epics = append(snap.Epics, domain.RestoreEpic(id, title, desc))
		return nil
	}

	t := domain.Task{
		ID:          id,
		Title:       title,
		Description: desc,
		Status:      domain.Status(statusStr),
	}
	if durationNS.Valid {
		d := time.Duration(durationNS.Int64)
		t.Duration = &d
	}
	if startTime.Valid {
		st, err := time.Parse(time.RFC3339Nano, startTime.String)
		if err != nil {
			return fmt.Errorf("%w: entity %d start time %q", domain.ErrMalformedSnapshot, id, startTime.String)
		}
		t.StartTime = &st
	}

	if kind == domain.KindTask {
		snap.Tasks = append(snap.Tasks, t)
		return nil
	}
	if !epicID.Valid {
		return fmt.Errorf("%w: subtask %d has no epic", domain.ErrMalformedSnapshot, id)
	}
	snap.Subtasks = append(snap.Subtasks, domain.Subtask{Task: t, EpicID: int(epicID.Int64)})
	return nil
}

func nullDuration(d *time.Duration) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*d), Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}

// Ensure Store implements SnapshotStore.
var _ domain.SnapshotStore = (*Store)(nil)
