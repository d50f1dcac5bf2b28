// Package store is the local SQLite snapshot cache. It holds the last-known
// task set so a restart can show tasks before the first sync completes.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/taskflow/internal/model"
)

// SQLiteStore caches task snapshots in a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// taskRow is the database representation of a task; tags are JSON-encoded.
type taskRow struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Date     string `db:"date"`
	Time     string `db:"time"`
	Priority int    `db:"priority"`
	Status   string `db:"status"`
	Duration int    `db:"duration_min"`
	Tags     string `db:"tags"`
	Position int    `db:"position"`
}

// SaveTasks replaces the cached snapshot with the given task set. The whole
// replacement runs in one transaction so readers never see a partial set.
// Positions record the input order.
func (s *SQLiteStore) SaveTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing task snapshot: %w", err)
	}

	const query = `
		INSERT INTO tasks (
			id, title, date, time, priority, status, duration_min, tags, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		tags, err := json.Marshal(t.Tags)
		if err != nil {
			return fmt.Errorf("marshaling tags for task %s: %w", t.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			t.ID, t.Title, t.Date, t.Time,
			t.Priority, t.Status, t.Duration, string(tags), i,
		)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// LoadTasks returns the cached snapshot in the order it was saved.
func (s *SQLiteStore) LoadTasks(ctx context.Context) ([]model.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(
		ctx, &rows, "SELECT * FROM tasks ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("loading task snapshot: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		var tags []string
		if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
			return nil, fmt.Errorf("unmarshaling tags for task %s: %w", r.ID, err)
		}

		tasks = append(tasks, model.Task{
			ID:       r.ID,
			Title:    r.Title,
			Date:     r.Date,
			Time:     r.Time,
			Priority: r.Priority,
			Status:   r.Status,
			Duration: r.Duration,
			Tags:     tags,
		})
	}

	return tasks, nil
}
