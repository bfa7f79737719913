// Package store is the persistence layer for taskboard.
//
// Tasks live in a single SQLite table keyed by an autoincrementing id.
// Every operation touches exactly one row; writes that need to hand the
// fresh row back run the write and the re-read inside one transaction.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("task not found")

var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
}

// UpdateTaskParams is a full replacement of the mutable fields.
type UpdateTaskParams struct {
	Title       string
	Description string
	Completed   bool
}

type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

type Config struct {
	DataDir string
	DBName  string
}

func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{
		DataDir: filepath.Join(home, ".taskboard"),
		DBName:  "taskboard.db",
	}
}

func (c Config) dbPath() string {
	name := c.DBName
	if name == "" {
		name = "taskboard.db"
	}
	return filepath.Join(c.DataDir, name)
}

// ─── Store ───────────────────────────────────────────────────────────────────

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	query   func(db queryer, query string, args ...any) (*sql.Rows, error)
	queryIt func(db queryer, query string, args ...any) (rowScanner, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func defaultHooks() storeHooks {
	return storeHooks{
		exec: func(db execer, query string, args ...any) (sql.Result, error) {
			return db.Exec(query, args...)
		},
		query: func(db queryer, query string, args ...any) (*sql.Rows, error) {
			return db.Query(query, args...)
		},
		beginTx: func(db *sql.DB) (*sql.Tx, error) {
			return db.Begin()
		},
		commit: func(tx *sql.Tx) error {
			return tx.Commit()
		},
	}
}

type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

func New(cfg Config) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("taskboard store: data dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("taskboard store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", cfg.dbPath())
	if err != nil {
		return nil, fmt.Errorf("taskboard store: open database: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, cfg: cfg, hooks: defaultHooks()}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.execHook(s.db, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("taskboard store: pragma %q: %w", p, err)
		}
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("taskboard store: migration: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT    NOT NULL,
			description TEXT    NOT NULL DEFAULT '',
			completed   INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at DESC);
	`
	_, err := s.execHook(s.db, schema)
	return err
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

const taskColumns = `id, title, description, completed, created_at`

func (s *Store) CreateTask(title, description string) (*Task, error) {
	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := s.execHook(tx,
		`INSERT INTO tasks (title, description) VALUES (?, ?)`,
		title, description,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	t, err := s.getTask(tx, id)
	if err != nil {
		return nil, err
	}
	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

func (s *Store) GetTask(id int64) (*Task, error) {
	return s.getTask(s.db, id)
}

// ListTasks returns every task, newest first. Rows created within the same
// second fall back to id order so the listing matches insertion order.
func (s *Store) ListTasks() ([]Task, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(id int64, p UpdateTaskParams) (*Task, error) {
	return s.updateAndFetch(id,
		`UPDATE tasks SET title = ?, description = ?, completed = ? WHERE id = ?`,
		p.Title, p.Description, boolToInt(p.Completed), id,
	)
}

// SetCompleted flips only the completion flag; title and description are untouched.
func (s *Store) SetCompleted(id int64, completed bool) (*Task, error) {
	return s.updateAndFetch(id,
		`UPDATE tasks SET completed = ? WHERE id = ?`,
		boolToInt(completed), id,
	)
}

func (s *Store) DeleteTask(id int64) error {
	res, err := s.execHook(s.db, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Stats() (*Stats, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN completed = 0 THEN 1 ELSE 0 END), 0) FROM tasks`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &Stats{}
	if rows.Next() {
		if err := rows.Scan(&stats.Total, &stats.Active); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.Completed = stats.Total - stats.Active
	return stats, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Store) updateAndFetch(id int64, query string, args ...any) (*Task, error) {
	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := s.execHook(tx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	t, err := s.getTask(tx, id)
	if err != nil {
		return nil, err
	}
	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

func (s *Store) getTask(db queryer, id int64) (*Task, error) {
	rows, err := s.queryItHook(db, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanTask(rows)
}

func scanTask(rows rowScanner) (*Task, error) {
	var t Task
	var completed int
	if err := rows.Scan(&t.ID, &t.Title, &t.Description, &completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryHook(db queryer, query string, args ...any) (*sql.Rows, error) {
	if s.hooks.query != nil {
		return s.hooks.query(db, query, args...)
	}
	return db.Query(query, args...)
}

func (s *Store) queryItHook(db queryer, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(db, query, args...)
	}
	rows, err := s.queryHook(db, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}
