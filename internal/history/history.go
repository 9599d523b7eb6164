// Package history records reconciliation runs in a local SQLite database
// so past runs can be listed with their outcome.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/maryline/catalogsync/internal/history/migrations"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

// Status is the lifecycle state of a run.
type Status string

// Run statuses.
const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded reconciliation.
type Run struct {
	ID         string             `json:"id" yaml:"id"`
	Scope      reconcile.Scope    `json:"scope" yaml:"scope"`
	Status     Status             `json:"status" yaml:"status"`
	StartedAt  time.Time          `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Error      string             `json:"error,omitempty" yaml:"error,omitempty"`
	Summary    *reconcile.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Duration returns how long a finished run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the history database in dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".catalogsync")
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapResource("open", "history", dir, err)
	}

	path := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.WrapResource("open", "history", path, err)
	}

	s := &Store{db: db, path: path, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every embedded NNN_*.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Start records a new running run and returns it.
func (s *Store) Start(ctx context.Context, scope reconcile.Scope) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Scope:     scope,
		Status:    StatusRunning,
		StartedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scope, status, started_at) VALUES (?, ?, ?, ?)
	`, run.ID, string(run.Scope), string(run.Status), run.StartedAt.UTC().Format(timeLayout))
	if err != nil {
		return nil, errors.WrapResource("create", "run", run.ID, err)
	}
	return run, nil
}

// Finish marks a run finished, or failed when runErr is non-nil, and
// stores its summary.
func (s *Store) Finish(ctx context.Context, id string, summary *reconcile.Summary, runErr error) error {
	status, message := StatusFinished, ""
	if runErr != nil {
		status, message = StatusFailed, runErr.Error()
	}

	var summaryJSON sql.NullString
	if summary != nil {
		data, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshalling summary: %w", err)
		}
		summaryJSON = sql.NullString{String: string(data), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, finished_at = ?, error = ?, summary = ? WHERE id = ?
	`, string(status), s.now().UTC().Format(timeLayout), message, summaryJSON, id)
	if err != nil {
		return errors.WrapResource("update", "run", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("run", id)
	}
	return nil
}

// Get returns one run, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scope, status, started_at, finished_at, error, summary FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// List returns the most recent runs first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, scope, status, started_at, finished_at, error, summary FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run        Run
		scope      string
		status     string
		startedAt  string
		finishedAt sql.NullString
		summary    sql.NullString
	)
	if err := row.Scan(&run.ID, &scope, &status, &startedAt, &finishedAt, &run.Error, &summary); err != nil {
		return nil, err
	}
	run.Scope = reconcile.Scope(scope)
	run.Status = Status(status)

	t, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, errors.WrapParse("time", "runs.started_at", err)
	}
	run.StartedAt = t

	if finishedAt.Valid && finishedAt.String != "" {
		t, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, errors.WrapParse("time", "runs.finished_at", err)
		}
		run.FinishedAt = &t
	}

	if summary.Valid && summary.String != "" {
		var sum reconcile.Summary
		if err := json.Unmarshal([]byte(summary.String), &sum); err != nil {
			return nil, errors.WrapParse("json", "runs.summary", err)
		}
		run.Summary = &sum
	}
	return &run, nil
}
