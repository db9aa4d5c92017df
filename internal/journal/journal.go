// Package journal keeps the build history in SQLite, off to the side of the
// derived artifacts. Timestamps and durations live here so that rebuilding
// an unchanged vault leaves the artifact files byte-identical.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Artifact names recorded with each run.
const (
	ArtifactIndex      = "index"
	ArtifactEmbeddings = "embeddings"
	ArtifactGraph      = "graph"
)

// Journal wraps the build-history database.
type Journal struct {
	*sql.DB
	path string
}

// Open creates or opens the journal database at the given path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging journal: %w", err)
	}

	j := &Journal{DB: sqlDB, path: path}
	if err := j.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

// OpenMemory creates an in-memory journal (useful for testing). The pool is
// pinned to one connection because every new connection to :memory: would
// otherwise see its own empty database.
func OpenMemory() (*Journal, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory journal: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	j := &Journal{DB: sqlDB, path: ":memory:"}
	if err := j.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

func (j *Journal) migrate() error {
	_, err := j.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    artifact TEXT NOT NULL CHECK(artifact IN ('index','embeddings','graph')),
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    forced INTEGER NOT NULL DEFAULT 0,
    processed INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    deleted INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    note TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_builds_artifact ON builds(artifact, started_at);
`

// Run is one recorded build invocation.
type Run struct {
	ID        string
	Artifact  string
	StartedAt time.Time
	Duration  time.Duration
	Forced    bool
	Processed int
	Skipped   int
	Deleted   int
	Failed    int
	Note      string
}

// Record inserts a run. If run.ID is empty a UUID is generated.
func (j *Journal) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := j.ExecContext(ctx, `
		INSERT INTO builds (
			id, artifact, started_at, duration_ms, forced,
			processed, skipped, deleted, failed, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Artifact,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		boolToInt(run.Forced),
		run.Processed,
		run.Skipped,
		run.Deleted,
		run.Failed,
		run.Note,
	)
	if err != nil {
		return fmt.Errorf("inserting build run: %w", err)
	}
	return nil
}

// History returns the most recent runs, newest first.
func (j *Journal) History(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.QueryContext(ctx, `
		SELECT id, artifact, started_at, duration_ms, forced,
		       processed, skipped, deleted, failed, note
		FROM builds
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying build history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastRuns returns the most recent run per artifact.
func (j *Journal) LastRuns(ctx context.Context) (map[string]Run, error) {
	rows, err := j.QueryContext(ctx, `
		SELECT id, artifact, started_at, duration_ms, forced,
		       processed, skipped, deleted, failed, note
		FROM builds
		ORDER BY started_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying build runs: %w", err)
	}
	defer rows.Close()

	last := map[string]Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		last[run.Artifact] = run
	}
	return last, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		started    string
		durationMS int64
		forced     int
	)
	if err := rows.Scan(&run.ID, &run.Artifact, &started, &durationMS, &forced,
		&run.Processed, &run.Skipped, &run.Deleted, &run.Failed, &run.Note); err != nil {
		return Run{}, fmt.Errorf("scanning build run: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run timestamp %q: %w", started, err)
	}
	run.StartedAt = ts
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
