package dedupe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS forms (
	scope TEXT NOT NULL,
	form TEXT NOT NULL,
	seq INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (scope, form)
);
CREATE INDEX IF NOT EXISTS idx_forms_seq ON forms(scope, seq);
`

// Index is a persistent store of emitted forms, partitioned by scope (one
// scope per output file), so a rerun skips what an earlier run wrote.
type Index struct {
	db   *sql.DB
	path string
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(ctx context.Context, path string) (*Index, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// One writer; batch workers share the connection.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initialize index: %w", err)
		}
	}
	return &Index{db: db, path: path}, nil
}

func (ix *Index) Path() string { return ix.path }

func (ix *Index) Close() error { return ix.db.Close() }

// Scope returns the set of forms recorded under name.
func (ix *Index) Scope(ctx context.Context, name string) (*ScopeSet, error) {
	var n, seq int64
	row := ix.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(MAX(seq), 0) FROM forms WHERE scope = ?`, name)
	if err := row.Scan(&n, &seq); err != nil {
		return nil, fmt.Errorf("load scope %s: %w", name, err)
	}
	return &ScopeSet{ix: ix, scope: name, n: int(n), seq: seq}, nil
}

// Forms lists the forms of a scope in insertion order.
func (ix *Index) Forms(ctx context.Context, scope string) ([]string, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT form FROM forms WHERE scope = ? ORDER BY seq`, scope)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Reset drops every form recorded under scope.
func (ix *Index) Reset(ctx context.Context, scope string) error {
	if _, err := ix.db.ExecContext(ctx, `DELETE FROM forms WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("reset scope %s: %w", scope, err)
	}
	return nil
}

// ScopeSet is a Set backed by one scope of an Index. Additions are
// pending until Commit writes them in one transaction; Rollback and Close
// discard them.
type ScopeSet struct {
	ix    *Index
	scope string

	mu      sync.Mutex
	n       int
	seq     int64
	pending []string
	staged  map[string]struct{}
}

func (s *ScopeSet) Add(ctx context.Context, form string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staged[form]; ok {
		return false, nil
	}
	var one int
	err := s.ix.db.QueryRowContext(ctx,
		`SELECT 1 FROM forms WHERE scope = ? AND form = ?`, s.scope, form).Scan(&one)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("look up form: %w", err)
	}
	if s.staged == nil {
		s.staged = make(map[string]struct{})
	}
	s.staged[form] = struct{}{}
	s.pending = append(s.pending, form)
	return true, nil
}

// Commit records the pending forms.
func (s *ScopeSet) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit forms: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO forms (scope, form, seq) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("commit forms: %w", err)
	}
	defer stmt.Close()

	seq, n := s.seq, s.n
	for _, form := range s.pending {
		res, err := stmt.ExecContext(ctx, s.scope, form, seq+1)
		if err != nil {
			return fmt.Errorf("record form: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected > 0 {
			seq++
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit forms: %w", err)
	}
	s.seq, s.n = seq, n
	s.pending, s.staged = nil, nil
	return nil
}

// Rollback discards the pending forms.
func (s *ScopeSet) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending, s.staged = nil, nil
	return nil
}

// Len counts recorded and pending forms.
func (s *ScopeSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n + len(s.pending)
}

func (s *ScopeSet) Name() string { return s.scope }

// Close discards uncommitted forms; the index itself stays open.
func (s *ScopeSet) Close() error { return s.Rollback() }
