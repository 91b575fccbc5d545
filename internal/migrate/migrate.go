package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const defaultHistoryTable = "schema_history"

const (
	kindMigration = "migration"
	kindSeed      = "seed"
)

// Runner applies file-based SQL migrations and seed scripts against the
// database. Applied files are recorded in a single history table keyed by
// kind and file name, so both migrations and seeds are idempotent.
type Runner struct {
	db       *sql.DB
	dir      string
	seedsDir string
	table    string
}

// Option configures Runner.
type Option func(*Runner)

// WithHistoryTable overrides the default bookkeeping table.
func WithHistoryTable(name string) Option {
	return func(r *Runner) {
		if name != "" {
			r.table = name
		}
	}
}

// NewRunner constructs a Runner reading migrations from dir and seeds from
// seedsDir. Either directory may be empty or absent.
func NewRunner(db *sql.DB, dir, seedsDir string, opts ...Option) *Runner {
	r := &Runner{
		db:       db,
		dir:      dir,
		seedsDir: seedsDir,
		table:    defaultHistoryTable,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Up applies all pending migrations in file-name order.
func (r *Runner) Up(ctx context.Context) error {
	return r.applyPending(ctx, kindMigration, r.dir, ".up.sql")
}

// Seed applies all pending seed scripts in file-name order.
func (r *Runner) Seed(ctx context.Context) error {
	return r.applyPending(ctx, kindSeed, r.seedsDir, ".sql")
}

// Down rolls back the most recently applied migration using its .down.sql
// counterpart.
func (r *Runner) Down(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := r.appliedNames(ctx, kindMigration)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return errors.New("no migrations applied")
	}
	last := applied[len(applied)-1]
	downPath := strings.TrimSuffix(filepath.Join(r.dir, last), ".up.sql") + ".down.sql"
	if _, err := os.Stat(downPath); err != nil {
		return fmt.Errorf("missing down migration for %s", last)
	}
	if err := r.execFile(ctx, downPath); err != nil {
		return fmt.Errorf("rollback migration %s: %w", last, err)
	}
	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`delete from %s where kind = $1 and name = $2`, r.table), kindMigration, last)
	return err
}

// Status describes which migrations have been applied and which are still
// waiting on disk.
type Status struct {
	Applied []string
	Pending []string
}

// Status reports applied and pending migrations.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return Status{}, err
	}
	applied, err := r.appliedNames(ctx, kindMigration)
	if err != nil {
		return Status{}, err
	}
	files, err := collectSQL(r.dir, ".up.sql")
	if err != nil {
		return Status{}, err
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, name := range applied {
		appliedSet[name] = true
	}
	st := Status{Applied: applied}
	for _, f := range files {
		if !appliedSet[f.base] {
			st.Pending = append(st.Pending, f.base)
		}
	}
	return st, nil
}

func (r *Runner) applyPending(ctx context.Context, kind, dir, suffix string) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := r.appliedNames(ctx, kind)
	if err != nil {
		return err
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, name := range applied {
		appliedSet[name] = true
	}
	files, err := collectSQL(dir, suffix)
	if err != nil {
		return err
	}
	for _, f := range files {
		if appliedSet[f.base] {
			continue
		}
		if err := r.execFile(ctx, f.path); err != nil {
			return fmt.Errorf("apply %s %s: %w", kind, f.base, err)
		}
		if _, err := r.db.ExecContext(ctx,
			fmt.Sprintf(`insert into %s(kind, name, applied_at) values ($1, $2, $3)`, r.table),
			kind, f.base, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		create table if not exists %s (
			kind text not null,
			name text not null,
			applied_at timestamptz not null default now(),
			primary key (kind, name)
		);`, r.table)
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// execFile runs every statement of the file inside one transaction.
func (r *Runner) execFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range splitStatements(string(raw)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Runner) appliedNames(ctx context.Context, kind string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`select name from %s where kind = $1 order by applied_at asc, name asc`, r.table), kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type sqlFile struct {
	base string
	path string
}

func collectSQL(dir, suffix string) ([]sqlFile, error) {
	if dir == "" {
		return nil, nil
	}
	var files []sqlFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), suffix) {
			files = append(files, sqlFile{base: d.Name(), path: path})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].base < files[j].base })
	return files, nil
}

// splitStatements splits SQL text on semicolons outside single-quoted
// strings and line comments. Good enough for plain DDL files; dollar-quoted
// bodies are not supported.
func splitStatements(sql string) []string {
	var (
		stmts     []string
		current   strings.Builder
		inString  bool
		inComment bool
	)
	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		switch {
		case inComment:
			if r == '\n' {
				inComment = false
			}
		case inString:
			if r == '\'' {
				inString = false
			}
		case r == '\'':
			inString = true
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			inComment = true
		case r == ';':
			stmts = append(stmts, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		stmts = append(stmts, current.String())
	}
	return stmts
}
