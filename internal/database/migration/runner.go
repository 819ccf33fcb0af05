package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const lockKey int64 = 0x48697265 // "Hire"

var (
	ErrNilDB            = errors.New("migration: nil db")
	ErrChecksumMismatch = errors.New("migration: checksum mismatch")
)

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// State pairs a migration file with whether schema_migrations already records it.
type State struct {
	Migration
	Applied bool
}

// Runner applies V<version>__<name>.sql files from Dir. An empty Dir means ./migrations next to the binary.
type Runner struct {
	Dir    string
	Logger *log.Logger
}

func (r Runner) Run(ctx context.Context, db *sql.DB) (int, error) {
	if db == nil {
		return 0, ErrNilDB
	}
	migs, err := r.load()
	if err != nil {
		return 0, err
	}
	if len(migs) == 0 {
		r.logf("[Migration] Nothing to apply: dir=%s", r.Dir)
		return 0, nil
	}

	// Session-level advisory locks belong to one connection, so hold it for the whole run.
	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire migration conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return 0, fmt.Errorf("lock migrations: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	if err := ensureTable(ctx, conn); err != nil {
		return 0, err
	}
	states, err := compare(ctx, conn, migs)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, s := range states {
		if s.Applied {
			continue
		}
		if err := apply(ctx, conn, s.Migration); err != nil {
			return applied, err
		}
		applied++
		r.logf("[Migration] Applied: version=%d name=%s", s.Version, s.Name)
	}
	return applied, nil
}

// Status reports every migration file and whether it has been applied, without changing anything.
func (r Runner) Status(ctx context.Context, db *sql.DB) ([]State, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	migs, err := r.load()
	if err != nil {
		return nil, err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire migration conn: %w", err)
	}
	defer conn.Close()

	if err := ensureTable(ctx, conn); err != nil {
		return nil, err
	}
	return compare(ctx, conn, migs)
}

func (r Runner) load() ([]Migration, error) {
	dir := strings.TrimSpace(r.Dir)
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve migrations dir: %w", err)
		}
		dir = filepath.Join(filepath.Dir(exe), "migrations")
	}
	return loadMigrations(dir)
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

func loadMigrations(dir string) ([]Migration, error) {
	migs, err := loadFS(os.DirFS(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return migs, err
}

func loadFS(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		match := fileRe.FindStringSubmatch(e.Name())
		if e.IsDir() || match == nil {
			continue
		}
		version, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", e.Name(), err)
		}
		raw, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", e.Name(), err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration %s: empty file", e.Name())
		}
		sum := sha256.Sum256([]byte(body))
		migs = append(migs, Migration{
			Version:  version,
			Name:     match[2],
			Filename: e.Name(),
			SQL:      body,
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("migrations %s and %s share version %d", migs[i-1].Filename, migs[i].Filename, migs[i].Version)
		}
	}
	return migs, nil
}

func ensureTable(ctx context.Context, conn *sql.Conn) error {
	_, err := conn.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// compare marks applied migrations and rejects any whose file changed after it ran.
func compare(ctx context.Context, conn *sql.Conn, migs []Migration) ([]State, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	recorded := make(map[int64]string)
	for rows.Next() {
		var (
			v   int64
			sum string
		)
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		recorded[v] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	states := make([]State, 0, len(migs))
	for _, m := range migs {
		sum, ok := recorded[m.Version]
		if ok && sum != m.Checksum {
			return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, m.Filename)
		}
		states = append(states, State{Migration: m, Applied: ok})
	}
	return states, nil
}

func apply(ctx context.Context, conn *sql.Conn, m Migration) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply %s: %w", m.Filename, err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return fmt.Errorf("record %s: %w", m.Filename, err)
	}
	return tx.Commit()
}
