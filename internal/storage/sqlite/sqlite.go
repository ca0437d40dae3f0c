// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk. There is no network,
// no separate server process, and no installation beyond the driver.
//
// The schema lives in migrations/*.sql, embedded into the binary and
// applied with goose. Foreign keys are switched on through the DSN so
// deleting a course or a student also removes its associations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aanand-mishra/courses-api/internal/config"
	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx, so read helpers can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the database at cfg.StoragePath without touching the
// schema.
func Open(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn(cfg.StoragePath, cfg.Database.BusyTimeoutMs))
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// sql.Open does not connect; Ping forces the first connection so a bad
	// path fails here instead of on the first request.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: ping: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// New opens the database and brings its schema up to date.
func New(cfg *config.Config) (*SQLite, error) {
	s, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := s.Migrate(context.Background()); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Migrate applies every pending migration and returns how many ran.
// Running it on an up-to-date database is a no-op.
func (s *SQLite) Migrate(ctx context.Context) (int, error) {
	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return 0, fmt.Errorf("sqlite.Migrate: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.Db, fsys)
	if err != nil {
		return 0, fmt.Errorf("sqlite.Migrate: new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("sqlite.Migrate: up: %w", err)
	}

	return len(results), nil
}

// Ping reports whether the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.Db.PingContext(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// withTx runs fn inside a transaction. Any error from fn rolls the whole
// transaction back, so a failed write never leaves a partial record.
func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", mapError(err))
	}
	// Rollback after a successful Commit is a harmless no-op.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", mapError(err))
	}

	return nil
}

// dsn builds the go-sqlite3 connection string.
//
//	_foreign_keys  enforce REFERENCES / ON DELETE CASCADE
//	_journal_mode  WAL lets readers run alongside a writer
//	_busy_timeout  wait for a lock instead of failing immediately
//	_txlock        BEGIN IMMEDIATE so writers queue on the busy timeout
func dsn(path string, busyTimeoutMs int) string {
	return fmt.Sprintf(
		"file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d&_txlock=immediate",
		path, busyTimeoutMs,
	)
}

// mapError translates driver errors into the storage error taxonomy.
// Errors it does not recognise are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", storage.ErrIntegrity, err)
		case sqliteErr.Code == sqlite3.ErrBusy,
			sqliteErr.Code == sqlite3.ErrLocked,
			sqliteErr.Code == sqlite3.ErrCantOpen:
			return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
	}

	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	if strings.Contains(err.Error(), "sql: database is closed") {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	return err
}

// whereClause turns a storage.Filter into a SQL WHERE clause (including the
// leading "WHERE") over the given table alias. An empty filter yields "".
func whereClause(filter storage.Filter, alias string) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.ID != nil {
		conds = append(conds, alias+".id = ?")
		args = append(args, *filter.ID)
	}

	if filter.Name != nil {
		conds = append(conds, alias+".name = ?")
		args = append(args, *filter.Name)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
