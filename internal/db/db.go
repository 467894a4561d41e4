package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "modernc.org/sqlite"

	"github.com/vbonduro/camstock/internal/query"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the database and applies pending migrations. For sqlite
// dsn is a file path; for postgres it is a pgx connection string.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		return open("sqlite", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=journal_mode(WAL)", dsn), driver, dsn)
	case DriverPostgres:
		return open("pgx", dsn, driver, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

var testDBSeq atomic.Int64

// OpenForTesting opens a private in-memory SQLite database with migrations
// applied.
func OpenForTesting() (*sql.DB, error) {
	name := fmt.Sprintf("file:camstock_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	return open("sqlite", name, DriverSQLite, "")
}

// Dialect returns the query dialect matching driver.
func Dialect(driver string) query.Dialect {
	if driver == DriverPostgres {
		return query.Postgres
	}
	return query.SQLite
}

func open(sqlDriver, dsn, driver, rawDSN string) (*sql.DB, error) {
	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db, driver, rawDSN); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to run migrations: %w (also failed to close db: %v)", err, cerr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB, driver, rawDSN string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var target database.Driver
	closeAfter := false
	switch driver {
	case DriverPostgres:
		// The pgx migrate driver pins a connection and closes its *sql.DB on
		// Close, so it gets a pool of its own.
		mdb, err := sql.Open("pgx", rawDSN)
		if err != nil {
			return fmt.Errorf("failed to open migration connection: %w", err)
		}
		target, err = migratepgx.WithInstance(mdb, &migratepgx.Config{})
		if err != nil {
			_ = mdb.Close()
			return fmt.Errorf("failed to prepare migration driver: %w", err)
		}
		closeAfter = true
	default:
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("failed to prepare migration driver: %w", err)
		}
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if closeAfter {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
