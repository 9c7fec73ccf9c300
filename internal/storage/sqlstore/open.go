package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Open connects to the store named by dialect and verifies the connection.
//
// SQLite is limited to a single connection: in-memory databases are private to
// their connection, and PRAGMA foreign_keys (needed for review cascades) is
// per-connection as well.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	var driver string
	switch dialect {
	case MySQL:
		driver = "mysql"
	case SQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("sqlstore: unknown dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", driver, err)
	}
	if dialect == SQLite {
		for _, p := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
			if _, err := db.ExecContext(ctx, p); err != nil {
				db.Close()
				return nil, fmt.Errorf("sqlstore: %s: %w", p, err)
			}
		}
	}
	return db, nil
}

// Connect opens the store, applies the schema and returns a ready Repo. The
// caller owns the returned *sql.DB.
func Connect(ctx context.Context, dialect Dialect, dsn string) (*Repo, *sql.DB, error) {
	db, err := Open(ctx, dialect, dsn)
	if err != nil {
		return nil, nil, err
	}
	repo := New(db, dialect)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}
