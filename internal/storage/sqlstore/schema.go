package sqlstore

import (
	"context"
	"fmt"
)

// Dialect selects the DDL applied by Migrate. Queries are shared.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// Names and review texts use binary, no-pad collation in MySQL so equality is
// exact, matching SQLite's default BINARY collation.
var mysqlSchema = []string{`
CREATE TABLE IF NOT EXISTS apps (
  id              BIGINT AUTO_INCREMENT PRIMARY KEY,
  name            VARCHAR(1000) CHARACTER SET utf8mb4 COLLATE utf8mb4_0900_bin NOT NULL,
  category        VARCHAR(500)  NULL,
  rating          DOUBLE        NULL,
  reviews         BIGINT        NULL,
  size            VARCHAR(200)  NULL,
  installs        VARCHAR(200)  NULL,
  type            VARCHAR(100)  NULL,
  price           VARCHAR(100)  NULL,
  content_rating  VARCHAR(200)  NULL,
  genres          VARCHAR(500)  NULL,
  last_updated    VARCHAR(200)  NULL,
  current_version VARCHAR(200)  NULL,
  android_version VARCHAR(200)  NULL,
  KEY idx_apps_name (name(191)),
  KEY idx_apps_rating (rating)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
CREATE TABLE IF NOT EXISTS reviews (
  id                 BIGINT AUTO_INCREMENT PRIMARY KEY,
  app_id             BIGINT        NOT NULL,
  app_name           VARCHAR(1000) NOT NULL,
  translated_review  TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_0900_bin NULL,
  sentiment          VARCHAR(200)  NULL,
  sentiment_polarity DOUBLE        NULL,
  KEY idx_reviews_app (app_id),
  KEY idx_reviews_sentiment (sentiment),
  CONSTRAINT fk_reviews_app FOREIGN KEY (app_id) REFERENCES apps (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS apps (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  name            TEXT NOT NULL,
  category        TEXT,
  rating          REAL,
  reviews         INTEGER,
  size            TEXT,
  installs        TEXT,
  type            TEXT,
  price           TEXT,
  content_rating  TEXT,
  genres          TEXT,
  last_updated    TEXT,
  current_version TEXT,
  android_version TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_apps_name ON apps (name)`,
	`CREATE INDEX IF NOT EXISTS idx_apps_rating ON apps (rating)`, `
CREATE TABLE IF NOT EXISTS reviews (
  id                 INTEGER PRIMARY KEY AUTOINCREMENT,
  app_id             INTEGER NOT NULL REFERENCES apps (id) ON DELETE CASCADE,
  app_name           TEXT NOT NULL,
  translated_review  TEXT,
  sentiment          TEXT,
  sentiment_polarity REAL
)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_app ON reviews (app_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_sentiment ON reviews (sentiment)`,
}

// Migrate creates the tables when missing. It is safe to run on every start.
func (r *Repo) Migrate(ctx context.Context) error {
	var stmts []string
	switch r.dialect {
	case MySQL:
		stmts = mysqlSchema
	case SQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("sqlstore: unknown dialect %q", r.dialect)
	}
	for i, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlstore: migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
