// Package storage archives closed scorecards.
// SQLite (pure-Go modernc.org/sqlite) is the default backend; a postgres://
// DSN selects PostgreSQL through lib/pq. The engine never reads the archive
// back; it only feeds the history command.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the archive database connection.
type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

type dialect struct {
	driver string
	// idColumn is the auto-increment primary key definition.
	idColumn string
	// numbered placeholders ($1, $2) instead of ?
	numbered bool
}

var (
	sqliteDialect   = dialect{driver: "sqlite", idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT"}
	postgresDialect = dialect{driver: "postgres", idColumn: "BIGSERIAL PRIMARY KEY", numbered: true}
)

// rebind rewrites ? placeholders for the dialect.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsPostgresDSN reports whether dsn selects the PostgreSQL backend.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the archive at dsn and runs migrations.
// A non-postgres DSN is a SQLite file path; parent directories are created
// and a leading ~ is expanded.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("storage: empty dsn")
	}

	d := sqliteDialect
	if IsPostgresDSN(dsn) {
		d = postgresDialect
	} else {
		path, err := prepareSQLitePath(dsn)
		if err != nil {
			return nil, err
		}
		dsn = path
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func prepareSQLitePath(dbPath string) (string, error) {
	// Expand ~ to home directory
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return dbPath, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS closed_scorecards (
			id ` + s.dialect.idColumn + `,
			card_id TEXT NOT NULL UNIQUE,
			reason TEXT NOT NULL,
			source_url TEXT NOT NULL DEFAULT '',
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_actions BIGINT NOT NULL DEFAULT 0,
			total_levels_completed BIGINT NOT NULL DEFAULT 0,
			total_environments BIGINT NOT NULL DEFAULT 0,
			total_environments_completed BIGINT NOT NULL DEFAULT 0,
			session_count BIGINT NOT NULL DEFAULT 0,
			report_json TEXT NOT NULL,
			closed_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_closed_scorecards_closed_at ON closed_scorecards(closed_at);

		CREATE TABLE IF NOT EXISTS closed_plays (
			id ` + s.dialect.idColumn + `,
			card_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			levels_completed BIGINT NOT NULL DEFAULT 0,
			actions BIGINT NOT NULL DEFAULT 0,
			won BIGINT NOT NULL DEFAULT 0,
			closed_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_closed_plays_game_id ON closed_plays(game_id);
		CREATE INDEX IF NOT EXISTS idx_closed_plays_card_id ON closed_plays(card_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// timeLayout is fixed-width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
