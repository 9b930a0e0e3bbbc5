package sqlstore

import "time"

// Dialect selects the database driver and placeholder style
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config holds database connection settings
type Config struct {
	Dialect Dialect

	// DSN is a file path (or ":memory:") for SQLite, a connection URL for Postgres
	DSN string

	// Pool settings; SQLite always uses a single connection
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// ConnectTimeout bounds the ping and schema setup on open
	ConnectTimeout time.Duration
}

// DefaultConfig returns a SQLite configuration writing to data/games.db
func DefaultConfig() Config {
	return Config{
		Dialect:         DialectSQLite,
		DSN:             "data/games.db",
		MaxOpenConns:    20,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectTimeout:  5 * time.Second,
	}
}

// PostgresConfig returns defaults for a Postgres database at the given URL
func PostgresConfig(url string) Config {
	cfg := DefaultConfig()
	cfg.Dialect = DialectPostgres
	cfg.DSN = url
	return cfg
}
