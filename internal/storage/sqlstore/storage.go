// Package sqlstore persists games in a single SQL table, one JSON document per game.
// SQLite (modernc.org/sqlite) and Postgres (lib/pq) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL DEFAULT '',
    data       TEXT NOT NULL,
    created_at BIGINT NOT NULL
)`

const (
	upsertGameSQL = `
INSERT INTO games (id, name, data, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    data = excluded.data,
    created_at = excluded.created_at`
	getGameSQL    = `SELECT data FROM games WHERE id = ?`
	listGamesSQL  = `SELECT data FROM games ORDER BY created_at DESC, id ASC`
	deleteGameSQL = `DELETE FROM games WHERE id = ?`
)

// Storage is a database/sql implementation of the storage interface
type Storage struct {
	db      *sql.DB
	dialect Dialect
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens the database, applies connection settings and creates the schema
func New(cfg Config) (*Storage, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("empty %s dsn", cfg.Dialect)
	}

	if cfg.Dialect == DialectSQLite && dsn != ":memory:" {
		parent := filepath.Dir(dsn)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open(cfg.Dialect.driverName(), dsn)
	if err != nil {
		return nil, err
	}

	switch cfg.Dialect {
	case DialectSQLite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	default:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := setup(ctx, db, cfg.Dialect, dsn); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db, dialect: cfg.Dialect}, nil
}

func setup(ctx context.Context, db *sql.DB, dialect Dialect, dsn string) error {
	if dialect == DialectSQLite {
		pragmas := []string{`PRAGMA busy_timeout = 5000;`}
		if dsn != ":memory:" {
			pragmas = append(pragmas, `PRAGMA journal_mode = WAL;`)
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				return err
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		return describe(err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", describe(err))
	}
	return nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(upsertGameSQL),
		string(game.ID), game.Name, string(data), game.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.ID, describe(err))
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(getGameSQL), string(id)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, describe(err)
	}

	var game model.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(listGamesSQL))
	if err != nil {
		return nil, describe(err)
	}
	defer rows.Close()

	games := []*model.Game{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var game model.Game
		if err := json.Unmarshal([]byte(data), &game); err != nil {
			continue // Skip invalid data
		}
		games = append(games, &game)
	}
	return games, rows.Err()
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.rebind(deleteGameSQL), string(id)); err != nil {
		return fmt.Errorf("delete game %s: %w", id, describe(err))
	}
	return nil
}

// describe adds the Postgres error condition name to driver errors
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s: %w", pqErr.Code.Name(), err)
	}
	return err
}
