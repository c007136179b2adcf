package savegame

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"flipseven-server/pkg/db"

	_ "modernc.org/sqlite" // sqlite driver
)

// Dialect selects the placeholder and upsert syntax
type Dialect int

// Dialect constants
const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saved_games (
	save_key TEXT PRIMARY KEY,
	turn_index INTEGER NOT NULL,
	saved INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS saved_players (
	game_key TEXT NOT NULL REFERENCES saved_games (save_key) ON DELETE CASCADE,
	seat INTEGER NOT NULL,
	name TEXT NOT NULL,
	score INTEGER NOT NULL,
	has_extra_life BOOLEAN NOT NULL,
	busted BOOLEAN NOT NULL,
	stayed BOOLEAN NOT NULL,
	frozen BOOLEAN NOT NULL,
	hand TEXT NOT NULL,
	PRIMARY KEY (game_key, seat)
);`

// SQLStore keeps saves in a relational database
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore returns a store backed by db
// Postgres schemas are created by the migrations in sql/
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// OpenSQLite opens (creating if needed) a sqlite database and its schema
func OpenSQLite(path string) (*SQLStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("empty sqlite database path")
	}

	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, stmt := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA foreign_keys = ON;`,
		sqliteSchema,
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("could not prepare sqlite database: %w", err)
		}
	}

	return NewSQLStore(conn, DialectSQLite), nil
}

// Close closes the underlying database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind converts ? placeholders to $n for postgres
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Save replaces any existing save with the same key
func (s *SQLStore) Save(ctx context.Context, game *Game) error {
	if err := validate(game); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // nolint:errcheck

	const upsert = `
		INSERT INTO saved_games (save_key, turn_index, saved)
		VALUES (?, ?, ?)
		ON CONFLICT (save_key) DO UPDATE SET turn_index = excluded.turn_index, saved = excluded.saved`
	if _, err := tx.ExecContext(ctx, s.rebind(upsert), game.Key, game.TurnIndex, game.Saved.Unix()); err != nil {
		return fmt.Errorf("could not save game %s: %w", game.Key, err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM saved_players WHERE game_key = ?`), game.Key); err != nil {
		return fmt.Errorf("could not clear players of %s: %w", game.Key, err)
	}

	const insertPlayer = `
		INSERT INTO saved_players (game_key, seat, name, score, has_extra_life, busted, stayed, frozen, hand)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for seat, p := range game.Players {
		if _, err := tx.ExecContext(ctx, s.rebind(insertPlayer),
			game.Key, seat, p.Name, p.Score, p.HasExtraLife, p.Busted, p.Stayed, p.Frozen, p.Hand); err != nil {
			return fmt.Errorf("could not save player %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// Load returns the saved game, or ErrNotFound
func (s *SQLStore) Load(ctx context.Context, key string) (*Game, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT save_key, turn_index, saved FROM saved_games WHERE save_key = ?`), key)

	game := &Game{}
	var saved int64
	if err := row.Scan(&game.Key, &game.TurnIndex, &saved); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	game.Saved = time.Unix(saved, 0)

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT name, score, has_extra_life, busted, stayed, frozen, hand
		FROM saved_players
		WHERE game_key = ?
		ORDER BY seat`), key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	game.Players = make([]*Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}

		game.Players = append(game.Players, p)
	}

	return game, rows.Err()
}

func scanPlayer(row db.Scanner) (*Player, error) {
	var p Player
	if err := row.Scan(&p.Name, &p.Score, &p.HasExtraLife, &p.Busted, &p.Stayed, &p.Frozen, &p.Hand); err != nil {
		return nil, err
	}

	return &p, nil
}

// Delete removes the save, or returns ErrNotFound
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM saved_players WHERE game_key = ?`), key); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM saved_games WHERE save_key = ?`), key)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
