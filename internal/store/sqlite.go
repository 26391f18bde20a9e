package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"autotile-studio/internal/autotile"
)

// SQLiteStore keeps many rule tables in one SQLite database. Each row
// holds the exact JSON document a FileStore would write.
type SQLiteStore struct {
	db     *sql.DB
	get    *sql.Stmt
	put    *sql.Stmt
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string, params Params) (*SQLiteStore, error) {
	var err error
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tilesets (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("create tilesets table: %w", err)
	}

	get, err := db.Prepare("SELECT body FROM tilesets WHERE name = ?")
	if err != nil {
		return nil, err
	}
	put, err := db.Prepare(`
		INSERT INTO tilesets (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`)
	if err != nil {
		get.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, get: get, put: put, logger: params.logger()}, nil
}

func (s *SQLiteStore) Close() error {
	return errors.Join(s.get.Close(), s.put.Close(), s.db.Close())
}

// Get returns the raw document stored under id. ok is false when there is none.
func (s *SQLiteStore) Get(id string) (body []byte, ok bool, err error) {
	var text string
	if err := s.get.QueryRow(id).Scan(&text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(text), true, nil
}

// Put stores a raw document under id without decoding it.
func (s *SQLiteStore) Put(id string, body []byte) error {
	_, err := s.put.Exec(id, string(body), time.Now().Unix())
	return err
}

func (s *SQLiteStore) LoadOrCreate(id string, width, height int, opts ...autotile.Option) (*autotile.SpriteConfig, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	opts = append([]autotile.Option{autotile.WithLogger(s.logger)}, opts...)

	body, ok, err := s.Get(id)
	if err != nil {
		s.logger.Warn("tileset lookup failed, starting empty", "id", id, "err", err)
		return freshConfig(width, height, opts), nil
	}
	if !ok {
		return freshConfig(width, height, opts), nil
	}

	cfg, err := autotile.Decode(body, opts...)
	if err != nil {
		if !autotile.Recoverable(err) {
			return nil, fmt.Errorf("tileset %s: %w", id, err)
		}
		s.logger.Warn("rule table unusable, starting empty", "id", id, "err", err)
		return freshConfig(width, height, opts), nil
	}
	return cfg, nil
}

func freshConfig(width, height int, opts []autotile.Option) *autotile.SpriteConfig {
	cfg := autotile.New(width, height, opts...)
	cfg.SyncCoordinates()
	return cfg
}

func (s *SQLiteStore) Save(id string, cfg *autotile.SpriteConfig) error {
	if err := validID(id); err != nil {
		return err
	}
	body, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := s.Put(id, body); err != nil {
		return fmt.Errorf("save tileset %s: %w", id, err)
	}
	s.logger.Debug("saved rule table", "id", id, "rules", cfg.Len())
	return nil
}

func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM tilesets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		ids = append(ids, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
