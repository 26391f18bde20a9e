// Package store keeps rule tables in durable storage, keyed by identifier.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"autotile-studio/internal/autotile"
)

// ErrBadID is returned for identifiers that cannot name a rule table.
var ErrBadID = errors.New("invalid tileset id")

// Store loads and saves rule tables by identifier.
type Store interface {
	// LoadOrCreate returns the stored table, or a fresh width x height one
	// when nothing usable is stored under id.
	LoadOrCreate(id string, width, height int, opts ...autotile.Option) (*autotile.SpriteConfig, error)
	Save(id string, cfg *autotile.SpriteConfig) error
	List() ([]string, error)
	Close() error
}

// Params holds options shared by every store.
type Params struct {
	Logger *slog.Logger
}

func (p Params) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

// Open returns the store of the given kind ("file" or "sqlite") at location.
func Open(kind, location string, params Params) (Store, error) {
	switch kind {
	case "file", "":
		return NewFileStore(location, params), nil
	case "sqlite":
		return OpenSQLite(location, params)
	}
	return nil, fmt.Errorf("unknown store kind %q", kind)
}

// Suffix is the file name ending of rule tables in a FileStore.
const Suffix = ".tileset.json"

// FileStore keeps each rule table in its own JSON file under Dir.
type FileStore struct {
	Dir    string
	logger *slog.Logger
}

func NewFileStore(dir string, params Params) *FileStore {
	return &FileStore{Dir: dir, logger: params.logger()}
}

func validID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrBadID, id)
	}
	return nil
}

// Path maps id to its file. An id already ending in .json is used as a
// file name directly.
func (s *FileStore) Path(id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	if strings.HasSuffix(id, ".json") {
		return filepath.Join(s.Dir, id), nil
	}
	return filepath.Join(s.Dir, id+Suffix), nil
}

func (s *FileStore) LoadOrCreate(id string, width, height int, opts ...autotile.Option) (*autotile.SpriteConfig, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}
	opts = append([]autotile.Option{autotile.WithLogger(s.logger)}, opts...)
	return autotile.LoadOrCreate(path, width, height, opts...)
}

func (s *FileStore) Save(id string, cfg *autotile.SpriteConfig) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	s.logger.Debug("saved rule table", "id", id, "path", path, "rules", cfg.Len())
	return nil
}

// List returns the ids of every rule table in Dir, sorted.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tileset dir %s: %w", s.Dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Suffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), Suffix))
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *FileStore) Close() error { return nil }
