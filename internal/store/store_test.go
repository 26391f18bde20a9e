package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/store"
)

func openStores(t *testing.T) map[string]store.Store {
	t.Helper()
	dir := t.TempDir()

	sq, err := store.Open("sqlite", filepath.Join(dir, "tilesets.db"), store.Params{})
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	fs, err := store.Open("file", filepath.Join(dir, "files"), store.Params{})
	require.NoError(t, err)

	return map[string]store.Store{"file": fs, "sqlite": sq}
}

func sample(t *testing.T) *autotile.SpriteConfig {
	t.Helper()
	cfg := autotile.New(8, 4, autotile.WithTileSize(16, 16))
	require.NoError(t, autotile.ApplyTemplate(cfg, autotile.Coord(1, 1), autotile.BlobTemplate()))
	return cfg
}

func TestRoundTrip(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			orig := sample(t)
			require.NoError(t, s.Save("cave", orig))

			got, err := s.LoadOrCreate("cave", 99, 99)
			require.NoError(t, err)
			assert.True(t, orig.Equal(got))
			assert.True(t, orig.Coordinates().Equal(got.Coordinates()))

			require.NoError(t, s.Save("beach", autotile.New(2, 2)))
			ids, err := s.List()
			require.NoError(t, err)
			assert.Equal(t, []string{"beach", "cave"}, ids)

			// Saving again replaces rather than duplicates.
			require.NoError(t, s.Save("cave", autotile.New(3, 3)))
			got, err = s.LoadOrCreate("cave", 1, 1)
			require.NoError(t, err)
			assert.Equal(t, 3, got.GridWidth)
			ids, err = s.List()
			require.NoError(t, err)
			assert.Len(t, ids, 2)
		})
	}
}

func TestLoadOrCreateMissing(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			cfg, err := s.LoadOrCreate("absent", 6, 5)
			require.NoError(t, err)
			assert.True(t, autotile.New(6, 5).Equal(cfg))
		})
	}
}

func TestBadIDs(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "..", "a/b", `a\b`} {
				_, err := s.LoadOrCreate(id, 1, 1)
				assert.ErrorIs(t, err, store.ErrBadID, "id %q", id)
				assert.ErrorIs(t, s.Save(id, autotile.New(1, 1)), store.ErrBadID, "id %q", id)
			}
		})
	}
}

func TestSQLiteCorruptAndBadKey(t *testing.T) {
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "t.db"), store.Params{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("junk", []byte("{not json")))
	cfg, err := s.LoadOrCreate("junk", 4, 4)
	require.NoError(t, err)
	assert.True(t, autotile.New(4, 4).Equal(cfg))

	bad := `{"orientations":{"1;1":{"dirs":[null,null,null,null,null,null,null,null]}},"grid_width":4,"grid_height":4}`
	require.NoError(t, s.Put("badkey", []byte(bad)))
	_, err = s.LoadOrCreate("badkey", 4, 4)
	assert.ErrorIs(t, err, autotile.ErrBadCoordinate)

	body, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestFileStorePath(t *testing.T) {
	s := store.NewFileStore("data", store.Params{})

	p, err := s.Path("cave")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "cave.tileset.json"), p)

	p, err = s.Path("legacy.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "legacy.json"), p)
}

func TestFileStoreListIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.tileset.json"), 0o755))

	s := store.NewFileStore(dir, store.Params{})
	require.NoError(t, s.Save("a", autotile.New(1, 1)))

	ids, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	empty := store.NewFileStore(filepath.Join(dir, "nope"), store.Params{})
	ids, err = empty.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := store.Open("redis", "x", store.Params{})
	assert.Error(t, err)
}
