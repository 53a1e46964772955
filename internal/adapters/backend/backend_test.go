package backend

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/easygen/internal/adapters/redis"
	"github.com/3-lines-studio/easygen/internal/registry"
)

func TestDecode(t *testing.T) {
	var cfg redis.Config
	err := Decode(map[string]any{
		"address": "localhost:6379",
		"db":      "2",
		"ttl":     "90s",
		"prefix":  "site:",
	}, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Address)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, 90*time.Second, cfg.TTL)
	assert.Equal(t, "site:", cfg.Prefix)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	var cfg redis.Config
	err := Decode(map[string]any{"adress": "typo"}, &cfg)
	assert.Error(t, err)
}

func TestBuiltinsNames(t *testing.T) {
	assert.Equal(t, []string{"elasticsearch", "filesystem", "memory", "redis", "sql"}, Builtins().Names())
}

func TestOpenFileSystem(t *testing.T) {
	location := filepath.Join(t.TempDir(), "out")
	open, err := Builtins().Lookup(FileSystem)
	require.NoError(t, err)

	storage, err := open(context.Background(), map[string]any{"location": location})
	require.NoError(t, err)

	require.NoError(t, storage.Save(context.Background(), "index.html", []byte("home")))
	data, err := os.ReadFile(filepath.Join(location, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "home", string(data))
}

func TestOpenFileSystemWithoutLocationFails(t *testing.T) {
	open, err := Builtins().Lookup(FileSystem)
	require.NoError(t, err)

	_, err = open(context.Background(), map[string]any{})
	assert.Error(t, err)
}

func TestOpenMemory(t *testing.T) {
	open, err := Builtins().Lookup(Memory)
	require.NoError(t, err)

	storage, err := open(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, storage.Delete(context.Background(), "missing.html"))
	assert.NoError(t, storage.Save(context.Background(), "a/index.html", []byte("a")))
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	open, err := Builtins().Lookup(Redis)
	require.NoError(t, err)

	storage, err := open(context.Background(), map[string]any{"address": mr.Addr(), "prefix": "p:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.(io.Closer).Close() })

	require.NoError(t, storage.Save(context.Background(), "index.html", []byte("x")))
	assert.True(t, mr.Exists("p:index.html"))
}

func TestOpenSQLite(t *testing.T) {
	open, err := Builtins().Lookup(SQL)
	require.NoError(t, err)

	storage, err := open(context.Background(), map[string]any{
		"driver": "sqlite",
		"dsn":    filepath.Join(t.TempDir(), "site.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.(io.Closer).Close() })

	assert.NoError(t, storage.Save(context.Background(), "index.html", []byte("x")))
}

func TestOpenElasticsearchRequiresAddresses(t *testing.T) {
	open, err := Builtins().Lookup(Elasticsearch)
	require.NoError(t, err)

	_, err = open(context.Background(), map[string]any{"index": "site"})
	assert.Error(t, err)
}

func TestLookupUnknownBackend(t *testing.T) {
	_, err := Builtins().Lookup("s3")
	assert.ErrorIs(t, err, registry.ErrNotRegistered)
}
