// Package backend wires the built-in storage backends into a registry keyed
// by the identifiers used in the file_system setting.
package backend

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/3-lines-studio/easygen/internal/adapters/elasticsearch"
	"github.com/3-lines-studio/easygen/internal/adapters/fs"
	"github.com/3-lines-studio/easygen/internal/adapters/redis"
	"github.com/3-lines-studio/easygen/internal/adapters/sql"
	"github.com/3-lines-studio/easygen/internal/registry"
	"github.com/3-lines-studio/easygen/internal/types"
)

const (
	FileSystem    = "filesystem"
	Memory        = "memory"
	Redis         = "redis"
	SQL           = "sql"
	Elasticsearch = "elasticsearch"
)

// Decode copies file_system_args into a typed backend config. Unknown keys
// are rejected so a typo fails the run instead of being ignored.
func Decode(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("decode file_system_args: %w", err)
	}
	return nil
}

func openFileSystem(ctx context.Context, args map[string]any) (types.Storage, error) {
	var cfg fs.StorageConfig
	if err := Decode(args, &cfg); err != nil {
		return nil, err
	}
	storage, err := fs.NewStorage(fs.NewOSFileSystem(), cfg)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func openMemory(ctx context.Context, args map[string]any) (types.Storage, error) {
	cfg := fs.StorageConfig{Location: "/"}
	if err := Decode(args, &cfg); err != nil {
		return nil, err
	}
	storage, err := fs.NewStorage(fs.NewMemoryFileSystem(), cfg)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func openRedis(ctx context.Context, args map[string]any) (types.Storage, error) {
	var cfg redis.Config
	if err := Decode(args, &cfg); err != nil {
		return nil, err
	}
	storage, err := redis.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func openSQL(ctx context.Context, args map[string]any) (types.Storage, error) {
	var cfg sql.Config
	if err := Decode(args, &cfg); err != nil {
		return nil, err
	}
	storage, err := sql.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func openElasticsearch(ctx context.Context, args map[string]any) (types.Storage, error) {
	var cfg elasticsearch.Config
	if err := Decode(args, &cfg); err != nil {
		return nil, err
	}
	storage, err := elasticsearch.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

// Builtins returns a registry holding every built-in backend.
func Builtins() *registry.Registry[types.StorageFactory] {
	r := registry.New[types.StorageFactory]()
	r.MustRegister(FileSystem, openFileSystem)
	r.MustRegister(Memory, openMemory)
	r.MustRegister(Redis, openRedis)
	r.MustRegister(SQL, openSQL)
	r.MustRegister(Elasticsearch, openElasticsearch)
	return r
}
