package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"

	"github.com/3-lines-studio/easygen/internal/core"
)

const (
	defaultFileMode iofs.FileMode = 0o644
	defaultDirMode  iofs.FileMode = 0o755
)

type StorageConfig struct {
	Location string `mapstructure:"location"`
	// FileMode and DirMode are octal strings such as "0644".
	FileMode string `mapstructure:"file_mode"`
	DirMode  string `mapstructure:"dir_mode"`
}

// Storage writes artifacts as files below a location directory.
type Storage struct {
	fs       FileSystem
	location string
	fileMode iofs.FileMode
	dirMode  iofs.FileMode
}

func NewStorage(fsys FileSystem, cfg StorageConfig) (*Storage, error) {
	if cfg.Location == "" {
		return nil, errors.New("filesystem storage: location is required")
	}

	fileMode, err := parseMode(cfg.FileMode, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("filesystem storage: file_mode: %w", err)
	}
	dirMode, err := parseMode(cfg.DirMode, defaultDirMode)
	if err != nil {
		return nil, fmt.Errorf("filesystem storage: dir_mode: %w", err)
	}

	location, err := filepath.Abs(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("filesystem storage: resolve location: %w", err)
	}

	if err := fsys.MkdirAll(location, dirMode); err != nil {
		return nil, fmt.Errorf("filesystem storage: create location %s: %w", location, err)
	}

	return &Storage{
		fs:       fsys,
		location: location,
		fileMode: fileMode,
		dirMode:  dirMode,
	}, nil
}

func (s *Storage) Location() string {
	return s.location
}

// Path maps a storage key to a file below the location.
func (s *Storage) Path(key string) (string, error) {
	cleaned, err := core.CleanStorageKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.location, filepath.FromSlash(cleaned)), nil
}

func (s *Storage) Save(ctx context.Context, key string, content []byte) error {
	full, err := s.Path(key)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(full), s.dirMode); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}

	if err := s.fs.WriteFile(full, content, s.fileMode); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	full, err := s.Path(key)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(full); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Open(key string) ([]byte, error) {
	full, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	return s.fs.ReadFile(full)
}

func parseMode(raw string, fallback iofs.FileMode) (iofs.FileMode, error) {
	if raw == "" {
		return fallback, nil
	}
	var mode uint32
	if _, err := fmt.Sscanf(raw, "%o", &mode); err != nil {
		return 0, fmt.Errorf("invalid mode %q", raw)
	}
	return iofs.FileMode(mode), nil
}
