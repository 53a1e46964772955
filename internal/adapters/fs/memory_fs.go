package fs

import (
	iofs "io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MemoryFileSystem keeps files in a map. Directories are implicit.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

func (fs *MemoryFileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, ok := fs.files[filepath.Clean(path)]
	if !ok {
		return nil, &iofs.PathError{Op: "open", Path: path, Err: iofs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (fs *MemoryFileSystem) FileExists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, ok := fs.files[filepath.Clean(path)]
	return ok
}

func (fs *MemoryFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

func (fs *MemoryFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	return nil
}

func (fs *MemoryFileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	key := filepath.Clean(path)
	if _, ok := fs.files[key]; !ok {
		return &iofs.PathError{Op: "remove", Path: path, Err: iofs.ErrNotExist}
	}
	delete(fs.files, key)
	return nil
}

// Paths lists stored files under root, relative to it and slash separated.
func (fs *MemoryFileSystem) Paths(root string) []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	root = filepath.Clean(root)
	var paths []string
	for p := range fs.files {
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	sort.Strings(paths)
	return paths
}
