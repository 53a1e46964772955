package core

import (
	"fmt"
	"path"
	"strings"
)

const IndexFile = "index.html"

type PathOptions struct {
	StripLeadingSlash bool
	AutoIndexHTML     bool
}

// NormalizeOutputPath turns a collection file path into a storage key.
// At most one leading slash is removed.
func NormalizeOutputPath(p string, opts PathOptions) string {
	if opts.StripLeadingSlash {
		p = strings.TrimPrefix(p, "/")
	}

	if p == "" && opts.AutoIndexHTML {
		p += IndexFile
	}

	if strings.HasSuffix(p, "/") && opts.AutoIndexHTML {
		p += IndexFile
	}

	return p
}

// CleanStorageKey rejects keys that would leave the storage root once joined.
func CleanStorageKey(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyPath
	}

	cleaned := path.Clean("/" + key)
	if cleaned == "/" {
		return "", ErrEmptyPath
	}

	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %s", ErrPathEscapesRoot, key)
		}
	}

	return strings.TrimPrefix(cleaned, "/"), nil
}
