package config

import (
	"errors"
	"fmt"
	"strings"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrConfigNotFound)
}

// ValidationError collects every problem found in a profile.
type ValidationError struct {
	Profile  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile %q is invalid: %s", e.Profile, strings.Join(e.Problems, "; "))
}

// Validate checks the shape of a profile. It does not construct the storage
// backend or resolve collections.
func (p Profile) Validate(name string) error {
	var problems []string

	seen := make(map[string]bool)
	for i, id := range p.Collections {
		if strings.TrimSpace(id) == "" {
			problems = append(problems, fmt.Sprintf("collections[%d] is empty", i))
			continue
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("collection %s is listed twice", id))
		}
		seen[id] = true
	}

	if strings.TrimSpace(p.FileSystem) == "" {
		problems = append(problems, "file_system is empty")
	}

	if len(problems) > 0 {
		return &ValidationError{Profile: name, Problems: problems}
	}
	return nil
}
