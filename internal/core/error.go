package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatch            = errors.New("no route matches uri")
	ErrInvalidItems       = errors.New("invalid items in collection definition (not iterable)")
	ErrCollectionNotFound = errors.New("collection is not registered")
	ErrStorageNotFound    = errors.New("storage backend is not registered")
	ErrHandlerPanic       = errors.New("handler panicked")
	ErrEmptyPath          = errors.New("storage path cannot be empty")
	ErrPathEscapesRoot    = errors.New("storage path escapes storage root")
)

// CollectionError ties a recoverable failure to the collection it happened in.
type CollectionError struct {
	Collection string
	Err        error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collection %s: %v", e.Collection, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

type ItemError struct {
	Collection string
	URI        string
	Path       string
	Err        error
}

func (e *ItemError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("%s: %v (path: %s)", e.Collection, e.Err, e.Path)
	case e.URI != "":
		return fmt.Sprintf("%s: %v (uri: %s)", e.Collection, e.Err, e.URI)
	default:
		return fmt.Sprintf("%s: %v", e.Collection, e.Err)
	}
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
