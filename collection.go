package easygen

import (
	"context"
	"iter"
	"slices"
)

// BaseCollection yields no items and gives every item an empty URI. Embed it
// and override what the collection needs.
type BaseCollection struct{}

func (BaseCollection) Items(ctx context.Context) (iter.Seq[Item], error) {
	return func(yield func(Item) bool) {}, nil
}

func (BaseCollection) Location(item Item) string {
	return ""
}

// SliceCollection publishes a fixed slice of values.
type SliceCollection[T any] struct {
	Values []T
	// URI maps a value to the path the router serves it under.
	URI func(T) string
	// Path overrides where a value is written. Nil writes at URI.
	Path func(T) string
}

func (c SliceCollection[T]) Items(ctx context.Context) (iter.Seq[Item], error) {
	return func(yield func(Item) bool) {
		for _, v := range slices.Clone(c.Values) {
			if !yield(v) {
				return
			}
		}
	}, nil
}

func (c SliceCollection[T]) Location(item Item) string {
	v, ok := item.(T)
	if !ok || c.URI == nil {
		return ""
	}
	return c.URI(v)
}

func (c SliceCollection[T]) FilePath(item Item) string {
	if c.Path == nil {
		return c.Location(item)
	}
	v, ok := item.(T)
	if !ok {
		return ""
	}
	return c.Path(v)
}

// FuncCollection adapts plain functions to a Collection. Items may load from
// a database or an API; its error marks the collection as not iterable.
type FuncCollection struct {
	ItemsFunc    func(ctx context.Context) ([]Item, error)
	LocationFunc func(item Item) string
	FilePathFunc func(item Item) string
}

func (c FuncCollection) Items(ctx context.Context) (iter.Seq[Item], error) {
	if c.ItemsFunc == nil {
		return slices.Values([]Item(nil)), nil
	}
	items, err := c.ItemsFunc(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Values(items), nil
}

func (c FuncCollection) Location(item Item) string {
	if c.LocationFunc == nil {
		return ""
	}
	return c.LocationFunc(item)
}

func (c FuncCollection) FilePath(item Item) string {
	if c.FilePathFunc == nil {
		return c.Location(item)
	}
	return c.FilePathFunc(item)
}

// Static wraps a collection value in a factory for WithCollection.
func Static(c Collection) CollectionFactory {
	return func() (Collection, error) {
		return c, nil
	}
}
