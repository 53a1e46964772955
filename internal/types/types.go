package types

import (
	"context"
	"iter"
	"net/http"
	"net/url"
)

type Item = any

// Collection enumerates publishable items and maps each one to the URI
// the router serves it under.
type Collection interface {
	Items(ctx context.Context) (iter.Seq[Item], error)
	Location(item Item) string
}

// FilePather overrides where an item is written. Collections that do not
// implement it are written at their Location.
type FilePather interface {
	FilePath(item Item) string
}

func FilePath(c Collection, item Item) string {
	if fp, ok := c.(FilePather); ok {
		return fp.FilePath(item)
	}
	return c.Location(item)
}

type CollectionFactory func() (Collection, error)

type Storage interface {
	Save(ctx context.Context, path string, content []byte) error
	Delete(ctx context.Context, path string) error
}

type StorageFactory func(ctx context.Context, args map[string]any) (Storage, error)

// Match is a resolved route. URL is the parsed URI the handler is invoked
// with; a Router must set it.
type Match struct {
	Handler http.Handler
	Pattern string
	Params  map[string]string
	URL     *url.URL
}

type Router interface {
	Resolve(uri string) (Match, error)
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type Invoker interface {
	Invoke(ctx context.Context, match Match, req *http.Request) (Response, error)
}

type itemKey struct{}

func WithItem(ctx context.Context, item Item) context.Context {
	return context.WithValue(ctx, itemKey{}, item)
}

func ItemFromContext(ctx context.Context) (Item, bool) {
	item := ctx.Value(itemKey{})
	return item, item != nil
}
