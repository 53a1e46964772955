package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"

	"github.com/3-lines-studio/easygen/internal/core"
	"github.com/3-lines-studio/easygen/internal/types"
)

// ServeMuxRouter resolves URIs against a net/http ServeMux. The mux itself is
// returned as the handler so path values are populated when it is invoked.
type ServeMuxRouter struct {
	mux *http.ServeMux
}

func NewServeMuxRouter(mux *http.ServeMux) *ServeMuxRouter {
	return &ServeMuxRouter{mux: mux}
}

func (r *ServeMuxRouter) Resolve(uri string) (types.Match, error) {
	u, err := parseURI(uri)
	if err != nil {
		return types.Match{}, err
	}

	req := &http.Request{
		Method: http.MethodGet,
		URL:    u,
		Host:   ExportHost,
		Header: http.Header{},
	}

	_, pattern := r.mux.Handler(req)
	if pattern == "" {
		return types.Match{}, fmt.Errorf("%w: %s", core.ErrNoMatch, uri)
	}

	return types.Match{Handler: r.mux, Pattern: pattern, URL: u}, nil
}

type ChiRouter struct {
	router chi.Router
}

func NewChiRouter(router chi.Router) *ChiRouter {
	return &ChiRouter{router: router}
}

func (r *ChiRouter) Resolve(uri string) (types.Match, error) {
	u, err := parseURI(uri)
	if err != nil {
		return types.Match{}, err
	}

	rctx := chi.NewRouteContext()
	if !r.router.Match(rctx, http.MethodGet, u.Path) {
		return types.Match{}, fmt.Errorf("%w: %s", core.ErrNoMatch, uri)
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[key] = rctx.URLParams.Values[i]
		}
	}

	return types.Match{Handler: r.router, Pattern: rctx.RoutePattern(), Params: params, URL: u}, nil
}

// GinRouter matches against the GET routes registered on the engine.
// Static segments win over parameters, in registration order otherwise.
type GinRouter struct {
	engine *gin.Engine
}

func NewGinRouter(engine *gin.Engine) *GinRouter {
	return &GinRouter{engine: engine}
}

func (r *GinRouter) Resolve(uri string) (types.Match, error) {
	u, err := parseURI(uri)
	if err != nil {
		return types.Match{}, err
	}

	var (
		best       types.Match
		bestStatic = -1
	)
	for _, route := range r.engine.Routes() {
		if route.Method != http.MethodGet {
			continue
		}
		params, static, ok := matchGinPath(route.Path, u.Path)
		if !ok || static <= bestStatic {
			continue
		}
		best = types.Match{Handler: r.engine, Pattern: route.Path, Params: params, URL: u}
		bestStatic = static
	}

	if bestStatic < 0 {
		return types.Match{}, fmt.Errorf("%w: %s", core.ErrNoMatch, uri)
	}
	return best, nil
}

// matchGinPath reports whether path fits a gin route pattern and how many
// static segments the pattern matched.
func matchGinPath(pattern, path string) (map[string]string, int, bool) {
	patternParts := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	pathParts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	params := map[string]string{}
	static := 0

	for i, part := range patternParts {
		if strings.HasPrefix(part, "*") {
			params[part[1:]] = "/" + strings.Join(pathParts[i:], "/")
			return params, static, true
		}
		if i >= len(pathParts) {
			return nil, 0, false
		}
		switch {
		case strings.HasPrefix(part, ":"):
			if pathParts[i] == "" {
				return nil, 0, false
			}
			params[part[1:]] = pathParts[i]
		case part == pathParts[i]:
			static++
		default:
			return nil, 0, false
		}
	}

	if len(pathParts) != len(patternParts) {
		return nil, 0, false
	}
	return params, static, true
}

func parseURI(uri string) (*url.URL, error) {
	u, err := url.ParseRequestURI(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrNoMatch, uri, err)
	}
	return u, nil
}
