// Package http adapts host routers to the export loop and invokes their
// handlers in-process.
package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/3-lines-studio/easygen/internal/core"
	"github.com/3-lines-studio/easygen/internal/types"
)

const (
	ExportHost      = "localhost"
	ExportUserAgent = "easygen"
)

// NewExportRequest builds the synthetic GET request a handler sees during an
// export. u is the URI the router already resolved; the item being exported
// travels in the request context.
func NewExportRequest(ctx context.Context, u *url.URL, item types.Item) *http.Request {
	req := &http.Request{
		Method:     http.MethodGet,
		URL:        u,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Body:       http.NoBody,
		Host:       ExportHost,
		RequestURI: u.RequestURI(),
		RemoteAddr: "127.0.0.1:0",
	}
	req.Header.Set("User-Agent", ExportUserAgent)
	return req.WithContext(types.WithItem(ctx, item))
}

// RecorderInvoker runs a handler against a response recorder. The response
// is returned whatever its status; only a panic is an error.
type RecorderInvoker struct{}

func NewRecorderInvoker() *RecorderInvoker {
	return &RecorderInvoker{}
}

func (i *RecorderInvoker) Invoke(ctx context.Context, match types.Match, req *http.Request) (resp types.Response, err error) {
	if match.Handler == nil {
		return types.Response{}, fmt.Errorf("%w: %s", core.ErrNoMatch, req.URL.Path)
	}
	if err := ctx.Err(); err != nil {
		return types.Response{}, err
	}

	defer func() {
		if p := recover(); p != nil {
			resp = types.Response{}
			err = fmt.Errorf("%w: %v", core.ErrHandlerPanic, p)
		}
	}()

	rec := httptest.NewRecorder()
	match.Handler.ServeHTTP(rec, req)

	result := rec.Result()
	defer result.Body.Close()

	resp = types.Response{
		Status: result.StatusCode,
		Header: result.Header,
		Body:   rec.Body.Bytes(),
	}

	return resp, nil
}
