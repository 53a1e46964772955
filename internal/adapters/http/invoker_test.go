package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/3-lines-studio/easygen/internal/adapters/fs"
	"github.com/3-lines-studio/easygen/internal/core"
	"github.com/3-lines-studio/easygen/internal/types"
)

func TestNewExportRequest(t *testing.T) {
	u, err := url.ParseRequestURI("/blog/1/?draft=1")
	if err != nil {
		t.Fatalf("ParseRequestURI() error = %v", err)
	}
	req := NewExportRequest(context.Background(), u, "post-1")

	if req.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Host != ExportHost {
		t.Errorf("Host = %q, want %q", req.Host, ExportHost)
	}
	if got := req.Header.Get("User-Agent"); got != ExportUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, ExportUserAgent)
	}
	if req.URL.Path != "/blog/1/" {
		t.Errorf("Path = %q, want %q", req.URL.Path, "/blog/1/")
	}
	if req.RequestURI != "/blog/1/?draft=1" {
		t.Errorf("RequestURI = %q, want %q", req.RequestURI, "/blog/1/?draft=1")
	}
	if req.URL.Query().Get("draft") != "1" {
		t.Errorf("query draft = %q, want 1", req.URL.Query().Get("draft"))
	}

	item, ok := types.ItemFromContext(req.Context())
	if !ok || item != "post-1" {
		t.Errorf("ItemFromContext() = %v, %v, want post-1, true", item, ok)
	}
}

func TestRecorderInvoker(t *testing.T) {
	invoker := NewRecorderInvoker()
	ctx := context.Background()

	invoke := func(h http.HandlerFunc) (types.Response, error) {
		req := NewExportRequest(ctx, &url.URL{Path: "/page"}, "item")
		return invoker.Invoke(ctx, types.Match{Handler: h, Pattern: "/page"}, req)
	}

	t.Run("success", func(t *testing.T) {
		resp, err := invoke(func(w http.ResponseWriter, r *http.Request) {
			item, _ := types.ItemFromContext(r.Context())
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>" + item.(string) + "</p>"))
		})
		if err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
		if resp.Status != http.StatusOK {
			t.Errorf("Status = %d, want 200", resp.Status)
		}
		if string(resp.Body) != "<p>item</p>" {
			t.Errorf("Body = %q, want %q", resp.Body, "<p>item</p>")
		}
		if resp.Header.Get("Content-Type") != "text/html" {
			t.Errorf("Content-Type = %q, want text/html", resp.Header.Get("Content-Type"))
		}
	})

	t.Run("non-success status keeps the body", func(t *testing.T) {
		resp, err := invoke(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<h1>Not found</h1>"))
		})
		if err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
		if resp.Status != http.StatusNotFound {
			t.Errorf("Status = %d, want 404", resp.Status)
		}
		if string(resp.Body) != "<h1>Not found</h1>" {
			t.Errorf("Body = %q, want %q", resp.Body, "<h1>Not found</h1>")
		}
	})

	t.Run("panic", func(t *testing.T) {
		_, err := invoke(func(w http.ResponseWriter, r *http.Request) {
			panic("template exploded")
		})
		if !errors.Is(err, core.ErrHandlerPanic) {
			t.Errorf("Invoke() error = %v, want ErrHandlerPanic", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		_, err := invoker.Invoke(canceled, types.Match{Handler: http.NotFoundHandler()}, req)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Invoke() error = %v, want context.Canceled", err)
		}
	})
}

func TestArtifactHandler(t *testing.T) {
	storage, err := fs.NewStorage(fs.NewMemoryFileSystem(), fs.StorageConfig{Location: "/site"})
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	ctx := context.Background()
	_ = storage.Save(ctx, "index.html", []byte("<h1>home</h1>"))
	_ = storage.Save(ctx, "blog/1/index.html", []byte("<h1>1</h1>"))
	_ = storage.Save(ctx, "feed.xml", []byte("<rss/>"))

	handler := NewArtifactHandler(storage)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/", status: http.StatusOK, body: "<h1>home</h1>"},
		{path: "/blog/1/", status: http.StatusOK, body: "<h1>1</h1>"},
		{path: "/blog/1", status: http.StatusOK, body: "<h1>1</h1>"},
		{path: "/feed.xml", status: http.StatusOK, body: "<rss/>"},
		{path: "/missing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}
