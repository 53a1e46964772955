package http

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/3-lines-studio/easygen/internal/core"
)

type ArtifactReader interface {
	Open(key string) ([]byte, error)
}

// ArtifactHandler serves exported artifacts back over HTTP so a run can be
// previewed before it is published.
type ArtifactHandler struct {
	artifacts ArtifactReader
}

func NewArtifactHandler(artifacts ArtifactReader) http.Handler {
	return &ArtifactHandler{artifacts: artifacts}
}

func (h *ArtifactHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	key := core.NormalizeOutputPath(req.URL.Path, core.PathOptions{StripLeadingSlash: true, AutoIndexHTML: true})

	data, err := h.artifacts.Open(key)
	if err != nil && !strings.HasSuffix(key, core.IndexFile) {
		key = path.Join(key, core.IndexFile)
		data, err = h.artifacts.Open(key)
	}
	if err != nil {
		http.NotFound(w, req)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	if req.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}
