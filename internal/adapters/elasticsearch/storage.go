// Package elasticsearch indexes generated artifacts as documents, one per
// storage path, so a site search can be built over the exported pages.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/3-lines-studio/easygen/internal/core"
)

const DefaultIndex = "easygen-artifacts"

type Config struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	APIKey    string   `mapstructure:"api_key"`
	Index     string   `mapstructure:"index"`
}

// indexMapping stores content as an ES binary field; text is only indexed
// for artifacts that are valid UTF-8.
const indexMapping = `{"mappings":{"properties":{` +
	`"path":{"type":"keyword"},` +
	`"content":{"type":"binary"},` +
	`"text":{"type":"text"},` +
	`"digest":{"type":"keyword"},` +
	`"updated_at":{"type":"date"}}}}`

// Document is one artifact. Content holds the exact bytes (base64 on the
// wire) so images and other binary files survive indexing.
type Document struct {
	Path      string    `json:"path"`
	Content   []byte    `json:"content"`
	Text      string    `json:"text,omitempty"`
	Digest    string    `json:"digest"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Storage struct {
	client *elasticsearch.Client
	index  string
	now    func() time.Time
}

func NewClient(cfg Config, transport http.RoundTripper) (*elasticsearch.Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("elasticsearch storage: addresses are required")
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch storage: create client: %w", err)
	}
	return client, nil
}

// Open creates a client and checks the cluster answers before any artifact
// is written.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	client, err := NewClient(cfg, nil)
	if err != nil {
		return nil, err
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch storage: ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch storage: ping: %s", res.Status())
	}

	s := NewStorage(client, cfg.Index)
	if err := s.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func NewStorage(client *elasticsearch.Client, index string) *Storage {
	if index == "" {
		index = DefaultIndex
	}
	return &Storage{client: client, index: index, now: time.Now}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (s *Storage) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch storage: check index %s: %w", s.index, err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch storage: create index %s: %w", s.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch storage: create index %s: %s", s.index, res.Status())
	}
	return nil
}

func (s *Storage) DocumentID(path string) string {
	return core.KeyDigest(path)
}

func (s *Storage) Save(ctx context.Context, path string, content []byte) error {
	if path == "" {
		return core.ErrEmptyPath
	}

	doc := Document{
		Path:      path,
		Content:   content,
		Digest:    core.HashContent(content),
		UpdatedAt: s.now().UTC(),
	}
	if utf8.Valid(content) {
		doc.Text = string(content)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(s.DocumentID(path)),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s: %s", path, res.Status())
	}
	return nil
}

// Delete removes the document; a missing document is not an error.
func (s *Storage) Delete(ctx context.Context, path string) error {
	if path == "" {
		return core.ErrEmptyPath
	}

	res, err := s.client.Delete(s.index, s.DocumentID(path), s.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("delete %s: %s", path, res.Status())
	}
	return nil
}
