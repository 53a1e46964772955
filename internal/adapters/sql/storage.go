// Package sql stores artifacts as rows in a SQL table.
package sql

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/3-lines-studio/easygen/internal/core"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultTable = "easygen_artifacts"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Config struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

func (c *Config) SetDefaults() {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("dsn is required")
	}
	if !tableName.MatchString(c.Table) {
		return fmt.Errorf("invalid table name %q", c.Table)
	}
	return nil
}

type Storage struct {
	db    *sqlx.DB
	table string
	now   func() time.Time
}

// Open connects, then creates the artifact table if it does not exist.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sql storage: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql storage: connect %s: %w", cfg.Driver, err)
	}

	s := NewStorage(db, cfg.Table)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewStorage(db *sqlx.DB, table string) *Storage {
	return &Storage{db: db, table: table, now: time.Now}
}

func (s *Storage) Migrate(ctx context.Context) error {
	blob := "BLOB"
	if s.db.DriverName() == DriverPostgres {
		blob = "BYTEA"
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	path TEXT PRIMARY KEY,
	content %s NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`, s.table, blob)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sql storage: create table %s: %w", s.table, err)
	}
	return nil
}

func (s *Storage) Save(ctx context.Context, path string, content []byte) error {
	if path == "" {
		return core.ErrEmptyPath
	}

	query := s.db.Rebind(fmt.Sprintf(`INSERT INTO %s (path, content, updated_at) VALUES (?, ?, ?)
ON CONFLICT (path) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`, s.table))
	if _, err := s.db.ExecContext(ctx, query, path, content, s.now().UTC()); err != nil {
		return fmt.Errorf("insert %s: %w", path, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, path string) error {
	if path == "" {
		return core.ErrEmptyPath
	}

	query := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE path = ?`, s.table))
	if _, err := s.db.ExecContext(ctx, query, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

type Artifact struct {
	Path    string `db:"path"`
	Content []byte `db:"content"`
}

func (s *Storage) Get(ctx context.Context, path string) (Artifact, error) {
	var a Artifact
	query := s.db.Rebind(fmt.Sprintf(`SELECT path, content FROM %s WHERE path = ?`, s.table))
	err := s.db.GetContext(ctx, &a, query, path)
	return a, err
}

func (s *Storage) Paths(ctx context.Context) ([]string, error) {
	var paths []string
	err := s.db.SelectContext(ctx, &paths, fmt.Sprintf(`SELECT path FROM %s ORDER BY path`, s.table))
	return paths, err
}

func (s *Storage) Close() error {
	return s.db.Close()
}
