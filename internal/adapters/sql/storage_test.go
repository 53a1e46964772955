package sql

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/easygen/internal/core"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "sqlite defaults", cfg: Config{DSN: "file.db"}, wantErr: false},
		{name: "postgres", cfg: Config{Driver: "postgres", DSN: "postgres://x"}, wantErr: false},
		{name: "unknown driver", cfg: Config{Driver: "mysql", DSN: "x"}, wantErr: true},
		{name: "missing dsn", cfg: Config{}, wantErr: true},
		{name: "bad table", cfg: Config{DSN: "x", Table: "a;drop"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.SetDefaults()
			err := cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "artifacts.db")

	s, err := Open(ctx, Config{Driver: DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Delete(ctx, "blog/1/index.html"), "delete of a missing row must succeed")
	require.NoError(t, s.Save(ctx, "blog/1/index.html", []byte("<h1>1</h1>")))
	require.NoError(t, s.Save(ctx, "index.html", []byte("<h1>home</h1>")))
	require.NoError(t, s.Save(ctx, "index.html", []byte("<h1>home v2</h1>")))

	paths, err := s.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/1/index.html", "index.html"}, paths)

	a, err := s.Get(ctx, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>home v2</h1>", string(a.Content))

	require.NoError(t, s.Delete(ctx, "index.html"))
	paths, err = s.Paths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/1/index.html"}, paths)

	assert.True(t, errors.Is(s.Save(ctx, "", nil), core.ErrEmptyPath))
}

func TestPostgresQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := NewStorage(sqlx.NewDb(db, DriverPostgres), "site_pages")
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS site_pages (")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM site_pages WHERE path = $1")).
		WithArgs("about/index.html").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO site_pages (path, content, updated_at) VALUES ($1, $2, $3)")).
		WithArgs("about/index.html", []byte("about"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Delete(ctx, "about/index.html"))
	require.NoError(t, s.Save(ctx, "about/index.html", []byte("about")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUsesByteaOnPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := NewStorage(sqlx.NewDb(db, DriverPostgres), DefaultTable)
	mock.ExpectExec(`content BYTEA NOT NULL`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWrapsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := NewStorage(sqlx.NewDb(db, DriverPostgres), DefaultTable)
	mock.ExpectExec("INSERT INTO").WillReturnError(errors.New("disk full"))

	err = s.Save(context.Background(), "x.html", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
