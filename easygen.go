// Package easygen exports the pages of a Go web application as static
// artifacts. Collections enumerate items, the application's own router
// serves each item's URI in-process, and the response bytes are written to
// a storage backend chosen in the settings file.
package easygen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"

	"github.com/3-lines-studio/easygen/internal/adapters/backend"
	"github.com/3-lines-studio/easygen/internal/adapters/cli"
	easyhttp "github.com/3-lines-studio/easygen/internal/adapters/http"
	"github.com/3-lines-studio/easygen/internal/config"
	"github.com/3-lines-studio/easygen/internal/core"
	"github.com/3-lines-studio/easygen/internal/logger"
	"github.com/3-lines-studio/easygen/internal/metrics"
	"github.com/3-lines-studio/easygen/internal/registry"
	"github.com/3-lines-studio/easygen/internal/types"
	"github.com/3-lines-studio/easygen/internal/usecase"
)

type Item = types.Item

type Collection = types.Collection

type FilePather = types.FilePather

type CollectionFactory = types.CollectionFactory

type Storage = types.Storage

type StorageFactory = types.StorageFactory

type Router = types.Router

type Match = types.Match

type Invoker = types.Invoker

type Response = types.Response

type Settings = config.Settings

type Profile = config.Profile

var (
	ErrNoMatch      = core.ErrNoMatch
	ErrHandlerPanic = core.ErrHandlerPanic
)

const (
	DefaultProfile    = config.DefaultProfile
	DefaultConfigPath = config.DefaultConfigPath
)

// ItemFromContext returns the item being exported when a handler runs
// under an export.
func ItemFromContext(ctx context.Context) (Item, bool) {
	return types.ItemFromContext(ctx)
}

// ItemAs is ItemFromContext with a type assertion.
func ItemAs[T any](ctx context.Context) (T, bool) {
	item, ok := types.ItemFromContext(ctx)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := item.(T)
	return v, ok
}

func ServeMux(mux *http.ServeMux) Router {
	return easyhttp.NewServeMuxRouter(mux)
}

func Chi(router chi.Router) Router {
	return easyhttp.NewChiRouter(router)
}

func Gin(engine *gin.Engine) Router {
	return easyhttp.NewGinRouter(engine)
}

type App struct {
	router      Router
	invoker     Invoker
	collections *registry.Registry[CollectionFactory]
	storages    *registry.Registry[StorageFactory]
	stdout      io.Writer
	stderr      io.Writer
	settings    *config.Settings
	configPath  string
}

type Option func(*App)

// WithCollection registers a collection under the id listed in the
// collections setting. Registering the same id twice panics.
func WithCollection(id string, factory CollectionFactory) Option {
	return func(a *App) {
		a.collections.MustRegister(id, factory)
	}
}

// WithStorage adds a storage backend selectable through file_system.
func WithStorage(id string, factory StorageFactory) Option {
	return func(a *App) {
		a.storages.MustRegister(id, factory)
	}
}

func WithInvoker(invoker Invoker) Option {
	return func(a *App) {
		a.invoker = invoker
	}
}

func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithSettings bypasses the settings file.
func WithSettings(settings *Settings) Option {
	return func(a *App) {
		a.settings = settings
	}
}

func WithConfigPath(path string) Option {
	return func(a *App) {
		a.configPath = path
	}
}

func New(router Router, opts ...Option) *App {
	if router == nil {
		panic("easygen: nil router passed to New; use easygen.ServeMux, easygen.Chi or easygen.Gin")
	}

	app := &App{
		router:      router,
		invoker:     easyhttp.NewRecorderInvoker(),
		collections: registry.New[CollectionFactory](),
		storages:    backend.Builtins(),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func (a *App) output() *cli.Output {
	return cli.NewOutputTo(a.stdout, a.stderr)
}

func (a *App) loadSettings() (*config.Settings, error) {
	if a.settings != nil {
		if a.settings.BaseDir == "" {
			a.settings.SetDefaults()
		}
		return a.settings, nil
	}

	path := a.configPath
	if path == "" {
		path = config.GetConfigPath(config.DefaultConfigPath)
	}
	return config.LoadSettings(path)
}

// Export runs one export of the named profile. The returned error is only
// set when the run could not start; per-item problems are printed to the
// error stream and do not fail the run.
func (a *App) Export(ctx context.Context, profile string) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	log, err := logger.New(settings.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	service := usecase.NewExportService(usecase.ExportDeps{
		Collections: a.collections,
		Storages:    a.storages,
		Router:      a.router,
		Invoker:     a.invoker,
		CLI:         a.output(),
		Logger:      log,
		Metrics:     metrics.New(),
	})

	result := service.Export(ctx, usecase.ExportInput{
		Settings: settings,
		Profile:  profile,
	})
	if result.Error != nil {
		return fmt.Errorf("export %s: %w", profile, result.Error)
	}
	return nil
}

// Doctor checks the named profile without writing anything.
func (a *App) Doctor(ctx context.Context, profile string, skipStorage bool) error {
	settings, err := a.loadSettings()
	if err != nil {
		return err
	}

	service := usecase.NewDoctorService(a.collections, a.storages, a.output())
	result := service.CheckProfile(ctx, usecase.DoctorInput{
		Settings:    settings,
		Profile:     profile,
		SkipStorage: skipStorage,
	})
	if !result.Healthy() {
		return fmt.Errorf("doctor %s: %d problem(s) found", profile, len(result.Problems))
	}
	return nil
}
