package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/3-lines-studio/easygen/internal/adapters/cli"
	easyhttp "github.com/3-lines-studio/easygen/internal/adapters/http"
	"github.com/3-lines-studio/easygen/internal/config"
	"github.com/3-lines-studio/easygen/internal/core"
	"github.com/3-lines-studio/easygen/internal/logger"
	"github.com/3-lines-studio/easygen/internal/types"
)

const (
	NoticeNoSettings    = "No EASYGEN setting defined."
	NoticeNoCollections = "No collections defined."
	NoticeDone          = "Done"

	MsgInvalidItems = "Invalid items in collection definition (not iterable)"
	MsgInvalidURI   = "Invalid URI for: %v"
	MsgInvalidPath  = "Invalid file_path for URI %s"
	MsgFailedPath   = "path: %s"

	MsgUnexpectedStatus = "URI %s answered with status %d, saved as is"
)

type ExportInput struct {
	Settings *config.Settings
	Profile  string
}

type ExportOutput struct {
	// Configured is false when the settings carry no export section.
	Configured bool
	Written    []string
	Report     *cli.ExportReport
	Error      error
}

type ExportDeps struct {
	Collections Registry[types.CollectionFactory]
	Storages    Registry[types.StorageFactory]
	Router      types.Router
	Invoker     types.Invoker
	CLI         CLIOutput
	Logger      logger.Logger
	Metrics     MetricsRecorder
}

// ExportService walks every configured collection and writes what the
// router serves for each item into the configured storage.
type ExportService struct {
	collections Registry[types.CollectionFactory]
	storages    Registry[types.StorageFactory]
	router      types.Router
	invoker     types.Invoker
	cli         CLIOutput
	logger      logger.Logger
	metrics     MetricsRecorder
	newRunID    func() string
	now         func() time.Time
}

func NewExportService(deps ExportDeps) *ExportService {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &ExportService{
		collections: deps.Collections,
		storages:    deps.Storages,
		router:      deps.Router,
		invoker:     deps.Invoker,
		cli:         deps.CLI,
		logger:      log,
		metrics:     deps.Metrics,
		newRunID:    uuid.NewString,
		now:         time.Now,
	}
}

// exportRun carries the state of one Export call.
type exportRun struct {
	profile config.Profile
	opts    core.PathOptions
	storage types.Storage
	report  *cli.ExportReport
	log     logger.Logger
	written []string
}

func (s *ExportService) Export(ctx context.Context, input ExportInput) ExportOutput {
	started := s.now()
	log := s.logger.With(
		logger.String("run_id", s.newRunID()),
		logger.String("profile", input.Profile),
	)

	if !input.Settings.HasExportConfig() {
		s.cli.PrintNotice(NoticeNoSettings)
		return ExportOutput{}
	}

	profile := input.Settings.Profile(input.Profile)

	log.Debug("Using collections", logger.Strings("collections", profile.Collections))
	log.Debug("Using file_system", logger.String("file_system", profile.FileSystem))
	log.Debug("Using file_system_args", logger.Any("file_system_args", redactArgs(profile.FileSystemArgs)))
	log.Debug("Using strip_leading_slash", logger.Bool("strip_leading_slash", profile.StripLeadingSlashEnabled()))
	log.Debug("Using auto_index_html", logger.Bool("auto_index_html", profile.AutoIndexHTMLEnabled()))

	storage, err := s.openStorage(ctx, profile)
	if err != nil {
		log.Error("Storage backend could not be constructed", logger.Error(err))
		return ExportOutput{Configured: true, Error: err}
	}
	if closer, ok := storage.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn("Closing storage failed", logger.Error(err))
			}
		}()
	}

	run := &exportRun{
		profile: profile,
		opts: core.PathOptions{
			StripLeadingSlash: profile.StripLeadingSlashEnabled(),
			AutoIndexHTML:     profile.AutoIndexHTMLEnabled(),
		},
		storage: storage,
		report:  cli.NewExportReport(s.cli, storageLocation(storage)),
		log:     log,
	}

	if len(profile.Collections) == 0 {
		s.cli.PrintNotice(NoticeNoCollections)
	}

	for _, id := range profile.Collections {
		s.exportCollection(ctx, run, id)
	}

	run.report.Render(s.cli.Out())
	s.finishMetrics(input.Settings.Metrics, started, log)

	total := run.report.Totals()
	log.Info("Export finished",
		logger.Int("written", total.Written),
		logger.Int("skipped", total.Skipped),
		logger.Int("failed", total.Failed),
		logger.Duration("duration", s.now().Sub(started)),
	)

	s.cli.PrintDone(NoticeDone)

	return ExportOutput{
		Configured: true,
		Written:    run.written,
		Report:     run.report,
	}
}

func (s *ExportService) openStorage(ctx context.Context, profile config.Profile) (storage types.Storage, err error) {
	factory, err := s.storages.Lookup(profile.FileSystem)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrStorageNotFound, profile.FileSystem)
	}

	defer func() {
		if p := recover(); p != nil {
			storage = nil
			err = fmt.Errorf("construct storage %s: %v", profile.FileSystem, p)
		}
	}()

	storage, err = factory(ctx, profile.FileSystemArgs)
	if err != nil {
		return nil, fmt.Errorf("construct storage %s: %w", profile.FileSystem, err)
	}
	if storage == nil {
		return nil, fmt.Errorf("construct storage %s: factory returned no storage", profile.FileSystem)
	}
	return storage, nil
}

// exportCollection processes one collection. Load failures and panics
// raised while enumerating abandon the collection, never the run.
func (s *ExportService) exportCollection(ctx context.Context, run *exportRun, id string) {
	log := run.log.With(logger.String("collection", id))
	log.Debug("Processing collection")
	run.report.StartCollection(id)

	defer func() {
		if p := recover(); p != nil {
			err := &core.CollectionError{Collection: id, Err: fmt.Errorf("%v", p)}
			s.collectionFailed(run, id, err)
			log.Debug("Collection aborted", logger.Error(err))
		}
	}()

	collection, err := s.loadCollection(id)
	if err != nil {
		s.collectionFailed(run, id, err)
		log.Debug("Collection could not be loaded", logger.Error(err))
		return
	}

	items, err := collection.Items(ctx)
	if err != nil || items == nil {
		s.cli.PrintError(MsgInvalidItems)
		s.recordCollectionFailure(run, id)
		log.Debug("Collection items are not iterable", logger.Error(errors.Join(core.ErrInvalidItems, err)))
		return
	}

	for item := range items {
		s.exportItem(ctx, run, id, collection, item)
	}
}

func (s *ExportService) loadCollection(id string) (collection types.Collection, err error) {
	factory, err := s.collections.Lookup(id)
	if err != nil {
		return nil, &core.CollectionError{Collection: id, Err: core.ErrCollectionNotFound}
	}

	defer func() {
		if p := recover(); p != nil {
			collection = nil
			err = &core.CollectionError{Collection: id, Err: fmt.Errorf("%v", p)}
		}
	}()

	collection, err = factory()
	if err != nil {
		return nil, &core.CollectionError{Collection: id, Err: err}
	}
	if collection == nil {
		return nil, &core.CollectionError{Collection: id, Err: errors.New("factory returned no collection")}
	}
	return collection, nil
}

func (s *ExportService) collectionFailed(run *exportRun, id string, err error) {
	s.cli.PrintError("%v", err)
	s.recordCollectionFailure(run, id)
}

func (s *ExportService) recordCollectionFailure(run *exportRun, id string) {
	run.report.CollectionFailed(id)
	if s.metrics != nil {
		s.metrics.CollectionFailed(id)
	}
}

func (s *ExportService) exportItem(ctx context.Context, run *exportRun, id string, collection types.Collection, item types.Item) {
	log := run.log.With(logger.String("collection", id))
	log.Debug("Processing item", logger.Any("item", item))

	defer func() {
		if p := recover(); p != nil {
			err := &core.ItemError{Collection: id, Err: fmt.Errorf("%v", p)}
			s.cli.PrintError("%v", err)
			s.record(run, id, cli.OutcomeFailed)
			log.Debug("Item aborted", logger.Error(err))
		}
	}()

	uri := collection.Location(item)
	if uri == "" {
		s.cli.PrintError(MsgInvalidURI, item)
		s.record(run, id, cli.OutcomeSkipped)
		return
	}

	match, err := s.router.Resolve(uri)
	if err != nil {
		s.cli.PrintError("%v", err)
		s.record(run, id, cli.OutcomeSkipped)
		log.Debug("Route not found", logger.String("uri", uri), logger.Error(err))
		return
	}

	if match.URL == nil {
		s.cli.PrintError("%v", fmt.Errorf("%w: %s: router returned no url", core.ErrNoMatch, uri))
		s.record(run, id, cli.OutcomeSkipped)
		return
	}

	req := easyhttp.NewExportRequest(ctx, match.URL, item)
	resp, err := s.invoker.Invoke(ctx, match, req)
	if err != nil {
		itemErr := &core.ItemError{Collection: id, URI: uri, Err: err}
		s.cli.PrintError("%v", itemErr)
		s.record(run, id, cli.OutcomeFailed)
		log.Debug("Handler failed", logger.String("uri", uri), logger.String("pattern", match.Pattern), logger.Error(err))
		return
	}
	if resp.Status < http.StatusOK || resp.Status >= http.StatusMultipleChoices {
		s.cli.PrintWarning(MsgUnexpectedStatus, uri, resp.Status)
	}

	filePath := types.FilePath(collection, item)
	if filePath == "" {
		s.cli.PrintError(MsgInvalidPath, uri)
		s.record(run, id, cli.OutcomeSkipped)
		return
	}

	key := core.NormalizeOutputPath(filePath, run.opts)
	if err := s.write(ctx, run.storage, key, resp.Body); err != nil {
		s.cli.PrintError("%v", err)
		s.cli.PrintError(MsgFailedPath, key)
		s.record(run, id, cli.OutcomeFailed)
		log.Debug("Storage write failed", logger.String("path", key), logger.Error(err))
		return
	}

	run.written = append(run.written, key)
	s.record(run, id, cli.OutcomeWritten)
	log.Debug("Wrote artifact",
		logger.String("uri", uri),
		logger.String("path", key),
		logger.Int("bytes", len(resp.Body)),
	)
}

// write replaces whatever is stored at key.
func (s *ExportService) write(ctx context.Context, storage types.Storage, key string, content []byte) error {
	if err := storage.Delete(ctx, key); err != nil {
		return err
	}
	return storage.Save(ctx, key, content)
}

func (s *ExportService) record(run *exportRun, id string, outcome cli.Outcome) {
	run.report.Record(id, outcome)
	if s.metrics != nil {
		s.metrics.Item(id, string(outcome))
	}
}

func (s *ExportService) finishMetrics(cfg config.MetricsConfig, started time.Time, log logger.Logger) {
	if s.metrics == nil {
		return
	}
	finished := s.now()
	s.metrics.Finish(finished.Sub(started), finished)

	if cfg.Textfile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(cfg.Textfile); err != nil {
		s.cli.PrintWarning("%v", err)
		log.Debug("Metrics textfile not written", logger.Error(err))
	}
}

type locator interface {
	Location() string
}

func storageLocation(storage types.Storage) string {
	if l, ok := storage.(locator); ok {
		return l.Location()
	}
	return ""
}

var secretArgs = map[string]bool{"password": true, "api_key": true, "dsn": true}

func redactArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if secretArgs[k] {
			v = "***"
		}
		out[k] = v
	}
	return out
}
