package di

import (
	"strings"
	"time"

	"github.com/goliatone/go-footnotes/internal/backup"
	"github.com/goliatone/go-footnotes/internal/documents"
	"github.com/goliatone/go-footnotes/internal/insert"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/internal/logging/console"
	"github.com/goliatone/go-footnotes/internal/logging/gologger"
	"github.com/goliatone/go-footnotes/internal/runtimeconfig"
	"github.com/goliatone/go-footnotes/internal/settings"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies from configuration. Every binding can
// be overridden through an Option; whatever is left nil after the options run
// is built from config defaults.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	blobStore    *backup.BlobStore
	snapshotRepo backup.SnapshotRepository
	backupSvc    interfaces.BackupService
	sweeper      *backup.Sweeper

	documentSvc   interfaces.DocumentService
	insertSvc     *insert.Service
	settingsStore *settings.Store

	clock func() time.Time
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider used to mint module loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB binds a database handle. Snapshot records are stored through bun
// instead of the in-memory index when a handle is present.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithBlobStore overrides the default blob store binding.
func WithBlobStore(store *backup.BlobStore) Option {
	return func(c *Container) {
		c.blobStore = store
	}
}

// WithSnapshotRepository overrides the default snapshot index binding.
func WithSnapshotRepository(repo backup.SnapshotRepository) Option {
	return func(c *Container) {
		c.snapshotRepo = repo
	}
}

// WithBackupService overrides the default backup service binding.
func WithBackupService(svc interfaces.BackupService) Option {
	return func(c *Container) {
		c.backupSvc = svc
	}
}

// WithDocumentService overrides the default document service binding.
func WithDocumentService(svc interfaces.DocumentService) Option {
	return func(c *Container) {
		c.documentSvc = svc
	}
}

// WithInsertService overrides the default insert service binding.
func WithInsertService(svc *insert.Service) Option {
	return func(c *Container) {
		c.insertSvc = svc
	}
}

// WithSettingsStore overrides the default settings store binding.
func WithSettingsStore(store *settings.Store) Option {
	return func(c *Container) {
		c.settingsStore = store
	}
}

// WithClock overrides the time source used by retention checks, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// NewContainer validates the configuration and builds the service graph.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	if err := c.configureBackups(); err != nil {
		return nil, err
	}
	if err := c.configureDocuments(); err != nil {
		return nil, err
	}
	c.configureInsert()
	c.configureSettings()

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		options := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			options.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(options)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || strings.TrimSpace(c.Config.Storage.DSN) == "" {
		return nil
	}

	db, err := openDatabase(c.Config.Storage)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureBackups() error {
	if !c.Config.Features.Backups || !c.Config.Backups.Enabled {
		return nil
	}
	if c.backupSvc != nil {
		c.configureSweeper()
		return nil
	}

	logger := logging.BackupLogger(c.loggerProvider)

	if c.blobStore == nil {
		storeOpts := []backup.BlobStoreOption{}
		if value := strings.TrimSpace(c.Config.Backups.Compression); value != "" {
			compression, err := backup.ParseCompression(value)
			if err != nil {
				return err
			}
			storeOpts = append(storeOpts, backup.WithCompression(compression))
		}
		store, err := backup.NewBlobStore(c.Config.Backups.Dir, storeOpts...)
		if err != nil {
			return err
		}
		c.blobStore = store
	}

	backend := "memory"
	if c.snapshotRepo == nil {
		if c.bunDB != nil {
			c.snapshotRepo = backup.NewBunSnapshotRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
			backend = "bun"
		} else {
			c.snapshotRepo = backup.NewMemorySnapshotRepository()
		}
	} else if c.bunDB != nil {
		backend = "bun"
	}

	serviceOpts := []backup.ServiceOption{
		backup.WithLogger(logger),
		backup.WithRetention(backup.RetentionPolicy{
			MaxAge:    c.Config.Retention.MaxAge,
			MaxPerKey: c.Config.Retention.MaxPerKey,
		}),
	}
	if c.clock != nil {
		serviceOpts = append(serviceOpts, backup.WithClock(c.clock))
	}

	service, err := backup.NewService(c.blobStore, c.snapshotRepo, serviceOpts...)
	if err != nil {
		return err
	}
	c.backupSvc = service

	logger.Info("backups.configured",
		"provider", backend,
		"compression", strings.TrimSpace(c.Config.Backups.Compression),
	)

	c.configureSweeper()
	return nil
}

func (c *Container) configureSweeper() {
	if c.sweeper != nil || c.Config.Retention.SweepInterval <= 0 {
		return
	}
	service, ok := c.backupSvc.(*backup.Service)
	if !ok {
		return
	}

	sweeperOpts := []backup.SweeperOption{
		backup.SweeperWithLogger(logging.BackupLogger(c.loggerProvider)),
	}
	if c.clock != nil {
		sweeperOpts = append(sweeperOpts, backup.SweeperWithClock(c.clock))
	}

	sweeper, err := backup.NewSweeper(service, c.Config.Retention.SweepInterval, sweeperOpts...)
	if err != nil {
		return
	}
	c.sweeper = sweeper
}

func (c *Container) configureDocuments() error {
	if !c.Config.Features.Documents || c.documentSvc != nil {
		return nil
	}

	logger := logging.DocumentsLogger(c.loggerProvider)

	serviceOpts := []documents.Option{
		documents.WithLogger(logger),
	}
	if c.backupSvc != nil {
		serviceOpts = append(serviceOpts, documents.WithBackups(c.backupSvc))
	}

	service, err := documents.NewService(documents.Config{
		BasePath:  c.Config.Documents.BaseDir,
		Pattern:   c.Config.Documents.Pattern,
		Recursive: c.Config.Documents.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: c.Config.Documents.Parser.Extensions,
			Sanitize:   c.Config.Documents.Parser.Sanitize,
			HardWraps:  c.Config.Documents.Parser.HardWraps,
			SafeMode:   c.Config.Documents.Parser.SafeMode,
		},
	}, serviceOpts...)
	if err != nil {
		return err
	}
	c.documentSvc = service

	logger.Info("documents.configured",
		"base_dir", c.Config.Documents.BaseDir,
		"pattern", c.Config.Documents.Pattern,
		"recursive", c.Config.Documents.Recursive,
	)
	return nil
}

func (c *Container) configureInsert() {
	if c.insertSvc != nil {
		return
	}
	c.insertSvc = insert.NewService(
		insert.WithCursorToDefinition(c.Config.Insert.CursorToDefinition),
		insert.WithLogger(logging.InsertLogger(c.loggerProvider)),
	)
}

func (c *Container) configureSettings() {
	if c.settingsStore != nil {
		return
	}
	path := strings.TrimSpace(c.Config.Settings.Path)
	if path == "" {
		return
	}
	c.settingsStore = settings.NewStore(path,
		settings.WithLogger(logging.ModuleLogger(c.loggerProvider, "footnotes.settings")),
	)
}

// LoggerProvider exposes the configured logger provider. It may be nil when
// the logging feature is disabled and the host supplied no provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BackupService returns the configured backup service, nil when backups are disabled.
func (c *Container) BackupService() interfaces.BackupService {
	return c.backupSvc
}

// DocumentService returns the configured document service, nil when documents are disabled.
func (c *Container) DocumentService() interfaces.DocumentService {
	return c.documentSvc
}

// InsertService returns the configured insert service.
func (c *Container) InsertService() *insert.Service {
	return c.insertSvc
}

// Sweeper returns the retention sweeper, nil when backups are disabled or the
// sweep interval is zero.
func (c *Container) Sweeper() *backup.Sweeper {
	return c.sweeper
}

// SettingsStore returns the file-backed settings store, nil when no settings
// path is configured.
func (c *Container) SettingsStore() *settings.Store {
	return c.settingsStore
}

// BunDB exposes the bound database handle, nil in memory mode.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// Close releases connections the container opened from configuration.
// Injected handles stay open; the host owns them.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	return c.bunDB.Close()
}
