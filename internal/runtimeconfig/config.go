package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBackupsFeatureRequired indicates inconsistent backup configuration.
var ErrBackupsFeatureRequired = errors.New("footnotes config: backups feature must be enabled to configure backups")

// ErrBackupsDirRequired ensures enabled backups always have a blob directory.
var ErrBackupsDirRequired = errors.New("footnotes config: backups directory is required when backups are enabled")

// ErrCommandsCronRequiresBackups ensures automatic cron wiring only runs when backups are enabled.
var ErrCommandsCronRequiresBackups = errors.New("footnotes config: command cron auto-registration requires backups to be enabled")
var ErrDocumentsFeatureRequired = errors.New("footnotes config: documents feature must be enabled to configure documents")
var ErrDocumentsDirRequired = errors.New("footnotes config: documents base directory is required when documents are enabled")
var ErrCompressionUnknown = errors.New("footnotes config: backup compression is invalid")
var ErrRetentionInvalid = errors.New("footnotes config: retention limits must be zero or positive")
var ErrPruneCronRequired = errors.New("footnotes config: prune cron expression is required when cron auto-registration is enabled")
var ErrLoggingProviderRequired = errors.New("footnotes config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("footnotes config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("footnotes config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("footnotes config: logging format is invalid")
var ErrCacheTTLInvalid = errors.New("footnotes config: cache TTL must be zero or positive")
var ErrStorageDriverRequired = errors.New("footnotes config: storage driver is required when a DSN is configured")
var ErrStorageDriverUnknown = errors.New("footnotes config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("footnotes config: storage DSN is required when a driver is configured")

// Config aggregates feature flags and adapter bindings for the footnotes
// module. Fields intentionally use simple types so host applications can map
// their own configuration formats onto it.
type Config struct {
	Enabled   bool
	Insert    InsertConfig
	Backups   BackupsConfig
	Retention RetentionConfig
	Documents DocumentsConfig
	Settings  SettingsConfig
	Storage   StorageConfig
	Commands  CommandsConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Features  Features
}

// InsertConfig controls the footnote insertion flow.
type InsertConfig struct {
	// AutoRenumber renumbers the whole document as part of every insert.
	AutoRenumber bool
	// CursorToDefinition moves the cursor to the definition text after an
	// insert even when the footnote text was supplied up front.
	CursorToDefinition bool
}

// BackupsConfig captures blob store behaviour for document snapshots.
type BackupsConfig struct {
	Enabled bool
	// Dir is the blob store root. Snapshots are stored content-addressed
	// beneath it.
	Dir string
	// Compression selects how blobs are stored: none, gzip, or xz.
	Compression string
}

// RetentionConfig bounds how long snapshots are kept.
type RetentionConfig struct {
	// MaxAge expires snapshots older than the duration. Zero keeps forever.
	MaxAge time.Duration
	// MaxPerKey caps snapshots per document key. Zero means unlimited.
	MaxPerKey int
	// SweepInterval spaces out retention sweeps run by the background sweeper.
	SweepInterval time.Duration
}

// DocumentsConfig captures filesystem and parser behaviour for file workflows.
type DocumentsConfig struct {
	BaseDir   string
	Pattern   string
	Recursive bool
	Parser    ParserConfig
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// SettingsConfig locates the host-editable settings file.
type SettingsConfig struct {
	Path string
}

// StorageConfig binds the snapshot index to a SQL database. When unset the
// index lives in memory and only blob files survive restarts.
type StorageConfig struct {
	// Driver selects the database backend: sqlite or postgres.
	Driver string
	// DSN is the driver-specific connection string.
	DSN string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
	AutoRegisterCron       bool
	PruneBackupsCron       string
}

// CacheConfig controls read-through caching for database-backed snapshot
// repositories. It has no effect in memory mode.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Backups   bool
	Documents bool
	Logger    bool
}

// DefaultConfig returns opinionated defaults: renumber on insert, backups
// compressed with gzip under a hidden directory, daily retention sweeps.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Insert: InsertConfig{
			AutoRenumber: true,
		},
		Backups: BackupsConfig{
			Dir:         ".footnotes/backups",
			Compression: "gzip",
		},
		Retention: RetentionConfig{
			MaxAge:        30 * 24 * time.Hour,
			MaxPerKey:     20,
			SweepInterval: 24 * time.Hour,
		},
		Documents: DocumentsConfig{
			BaseDir:   "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Settings: SettingsConfig{},
		Commands: CommandsConfig{
			PruneBackupsCron: "@daily",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Backups.Enabled {
		if !cfg.Features.Backups {
			return ErrBackupsFeatureRequired
		}
		if strings.TrimSpace(cfg.Backups.Dir) == "" {
			return ErrBackupsDirRequired
		}
	}
	if compression := strings.TrimSpace(cfg.Backups.Compression); compression != "" && !isSupportedCompression(compression) {
		return fmt.Errorf("%w: %s", ErrCompressionUnknown, compression)
	}
	if cfg.Commands.AutoRegisterCron {
		if !cfg.Features.Backups {
			return ErrCommandsCronRequiresBackups
		}
		if strings.TrimSpace(cfg.Commands.PruneBackupsCron) == "" {
			return ErrPruneCronRequired
		}
	}
	if cfg.Features.Documents && strings.TrimSpace(cfg.Documents.BaseDir) == "" {
		return ErrDocumentsDirRequired
	}
	if cfg.Retention.MaxAge < 0 {
		return fmt.Errorf("%w: max age", ErrRetentionInvalid)
	}
	if cfg.Retention.MaxPerKey < 0 {
		return fmt.Errorf("%w: max per key", ErrRetentionInvalid)
	}
	if cfg.Retention.SweepInterval < 0 {
		return fmt.Errorf("%w: sweep interval", ErrRetentionInvalid)
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if driver, dsn := strings.TrimSpace(cfg.Storage.Driver), strings.TrimSpace(cfg.Storage.DSN); driver != "" || dsn != "" {
		if driver == "" {
			return ErrStorageDriverRequired
		}
		if !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if dsn == "" {
			return ErrStorageDSNRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isSupportedCompression(compression string) bool {
	switch strings.ToLower(strings.TrimSpace(compression)) {
	case "none", "gzip", "xz":
		return true
	default:
		return false
	}
}

func isSupportedDriver(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3", "postgres":
		return true
	default:
		return false
	}
}
