package footnotes

import "github.com/goliatone/go-footnotes/internal/runtimeconfig"

var (
	ErrBackupsFeatureRequired      = runtimeconfig.ErrBackupsFeatureRequired
	ErrBackupsDirRequired          = runtimeconfig.ErrBackupsDirRequired
	ErrCommandsCronRequiresBackups = runtimeconfig.ErrCommandsCronRequiresBackups
	ErrDocumentsDirRequired        = runtimeconfig.ErrDocumentsDirRequired
	ErrCompressionUnknown          = runtimeconfig.ErrCompressionUnknown
	ErrRetentionInvalid            = runtimeconfig.ErrRetentionInvalid
	ErrPruneCronRequired           = runtimeconfig.ErrPruneCronRequired
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
	ErrCacheTTLInvalid             = runtimeconfig.ErrCacheTTLInvalid
	ErrStorageDriverRequired       = runtimeconfig.ErrStorageDriverRequired
	ErrStorageDriverUnknown        = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired          = runtimeconfig.ErrStorageDSNRequired
)

type (
	Config          = runtimeconfig.Config
	InsertConfig    = runtimeconfig.InsertConfig
	BackupsConfig   = runtimeconfig.BackupsConfig
	RetentionConfig = runtimeconfig.RetentionConfig
	DocumentsConfig = runtimeconfig.DocumentsConfig
	ParserConfig    = runtimeconfig.ParserConfig
	SettingsConfig  = runtimeconfig.SettingsConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CommandsConfig  = runtimeconfig.CommandsConfig
	CacheConfig     = runtimeconfig.CacheConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
