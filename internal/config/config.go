package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Import
		Sync
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // gorm logger: silent, error, warn, info
	}
	Log struct {
		Level string
	}
	Import struct {
		MaxFileSizeBytes int64
	}
	Sync struct {
		Enabled       bool
		Schedule      string // Cron format: "*/15 * * * *" = every 15 minutes
		ClippingsPath string // e.g. "/Volumes/Kindle/documents/My Clippings.txt"
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("log_level", "info")
	v.SetDefault("import_max_file_size_bytes", DefaultMaxFileSizeBytes)
	v.SetDefault("clippings_sync_enabled", false)
	v.SetDefault("clippings_sync_schedule", "*/15 * * * *")
	v.SetDefault("clippings_sync_path", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
		Import: Import{
			MaxFileSizeBytes: v.GetInt64("IMPORT_MAX_FILE_SIZE_BYTES"),
		},
		Sync: Sync{
			Enabled:       v.GetBool("CLIPPINGS_SYNC_ENABLED"),
			Schedule:      v.GetString("CLIPPINGS_SYNC_SCHEDULE"),
			ClippingsPath: v.GetString("CLIPPINGS_SYNC_PATH"),
		},
	}
}
