package config

const (
	// DefaultDatabasePath is where imported clippings are stored
	DefaultDatabasePath = "./whoarder.db"

	// DefaultMaxFileSizeBytes caps uploaded clippings files (10 MB)
	DefaultMaxFileSizeBytes = 10 * 1024 * 1024
)
