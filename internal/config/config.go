// Package config provides centralized configuration management for the importer.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the connection string. The scheme selects the backend:
	// postgres://, postgresql:// or mysql://.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of open connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// ConnectTimeout bounds the initial connect and ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`

	// Table overrides the snapshot table name. Empty means the backend default
	// (kpi_snapshots for PostgreSQL, kpiSnapshots for MySQL).
	Table string `env:"SNAPSHOT_TABLE"`
}

// ImportConfig holds spreadsheet import settings.
type ImportConfig struct {
	// BlueConsultEntityID is the company the "Blue Consult" sheet belongs to (default: 1)
	BlueConsultEntityID int64 `env:"IMPORT_BLUE_CONSULT_ENTITY_ID" default:"1"`

	// AcademyEntityID is the company the "Tokeniza Academy" sheet belongs to (default: 4)
	AcademyEntityID int64 `env:"IMPORT_ACADEMY_ENTITY_ID" default:"4"`

	// CademiEntityID is the company the "Cademi Cursos" sheet belongs to (default: 4)
	CademiEntityID int64 `env:"IMPORT_CADEMI_ENTITY_ID" default:"4"`

	// Entities maps company display names to ids for sheets that name the
	// company per row. Format: "Name=id,Name=id".
	Entities map[string]int64 `env:"IMPORT_ENTITIES" default:"Blue Consult=1,Tokeniza=2,Tokeniza Academy=4,Mychel Mendes=30004"`

	// MaxFileSize is the maximum accepted workbook size in bytes (default: 100MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"104857600"`

	// MaxReportedErrors caps the row errors kept for the final report (default: 100).
	// Counters stay exact regardless of this cap.
	MaxReportedErrors int `env:"IMPORT_MAX_REPORTED_ERRORS" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
