package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSourceURL is the GeoNames dump containing every country.
const DefaultSourceURL = "https://download.geonames.org/export/dump/allCountries.zip"

// Config holds the configuration settings for an export run.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Source: Where the GeoNames archive comes from and where it is extracted.
// - OutputDir: The directory receiving exported files.
// - MetricsFile: Optional prometheus textfile written after the run.
// - Database: Optional PostGIS target for publishing exported places.
type Config struct {
	Env         string         `yaml:"env"`          // Env is the current environment: local, development, production.
	Source      SourceConfig   `yaml:"source"`       // Source describes the remote archive and the local copy.
	OutputDir   string         `yaml:"output_dir"`   // OutputDir is the directory for exported artifacts.
	MetricsFile string         `yaml:"metrics_file"` // MetricsFile is the textfile collector path, empty disables it.
	Database    PostgresConfig `yaml:"postgres"`     // Database holds the optional PostGIS configuration.
}

// SourceConfig describes the GeoNames archive and its extracted tab-separated file.
type SourceConfig struct {
	URL         string        `yaml:"url"`          // URL of the zip archive.
	DataDir     string        `yaml:"data_dir"`     // DataDir is where the archive is extracted.
	File        string        `yaml:"file"`         // File is the expected tab-separated member name.
	HTTPTimeout time.Duration `yaml:"http_timeout"` // HTTPTimeout bounds the download, zero means no timeout.
}

// PostgresConfig holds the connection details for the PostGIS publish step.
type PostgresConfig struct {
	URL   string `yaml:"url"`   // URL is a postgres:// connection string, empty disables publishing.
	Table string `yaml:"table"` // Table receives the exported places.
}

// MustLoad loads the configuration from the environment (and an optional .env file)
// and returns a Config struct. It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GAZETTEER")
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("source_url", DefaultSourceURL)
	v.SetDefault("data_dir", "data")
	v.SetDefault("source_file", "allCountries.txt")
	v.SetDefault("output_dir", "output")
	v.SetDefault("http_timeout", "0s")
	v.SetDefault("database_table", "geonames")

	timeout, err := time.ParseDuration(v.GetString("http_timeout"))
	if err != nil {
		panic("failed to parse http timeout from configuration")
	}
	if timeout < 0 {
		panic("http timeout must not be negative")
	}

	table := v.GetString("database_table")
	if !validIdentifier(table) {
		panic("database table must be a plain identifier")
	}

	return &Config{
		Env: v.GetString("env"),
		Source: SourceConfig{
			URL:         v.GetString("source_url"),
			DataDir:     v.GetString("data_dir"),
			File:        v.GetString("source_file"),
			HTTPTimeout: timeout,
		},
		OutputDir:   v.GetString("output_dir"),
		MetricsFile: v.GetString("metrics_file"),
		Database: PostgresConfig{
			URL:   v.GetString("database_url"),
			Table: table,
		},
	}
}

// validIdentifier reports whether s is safe to interpolate as a SQL table name.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
