package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pressio/mediahub/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Config captures service level configuration loaded from config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	CORS      CORSConfig      `yaml:"cors"`
	Upload    UploadConfig    `yaml:"upload"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Storage   storage.Config  `yaml:"storage"`
	Fallback  FallbackConfig  `yaml:"fallback"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Redis     RedisConfig     `yaml:"redis"`
}

// RedisConfig defines Redis connection settings for distributed locking.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CORSConfig defines CORS middleware settings.
type CORSConfig struct {
	AllowOrigin      string `yaml:"allow_origin"`
	AllowMethods     string `yaml:"allow_methods"`
	AllowHeaders     string `yaml:"allow_headers"`
	AllowCredentials bool   `yaml:"allow_credentials"`
}

// UploadConfig defines file upload constraints and the network timeout applied
// to backing-store writes.
type UploadConfig struct {
	MaxSize        int64    `yaml:"max_size"`
	MaxVideoSize   int64    `yaml:"max_video_size"`
	VideoMimeTypes []string `yaml:"video_mime_types"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// DeliveryConfig defines how delivery (CDN) URLs are derived from origin URLs.
// When Enabled is false all derivation is the identity function, which keeps
// the catalog usable in development environments without a delivery host.
type DeliveryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Optimize bool   `yaml:"optimize"`
}

// FallbackConfig defines where locally-served assets land when the primary
// backing store is unreachable.
type FallbackConfig struct {
	BasePath string `yaml:"base_path"`
}

// ReconcileConfig schedules the background job that re-uploads fallback
// assets to the primary store.
type ReconcileConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig defines the database backend configuration.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the binary executable.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		log.Printf("Warning: config file %q not found, using defaults", name)
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var parsed Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&parsed)
	return &parsed, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/mediahub.db",
			},
		},
		CORS: CORSConfig{
			AllowOrigin:      "*",
			AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "*",
			AllowCredentials: false,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,  // 10MB for images and documents
			MaxVideoSize: 500 * 1024 * 1024, // video ceiling
			VideoMimeTypes: []string{
				"video/mp4",
				"video/webm",
				"video/quicktime",
			},
			TimeoutSeconds: 30,
		},
		Delivery: DeliveryConfig{
			Enabled:  false,
			Optimize: true,
		},
		Storage: storage.DefaultConfig(),
		Fallback: FallbackConfig{
			BasePath: "data/fallback",
		},
		Reconcile: ReconcileConfig{
			Enabled:  true,
			Schedule: "*/5 * * * *",
		},
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/mediahub.db"
	}
	if cfg.Upload.MaxSize <= 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024
	}
	if cfg.Upload.MaxVideoSize <= 0 {
		cfg.Upload.MaxVideoSize = 500 * 1024 * 1024
	}
	if len(cfg.Upload.VideoMimeTypes) == 0 {
		cfg.Upload.VideoMimeTypes = []string{"video/mp4", "video/webm", "video/quicktime"}
	}
	if cfg.Upload.TimeoutSeconds <= 0 {
		cfg.Upload.TimeoutSeconds = 30
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Fallback.BasePath == "" {
		cfg.Fallback.BasePath = "data/fallback"
	}
	if cfg.Reconcile.Schedule == "" {
		cfg.Reconcile.Schedule = "*/5 * * * *"
	}
}

// findConfigFile searches for a config file in the current directory first,
// then next to the binary executable. Returns the full path or empty string.
func findConfigFile(name string) string {
	// 1. Current working directory
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	// 2. Next to the binary executable
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
