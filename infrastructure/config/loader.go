package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"yt-audio-vault/domain/extraction"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the file nor the environment sets a value
const (
	DefaultPort             = 8080
	DefaultCookiesObjectKey = "cookies.txt"
	DefaultShutdownTimeout  = 15 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// Environment variables read by Load; they override the config file
const (
	EnvBucketName       = "BUCKET_NAME"
	EnvProxyURL         = "PROXY_URL"
	EnvPOTProviderURL   = "POT_PROVIDER_URL"
	EnvCookiesObjectKey = "COOKIES_OBJECT_KEY"
	EnvCookiesLocalPath = "COOKIES_LOCAL_PATH"
	EnvCredentialsFile  = "GOOGLE_CREDENTIALS_FILE"
	EnvOAuthTokenFile   = "GOOGLE_OAUTH_TOKEN_FILE"
	EnvScratchDir       = "SCRATCH_DIR"
	EnvPort             = "PORT"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
)

// Config represents the complete application configuration
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// StorageConfig contains Cloud Storage settings
type StorageConfig struct {
	BucketName       string `yaml:"bucket_name"`
	CredentialsFile  string `yaml:"credentials_file,omitempty"`
	OAuthTokenFile   string `yaml:"oauth_token_file,omitempty"` // set to authenticate as a user; CredentialsFile is then an OAuth client
	CookiesObjectKey string `yaml:"cookies_object_key"`
	CookiesLocalPath string `yaml:"cookies_local_path,omitempty"`
	ScratchDir       string `yaml:"scratch_dir,omitempty"`
}

// ExtractionConfig contains settings passed to the extraction tool
type ExtractionConfig struct {
	ProxyURL       string `yaml:"proxy_url,omitempty"`
	POTProviderURL string `yaml:"pot_provider_url"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds the configuration from an optional YAML file, an optional .env file
// and the environment, in increasing order of precedence. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExtractionSettings returns the knobs the extraction option builder reads
func (c *Config) ExtractionSettings() extraction.Settings {
	return extraction.Settings{
		ProxyURL:       c.Extraction.ProxyURL,
		POTProviderURL: c.Extraction.POTProviderURL,
	}
}

// BucketConfigured reports whether storage-touching operations can run
func (c *Config) BucketConfigured() bool {
	return c.Storage.BucketName != ""
}

// UsesOAuth reports whether storage authenticates with a cached user token
func (c *Config) UsesOAuth() bool {
	return c.Storage.OAuthTokenFile != ""
}

// ProxyConfigured reports whether extraction traffic goes through a proxy
func (c *Config) ProxyConfigured() bool {
	return c.Extraction.ProxyURL != ""
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// loadDotEnv loads .env from the working directory; variables already set are kept
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env: %w", err)
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Storage.BucketName, EnvBucketName)
	setString(&cfg.Storage.CredentialsFile, EnvCredentialsFile)
	setString(&cfg.Storage.OAuthTokenFile, EnvOAuthTokenFile)
	setString(&cfg.Storage.CookiesObjectKey, EnvCookiesObjectKey)
	setString(&cfg.Storage.CookiesLocalPath, EnvCookiesLocalPath)
	setString(&cfg.Storage.ScratchDir, EnvScratchDir)
	setString(&cfg.Extraction.ProxyURL, EnvProxyURL)
	setString(&cfg.Extraction.POTProviderURL, EnvPOTProviderURL)
	setString(&cfg.Log.Level, EnvLogLevel)
	setString(&cfg.Log.Format, EnvLogFormat)

	if raw := strings.TrimSpace(os.Getenv(EnvPort)); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s %q", EnvPort, raw)
		}
		cfg.Server.Port = port
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.CookiesObjectKey == "" {
		cfg.Storage.CookiesObjectKey = DefaultCookiesObjectKey
	}
	if cfg.Storage.CookiesLocalPath == "" {
		cfg.Storage.CookiesLocalPath = filepath.Join(os.TempDir(), "yt-audio-vault-cookies.txt")
	}
	if cfg.Storage.ScratchDir == "" {
		cfg.Storage.ScratchDir = os.TempDir()
	}
	if cfg.Extraction.POTProviderURL == "" {
		cfg.Extraction.POTProviderURL = extraction.DefaultPOTProviderURL
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
