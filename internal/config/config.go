package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrNoDelivery                  = errors.New("neither TELEGRAM_API_TOKEN nor http.address is set")
	ErrEmptyCatalog                = errors.New("catalog.entries is empty")
	ErrInvalidEntry                = errors.New("catalog entry without filename")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string        `mapstructure:"env"`           // current application environment (local, dev, production etc)
	TelegramAPIToken string        `mapstructure:"-"`             // Telegram API token loaded from environment
	DefaultTopic     string        `mapstructure:"default_topic"` // topic shown when a record has none
	DataDir          string        `mapstructure:"data_dir"`      // root for catalog filenames that are not URLs
	RevealDelay      time.Duration `mapstructure:"reveal_delay"`  // delay between an answer and the card flip
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"` // timeout for remote data files
	Catalog          Catalog       `mapstructure:"catalog"`
	HTTP             HTTP          `mapstructure:"http"`
	Sessions         Sessions      `mapstructure:"sessions"`
	DB               DB            `mapstructure:"database"` // database configuration section
}

// Catalog lists the selectable data files.
type Catalog struct {
	RefreshSchedule string                  `mapstructure:"refresh_schedule"` // cron spec for recounting questions
	Entries         []entities.CatalogEntry `mapstructure:"entries"`
}

// HTTP configures the web delivery. An empty address disables it.
type HTTP struct {
	Address string `mapstructure:"address"`
}

// Sessions configures eviction of idle viewer sessions.
type Sessions struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	EvictSchedule string        `mapstructure:"evict_schedule"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Enabled reports whether a database is configured. Without one the user
// registry is skipped.
func (db DB) Enabled() bool { return db.URL != "" }

// Load reads configuration from the OS file system. An empty path searches
// ./config for config.yaml.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads configuration from fs and environment variables.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetFs(fs)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("default_topic", "Nursing")
	v.SetDefault("data_dir", "assets/data")
	v.SetDefault("reveal_delay", "1500ms")
	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("catalog.refresh_schedule", "@every 10m")
	v.SetDefault("http.address", "")
	v.SetDefault("sessions.idle_ttl", "24h")
	v.SetDefault("sessions.evict_schedule", "@every 1h")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present. An explicit path must exist.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramAPIToken == "" && c.HTTP.Address == "" {
		return ErrNoDelivery
	}
	if len(c.Catalog.Entries) == 0 {
		return ErrEmptyCatalog
	}
	for i, entry := range c.Catalog.Entries {
		if strings.TrimSpace(entry.Filename) == "" {
			return fmt.Errorf("%w: #%d", ErrInvalidEntry, i)
		}
	}
	return nil
}
