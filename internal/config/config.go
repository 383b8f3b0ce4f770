// Package config loads application configuration from a YAML file and
// environment variables. Priority: ENV > YAML > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Corpus CorpusConfig `yaml:"corpus"`
	Fuzzy  FuzzyConfig  `yaml:"fuzzy"`
	Watch  WatchConfig  `yaml:"watch"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig holds the embedded database settings.
type StoreConfig struct {
	// Path is the bbolt database file. Empty resolves to
	// <user config dir>/snabblex/snabblex.db at load time.
	Path      string `yaml:"path"       env:"SNABBLEX_STORE_PATH"`
	BatchSize int    `yaml:"batch_size" env:"SNABBLEX_STORE_BATCH_SIZE" env-default:"1000"`
}

// CorpusConfig holds the corpus source settings. The local file is tried
// first; the URL is the fallback when the file is absent.
type CorpusConfig struct {
	Path string `yaml:"path" env:"SNABBLEX_CORPUS_PATH" env-default:"./data.json"`
	URL  string `yaml:"url"  env:"SNABBLEX_CORPUS_URL"`
	// Revision is the expected corpus revision tag. A stored revision that
	// differs forces a refresh on next load.
	Revision string `yaml:"revision" env:"SNABBLEX_CORPUS_REVISION" env-default:"1"`
}

// FuzzyConfig holds the edit-distance fallback thresholds.
type FuzzyConfig struct {
	MinResults      int `yaml:"min_results"       env:"SNABBLEX_FUZZY_MIN_RESULTS"       env-default:"5"`
	MinQueryLen     int `yaml:"min_query_len"     env:"SNABBLEX_FUZZY_MIN_QUERY_LEN"     env-default:"3"`
	MaxDistance     int `yaml:"max_distance"      env:"SNABBLEX_FUZZY_MAX_DISTANCE"      env-default:"2"`
	MaxDistanceLong int `yaml:"max_distance_long" env:"SNABBLEX_FUZZY_MAX_DISTANCE_LONG" env-default:"3"`
	LongQueryLen    int `yaml:"long_query_len"    env:"SNABBLEX_FUZZY_LONG_QUERY_LEN"    env-default:"6"`
}

// WatchConfig holds the corpus-file watcher settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"  env:"SNABBLEX_WATCH_ENABLED"  env-default:"true"`
	Debounce time.Duration `yaml:"debounce" env:"SNABBLEX_WATCH_DEBOUNCE" env-default:"500ms"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"SNABBLEX_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"SNABBLEX_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from a YAML file and environment variables.
// The YAML file path comes from SNABBLEX_CONFIG (fallback "./snabblex.yaml").
// If the file does not exist and SNABBLEX_CONFIG was not set explicitly,
// configuration is loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("SNABBLEX_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		path = "./snabblex.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if cfg.Store.Path == "" {
		p, err := defaultStorePath()
		if err != nil {
			return nil, fmt.Errorf("config: resolve store path: %w", err)
		}
		cfg.Store.Path = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints the struct tags cannot express.
func (c *Config) Validate() error {
	if c.Store.BatchSize <= 0 {
		return fmt.Errorf("store batch_size must be positive, got %d", c.Store.BatchSize)
	}
	if c.Corpus.Path == "" && c.Corpus.URL == "" {
		return fmt.Errorf("at least one of corpus path and url must be set")
	}
	if c.Fuzzy.MaxDistanceLong < c.Fuzzy.MaxDistance {
		return fmt.Errorf("fuzzy max_distance_long (%d) below max_distance (%d)",
			c.Fuzzy.MaxDistanceLong, c.Fuzzy.MaxDistance)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func defaultStorePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "snabblex")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "snabblex.db"), nil
}
