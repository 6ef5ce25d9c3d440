package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "NEXCRM_"

type Config struct {
	Port        string `koanf:"port"`
	AppEnv      string `koanf:"app_env"`
	LogLevel    string `koanf:"log_level"`
	MongoURI    string `koanf:"mongo_uri"`
	MongoDB     string `koanf:"mongo_db"`
	JWTSecret   string `koanf:"jwt_secret"`
	JWTExpire   string `koanf:"jwt_expire_hours"`
	FrontendURL string `koanf:"frontend_url"`

	Compose ComposeConfig `koanf:"compose"`
	Rate    RateConfig    `koanf:"rate"`
}

// ComposeConfig sizes the in-memory composer sessions.
type ComposeConfig struct {
	Capacity     int           `koanf:"capacity"`
	TTL          time.Duration `koanf:"ttl"`
	PopupLimit   int           `koanf:"popup_limit"`
	ClientPrefix string        `koanf:"client_prefix"`
	// Lenient turns a select without an active mention into a logged no-op.
	Lenient bool `koanf:"lenient"`
}

type RateConfig struct {
	PerSecond float64 `koanf:"per_second"`
	Burst     int     `koanf:"burst"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":                  "8080",
		"app_env":               "development",
		"log_level":             "info",
		"mongo_uri":             "mongodb://localhost:27017",
		"mongo_db":              "nexcrm",
		"jwt_secret":            "secret",
		"jwt_expire_hours":      "24",
		"frontend_url":          "http://localhost:3000",
		"compose.capacity":      1024,
		"compose.ttl":           "30m",
		"compose.popup_limit":   8,
		"compose.client_prefix": "c",
		"compose.lenient":       false,
		"rate.per_second":       20.0,
		"rate.burst":            40,
	}
}

// Load reads .env, then the TOML file named by NEXCRM_CONFIG, then
// NEXCRM_* variables. Later sources win.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	return LoadFile(os.Getenv(envPrefix + "CONFIG"))
}

// LoadFile is Load without the .env step. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// NEXCRM_COMPOSE__POPUP_LIMIT -> compose.popup_limit
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == "secret") {
		return fmt.Errorf("jwt_secret must be set in production")
	}
	if c.Compose.Capacity < 1 {
		return fmt.Errorf("compose.capacity must be positive, got %d", c.Compose.Capacity)
	}
	if c.Compose.TTL <= 0 {
		return fmt.Errorf("compose.ttl must be positive")
	}
	if c.Compose.PopupLimit < 1 {
		return fmt.Errorf("compose.popup_limit must be positive, got %d", c.Compose.PopupLimit)
	}
	if c.Rate.PerSecond <= 0 || c.Rate.Burst < 1 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}
