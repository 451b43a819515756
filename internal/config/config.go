package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "FOODGRAM_"
	defaultConfigPath = "config.yaml"
	defaultJWTSecret  = "change-me-jwt-secret"
)

type Config struct {
	AppEnv   string         `koanf:"app_env"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
	Media    MediaConfig    `koanf:"media"`
	PDF      PDFConfig      `koanf:"pdf"`
	CORS     CORSConfig     `koanf:"cors"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Mode            string        `koanf:"mode"` // debug, release, test
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	DSN          string        `koanf:"dsn"`
	LogLevel     string        `koanf:"log_level"` // silent, error, warn, info
	MaxOpenConns int           `koanf:"max_open_conns"`
	MaxIdleConns int           `koanf:"max_idle_conns"`
	MaxLifetime  time.Duration `koanf:"max_lifetime"`
}

type AuthConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	TokenTTL        time.Duration `koanf:"token_ttl"`
	LoginRateLimit  int           `koanf:"login_rate_limit"` // attempts per window, 0 disables
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
}

type MediaConfig struct {
	Driver  string   `koanf:"driver"` // local, s3
	Dir     string   `koanf:"dir"`
	BaseURL string   `koanf:"base_url"`
	S3      S3Config `koanf:"s3"`
}

type S3Config struct {
	Bucket        string `koanf:"bucket"`
	Region        string `koanf:"region"`
	Endpoint      string `koanf:"endpoint"`
	AccessKey     string `koanf:"access_key"`
	SecretKey     string `koanf:"secret_key"`
	PublicBaseURL string `koanf:"public_base_url"`
}

type PDFConfig struct {
	Title    string `koanf:"title"`
	FileName string `koanf:"file_name"`
	FontPath string `koanf:"font_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

func Default() *Config {
	return &Config{
		AppEnv: "dev",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Mode:            "debug",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:          "foodgram.db",
			LogLevel:     "warn",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			MaxLifetime:  time.Hour,
		},
		Auth: AuthConfig{
			JWTSecret:       defaultJWTSecret,
			TokenTTL:        24 * time.Hour,
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Media: MediaConfig{
			Driver:  "local",
			Dir:     "./media",
			BaseURL: "/media",
		},
		PDF: PDFConfig{
			Title:    "Shopping list",
			FileName: "groceries.pdf",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}
}

// Load builds the config from defaults, an optional YAML file and the environment.
// Later sources win. An empty path falls back to CONFIG_PATH, then config.yaml.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	if path == "" {
		path = getEnv("CONFIG_PATH", defaultConfigPath)
	}

	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	// FOODGRAM_SERVER__PORT -> server.port
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyLegacyEnv(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyLegacyEnv keeps the plain variables used by deploy scripts working.
func applyLegacyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.AppEnv = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Server.Port)
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0")
	}
	if cfg.Auth.LoginRateLimit > 0 && cfg.Auth.LoginRateWindow <= 0 {
		return fmt.Errorf("auth.login_rate_window must be > 0 when rate limiting is enabled")
	}
	switch cfg.Media.Driver {
	case "local":
		if cfg.Media.Dir == "" {
			return fmt.Errorf("media.dir must not be empty for the local driver")
		}
	case "s3":
		if cfg.Media.S3.Bucket == "" || cfg.Media.S3.Region == "" {
			return fmt.Errorf("media.s3.bucket and media.s3.region are required for the s3 driver")
		}
	default:
		return fmt.Errorf("media.driver must be one of: local, s3")
	}
	if cfg.PDF.FileName == "" {
		return fmt.Errorf("pdf.file_name must not be empty")
	}
	if cfg.PDF.FontPath != "" {
		if _, err := os.Stat(cfg.PDF.FontPath); err != nil {
			return fmt.Errorf("pdf.font_path: %w", err)
		}
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release auth.jwt_secret must be set and not default")
		}
	}
	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
