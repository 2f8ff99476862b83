package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"orgaclients/pkg/logger"
	"orgaclients/pkg/storage"
)

type Config struct {
	Port     string   `mapstructure:"port"`
	AppEnv   string   `mapstructure:"app_env"`
	CORS     []string `mapstructure:"-"`
	Timezone string   `mapstructure:"report_timezone"`

	Database DatabaseConfig `mapstructure:",squash"`
	Auth     AuthConfig     `mapstructure:",squash"`
	Storage  StorageConfig  `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Log      LogConfig      `mapstructure:",squash"`
	Seed     SeedConfig     `mapstructure:",squash"`
}

type DatabaseConfig struct {
	Driver        string        `mapstructure:"db_driver"`
	URL           string        `mapstructure:"postgres_url"`
	SQLitePath    string        `mapstructure:"sqlite_path"`
	AutoMigrate   bool          `mapstructure:"auto_migrate"`
	SlowThreshold time.Duration `mapstructure:"db_slow_threshold"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
}

type StorageConfig struct {
	Disk          string `mapstructure:"storage_disk"`
	LocalRoot     string `mapstructure:"storage_local_root"`
	URL           string `mapstructure:"storage_url"`
	MaxProofBytes int64  `mapstructure:"max_proof_bytes"`

	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Region   string `mapstructure:"s3_region"`
	S3Key      string `mapstructure:"s3_key"`
	S3Secret   string `mapstructure:"s3_secret"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
	S3URL      string `mapstructure:"s3_url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type LogConfig struct {
	Level      string `mapstructure:"log_level"`
	JSON       bool   `mapstructure:"log_json"`
	File       string `mapstructure:"log_file"`
	MaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	MaxBackups int    `mapstructure:"log_max_backups"`
	MaxAgeDays int    `mapstructure:"log_max_age_days"`
}

type SeedConfig struct {
	AdminEmail    string `mapstructure:"seed_admin_email"`
	AdminPassword string `mapstructure:"seed_admin_password"`
}

var defaults = map[string]interface{}{
	"port":                "8080",
	"app_env":             "development",
	"cors_origins":        "",
	"report_timezone":     "Europe/Paris",
	"db_driver":           "postgres",
	"postgres_url":        "",
	"sqlite_path":         "orgaclients.db",
	"auto_migrate":        false,
	"db_slow_threshold":   "200ms",
	"jwt_secret":          "",
	"jwt_ttl":             "24h",
	"storage_disk":        "local",
	"storage_local_root":  "storage",
	"storage_url":         "/storage",
	"max_proof_bytes":     5 << 20,
	"s3_bucket":           "",
	"s3_region":           "us-east-1",
	"s3_key":              "",
	"s3_secret":           "",
	"s3_endpoint":         "",
	"s3_url":              "",
	"redis_addr":          "",
	"redis_password":      "",
	"redis_db":            0,
	"log_level":           "info",
	"log_json":            false,
	"log_file":            "./logs/app.log",
	"log_max_size_mb":     10,
	"log_max_backups":     7,
	"log_max_age_days":    7,
	"seed_admin_email":    "admin@orgaclients.com",
	"seed_admin_password": "",
}

// Load reads .env (if any), then an optional YAML file, then the process
// environment, which wins. path may be empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k := range defaults {
		// AutomaticEnv alone does not feed Unmarshal.
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.CORS = splitList(v.GetString("cors_origins"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("config: POSTGRES_URL is required for the postgres driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Storage.MaxProofBytes <= 0 {
		return errors.New("config: MAX_PROOF_BYTES must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c StorageConfig) DiskConfig() storage.Config {
	return storage.Config{
		Driver:    c.Disk,
		LocalRoot: c.LocalRoot,
		LocalURL:  c.URL,
		S3: storage.S3Config{
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Key:      c.S3Key,
			Secret:   c.S3Secret,
			Endpoint: c.S3Endpoint,
			URL:      c.S3URL,
		},
	}
}

func (c LogConfig) Options() logger.Options {
	return logger.Options{
		Level:      c.Level,
		JSON:       c.JSON,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
