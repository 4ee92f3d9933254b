package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Logger  Logger  `yaml:"logger"`
	Storage Storage `yaml:"storage"`
	Cache   Cache   `yaml:"cache"`
	Auth    Auth    `yaml:"auth"`
	Listen  string  `yaml:"listen"`
	Admin   Admin   `yaml:"admin"`
	CORS    CORS    `yaml:"cors"`
	Contest Contest `yaml:"contest"`
}

type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Storage selects the gorm dialect. Database is a file path for sqlite and a DSN for postgres.
type Storage struct {
	Driver   string `yaml:"driver"`
	Database string `yaml:"database"`
}

type Cache struct {
	TTLSeconds int   `yaml:"ttl_seconds"`
	Redis      Redis `yaml:"redis"`
}

// Redis is optional; an empty address keeps the leaderboard cache in process.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Auth struct {
	JWT   JWT   `yaml:"jwt"`
	Local Local `yaml:"local"`
}

// Local defines configuration for username/password authentication.
type Local struct {
	Enabled bool `yaml:"enabled"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type Admin struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type Contest struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads the YAML file at path, then applies .env and environment overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	// A missing .env file is fine, the process environment still applies.
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyEnv() {
	overrideString(&cfg.Listen, "ARENA_LISTEN")
	overrideString(&cfg.Admin.Listen, "ARENA_ADMIN_LISTEN")
	overrideString(&cfg.Storage.Driver, "ARENA_DB_DRIVER")
	overrideString(&cfg.Storage.Database, "ARENA_DB_DSN")
	overrideString(&cfg.Auth.JWT.Secret, "ARENA_JWT_SECRET")
	overrideString(&cfg.Cache.Redis.Addr, "ARENA_REDIS_ADDR")
	overrideString(&cfg.Cache.Redis.Password, "ARENA_REDIS_PASSWORD")
	overrideString(&cfg.Logger.Level, "ARENA_LOG_LEVEL")
	if v, ok := os.LookupEnv("ARENA_REDIS_DB"); ok {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Redis.DB = db
		}
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Admin.Listen == "" {
		cfg.Admin.Listen = "127.0.0.1:8081"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Storage.Database == "" && cfg.Storage.Driver == DriverSQLite {
		cfg.Storage.Database = "data/arena.db"
	}
	if cfg.Auth.JWT.ExpireHours <= 0 {
		cfg.Auth.JWT.ExpireHours = 72
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 15
	}
	if cfg.Contest.DefaultPageSize <= 0 {
		cfg.Contest.DefaultPageSize = 20
	}
	if cfg.Contest.MaxPageSize <= 0 {
		cfg.Contest.MaxPageSize = 100
	}
	if cfg.Contest.DefaultPageSize > cfg.Contest.MaxPageSize {
		cfg.Contest.DefaultPageSize = cfg.Contest.MaxPageSize
	}
}

func (cfg *Config) Validate() error {
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret is required")
	}
	switch cfg.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return errors.New("storage.driver must be sqlite or postgres")
	}
	if cfg.Storage.Database == "" {
		return errors.New("storage.database is required")
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
