package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	StorageType string `validate:"oneof=memory postgres"`
	HTTP        HTTPConfig
	Postgres    PostgresConfig `validate:"-"`
	Session     SessionConfig
	Password    PasswordConfig
	Log         LogConfig
}

type PostgresConfig struct {
	User        string `validate:"required"`
	Password    string
	DB          string `validate:"required"`
	Host        string `validate:"required"`
	Port        int    `validate:"gt=0,lte=65535"`
	SSLMode     string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
	AutoMigrate bool
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type HTTPConfig struct {
	Port string `validate:"required,numeric"`
}

type SessionConfig struct {
	Secret       string        `validate:"min=32"`
	TTL          time.Duration `validate:"gt=0"`
	SecureCookie bool
}

type PasswordConfig struct {
	Iterations int `validate:"gte=1000"`
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
	File   string
}

// LoadDotEnv copies variables from the given files (default ".env") into
// the environment without overriding what is already set. Missing files
// are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadConfig reads the configuration from the environment. It panics when
// a required variable is absent and returns an error when a value is out of
// range.
func LoadConfig() (Config, error) {
	storageType := getEnv("STORAGE_TYPE", StorageMemory)

	cfg := Config{
		StorageType: storageType,
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Session: SessionConfig{
			Secret:       mustGetEnv("SESSION_SECRET"),
			TTL:          time.Duration(getInt("SESSION_TTL_HOURS", 24*30)) * time.Hour,
			SecureCookie: getBool("SESSION_SECURE_COOKIE", false),
		},
		Password: PasswordConfig{
			Iterations: getInt("PASSWORD_ITERATIONS", 600000),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	if storageType == StoragePostgres {
		cfg.Postgres = PostgresConfig{
			User:        mustGetEnv("POSTGRES_USER"),
			Password:    os.Getenv("POSTGRES_PASSWORD"),
			DB:          mustGetEnv("POSTGRES_DB"),
			Host:        mustGetEnv("POSTGRES_HOST"),
			Port:        getInt("POSTGRES_PORT", 5432),
			SSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
			AutoMigrate: getBool("POSTGRES_AUTO_MIGRATE", false),
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.StorageType == StoragePostgres {
		if err := v.Struct(c.Postgres); err != nil {
			return fmt.Errorf("invalid postgres config: %w", err)
		}
	}
	return nil
}

// LoadPostgresConfig reads only the database settings, for commands that
// never serve HTTP.
func LoadPostgresConfig() (PostgresConfig, error) {
	pc := PostgresConfig{
		User:     mustGetEnv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DB:       mustGetEnv("POSTGRES_DB"),
		Host:     mustGetEnv("POSTGRES_HOST"),
		Port:     getInt("POSTGRES_PORT", 5432),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
	if err := validator.New().Struct(pc); err != nil {
		return PostgresConfig{}, fmt.Errorf("invalid postgres config: %w", err)
	}
	return pc, nil
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func getBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		panic("invalid bool for env var " + key + ": " + val)
	}
	return b
}
