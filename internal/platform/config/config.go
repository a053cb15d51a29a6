package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort    string `yaml:"api_port" env:"API_PORT"`
	AppVersion string `yaml:"app_version" env:"APP_VERSION"`

	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTTTL    time.Duration `yaml:"jwt_ttl" env:"JWT_TTL"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"JWT_ISSUER"`

	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`

	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	DBHost         string `yaml:"db_host" env:"DB_HOST"`
	DBPort         string `yaml:"db_port" env:"DB_PORT"`
	DBUser         string `yaml:"db_user" env:"DB_USER"`
	DBPassword     string `yaml:"db_password" env:"DB_PASSWORD"`
	DBName         string `yaml:"db_name" env:"DB_NAME"`
	DBSslMode      string `yaml:"db_sslmode" env:"DB_SSLMODE"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	DBAutoMigrate  bool   `yaml:"db_auto_migrate" env:"DB_AUTO_MIGRATE"`

	RequestTimeout       time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	SlowRequestThreshold time.Duration `yaml:"slow_request_threshold" env:"SLOW_REQUEST_THRESHOLD"`
}

func Default() Config {
	return Config{
		APIPort:              "8080",
		AppVersion:           "1.0.0",
		JWTTTL:               30 * time.Minute,
		JWTIssuer:            "taskify",
		BcryptCost:           10,
		DBHost:               "localhost",
		DBPort:               "5432",
		DBUser:               "taskify",
		DBName:               "taskify_db",
		DBSslMode:            "disable",
		DBMaxOpenConns:       25,
		DBAutoMigrate:        true,
		RequestTimeout:       60 * time.Second,
		SlowRequestThreshold: time.Second,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (a .env file is honoured), in that
// order of precedence.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for tools that only talk to the database; the JWT
// settings are not required.
func LoadDatabase() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.DSN() == "" {
		return nil, errors.New("DATABASE_URL or DB_* settings are required")
	}
	return cfg, nil
}

func load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.APIPort == "" {
		errs = append(errs, errors.New("API_PORT is required"))
	}
	if c.DBMaxOpenConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns DATABASE_URL, or a PostgreSQL key/value DSN assembled from the
// DB_* settings when it is unset.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSslMode
}
