package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	DB         `yaml:"db"`
	HTTPServer `yaml:"http_server"`
	Auth       `yaml:"auth"`
}

type DB struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"mongo"`
	URL    string `yaml:"url" env:"DB_URL" env-default:"mongodb://localhost:27017"`
	Name   string `yaml:"name" env:"DB_NAME" env-default:"mestodb"`
}

type HTTPServer struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"3000"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type Auth struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"168h"`
}

// Address is the listen address for net/http.
func (s HTTPServer) Address() string {
	return ":" + s.Port
}

// MustLoad loads .env (if any), then the YAML file at configPath (if
// given) and the environment. Any failure, a missing secret included, is
// fatal.
func MustLoad(configPath string) *Config {
	if err := loadDotEnv(".env"); err != nil {
		panic(fmt.Sprintf("failed to load .env: %v", err))
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			panic("config file not found")
		}
	}

	config, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	return config
}

func Load(configPath string) (*Config, error) {
	var config Config

	var err error
	if configPath != "" {
		err = cleanenv.ReadConfig(configPath, &config)
	} else {
		err = cleanenv.ReadEnv(&config)
	}
	if err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverMongo, DriverPostgres:
		if c.DB.URL == "" {
			return errors.New("db url is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}

	if c.Auth.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.Auth.TokenTTL)
	}

	return nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
