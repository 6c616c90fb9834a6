package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type AdminConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
	Password  string `yaml:"password"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	// URL is optional; when empty the in-memory stores are used.
	URL string `yaml:"url"`
}

type RedisConfig struct {
	// URL is optional; when empty the process-local locker is used.
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

type ReservationConfig struct {
	// MaxActivePerUser caps simultaneous active reservations per requester.
	MaxActivePerUser int `yaml:"max_active_per_user"`
}

type Config struct {
	Runtime      RuntimeConfig     `yaml:"-"`
	Server       ServerConfig      `yaml:"server"`
	Admin        AdminConfig       `yaml:"admin"`
	Log          LogConfig         `yaml:"log"`
	Database     DatabaseConfig    `yaml:"database"`
	Redis        RedisConfig       `yaml:"redis"`
	Reservations ReservationConfig `yaml:"reservations"`
}

const defaultMaxActivePerUser = 3

func LoadConfig(path string, dev bool) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Admin.Port == 0 {
		c.Admin.Port = 9090
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Reservations.MaxActivePerUser <= 0 {
		c.Reservations.MaxActivePerUser = defaultMaxActivePerUser
	}
	if c.Redis.LockTTL <= 0 {
		c.Redis.LockTTL = 5 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Server.Port == c.Admin.Port {
		return errors.New("server.port and admin.port must differ")
	}
	if !c.Runtime.Dev && c.Admin.JWTSecret == "" {
		return errors.New("admin.jwt_secret is required outside dev mode")
	}
	return nil
}
