package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration, loaded from a YAML file.
type Config struct {
	Addr          string `yaml:"addr"`
	Database      string `yaml:"database"`
	SessionSecret string `yaml:"session_secret"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	LogLevel      string `yaml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Addr:          ":5000",
		Database:      "twitter_clone.db",
		SessionSecret: "development-secret",
		LogLevel:      "info",
	}
}

// loadConfig reads the config file at path. A missing file yields the
// defaults so the server can start with no setup.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}
