package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the geomagd server configuration, loaded from YAML with flag
// overrides applied afterwards.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	ModelPath  string `yaml:"model_path"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// defaultConfig returns the values used when no config file is given.
func defaultConfig() Config {
	var cfg Config
	cfg.ListenAddr = ":8080"
	cfg.ModelPath = "WMM.COF"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// loadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.ModelPath == "" {
		return cfg, fmt.Errorf("config %q: model_path is required", path)
	}
	return cfg, nil
}
