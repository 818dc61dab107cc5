// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the small YAML configuration mctl and any future
// master-backed service need: where the ZooKeeper ensemble lives, the root
// path a Client is scoped to, and the session timeout/log level to run
// with.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	// Master configures the master coordination client.
	Master MasterConfig `yaml:"master"`
	// LogLevel is one of zap's level names: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// MasterConfig configures the ZooKeeper-backed master.Client.
type MasterConfig struct {
	// Hosts is the list of ZooKeeper ensemble members, "host:port" each.
	Hosts []string `yaml:"hosts"`
	// RootPath is the path tree root the Client is scoped to.
	RootPath string `yaml:"root_path"`
	// SessionTimeout is the ZooKeeper session timeout.
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

// DefaultConfig returns the configuration used when no file is given, and
// the base that LoadConfig overlays a file onto.
func DefaultConfig() *Config {
	return &Config{
		Master: MasterConfig{
			Hosts:          []string{"127.0.0.1:2181"},
			RootPath:       "/prpc",
			SessionTimeout: 10 * time.Second,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads and parses a YAML configuration file at path, starting
// from DefaultConfig and overlaying whatever the file sets.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
