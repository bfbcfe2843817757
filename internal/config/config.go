// Package config reads process configuration from the environment and sets
// up logging.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables understood by Load.
const (
	EnvHome     = "BLOCKBUILDER_HOME"
	EnvLogLevel = "BLOCKBUILDER_LOG_LEVEL"
	EnvDev      = "BLOCKBUILDER_DEV"
	EnvCatalog  = "BLOCKBUILDER_CATALOG"
)

// Config is the process configuration.
type Config struct {
	Home        string       // Data directory: preferences, profile, builds, logs
	LogLevel    logrus.Level // Minimum level written to the log
	Dev         bool         // Development build: assertions panic
	CatalogPath string       // Optional catalog YAML replacing the built-in one
}

// Load reads the configuration. Values in a .env file in the working
// directory are applied first; variables already set in the environment
// win over the file.
func Load() Config {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Home:        getenv(EnvHome),
		LogLevel:    logrus.InfoLevel,
		CatalogPath: getenv(EnvCatalog),
	}
	if cfg.Home == "" {
		cfg.Home = defaultHome()
	}
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(getenv(EnvLogLevel))); err == nil {
		cfg.LogLevel = lvl
	}
	if dev, err := strconv.ParseBool(getenv(EnvDev)); err == nil {
		cfg.Dev = dev
	}
	return cfg
}

// LogPath returns the log file inside the data directory.
func (c Config) LogPath() string {
	return filepath.Join(c.Home, "logs", "blockbuilder.log")
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".blockbuilder")
}
