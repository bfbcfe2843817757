package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.blockbuilder/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".blockbuilder")
}

// ConfigPath returns the preferences file inside a data directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "config.json")
}

// ProfilePath returns the player profile file inside a data directory.
func ProfilePath(dir string) string {
	return filepath.Join(dir, "profile.json")
}

// BuildsDir returns the build store directory inside a data directory.
func BuildsDir(dir string) string {
	return filepath.Join(dir, "builds")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	if config.RecentBuilds == nil {
		config.RecentBuilds = []string{}
	}
	return config, nil
}
