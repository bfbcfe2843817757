package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Profile   model.Profile   `json:"profile"`
	Builds    []model.Build   `json:"builds"`
}

// ExportAllData writes preferences, profile and every build to a single
// JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, profile model.Profile, builds []model.Build) error {
	if builds == nil {
		builds = []model.Build{}
	}
	backup := BackupData{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Profile:   profile,
		Builds:    builds,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Config.RecentBuilds == nil {
		backup.Config.RecentBuilds = []string{}
	}
	return backup, nil
}

// RestoreBuilds writes every build of a backup into the store, keeping
// their ids. It returns the number restored.
func RestoreBuilds(store *BuildStore, backup BackupData) (int, error) {
	for i, b := range backup.Builds {
		if _, err := store.Save(b); err != nil {
			return i, err
		}
	}
	return len(backup.Builds), nil
}

// Restore applies a backup to the workspace: the profile is replaced and
// every build is written back. It returns the number of builds restored.
func (w *Workspace) Restore(backup BackupData) (int, error) {
	profile := backup.Profile
	if profile.GradeID == 0 {
		profile.GradeID = model.DefaultGradeID
	}
	w.profile = profile
	if err := w.saveProfile(); err != nil {
		return 0, err
	}
	return RestoreBuilds(w.store, backup)
}
