package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// SaveProfile writes the player profile to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveProfile(path string, p model.Profile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return writeFileAtomic(path, data)
}

// LoadProfile reads the player profile from the specified JSON file.
// If the file does not exist, a new profile is created, saved and returned.
// Catalog types missing from a stored inventory are added at zero so the
// palette always lists every type.
func LoadProfile(path string, cat *model.Catalog) (model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			p := model.NewProfile(cat)
			if saveErr := SaveProfile(path, p); saveErr != nil {
				return p, saveErr
			}
			return p, nil
		}
		return model.Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if p.GradeID == 0 {
		p.GradeID = model.DefaultGradeID
	}
	inv := p.Inventory
	for _, t := range cat.Order() {
		if !inv.Has(t) {
			inv = inv.Add(t, 0)
		}
	}
	p.Inventory = inv
	return p, nil
}

// writeFileAtomic replaces path with data via a temporary file in the same
// directory, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
