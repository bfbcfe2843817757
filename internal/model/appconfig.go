package model

// maxRecentBuilds bounds AppConfig.RecentBuilds.
const maxRecentBuilds = 10

// AppConfig holds application-wide preferences.
type AppConfig struct {
	// Canvas defaults
	DefaultTool ObjectType `json:"default_tool"` // Palette tool selected when a build opens
	ShowGrid    bool       `json:"show_grid"`    // Draw the snap grid under the canvas

	// Application preferences
	ExportDir    string   `json:"export_dir"` // Last directory used for exports
	RecentBuilds []string `json:"recent_builds"`
	Theme        string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultTool:  WoodPlank,
		ShowGrid:     true,
		RecentBuilds: []string{},
		Theme:        "system",
	}
}

// TouchRecent moves a build id to the front of the recent list.
func (c AppConfig) TouchRecent(id string) AppConfig {
	recent := []string{id}
	for _, r := range c.RecentBuilds {
		if r != id && len(recent) < maxRecentBuilds {
			recent = append(recent, r)
		}
	}
	c.RecentBuilds = recent
	return c
}

// ForgetRecent removes build ids from the recent list.
func (c AppConfig) ForgetRecent(ids ...string) AppConfig {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	recent := make([]string, 0, len(c.RecentBuilds))
	for _, r := range c.RecentBuilds {
		if !drop[r] {
			recent = append(recent, r)
		}
	}
	c.RecentBuilds = recent
	return c
}
