// Package ui provides the Block Builder desktop application.
//
// This file defines a roomy, high-contrast theme sized for young players.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// BuilderTheme wraps the default Fyne theme with larger text and touch
// targets and a fixed light/dark variant when one is chosen.
type BuilderTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool
}

// NewBuilderTheme creates a theme for a preference value: "light", "dark"
// or anything else for the system variant.
func NewBuilderTheme(pref string) *BuilderTheme {
	t := &BuilderTheme{base: theme.DefaultTheme()}
	switch pref {
	case "light":
		t.variant, t.fixed = theme.VariantLight, true
	case "dark":
		t.variant, t.fixed = theme.VariantDark, true
	}
	return t
}

// Color delegates to the base theme, forcing the chosen variant.
func (t *BuilderTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *BuilderTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *BuilderTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns larger sizing for small hands and touch screens.
func (t *BuilderTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 15
	case theme.SizeNameHeadingText:
		return 26
	case theme.SizeNameSubHeadingText:
		return 19
	case theme.SizeNamePadding:
		return 5
	case theme.SizeNameInnerPadding:
		return 10
	case theme.SizeNameInlineIcon:
		return 24
	default:
		return t.base.Size(name)
	}
}

// applyTheme installs the theme matching the preferences.
func (a *App) applyTheme() {
	if a.app == nil {
		return
	}
	a.app.Settings().SetTheme(NewBuilderTheme(a.config.Theme))
}
