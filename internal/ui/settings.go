package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// showSettingsDialog displays the preferences editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	var tools []string
	for _, t := range a.ws.Catalog().Order() {
		tools = append(tools, string(t))
	}
	toolSelect := widget.NewSelect(tools, func(selected string) {
		cfg.DefaultTool = model.ObjectType(selected)
	})
	toolSelect.SetSelected(string(cfg.DefaultTool))

	gridCheck := widget.NewCheck("Show the snap grid", func(on bool) {
		cfg.ShowGrid = on
	})
	gridCheck.SetChecked(cfg.ShowGrid)

	exportEntry := widget.NewEntry()
	exportEntry.SetText(cfg.ExportDir)
	exportEntry.SetPlaceHolder("Folder the export dialogs open in")
	exportEntry.OnChanged = func(text string) { cfg.ExportDir = text }

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Starting Block", toolSelect),
		widget.NewFormItem("Grid", gridCheck),
		widget.NewFormItem("Export Folder", exportEntry),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.config = cfg
			a.applyTheme()
			if a.canvas != nil {
				a.canvas.ShowGrid = cfg.ShowGrid
				a.canvas.Refresh()
			}
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save preferences: %w", err), a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(450, 300))
	d.Show()
}
