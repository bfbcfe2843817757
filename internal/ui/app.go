package ui

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
	"github.com/piwi3910/blockbuilder/internal/project"
	"github.com/piwi3910/blockbuilder/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app       fyne.App
	window    fyne.Window
	ws        *project.Workspace
	configDir string
	config    model.AppConfig
	dev       bool

	// Builds screen
	buildList *fyne.Container
	checked   map[string]bool

	// Build screen
	session   *engine.Session
	canvas    *widgets.BuildCanvas
	palette   *widgets.Palette
	nameEntry *widget.Entry
	status    *widget.Label

	// What was last saved (or loaded), to detect unsaved changes
	savedName   string
	savedBlocks []model.Block
}

// Options configures the desktop application.
type Options struct {
	ConfigDir string
	Dev       bool
}

// NewApp creates the desktop UI over an open workspace.
func NewApp(application fyne.App, window fyne.Window, ws *project.Workspace, opts Options) *App {
	cfg, err := project.LoadAppConfig(project.ConfigPath(opts.ConfigDir))
	if err != nil {
		logrus.WithError(err).Warn("failed to load preferences, using defaults")
		cfg = model.DefaultAppConfig()
	}
	a := &App{
		app:       application,
		window:    window,
		ws:        ws,
		configDir: opts.ConfigDir,
		config:    cfg,
		dev:       opts.Dev,
		checked:   make(map[string]bool),
	}
	a.applyTheme()
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Build", func() {
			a.guardUnsaved(a.newBuild)
		}),
		fyne.NewMenuItem("My Builds", func() {
			a.guardUnsaved(a.showBuilds)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Blocks from CSV...", func() { a.importBlocks(importCSV) }),
		fyne.NewMenuItem("Import Blocks from Excel...", func() { a.importBlocks(importExcel) }),
		fyne.NewMenuItem("Import Blocks from DXF...", func() { a.importBlocks(importDXF) }),
		fyne.NewMenuItem("Load Share Code...", func() { a.showShareCodeDialog() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Blueprint (PDF)...", func() { a.exportCurrent(exportPDF) }),
		fyne.NewMenuItem("Export Build Card (PDF)...", func() { a.exportCurrent(exportCard) }),
		fyne.NewMenuItem("Export Spreadsheet (Excel)...", func() { a.exportCurrent(exportExcel) }),
		fyne.NewMenuItem("Export Drawing (DXF)...", func() { a.exportCurrent(exportDXF) }),
		fyne.NewMenuItem("Copy Share Code", func() { a.copyShareCode() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup / Restore...", func() { a.showBackupDialog() }),
		fyne.NewMenuItem("Preferences...", func() { a.showSettingsDialog() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() {
			if a.canvas != nil {
				a.canvas.ZoomIn()
			}
		}),
		fyne.NewMenuItem("Zoom Out", func() {
			if a.canvas != nil {
				a.canvas.ZoomOut()
			}
		}),
		fyne.NewMenuItem("Reset View", func() {
			if a.canvas != nil {
				a.canvas.SetViewport(widgets.DefaultViewport())
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Inventory", func() { a.showInventoryDialog() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("How to Build", func() { a.showHelpDialog() }),
		fyne.NewMenuItem("About", func() { a.showAboutDialog() }),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About Block Builder",
		"Block Builder\n\n"+
			"Earn blocks by solving problems, then build with them.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

func (a *App) showHelpDialog() {
	dialog.ShowInformation("How to Build",
		"Drag a block from the palette onto the canvas to place it.\n"+
			"Drag a placed block to move it; it snaps to nearby blocks.\n"+
			"Right click (or long press) a block to rotate or delete it.\n"+
			"Pick Remove and click a block to put it back in your inventory.\n"+
			"Red means the block overlaps another one and cannot go there.",
		a.window)
}

// Build constructs the initial UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	return a.withToolTips(a.buildBuildsScreen())
}

// InterceptClose makes closing the window leave build mode the way the Exit
// button does, so blocks used in an unsaved build go back to the inventory.
func (a *App) InterceptClose() {
	a.window.SetCloseIntercept(func() {
		a.guardUnsaved(func() {
			a.closeSession()
			a.window.Close()
		})
	})
}

// ─── Builds Screen ─────────────────────────────────────────

func (a *App) showBuilds() {
	a.closeSession()
	a.setContent(a.buildBuildsScreen())
}

func (a *App) buildBuildsScreen() fyne.CanvasObject {
	a.buildList = container.NewVBox()
	a.refreshBuildList()

	newBtn := widget.NewButtonWithIcon("New Build", theme.ContentAddIcon(), a.newBuild)
	deleteBtn := widget.NewButtonWithIcon("Delete Selected", theme.DeleteIcon(), a.confirmDeleteSelected)
	inventoryBtn := widget.NewButtonWithIcon("Inventory", theme.ListIcon(), a.showInventoryDialog)

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("My Builds", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			inventoryBtn,
			deleteBtn,
			newBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.buildList),
	)
}

func (a *App) refreshBuildList() {
	a.buildList.RemoveAll()

	builds, err := a.ws.Builds()
	if err != nil {
		a.buildList.Add(widget.NewLabel(fmt.Sprintf("Could not read builds: %v", err)))
		return
	}
	if len(builds) == 0 {
		a.buildList.Add(widget.NewLabel("No builds yet. Click 'New Build' to start building."))
		return
	}

	header := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Blocks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Last Saved", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.buildList.Add(header)
	a.buildList.Add(widget.NewSeparator())

	for _, b := range builds {
		id := b.ID
		check := widget.NewCheck("", func(on bool) { a.checked[id] = on })
		check.SetChecked(a.checked[id])
		row := container.NewGridWithColumns(5,
			check,
			widget.NewLabel(b.Name),
			widget.NewLabel(fmt.Sprintf("%d", len(b.Blocks))),
			widget.NewLabel(b.UpdatedAt.Local().Format("2006-01-02 15:04")),
			container.NewHBox(
				newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit this build", func() { a.editBuild(id) }),
				newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export a blueprint", func() { a.exportSaved(id, exportPDF) }),
			),
		)
		a.buildList.Add(row)
	}
}

// confirmDeleteSelected asks before deleting the checked builds and shows
// how many blocks go back into the inventory.
func (a *App) confirmDeleteSelected() {
	var ids []string
	refund := make(map[model.ObjectType]int)
	for id, on := range a.checked {
		if !on {
			continue
		}
		b, err := a.ws.Store().Get(id)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		for t, n := range b.MaterialCounts() {
			refund[t] += n
		}
	}
	if len(ids) == 0 {
		dialog.ShowInformation("Nothing selected", "Tick the builds you want to delete first.", a.window)
		return
	}
	sort.Strings(ids)

	msg := fmt.Sprintf("Delete %d build(s)? Their blocks go back to your inventory:\n\n%s",
		len(ids), formatCounts(a.ws.Catalog(), refund))
	dialog.ShowConfirm("Delete Builds", msg, func(ok bool) {
		if !ok {
			return
		}
		if err := a.ws.DeleteBuilds(ids...); err != nil {
			dialog.ShowError(err, a.window)
		}
		for _, id := range ids {
			delete(a.checked, id)
		}
		a.config = a.config.ForgetRecent(ids...)
		a.saveConfigQuietly()
		a.refreshBuildList()
	}, a.window)
}

// ─── Build Screen ──────────────────────────────────────────

func (a *App) newBuild() {
	a.closeSession()
	a.enterSession(a.ws.NewBuild(a.callbacks(), engine.WithTool(a.config.DefaultTool)))
}

func (a *App) editBuild(id string) {
	a.closeSession()
	s, err := a.ws.EditBuild(id, a.callbacks(), engine.WithTool(a.config.DefaultTool))
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.config = a.config.TouchRecent(id)
	a.saveConfigQuietly()
	a.enterSession(s)
}

func (a *App) callbacks() engine.Callbacks {
	return engine.Callbacks{
		OnReject: func(r engine.Rejection) {
			dialog.ShowInformation("Can't rotate", r.Message, a.window)
		},
	}
}

func (a *App) enterSession(s *engine.Session) {
	a.session = s
	a.markSaved()
	a.setContent(a.buildBuildScreen())
}

func (a *App) buildBuildScreen() fyne.CanvasObject {
	s := a.session
	a.canvas = widgets.NewBuildCanvas(s)
	a.canvas.ShowGrid = a.config.ShowGrid
	a.palette = widgets.NewPalette(a.ws.Catalog(), a.canvas)
	a.canvas.OnChanged = a.onCanvasChanged

	a.nameEntry = widget.NewEntry()
	a.nameEntry.SetText(s.Name())
	a.nameEntry.OnChanged = func(name string) {
		s.SetName(name)
		a.updateStatus()
	}

	a.status = widget.NewLabel("")
	a.updateStatus()

	toolbar := container.NewBorder(nil, nil,
		widget.NewLabel("Name:"),
		container.NewHBox(
			newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Rotate the selected block", a.rotateSelected),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Delete the selected block", a.deleteSelected),
			newIconButtonWithTooltip(theme.ZoomInIcon(), "Zoom in", a.canvas.ZoomIn),
			newIconButtonWithTooltip(theme.ZoomOutIcon(), "Zoom out", a.canvas.ZoomOut),
			widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), a.saveBuild),
			widget.NewButtonWithIcon("Exit", theme.LogoutIcon(), a.confirmExit),
		),
		a.nameEntry,
	)

	paletteCard := container.NewBorder(
		widget.NewLabelWithStyle("Blocks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		a.palette.Object(),
	)

	split := container.NewHSplit(paletteCard, a.canvas)
	split.Offset = 0.22
	return container.NewBorder(toolbar, a.status, nil, nil, split)
}

func (a *App) onCanvasChanged() {
	a.palette.Update(a.session.Inventory(), a.session.Tool())
	a.updateStatus()
}

func (a *App) updateStatus() {
	s := a.session
	text := fmt.Sprintf("%d blocks placed | Tool: %s", len(s.Objects()), toolName(s.Tool()))
	if id, ok := s.Selected(); ok {
		if o, found := s.Object(id); found {
			text += fmt.Sprintf(" | Selected: %s at (%.0f, %.0f)", o.Type, o.X, o.Y)
		}
	}
	if a.isDirty() {
		text += " | Unsaved changes"
	}
	a.status.SetText(text)
}

func (a *App) rotateSelected() {
	if id, ok := a.session.Selected(); ok {
		_ = a.session.Rotate(id)
		a.refreshBuildScreen()
	}
}

func (a *App) deleteSelected() {
	if id, ok := a.session.Selected(); ok {
		_ = a.session.Delete(id)
		a.refreshBuildScreen()
	}
}

func (a *App) refreshBuildScreen() {
	a.canvas.Refresh()
	a.onCanvasChanged()
}

func (a *App) saveBuild() {
	if err := a.ws.SaveSession(a.session); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.markSaved()
	a.config = a.config.TouchRecent(a.session.BuildID())
	a.saveConfigQuietly()
	a.updateStatus()
}

// confirmExit leaves build mode, asking first when there are unsaved changes.
func (a *App) confirmExit() {
	a.guardUnsaved(a.showBuilds)
}

// guardUnsaved runs next, first asking whether to drop unsaved changes.
func (a *App) guardUnsaved(next func()) {
	if !a.isDirty() {
		next()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"Leave without saving? Blocks you used go back to your inventory.",
		func(ok bool) {
			if ok {
				next()
			}
		}, a.window)
}

// closeSession exits build mode without saving and restores the inventory
// snapshot taken on entry or at the last save.
func (a *App) closeSession() {
	if a.session == nil {
		return
	}
	a.canvas.CancelGesture()
	if err := a.ws.ExitSession(a.session); err != nil {
		dialog.ShowError(err, a.window)
	}
	a.session = nil
	a.canvas = nil
	a.palette = nil
}

func (a *App) markSaved() {
	a.savedName = a.session.Name()
	a.savedBlocks = model.BlocksFromObjects(a.session.Objects())
}

// isDirty reports whether the session differs from what was last saved.
func (a *App) isDirty() bool {
	if a.session == nil {
		return false
	}
	if a.session.Name() != a.savedName {
		return true
	}
	blocks := model.BlocksFromObjects(a.session.Objects())
	if len(blocks) != len(a.savedBlocks) {
		return true
	}
	for i := range blocks {
		if blocks[i] != a.savedBlocks[i] {
			return true
		}
	}
	return false
}

// ─── Helpers ───────────────────────────────────────────────

func toolName(t model.ObjectType) string {
	switch t {
	case "":
		return "none"
	case model.Air:
		return "Remove"
	default:
		return string(t)
	}
}

// formatCounts lists non-zero counts in catalog order, one per line.
func formatCounts(cat *model.Catalog, counts map[model.ObjectType]int) string {
	var lines []string
	for _, t := range cat.Order() {
		if n := counts[t]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", t, n))
		}
	}
	if len(lines) == 0 {
		return "(none)"
	}
	return strings.Join(lines, "\n")
}

func (a *App) saveConfigQuietly() {
	if err := a.saveConfig(); err != nil {
		logrus.WithError(err).Warn("failed to save preferences")
	}
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.ConfigPath(a.configDir), a.config)
}
