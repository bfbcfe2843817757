package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/export"
	"github.com/piwi3910/blockbuilder/internal/importer"
	"github.com/piwi3910/blockbuilder/internal/model"
	"github.com/piwi3910/blockbuilder/internal/project"
)

type importKind int

const (
	importCSV importKind = iota
	importExcel
	importDXF
)

type exportKind int

const (
	exportPDF exportKind = iota
	exportCard
	exportExcel
	exportDXF
)

// extension returns the default file extension for an export.
func (k exportKind) extension() string {
	switch k {
	case exportCard:
		return "-card.pdf"
	case exportExcel:
		return ".xlsx"
	case exportDXF:
		return ".dxf"
	default:
		return ".pdf"
	}
}

// ─── Export Functions ──────────────────────────────────────

// currentBuild snapshots the open session as a build.
func (a *App) currentBuild() (model.Build, bool) {
	if a.session == nil {
		return model.Build{}, false
	}
	return model.Build{
		ID:     a.session.BuildID(),
		Name:   a.session.Name(),
		Blocks: model.BlocksFromObjects(a.session.Objects()),
	}, true
}

func (a *App) exportCurrent(kind exportKind) {
	b, ok := a.currentBuild()
	if !ok {
		dialog.ShowInformation("No build open", "Open or start a build before exporting it.", a.window)
		return
	}
	a.exportBuild(b, kind)
}

func (a *App) exportSaved(id string, kind exportKind) {
	b, err := a.ws.Store().Get(id)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.exportBuild(b, kind)
}

func (a *App) exportBuild(b model.Build, kind exportKind) {
	if len(b.Blocks) == 0 {
		dialog.ShowInformation("Empty build", "Place some blocks before exporting.", a.window)
		return
	}
	cat := a.ws.Catalog()
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		switch kind {
		case exportCard:
			err = export.ExportBuildCard(path, cat, b)
		case exportExcel:
			err = export.ExportExcel(path, cat, b)
		case exportDXF:
			err = export.ExportDXF(path, cat, b)
		default:
			err = export.ExportBlueprintPDF(path, cat, b)
		}
		if err != nil {
			logrus.WithError(err).WithField("path", path).Error("export failed")
			dialog.ShowError(err, a.window)
			return
		}
		logrus.WithField("path", path).Info("build exported")
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(safeFileName(b.Name) + kind.extension())
	a.setExportLocation(d)
	d.Show()
}

// setExportLocation opens the file dialog in the preferred export folder.
func (a *App) setExportLocation(d *dialog.FileDialog) {
	if a.config.ExportDir == "" {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(a.config.ExportDir))
	if err != nil {
		return
	}
	d.SetLocation(lister)
}

// safeFileName turns a build name into something usable as a file name.
func safeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "build"
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
}

// ─── Import Functions ──────────────────────────────────────

func (a *App) importBlocks(kind importKind) {
	if a.session == nil {
		dialog.ShowInformation("No build open", "Open or start a build to import blocks into.", a.window)
		return
	}
	cat := a.ws.Catalog()
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		var result importer.ImportResult
		switch kind {
		case importExcel:
			result = importer.ImportExcel(path, cat)
		case importDXF:
			result = importer.ImportDXF(path, cat)
		default:
			result = importer.ImportCSV(path, cat)
		}
		a.handleImportResult(filepath.Base(path), result)
	}, a.window)
}

func (a *App) handleImportResult(source string, result importer.ImportResult) {
	if len(result.Warnings) > 0 {
		logrus.WithField("source", source).Debugf("import warnings: %v", result.Warnings)
	}
	if len(result.Objects) == 0 {
		msg := "Nothing to import."
		if len(result.Errors) > 0 {
			msg = "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		}
		dialog.ShowError(fmt.Errorf("%s", msg), a.window)
		return
	}
	a.stamp(result.Objects, result.Errors)
}

// stamp places objects into the open session and reports what was skipped.
func (a *App) stamp(objects []model.PlacedObject, problems []string) {
	res := a.session.Stamp(objects)
	a.refreshBuildScreen()

	msg := fmt.Sprintf("Placed %d block(s).", len(res.Placed))
	skipped := append(append([]string{}, problems...), res.Skipped...)
	if len(skipped) > 0 {
		msg += fmt.Sprintf("\n\n%d skipped:\n%s", len(skipped), strings.Join(limitLines(skipped, 12), "\n"))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func limitLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	out := append([]string{}, lines[:n]...)
	return append(out, fmt.Sprintf("...and %d more", len(lines)-n))
}

// ─── Share Codes ───────────────────────────────────────────

func (a *App) copyShareCode() {
	b, ok := a.currentBuild()
	if !ok {
		dialog.ShowInformation("No build open", "Open a build to share it.", a.window)
		return
	}
	code, err := export.EncodeShareCode(b)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.app.Clipboard().SetContent(code)
	dialog.ShowInformation("Share Code Copied", "The share code is on your clipboard.", a.window)
}

// showShareCodeDialog loads a build from a share code into the open build,
// or into a new one.
func (a *App) showShareCodeDialog() {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("Paste a share code (BB1:...)")
	entry.Wrapping = fyne.TextWrapBreak

	d := dialog.NewForm("Load Share Code", "Load", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Code", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			b, err := export.DecodeShareCode(entry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if a.session == nil {
				a.enterSession(a.ws.NewBuild(a.callbacks(), engine.WithTool(a.config.DefaultTool)))
				a.session.SetName(b.Name)
				a.nameEntry.SetText(b.Name)
			}
			a.stamp(model.ObjectsFromBlocks(b.Blocks), nil)
		}, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// ─── Backup / Restore ──────────────────────────────────────

func (a *App) showBackupDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			builds, err := a.ws.Builds()
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if err := project.ExportAllData(path, a.config, a.ws.Profile(), builds); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All builds and your inventory were saved to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("blockbuilder-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Restore From Backup...", func() {
		if a.session != nil {
			dialog.ShowInformation("Build open", "Exit the build before restoring a backup.", a.window)
			return
		}
		dialog.ShowConfirm("Restore Backup",
			"Restoring replaces your inventory and preferences, and brings back every build in the backup.\n\nContinue?",
			func(ok bool) {
				if !ok {
					return
				}
				dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					a.restoreBackup(path)
				}, a.window)
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Save every build, your inventory and preferences to one file,\nor restore them from a previously saved backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Backup / Restore", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

func (a *App) restoreBackup(path string) {
	backup, err := project.ImportAllData(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	n, err := a.ws.Restore(backup)
	if err != nil {
		dialog.ShowError(fmt.Errorf("restored %d build(s) before failing: %w", n, err), a.window)
		return
	}
	a.config = backup.Config
	if err := a.saveConfig(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save restored preferences: %w", err), a.window)
	}
	a.applyTheme()
	if a.buildList != nil {
		a.refreshBuildList()
	}
	dialog.ShowInformation("Restore Complete",
		fmt.Sprintf("Restored %d build(s) from a backup made at %s.", n, backup.CreatedAt), a.window)
}
