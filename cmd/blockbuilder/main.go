// BlockBuilder: the building canvas of a block-building learning game.
//
// A cross-platform desktop application where players drag blocks earned
// in lessons onto a canvas, snap them together and save their builds.
//
// Build:
//   go build -o blockbuilder ./cmd/blockbuilder
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o blockbuilder.exe ./cmd/blockbuilder
//   GOOS=darwin  GOARCH=amd64 go build -o blockbuilder-darwin ./cmd/blockbuilder
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/config"
	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
	"github.com/piwi3910/blockbuilder/internal/project"
	"github.com/piwi3910/blockbuilder/internal/ui"
)

func main() {
	cfg := config.Load()
	logs := config.SetupLogging(cfg, true)
	defer logs.Close()
	engine.DevAssertions = cfg.Dev

	cat, err := loadCatalog(cfg)
	if err != nil {
		fmt.Printf("Error loading block catalog: %v\n", err)
		os.Exit(1)
	}

	ws, err := project.OpenWorkspace(cfg.Home, cat)
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", cfg.Home, err)
		os.Exit(1)
	}
	defer ws.Close()

	logrus.WithFields(logrus.Fields{"home": cfg.Home, "dev": cfg.Dev}).Info("starting BlockBuilder")

	application := app.NewWithID("com.piwi3910.blockbuilder")
	window := application.NewWindow("BlockBuilder")

	appUI := ui.NewApp(application, window, ws, ui.Options{ConfigDir: cfg.Home, Dev: cfg.Dev})
	appUI.SetupMenus()
	appUI.InterceptClose()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}

func loadCatalog(cfg config.Config) (*model.Catalog, error) {
	if cfg.CatalogPath == "" {
		return model.DefaultCatalog(), nil
	}
	return model.LoadCatalogFile(cfg.CatalogPath)
}
