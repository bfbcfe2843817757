// blockbuilder-tui runs the building canvas in a terminal. It shares the
// data directory with the desktop application.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/config"
	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
	"github.com/piwi3910/blockbuilder/internal/project"
	"github.com/piwi3910/blockbuilder/internal/tui"
)

func main() {
	cfg := config.Load()
	// The terminal belongs to the UI, so logs only go to the file.
	logs := config.SetupLogging(cfg, false)
	defer logs.Close()
	engine.DevAssertions = cfg.Dev

	cat := model.DefaultCatalog()
	if cfg.CatalogPath != "" {
		var err error
		if cat, err = model.LoadCatalogFile(cfg.CatalogPath); err != nil {
			fmt.Printf("Error loading block catalog: %v\n", err)
			os.Exit(1)
		}
	}

	ws, err := project.OpenWorkspace(cfg.Home, cat)
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", cfg.Home, err)
		os.Exit(1)
	}
	defer ws.Close()

	logrus.WithField("home", cfg.Home).Info("starting terminal canvas")
	if err := tui.Run(ws); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
