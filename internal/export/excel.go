package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
)

// Sheet names of a spreadsheet export.
const (
	BlocksSheet    = "Blocks"
	MaterialsSheet = "Materials"
)

// ExportExcel writes a build as a workbook with a "Blocks" sheet (one row
// per block with its effective size) and a "Materials" sheet of counts.
// The Blocks sheet can be read back with importer.ImportExcel.
func ExportExcel(path string, cat *model.Catalog, b model.Build) error {
	if len(b.Blocks) == 0 {
		return fmt.Errorf("build %q has no blocks to export", b.Name)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), BlocksSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header := []interface{}{"Type", "X", "Y", "Rotation", "Width", "Height"}
	if err := f.SetSheetRow(BlocksSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, blk := range b.Blocks {
		var size model.Size
		if cat.Has(blk.Type) {
			size = engine.EffectiveDimensions(cat, blk.Type, blk.Rotation)
		}
		row := []interface{}{string(blk.Type), blk.X, blk.Y, int(blk.Rotation), size.Width, size.Height}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(BlocksSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write block %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(MaterialsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	header = []interface{}{"Type", "Count"}
	if err := f.SetSheetRow(MaterialsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, m := range materials(cat, b) {
		row := []interface{}{string(m.Type), m.Count}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(MaterialsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write materials: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
