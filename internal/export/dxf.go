package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// ExportDXF writes each block as a closed rectangle of four LINEs on a
// layer named after its type. DXF Y grows upwards, so canvas Y is negated.
// importer.ImportDXF reads the result back.
func ExportDXF(path string, cat *model.Catalog, b model.Build) error {
	blocks, _, err := layout(cat, b)
	if err != nil {
		return err
	}

	d := dxf.NewDrawing()
	layers := make(map[model.ObjectType]bool)
	for _, blk := range blocks {
		if !layers[blk.Type] {
			if _, err := d.AddLayer(string(blk.Type), dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
				return fmt.Errorf("failed to add layer %s: %w", blk.Type, err)
			}
			layers[blk.Type] = true
		} else if err := d.ChangeLayer(string(blk.Type)); err != nil {
			return fmt.Errorf("failed to select layer %s: %w", blk.Type, err)
		}

		x0, x1 := blk.Box.X, blk.Box.Right()
		y0, y1 := -blk.Box.Y, -blk.Box.Bottom()
		d.Line(x0, y0, 0, x1, y0, 0)
		d.Line(x1, y0, 0, x1, y1, 0)
		d.Line(x1, y1, 0, x0, y1, 0)
		d.Line(x0, y1, 0, x0, y0, 0)
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF file: %w", err)
	}
	return nil
}
