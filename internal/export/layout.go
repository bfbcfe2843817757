// Package export writes saved builds to PDF blueprints, printable share
// cards, spreadsheets and DXF outlines.
package export

import (
	"fmt"
	"math"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
)

// placedBlock is a block with its resolved footprint.
type placedBlock struct {
	model.Block
	Box  engine.Box
	Spec model.ObjectSpec
}

// layout resolves every block of a build against the catalog. Blocks whose
// type has no dimensions are left out. bounds is the union of all boxes.
func layout(cat *model.Catalog, b model.Build) ([]placedBlock, engine.Box, error) {
	var blocks []placedBlock
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, blk := range b.Blocks {
		spec, ok := cat.Lookup(blk.Type)
		if !ok {
			continue
		}
		box, ok := engine.BoxOf(cat, model.PlacedObject{Type: blk.Type, X: blk.X, Y: blk.Y, Rotation: blk.Rotation})
		if !ok {
			continue
		}
		blocks = append(blocks, placedBlock{Block: blk, Box: box, Spec: spec})
		minX = math.Min(minX, box.X)
		minY = math.Min(minY, box.Y)
		maxX = math.Max(maxX, box.Right())
		maxY = math.Max(maxY, box.Bottom())
	}
	if len(blocks) == 0 {
		return nil, engine.Box{}, fmt.Errorf("build %q has no blocks to export", b.Name)
	}
	return blocks, engine.Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, nil
}

// materialRow is one line of a materials list.
type materialRow struct {
	Type  model.ObjectType
	Count int
}

// materials returns block counts in catalog order, unknown types last.
func materials(cat *model.Catalog, b model.Build) []materialRow {
	counts := b.MaterialCounts()
	var rows []materialRow
	for _, t := range cat.Order() {
		if n := counts[t]; n > 0 {
			rows = append(rows, materialRow{Type: t, Count: n})
			delete(counts, t)
		}
	}
	for t, n := range counts {
		rows = append(rows, materialRow{Type: t, Count: n})
	}
	return rows
}
