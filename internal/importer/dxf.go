package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// sizeTolerance is how far an outline may be off a catalog size and still match.
const sizeTolerance = 0.01

type point struct{ X, Y float64 }

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportDXF reads a drawing such as the one export.ExportDXF writes. Each
// closed rectangle (an LWPOLYLINE or a chain of LINEs) on a layer named
// after a catalog type becomes one block of that type. The outline size
// must match the type's size, either as is or swapped (rotation 90). DXF
// Y grows upwards, so the top-left corner is (minX, -maxY).
//
// A rectangle carries no orientation, so only rotations 0 and 90 come
// back: blocks exported at 180 or 270 return as 0 or 90 with the same
// footprint.
func ImportDXF(path string, cat *model.Catalog) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var layers []string
	seen := make(map[string]bool)
	segments := make(map[string][]segment)
	outlines := make(map[string][][]point)
	for _, ent := range entities {
		layer := ""
		if l := ent.Layer(); l != nil {
			layer = l.Name()
		}
		if !seen[layer] {
			seen[layer] = true
			layers = append(layers, layer)
		}
		switch e := ent.(type) {
		case *entity.Line:
			segments[layer] = append(segments[layer], segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})
		case *entity.LwPolyline:
			var pts []point
			for _, v := range e.Vertices {
				pts = append(pts, point{X: v[0], Y: v[1]})
			}
			outlines[layer] = append(outlines[layer], pts)
		default:
			// Unsupported entity types are silently skipped
		}
	}

	for _, layer := range layers {
		shapes := append(outlines[layer], chainSegments(segments[layer], sizeTolerance)...)
		if len(shapes) == 0 {
			continue
		}
		t := model.ObjectType(layer)
		if !cat.Has(t) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Layer '%s': not a block type, %d shape(s) skipped", layer, len(shapes)))
			continue
		}
		for _, pts := range shapes {
			o, errMsg := outlineToObject(cat, t, pts)
			if errMsg != "" {
				result.Errors = append(result.Errors, fmt.Sprintf("Layer '%s': %s", layer, errMsg))
				continue
			}
			result.Objects = append(result.Objects, o)
		}
	}

	if len(result.Objects) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
	}
	sort.SliceStable(result.Objects, func(i, j int) bool {
		a, b := result.Objects[i], result.Objects[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return result
}

// outlineToObject turns a rectangle outline into a block of type t.
func outlineToObject(cat *model.Catalog, t model.ObjectType, pts []point) (model.PlacedObject, string) {
	if len(pts) < 3 {
		return model.PlacedObject{}, "outline with fewer than 3 vertices"
	}
	minP, maxP := boundingBox(pts)
	w, h := maxP.X-minP.X, maxP.Y-minP.Y
	size := cat.Size(t)

	var rot model.Rotation
	switch {
	case near(w, size.Width) && near(h, size.Height):
		rot = model.Rotation0
	case near(w, size.Height) && near(h, size.Width):
		rot = model.Rotation90
	default:
		return model.PlacedObject{}, fmt.Sprintf("%.2f x %.2f outline does not match %s (%.0f x %.0f)",
			w, h, t, size.Width, size.Height)
	}
	o := model.NewPlacedObject(t, minP.X, -maxP.Y)
	o.Rotation = rot
	return o, ""
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= sizeTolerance
}

func boundingBox(pts []point) (point, point) {
	minP := point{X: math.Inf(1), Y: math.Inf(1)}
	maxP := point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range pts {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	return minP, maxP
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			if len(chain) >= 3 && pointsClose(tail, chain[0], tolerance) {
				break
			}

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Only closed chains are shapes.
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}
