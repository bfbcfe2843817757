package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// DevAssertions turns a missing dimension-table entry into a panic instead
// of a logged error. The entry points enable it from BLOCKBUILDER_DEV.
var DevAssertions = false

// Box is an axis-aligned rectangle given by its top-left corner and size.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Contains reports whether the point lies inside the box. The left and top
// edges are inside, the right and bottom edges are not.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Overlaps reports whether two boxes share a region of positive area.
// Boxes that only touch along an edge or a corner do not overlap.
func Overlaps(a, b Box) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.X < b.Right() && b.X < a.Right() &&
		a.Y < b.Bottom() && b.Y < a.Bottom()
}

// EffectiveDimensions returns the rotation-aware size of a type. Width and
// height swap at 90 and 270 degrees. A type missing from the catalog
// yields the zero Size, which callers must treat as unplaceable.
func EffectiveDimensions(cat *model.Catalog, t model.ObjectType, rot model.Rotation) model.Size {
	size := cat.Size(t)
	if size.IsZero() {
		reportMissingDimensions(t)
		return model.Size{}
	}
	if rot.Swaps() {
		return model.Size{Width: size.Height, Height: size.Width}
	}
	return size
}

// BoxOf returns the effective bounding box of a placed object. ok is false
// when the object's type has no dimensions.
func BoxOf(cat *model.Catalog, o model.PlacedObject) (Box, bool) {
	size := EffectiveDimensions(cat, o.Type, o.Rotation)
	if size.IsZero() {
		return Box{}, false
	}
	return Box{X: o.X, Y: o.Y, Width: size.Width, Height: size.Height}, true
}

func reportMissingDimensions(t model.ObjectType) {
	logrus.WithField("type", t).Error("object type missing from dimension table")
	if DevAssertions {
		panic(fmt.Sprintf("engine: no dimensions for object type %q", t))
	}
}
