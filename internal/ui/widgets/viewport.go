package widgets

import (
	"fyne.io/fyne/v2"
)

// Viewport maps between widget-local positions and canvas units. Canvas
// point (OriginX, OriginY) is drawn at the widget's top-left corner; Scale
// is device-independent pixels per canvas unit.
type Viewport struct {
	OriginX float64
	OriginY float64
	Scale   float64
}

// DefaultViewport shows canvas units one to one from (0, 0).
func DefaultViewport() Viewport {
	return Viewport{Scale: 1}
}

// ToCanvas converts a widget-local position to canvas units.
func (v Viewport) ToCanvas(pos fyne.Position) (float64, float64) {
	s := v.scale()
	return v.OriginX + float64(pos.X)/s, v.OriginY + float64(pos.Y)/s
}

// ToScreen converts canvas units to a widget-local position.
func (v Viewport) ToScreen(x, y float64) fyne.Position {
	s := v.scale()
	return fyne.NewPos(float32((x-v.OriginX)*s), float32((y-v.OriginY)*s))
}

// ScaleSize converts a canvas size to a widget size.
func (v Viewport) ScaleSize(w, h float64) fyne.Size {
	s := v.scale()
	return fyne.NewSize(float32(w*s), float32(h*s))
}

// Pan moves the view by a widget-local delta.
func (v Viewport) Pan(dx, dy float32) Viewport {
	s := v.scale()
	v.OriginX -= float64(dx) / s
	v.OriginY -= float64(dy) / s
	return v
}

// Zoom changes the scale keeping the canvas point under pos fixed. The
// scale is clamped to [0.25, 4].
func (v Viewport) Zoom(factor float64, pos fyne.Position) Viewport {
	cx, cy := v.ToCanvas(pos)
	s := v.scale() * factor
	if s < 0.25 {
		s = 0.25
	}
	if s > 4 {
		s = 4
	}
	v.Scale = s
	v.OriginX = cx - float64(pos.X)/s
	v.OriginY = cy - float64(pos.Y)/s
	return v
}

func (v Viewport) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}
