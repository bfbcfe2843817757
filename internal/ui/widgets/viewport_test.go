package widgets

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
)

func TestViewport_DefaultIsIdentity(t *testing.T) {
	v := DefaultViewport()
	x, y := v.ToCanvas(fyne.NewPos(120, 45))
	assert.Equal(t, 120.0, x)
	assert.Equal(t, 45.0, y)
	assert.Equal(t, fyne.NewPos(120, 45), v.ToScreen(120, 45))
}

func TestViewport_RoundTripWithOriginAndScale(t *testing.T) {
	v := Viewport{OriginX: -100, OriginY: 40, Scale: 2}

	pos := v.ToScreen(0, 60)
	assert.Equal(t, fyne.NewPos(200, 40), pos)

	x, y := v.ToCanvas(pos)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 60.0, y)
	assert.Equal(t, fyne.NewSize(80, 40), v.ScaleSize(40, 20))
}

func TestViewport_Pan(t *testing.T) {
	v := Viewport{Scale: 2}.Pan(20, -10)
	assert.Equal(t, -10.0, v.OriginX)
	assert.Equal(t, 5.0, v.OriginY)
}

func TestViewport_ZoomKeepsPointFixed(t *testing.T) {
	v := DefaultViewport()
	pos := fyne.NewPos(100, 50)
	before, _ := v.ToCanvas(pos)

	z := v.Zoom(2, pos)
	after, _ := z.ToCanvas(pos)

	assert.Equal(t, 2.0, z.Scale)
	assert.InDelta(t, before, after, 1e-9)
}

func TestViewport_ZoomClamped(t *testing.T) {
	v := DefaultViewport().Zoom(100, fyne.NewPos(0, 0))
	assert.Equal(t, 4.0, v.Scale)
	v = v.Zoom(0.001, fyne.NewPos(0, 0))
	assert.Equal(t, 0.25, v.Scale)
}

func TestViewport_ZeroScaleTreatedAsOne(t *testing.T) {
	v := Viewport{}
	x, _ := v.ToCanvas(fyne.NewPos(10, 0))
	assert.Equal(t, 10.0, x)
}
