package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/blockbuilder/internal/model"
)

func TestOverlaps_Symmetric(t *testing.T) {
	boxes := []Box{
		{X: 0, Y: 0, Width: 40, Height: 40},
		{X: 40, Y: 0, Width: 40, Height: 40},
		{X: 20, Y: 0, Width: 40, Height: 40},
		{X: 10, Y: 10, Width: 5, Height: 5},
		{X: -30, Y: 39, Width: 80, Height: 20},
		{X: 0, Y: 40, Width: 40, Height: 80},
		{X: 15, Y: 15, Width: 0, Height: 10},
	}
	for i, a := range boxes {
		for j, b := range boxes {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "boxes %d and %d", i, j)
		}
	}
}

func TestOverlaps_TouchingEdgesDoNotOverlap(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 40, Height: 40}

	assert.False(t, Overlaps(a, Box{X: 40, Y: 0, Width: 40, Height: 40}), "shared vertical edge")
	assert.False(t, Overlaps(a, Box{X: 0, Y: 40, Width: 40, Height: 40}), "shared horizontal edge")
	assert.False(t, Overlaps(a, Box{X: 40, Y: 40, Width: 40, Height: 40}), "shared corner")
	assert.True(t, Overlaps(a, Box{X: 39, Y: 39, Width: 40, Height: 40}))
	assert.True(t, Overlaps(a, Box{X: 10, Y: 10, Width: 5, Height: 5}), "containment")
}

func TestOverlaps_EmptyBoxNeverOverlaps(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 40, Height: 40}
	assert.False(t, Overlaps(a, Box{X: 10, Y: 10}))
}

func TestBox_Contains(t *testing.T) {
	b := Box{X: 10, Y: 20, Width: 40, Height: 20}
	assert.True(t, b.Contains(10, 20))
	assert.True(t, b.Contains(49.5, 39.5))
	assert.False(t, b.Contains(50, 30))
	assert.False(t, b.Contains(30, 40))
}

func TestEffectiveDimensions_RotationSwap(t *testing.T) {
	cat := model.DefaultCatalog()

	assert.Equal(t, model.Size{Width: 40, Height: 80}, EffectiveDimensions(cat, model.Door, model.Rotation0))
	assert.Equal(t, model.Size{Width: 80, Height: 40}, EffectiveDimensions(cat, model.Door, model.Rotation90))
	assert.Equal(t, model.Size{Width: 40, Height: 80}, EffectiveDimensions(cat, model.Door, model.Rotation180))
	assert.Equal(t, model.Size{Width: 80, Height: 40}, EffectiveDimensions(cat, model.Door, model.Rotation270))
}

func TestEffectiveDimensions_MissingTypeIsZero(t *testing.T) {
	cat := model.DefaultCatalog()
	size := EffectiveDimensions(cat, "Unobtainium", model.Rotation90)
	assert.True(t, size.IsZero())

	_, ok := BoxOf(cat, model.PlacedObject{Type: "Unobtainium"})
	assert.False(t, ok)
}

func TestEffectiveDimensions_MissingTypePanicsWithDevAssertions(t *testing.T) {
	DevAssertions = true
	defer func() { DevAssertions = false }()

	assert.Panics(t, func() {
		EffectiveDimensions(model.DefaultCatalog(), "Unobtainium", model.Rotation0)
	})
}
