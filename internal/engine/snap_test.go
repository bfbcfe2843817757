package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/blockbuilder/internal/model"
)

var dirtSize = model.Size{Width: 40, Height: 40}

func TestSnap_ToleranceBoundary(t *testing.T) {
	// Neighbour right edge at x=100.
	others := []Box{{X: 60, Y: 0, Width: 40, Height: 40}}

	r := Snap(118, 300, dirtSize, others)
	assert.Equal(t, 100.0, r.X)
	assert.True(t, r.AlignedX)

	r = Snap(120, 300, dirtSize, others)
	assert.Equal(t, 100.0, r.X, "exactly at tolerance still snaps")
	assert.True(t, r.AlignedX)

	r = Snap(121, 300, dirtSize, others)
	assert.Equal(t, 120.0, r.X, "beyond tolerance falls back to the grid")
	assert.False(t, r.AlignedX)
}

func TestSnap_AxesResolveIndependently(t *testing.T) {
	others := []Box{{X: 0, Y: 0, Width: 40, Height: 40}}

	r := Snap(45, 203, dirtSize, others)
	assert.Equal(t, 40.0, r.X)
	assert.True(t, r.AlignedX)
	assert.Equal(t, 200.0, r.Y)
	assert.False(t, r.AlignedY)
}

func TestSnap_DifferentNeighboursPerAxis(t *testing.T) {
	others := []Box{
		{X: 0, Y: 500, Width: 40, Height: 40},
		{X: 500, Y: 0, Width: 40, Height: 40},
	}
	r := Snap(43, 37, dirtSize, others)
	assert.Equal(t, 40.0, r.X)
	assert.Equal(t, 40.0, r.Y)
}

func TestSnap_RightEdgeTouchesNeighbourLeft(t *testing.T) {
	others := []Box{{X: 200, Y: 0, Width: 40, Height: 40}}
	r := Snap(155, 0, model.Size{Width: 40, Height: 40}, others)
	assert.Equal(t, 160.0, r.X)
}

func TestSnap_ClosestCandidateWins(t *testing.T) {
	others := []Box{
		{X: 0, Y: 0, Width: 40, Height: 40},
		{X: 50, Y: 0, Width: 40, Height: 40},
	}
	r := Snap(47, 300, dirtSize, others)
	assert.Equal(t, 50.0, r.X)
}

func TestSnap_TieGoesToFirstNeighbour(t *testing.T) {
	others := []Box{
		{X: 0, Y: 0, Width: 40, Height: 40},
		{X: 48, Y: 0, Width: 40, Height: 40},
	}
	r := Snap(44, 300, dirtSize, others)
	assert.Equal(t, 40.0, r.X)

	others[0], others[1] = others[1], others[0]
	r = Snap(44, 300, dirtSize, others)
	assert.Equal(t, 48.0, r.X)
}

func TestSnap_NoNeighboursUsesGrid(t *testing.T) {
	r := Snap(29, 31, dirtSize, nil)
	assert.Equal(t, 20.0, r.X)
	assert.Equal(t, 40.0, r.Y)
}

func TestQuantizeToGrid(t *testing.T) {
	cases := map[float64]float64{
		0:     0,
		9.9:   0,
		10:    20,
		29.99: 20,
		30:    40,
		-10:   0,
		-11:   -20,
		118:   120,
	}
	for in, want := range cases {
		assert.Equal(t, want, QuantizeToGrid(in), "QuantizeToGrid(%v)", in)
	}
}
