package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/blockbuilder/internal/model"
)

func obj(id string, t model.ObjectType, x, y float64) model.PlacedObject {
	return model.PlacedObject{ID: id, Type: t, X: x, Y: y}
}

func TestIsValid_AdjacentDirtAndOverlappingThird(t *testing.T) {
	cat := model.DefaultCatalog()
	a := obj("a", model.Dirt, 0, 0)
	b := obj("b", model.Dirt, 40, 0)
	all := []model.PlacedObject{a, b}

	assert.True(t, IsValid(cat, a, all))
	assert.True(t, IsValid(cat, b, all))

	third := obj("c", model.Dirt, 20, 0)
	assert.False(t, IsValid(cat, third, all))
	assert.ElementsMatch(t, []string{"a", "b"}, Collisions(cat, third, all))
}

func TestIsValid_ExemptTypesNeverInterfere(t *testing.T) {
	cat := model.DefaultCatalog()
	dirt := obj("dirt", model.Dirt, 0, 0)
	all := []model.PlacedObject{dirt}
	for i, ty := range []model.ObjectType{model.Apple, model.Bird, model.Fish, model.Insect, model.Apple} {
		all = append(all, obj(string(rune('p'+i)), ty, 0, 0))
	}

	for _, o := range all {
		assert.True(t, IsValid(cat, o, all), "%s should stay valid", o.ID)
	}
	assert.Empty(t, Collisions(cat, dirt, all))
}

func TestIsValid_SkipsOwnPreviousPosition(t *testing.T) {
	cat := model.DefaultCatalog()
	a := obj("a", model.Dirt, 0, 0)
	moved := obj("a", model.Dirt, 20, 0)
	assert.True(t, IsValid(cat, moved, []model.PlacedObject{a}))
}

func TestIsValid_UnknownTypeIsNeverValid(t *testing.T) {
	cat := model.DefaultCatalog()
	assert.False(t, IsValid(cat, obj("x", "Unobtainium", 500, 500), nil))
}

func TestIsValid_RotationAwareFootprint(t *testing.T) {
	cat := model.DefaultCatalog()
	stone := obj("s", model.Stone, 40, 0)
	door := obj("d", model.Door, 0, 0)
	all := []model.PlacedObject{stone, door}

	assert.True(t, IsValid(cat, door, all))
	door.Rotation = model.Rotation90
	assert.False(t, IsValid(cat, door, all))
}

func TestIsValid_OrderIndependent(t *testing.T) {
	cat := model.DefaultCatalog()
	all := []model.PlacedObject{
		obj("a", model.Dirt, 0, 0),
		obj("b", model.Stone, 40, 0),
		obj("c", model.Door, 80, 0),
	}
	candidate := obj("n", model.WoodPlank, 20, 30)
	want := IsValid(cat, candidate, all)

	reversed := []model.PlacedObject{all[2], all[1], all[0]}
	assert.Equal(t, want, IsValid(cat, candidate, reversed))
	assert.False(t, want)
}
