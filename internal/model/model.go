package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRotation is returned for rotations other than 0, 90, 180 and 270.
var ErrInvalidRotation = errors.New("rotation must be 0, 90, 180 or 270")

// Rotation is a clockwise quarter-turn angle in degrees.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// ParseRotation validates a degree value.
func ParseRotation(deg int) (Rotation, error) {
	switch r := Rotation(deg); r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return r, nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRotation, deg)
	}
}

// Next returns the rotation advanced by 90 degrees, wrapping 360 to 0.
func (r Rotation) Next() Rotation {
	return (r + 90) % 360
}

// Swaps reports whether width and height trade places at this rotation.
func (r Rotation) Swaps() bool {
	return r == Rotation90 || r == Rotation270
}

// PlacedObject is a block placed on the canvas. ID is assigned once at
// creation and is the only identity key; it is never derived from position.
type PlacedObject struct {
	ID       string     `json:"id"`
	Type     ObjectType `json:"type"`
	X        float64    `json:"x"` // Left edge in canvas units
	Y        float64    `json:"y"` // Top edge in canvas units
	Rotation Rotation   `json:"rotation"`
}

// NewObjectID returns a fresh unique object id.
func NewObjectID() string {
	return uuid.New().String()
}

// NewPlacedObject creates an unrotated object with a fresh id.
func NewPlacedObject(t ObjectType, x, y float64) PlacedObject {
	return PlacedObject{
		ID:   NewObjectID(),
		Type: t,
		X:    x,
		Y:    y,
	}
}

// Block is the persisted form of a placed object. Ids are not stored;
// they are reissued when a build is loaded.
type Block struct {
	Type     ObjectType `json:"type"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Rotation Rotation   `json:"rotation"`
}

// Build is a saved structure as kept by the build store.
type Build struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Blocks    []Block   `json:"blocks"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultBuildName is used for a fresh build session.
const DefaultBuildName = "My New Build"

// NewBuild returns the fresh-session seed: no id, no blocks.
func NewBuild() Build {
	return Build{
		Name:   DefaultBuildName,
		Blocks: []Block{},
	}
}

// MaterialCounts returns how many blocks of each type the build uses.
func (b Build) MaterialCounts() map[ObjectType]int {
	counts := make(map[ObjectType]int)
	for _, blk := range b.Blocks {
		counts[blk.Type]++
	}
	return counts
}

// BlocksFromObjects converts placed objects to their persisted form.
func BlocksFromObjects(objects []PlacedObject) []Block {
	blocks := make([]Block, len(objects))
	for i, o := range objects {
		blocks[i] = Block{Type: o.Type, X: o.X, Y: o.Y, Rotation: o.Rotation}
	}
	return blocks
}

// ObjectsFromBlocks issues fresh ids for persisted blocks.
func ObjectsFromBlocks(blocks []Block) []PlacedObject {
	objects := make([]PlacedObject, len(blocks))
	for i, b := range blocks {
		objects[i] = PlacedObject{
			ID:       NewObjectID(),
			Type:     b.Type,
			X:        b.X,
			Y:        b.Y,
			Rotation: b.Rotation,
		}
	}
	return objects
}

// CopyObjects returns a copy of an object slice.
func CopyObjects(objects []PlacedObject) []PlacedObject {
	if objects == nil {
		return nil
	}
	cp := make([]PlacedObject, len(objects))
	copy(cp, objects)
	return cp
}
