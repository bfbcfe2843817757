package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseRotationAcceptsQuarterTurns(t *testing.T) {
	for _, deg := range []int{0, 90, 180, 270} {
		r, err := ParseRotation(deg)
		if err != nil {
			t.Errorf("ParseRotation(%d) returned error: %v", deg, err)
		}
		if int(r) != deg {
			t.Errorf("ParseRotation(%d) = %d", deg, r)
		}
	}
}

func TestParseRotationRejectsOtherAngles(t *testing.T) {
	for _, deg := range []int{-90, 45, 360, 91} {
		_, err := ParseRotation(deg)
		if !errors.Is(err, ErrInvalidRotation) {
			t.Errorf("ParseRotation(%d): expected ErrInvalidRotation, got %v", deg, err)
		}
	}
}

func TestRotationNextWraps(t *testing.T) {
	cases := map[Rotation]Rotation{
		Rotation0:   Rotation90,
		Rotation90:  Rotation180,
		Rotation180: Rotation270,
		Rotation270: Rotation0,
	}
	for in, want := range cases {
		if got := in.Next(); got != want {
			t.Errorf("%d.Next() = %d, want %d", in, got, want)
		}
	}
}

func TestRotationSwaps(t *testing.T) {
	if Rotation0.Swaps() || Rotation180.Swaps() {
		t.Error("0 and 180 must not swap dimensions")
	}
	if !Rotation90.Swaps() || !Rotation270.Swaps() {
		t.Error("90 and 270 must swap dimensions")
	}
}

func TestNewPlacedObjectHasUniqueIDs(t *testing.T) {
	a := NewPlacedObject(Dirt, 0, 0)
	b := NewPlacedObject(Dirt, 0, 0)
	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty ids")
	}
	if a.ID == b.ID {
		t.Error("ids for identical placements must differ")
	}
	if a.Rotation != Rotation0 {
		t.Errorf("expected rotation 0, got %d", a.Rotation)
	}
}

func TestBlocksRoundTripThroughObjects(t *testing.T) {
	objects := []PlacedObject{
		{ID: "a", Type: Dirt, X: 0, Y: 0},
		{ID: "b", Type: Door, X: 40, Y: -20, Rotation: Rotation90},
	}
	back := ObjectsFromBlocks(BlocksFromObjects(objects))
	if len(back) != len(objects) {
		t.Fatalf("expected %d objects, got %d", len(objects), len(back))
	}
	for i := range objects {
		if back[i].Type != objects[i].Type || back[i].X != objects[i].X ||
			back[i].Y != objects[i].Y || back[i].Rotation != objects[i].Rotation {
			t.Errorf("object %d changed: %+v -> %+v", i, objects[i], back[i])
		}
		if back[i].ID == objects[i].ID {
			t.Errorf("object %d: expected a fresh id", i)
		}
	}
}

func TestBuildJSONShape(t *testing.T) {
	b := Build{
		ID:        "b1",
		Name:      "Hut",
		Blocks:    []Block{{Type: Stone, X: 20, Y: 40, Rotation: Rotation180}},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 3, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "name", "blocks", "createdAt", "updatedAt"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	blocks := raw["blocks"].([]interface{})
	blk := blocks[0].(map[string]interface{})
	if blk["type"] != "Stone" || blk["rotation"].(float64) != 180 {
		t.Errorf("unexpected block encoding: %v", blk)
	}
}

func TestMaterialCounts(t *testing.T) {
	b := Build{Blocks: []Block{{Type: Dirt}, {Type: Dirt}, {Type: Door}}}
	counts := b.MaterialCounts()
	if counts[Dirt] != 2 || counts[Door] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestNewBuildIsEmpty(t *testing.T) {
	b := NewBuild()
	if b.ID != "" || len(b.Blocks) != 0 {
		t.Errorf("fresh build should have no id and no blocks, got %+v", b)
	}
	if b.Name != DefaultBuildName {
		t.Errorf("expected default name, got %q", b.Name)
	}
}
