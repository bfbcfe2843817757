package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/piwi3910/blockbuilder/internal/model"
)

func newTestStore(t *testing.T) *BuildStore {
	t.Helper()
	store, err := NewBuildStore(filepath.Join(t.TempDir(), "builds"))
	if err != nil {
		t.Fatalf("NewBuildStore failed: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Minute)
		return at
	}
}

func TestBuildStoreSaveAssignsIDAndTimestamps(t *testing.T) {
	store := newTestStore(t)
	store.now = stepClock()

	saved, err := store.Save(model.Build{Name: "Hut", Blocks: []model.Block{{Type: model.Dirt}}})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if saved.CreatedAt.IsZero() || !saved.CreatedAt.Equal(saved.UpdatedAt) {
		t.Errorf("expected createdAt == updatedAt on first save, got %v / %v", saved.CreatedAt, saved.UpdatedAt)
	}

	saved.Name = "Bigger Hut"
	again, err := store.Save(saved)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if again.ID != saved.ID {
		t.Errorf("id changed on resave: %s -> %s", saved.ID, again.ID)
	}
	if !again.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("createdAt changed on resave")
	}
	if !again.UpdatedAt.After(saved.UpdatedAt) {
		t.Errorf("updatedAt did not advance")
	}

	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Bigger Hut" {
		t.Errorf("expected cached record to be refreshed, got %q", got.Name)
	}
}

func TestBuildStoreRecordShape(t *testing.T) {
	store := newTestStore(t)
	saved, err := store.Save(model.Build{ID: "shape", Name: "S", Blocks: []model.Block{{Type: model.Door, X: 40, Y: 80, Rotation: model.Rotation90}}})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(store.Dir(), saved.ID+".json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"id": "shape"`, `"blocks"`, `"type": "Door"`, `"rotation": 90`, `"updatedAt"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("record missing %s:\n%s", want, data)
		}
	}
}

func TestBuildStoreListMostRecentFirst(t *testing.T) {
	store := newTestStore(t)
	store.now = stepClock()

	for _, name := range []string{"first", "second", "third"} {
		if _, err := store.Save(model.Build{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	builds, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(builds) != 3 {
		t.Fatalf("expected 3 builds, got %d", len(builds))
	}
	if builds[0].Name != "third" || builds[2].Name != "first" {
		t.Errorf("unexpected order: %s, %s, %s", builds[0].Name, builds[1].Name, builds[2].Name)
	}
}

func TestBuildStoreGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get("nope"); !errors.Is(err, ErrBuildNotFound) {
		t.Errorf("expected ErrBuildNotFound, got %v", err)
	}
	if err := store.Delete("nope"); !errors.Is(err, ErrBuildNotFound) {
		t.Errorf("expected ErrBuildNotFound on delete, got %v", err)
	}
}

func TestBuildStoreRejectsPathIDs(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"../escape", "a/b", ".hidden"} {
		if _, err := store.Save(model.Build{ID: id}); !errors.Is(err, ErrInvalidBuildID) {
			t.Errorf("id %q: expected ErrInvalidBuildID, got %v", id, err)
		}
	}
}

func TestBuildStoreGetReturnsCopies(t *testing.T) {
	store := newTestStore(t)
	saved, err := store.Save(model.Build{Name: "x", Blocks: []model.Block{{Type: model.Dirt}}})
	if err != nil {
		t.Fatal(err)
	}
	first, _ := store.Get(saved.ID)
	first.Blocks[0].Type = model.Stone
	second, _ := store.Get(saved.ID)
	if second.Blocks[0].Type != model.Dirt {
		t.Error("mutating a returned build changed the cached record")
	}
}

func TestBuildStoreDeleteManyRefunds(t *testing.T) {
	store := newTestStore(t)
	a, _ := store.Save(model.Build{Name: "a", Blocks: []model.Block{{Type: model.Dirt}, {Type: model.Dirt}}})
	b, _ := store.Save(model.Build{Name: "b", Blocks: []model.Block{{Type: model.Door}}})
	keep, _ := store.Save(model.Build{Name: "keep", Blocks: []model.Block{{Type: model.Stone}}})

	inv, err := store.DeleteMany([]string{a.ID, b.ID}, model.NewInventory(map[model.ObjectType]int{model.Dirt: 1}))
	if err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}
	if inv.Count(model.Dirt) != 3 || inv.Count(model.Door) != 1 || inv.Count(model.Stone) != 0 {
		t.Errorf("unexpected inventory: %v", inv.Counts())
	}
	builds, _ := store.List()
	if len(builds) != 1 || builds[0].ID != keep.ID {
		t.Errorf("expected only %s to remain, got %+v", keep.ID, builds)
	}
}

func TestBuildStoreDeleteManyStopsAtMissing(t *testing.T) {
	store := newTestStore(t)
	a, _ := store.Save(model.Build{Name: "a", Blocks: []model.Block{{Type: model.Dirt}}})

	inv, err := store.DeleteMany([]string{a.ID, "ghost"}, model.NewInventory(nil))
	if !errors.Is(err, ErrBuildNotFound) {
		t.Fatalf("expected ErrBuildNotFound, got %v", err)
	}
	if inv.Count(model.Dirt) != 1 {
		t.Errorf("refund for the deleted build was lost: %v", inv.Counts())
	}
}
