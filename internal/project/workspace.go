package project

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/model"
)

// Workspace ties the player profile, the build store and canvas sessions
// together. It owns the single writable copy of the profile; sessions
// report inventory changes back to it through their callbacks.
type Workspace struct {
	cat         *model.Catalog
	store       *BuildStore
	profilePath string
	profile     model.Profile
}

// OpenWorkspace loads (or creates) the profile and build store under dir.
func OpenWorkspace(dir string, cat *model.Catalog) (*Workspace, error) {
	profile, err := LoadProfile(ProfilePath(dir), cat)
	if err != nil {
		return nil, err
	}
	store, err := NewBuildStore(BuildsDir(dir))
	if err != nil {
		return nil, err
	}
	return NewWorkspace(cat, store, ProfilePath(dir), profile), nil
}

// NewWorkspace assembles a workspace from already opened parts.
func NewWorkspace(cat *model.Catalog, store *BuildStore, profilePath string, profile model.Profile) *Workspace {
	return &Workspace{cat: cat, store: store, profilePath: profilePath, profile: profile}
}

// Close releases the build store.
func (w *Workspace) Close() { w.store.Close() }

// Catalog returns the object catalog.
func (w *Workspace) Catalog() *model.Catalog { return w.cat }

// Store returns the build store.
func (w *Workspace) Store() *BuildStore { return w.store }

// Profile returns the current profile.
func (w *Workspace) Profile() model.Profile { return w.profile }

// Builds lists saved builds, most recent first.
func (w *Workspace) Builds() ([]model.Build, error) { return w.store.List() }

// AwardRewards credits challenge rewards to the profile and persists it.
func (w *Workspace) AwardRewards(rewards map[model.ObjectType]int, monsterBattle bool) error {
	w.profile = w.profile.AwardRewards(rewards, monsterBattle)
	return w.saveProfile()
}

// NewBuild enters build mode on an empty build.
func (w *Workspace) NewBuild(cb engine.Callbacks, opts ...engine.Option) *engine.Session {
	return w.open(engine.SeedFromBuild(w.cat, model.NewBuild()), cb, opts...)
}

// EditBuild enters build mode on a saved build.
func (w *Workspace) EditBuild(id string, cb engine.Callbacks, opts ...engine.Option) (*engine.Session, error) {
	b, err := w.store.Get(id)
	if err != nil {
		return nil, err
	}
	return w.open(engine.SeedFromBuild(w.cat, b), cb, opts...), nil
}

// open starts a session over the profile inventory. The session's hooks
// are wrapped so inventory changes reach the profile file and saves reach
// the build store before the caller's own hooks run.
func (w *Workspace) open(seed engine.Seed, cb engine.Callbacks, opts ...engine.Option) *engine.Session {
	var s *engine.Session
	wrapped := engine.Callbacks{
		OnInventoryUpdate: func(inv model.Inventory) {
			w.profile.Inventory = inv
			if err := w.saveProfile(); err != nil {
				logrus.WithError(err).Error("failed to persist inventory")
			}
			if cb.OnInventoryUpdate != nil {
				cb.OnInventoryUpdate(inv)
			}
		},
		OnSave: func(name string, objects []model.PlacedObject) error {
			saved, err := w.store.Save(model.Build{
				ID:     s.BuildID(),
				Name:   name,
				Blocks: model.BlocksFromObjects(objects),
			})
			if err != nil {
				logrus.WithError(err).WithField("name", name).Error("failed to save build")
				return err
			}
			s.SetBuildID(saved.ID)
			if cb.OnSave != nil {
				return cb.OnSave(name, objects)
			}
			return nil
		},
		OnReject: cb.OnReject,
	}
	s = engine.NewSession(w.cat, seed, w.profile.Inventory, wrapped, opts...)
	return s
}

// SaveSession persists the session's build.
func (w *Workspace) SaveSession(s *engine.Session) error {
	if err := s.Save(); err != nil {
		return fmt.Errorf("failed to save build %q: %w", s.Name(), err)
	}
	return nil
}

// ExitSession leaves build mode without saving: the profile inventory goes
// back to what it was on entry (or at the last save).
func (w *Workspace) ExitSession(s *engine.Session) error {
	w.profile.Inventory = s.InventoryOnEnter()
	return w.saveProfile()
}

// DeleteBuilds removes builds and refunds their blocks to the profile.
func (w *Workspace) DeleteBuilds(ids ...string) error {
	inv, err := w.store.DeleteMany(ids, w.profile.Inventory)
	w.profile.Inventory = inv
	if saveErr := w.saveProfile(); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}

func (w *Workspace) saveProfile() error {
	if err := SaveProfile(w.profilePath, w.profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
