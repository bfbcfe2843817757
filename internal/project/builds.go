package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/blockbuilder/internal/model"
)

var (
	// ErrBuildNotFound is returned when no record exists for an id.
	ErrBuildNotFound = errors.New("build not found")
	// ErrInvalidBuildID is returned for ids that can not name a record file.
	ErrInvalidBuildID = errors.New("invalid build id")
)

const buildExt = ".json"

// BuildStore keeps one JSON record per build in a directory. Decoded
// records are cached; the cache entry is dropped on every save or delete.
type BuildStore struct {
	dir   string
	cache *ristretto.Cache[string, model.Build]

	now   func() time.Time
	newID func() string
}

// NewBuildStore opens (and creates) a build directory.
func NewBuildStore(dir string) (*BuildStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create builds directory: %w", err)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, model.Build]{
		NumCounters: 10000,
		MaxCost:     1 << 20, // counted in blocks
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create build cache: %w", err)
	}
	return &BuildStore{
		dir:   dir,
		cache: cache,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}, nil
}

// Close releases the cache.
func (s *BuildStore) Close() {
	s.cache.Close()
}

// Dir returns the directory the store writes to.
func (s *BuildStore) Dir() string { return s.dir }

func (s *BuildStore) path(id string) (string, error) {
	if id == "" || strings.HasPrefix(id, ".") || filepath.Base(id) != id || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBuildID, id)
	}
	return filepath.Join(s.dir, id+buildExt), nil
}

// Save writes a build. A build without an id receives one. CreatedAt is
// stamped on the first save and kept afterwards; UpdatedAt is stamped on
// every save. The stored record is returned.
func (s *BuildStore) Save(b model.Build) (model.Build, error) {
	if b.ID == "" {
		b.ID = s.newID()
	}
	path, err := s.path(b.ID)
	if err != nil {
		return model.Build{}, err
	}
	now := s.now().UTC()
	if existing, err := s.Get(b.ID); err == nil && !existing.CreatedAt.IsZero() {
		b.CreatedAt = existing.CreatedAt
	} else if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	if b.Blocks == nil {
		b.Blocks = []model.Block{}
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return model.Build{}, fmt.Errorf("failed to marshal build: %w", err)
	}
	s.cache.Del(b.ID)
	if err := writeFileAtomic(path, data); err != nil {
		return model.Build{}, fmt.Errorf("failed to save build %s: %w", b.ID, err)
	}
	logrus.WithFields(logrus.Fields{"build": b.ID, "name": b.Name, "blocks": len(b.Blocks)}).Info("build saved")
	return copyBuild(b), nil
}

// Get returns a stored build.
func (s *BuildStore) Get(id string) (model.Build, error) {
	path, err := s.path(id)
	if err != nil {
		return model.Build{}, err
	}
	if b, ok := s.cache.Get(id); ok {
		return copyBuild(b), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Build{}, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
		}
		return model.Build{}, fmt.Errorf("failed to read build %s: %w", id, err)
	}
	var b model.Build
	if err := json.Unmarshal(data, &b); err != nil {
		return model.Build{}, fmt.Errorf("failed to parse build %s: %w", id, err)
	}
	if b.ID == "" {
		b.ID = id
	}
	s.cache.Set(id, b, int64(len(b.Blocks)+1))
	s.cache.Wait()
	return copyBuild(b), nil
}

// List returns every stored build, most recently updated first. Records
// that fail to parse are skipped and logged.
func (s *BuildStore) List() ([]model.Build, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	builds := make([]model.Build, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != buildExt {
			continue
		}
		b, err := s.Get(strings.TrimSuffix(name, buildExt))
		if err != nil {
			logrus.WithError(err).WithField("file", name).Warn("skipping unreadable build")
			continue
		}
		builds = append(builds, b)
	}
	sort.SliceStable(builds, func(i, j int) bool {
		if !builds[i].UpdatedAt.Equal(builds[j].UpdatedAt) {
			return builds[i].UpdatedAt.After(builds[j].UpdatedAt)
		}
		return builds[i].Name < builds[j].Name
	})
	return builds, nil
}

// Delete removes a stored build.
func (s *BuildStore) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.cache.Del(id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBuildNotFound, id)
		}
		return fmt.Errorf("failed to delete build %s: %w", id, err)
	}
	logrus.WithField("build", id).Info("build deleted")
	return nil
}

// DeleteMany removes several builds and returns inv with every block of
// every deleted build credited back. It stops at the first failure; the
// returned inventory then covers the builds deleted so far.
func (s *BuildStore) DeleteMany(ids []string, inv model.Inventory) (model.Inventory, error) {
	for _, id := range ids {
		b, err := s.Get(id)
		if err != nil {
			return inv, err
		}
		if err := s.Delete(id); err != nil {
			return inv, err
		}
		inv = inv.Refund(b)
	}
	return inv, nil
}

func copyBuild(b model.Build) model.Build {
	b.Blocks = append([]model.Block(nil), b.Blocks...)
	if b.Blocks == nil {
		b.Blocks = []model.Block{}
	}
	return b
}
