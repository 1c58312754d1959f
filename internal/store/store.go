package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/KTagupa/app-making-app/internal/model"
)

// DB is the canonical in-memory state: every project tree plus which one is
// current. All structural mutation happens in internal/mutate; the store only
// owns identity, lookup, and durability.
type DB struct {
	Version          int             `json:"version"`
	CurrentProjectID string          `json:"currentProjectId,omitempty"`
	Projects         []model.Project `json:"projects"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for an existing .appmaker dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".appmaker")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".appmaker"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.loadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.saveSQLite(context.Background(), db)
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

// CurrentProject resolves CurrentProjectID. A missing or dangling id is a
// valid outcome callers must check, not an error.
func (db *DB) CurrentProject() (*model.Project, bool) {
	if db.CurrentProjectID == "" {
		return nil, false
	}
	return db.FindProject(db.CurrentProjectID)
}

// FeatureLoc is the owning phase of a found feature.
type FeatureLoc struct {
	Phase   *model.Phase
	Feature *model.Feature
}

// SubtaskLoc is the owning chain of a found subtask.
type SubtaskLoc struct {
	Phase   *model.Phase
	Feature *model.Feature
	Subtask *model.Subtask
}

func FindPhase(p *model.Project, id string) (*model.Phase, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Phases {
		if p.Phases[i].ID == id {
			return &p.Phases[i], true
		}
	}
	return nil, false
}

func FindFeature(p *model.Project, id string) (FeatureLoc, bool) {
	if p == nil {
		return FeatureLoc{}, false
	}
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Features {
			if ph.Features[j].ID == id {
				return FeatureLoc{Phase: ph, Feature: &ph.Features[j]}, true
			}
		}
	}
	return FeatureLoc{}, false
}

func FindSubtask(p *model.Project, id string) (SubtaskLoc, bool) {
	if p == nil {
		return SubtaskLoc{}, false
	}
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Features {
			f := &ph.Features[j]
			for k := range f.Subtasks {
				if f.Subtasks[k].ID == id {
					return SubtaskLoc{Phase: ph, Feature: f, Subtask: &f.Subtasks[k]}, true
				}
			}
		}
	}
	return SubtaskLoc{}, false
}
