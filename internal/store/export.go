package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/KTagupa/app-making-app/internal/model"
)

const ExportVersion = "1.0"

// ExportDoc is the versioned export/import document. Sync bookkeeping is
// nulled on export: a re-imported project is a new document, not a replica.
type ExportDoc struct {
	Version  string        `json:"version"`
	Exported int64         `json:"exported"`
	Project  model.Project `json:"project"`
}

// ImportError reports a malformed import document. The offending payload is
// retained for diagnostics; existing state is never touched on failure.
type ImportError struct {
	Raw []byte
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("invalid import document: %v", e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// ExportProject renders a deep copy of p as an export document.
func ExportProject(p *model.Project) (ExportDoc, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return ExportDoc{}, err
	}
	var cp model.Project
	if err := json.Unmarshal(raw, &cp); err != nil {
		return ExportDoc{}, err
	}
	cp.SyncRef = ""
	cp.SyncURL = ""
	cp.LastSynced = nil
	return ExportDoc{
		Version:  ExportVersion,
		Exported: time.Now().UTC().UnixMilli(),
		Project:  cp,
	}, nil
}

// ImportProject parses an export document, regenerates every entity id, and
// appends the project to db. Dependency references are rewritten through the
// id-substitution map; references pointing outside the imported tree are
// dropped. db is only mutated after successful validation.
func (s Store) ImportProject(db *DB, raw []byte) (*model.Project, error) {
	var doc ExportDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ImportError{Raw: raw, Err: err}
	}
	if doc.Version != ExportVersion {
		return nil, &ImportError{Raw: raw, Err: fmt.Errorf("unsupported version %q", doc.Version)}
	}
	if strings.TrimSpace(doc.Project.Name) == "" {
		return nil, &ImportError{Raw: raw, Err: fmt.Errorf("project has no name")}
	}

	p := doc.Project
	subst := map[string]string{}

	p.ID = NextID(db, "proj")
	p.SyncRef = ""
	p.SyncURL = ""
	p.LastSynced = nil
	now := time.Now().UTC()
	p.Created = now
	p.Modified = now

	for pi := range p.Phases {
		ph := &p.Phases[pi]
		subst[ph.ID] = NextID(db, "phase")
		ph.ID = subst[ph.ID]
		ph.ProjectID = p.ID
		for fi := range ph.Features {
			f := &ph.Features[fi]
			subst[f.ID] = NextID(db, "feat")
			f.ID = subst[f.ID]
			f.PhaseID = ph.ID
			for si := range f.Subtasks {
				st := &f.Subtasks[si]
				st.ID = NextID(db, "task")
				st.FeatureID = f.ID
			}
		}
	}

	// Second pass: dependency ids only resolve once every feature is mapped.
	for pi := range p.Phases {
		ph := &p.Phases[pi]
		for fi := range ph.Features {
			f := &ph.Features[fi]
			if len(f.Dependencies) == 0 {
				continue
			}
			kept := f.Dependencies[:0]
			for _, dep := range f.Dependencies {
				if mapped, ok := subst[dep]; ok {
					kept = append(kept, mapped)
				}
			}
			f.Dependencies = kept
		}
	}

	db.Projects = append(db.Projects, p)
	return &db.Projects[len(db.Projects)-1], nil
}
