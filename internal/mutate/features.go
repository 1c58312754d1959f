package mutate

import (
	"fmt"
	"strings"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/store"
)

// AddFeature appends a feature to the phase. New features start collapsed,
// unmarked, and not started.
func AddFeature(db *store.DB, projectID, phaseID, name string) (*model.Feature, error) {
	p, ok := db.FindProject(projectID)
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	ph, ok := store.FindPhase(p, phaseID)
	if !ok {
		return nil, NotFoundError{Kind: "phase", ID: phaseID}
	}
	f := model.Feature{
		ID:        store.NextID(db, "feat"),
		PhaseID:   ph.ID,
		Name:      strings.TrimSpace(name),
		Status:    model.StatusNotStarted,
		MarkedAs:  model.MarkNone,
		Collapsed: true,
		Position: model.Position{
			X: ph.Position.X + 20,
			Y: ph.Position.Y + 80 + float64(len(ph.Features))*60,
		},
		Subtasks: []model.Subtask{},
	}
	ph.Features = append(ph.Features, f)
	touch(p)
	return &ph.Features[len(ph.Features)-1], nil
}

// DeleteFeature removes the feature and its subtasks from its owning phase.
// Dangling dependency references elsewhere are left for lazy filtering at
// render/use time.
func DeleteFeature(db *store.DB, projectID, featureID string) error {
	p, ok := db.FindProject(projectID)
	if !ok {
		return NotFoundError{Kind: "project", ID: projectID}
	}
	loc, ok := store.FindFeature(p, featureID)
	if !ok {
		return NotFoundError{Kind: "feature", ID: featureID}
	}
	ph := loc.Phase
	for i := range ph.Features {
		if ph.Features[i].ID == featureID {
			ph.Features = append(ph.Features[:i], ph.Features[i+1:]...)
			break
		}
	}
	touch(p)
	return nil
}

// ToggleFeatureComplete flips a feature's completion. With subtasks present
// the flip is propagated to every subtask so the derived status agrees.
func ToggleFeatureComplete(db *store.DB, projectID, featureID string) error {
	f, p, err := mustFeature(db, projectID, featureID)
	if err != nil {
		return err
	}
	toComplete := f.Status != model.StatusComplete
	if len(f.Subtasks) == 0 {
		if toComplete {
			f.Status = model.StatusComplete
		} else {
			f.Status = model.StatusNotStarted
		}
	} else {
		for i := range f.Subtasks {
			f.Subtasks[i].Completed = toComplete
		}
		f.Status = f.DeriveStatus()
	}
	touch(p)
	return nil
}

// MarkFeature sets the keep/discard constraint consulted on the next
// AI regeneration.
func MarkFeature(db *store.DB, projectID, featureID string, mark model.Marker) error {
	switch mark {
	case model.MarkNone, model.MarkKeep, model.MarkDiscard:
	default:
		return fmt.Errorf("invalid marker: %q (expected none|keep|discard)", mark)
	}
	f, p, err := mustFeature(db, projectID, featureID)
	if err != nil {
		return err
	}
	f.MarkedAs = mark
	touch(p)
	return nil
}

func RenameFeature(db *store.DB, projectID, featureID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("feature name cannot be empty")
	}
	f, p, err := mustFeature(db, projectID, featureID)
	if err != nil {
		return err
	}
	f.Name = name
	touch(p)
	return nil
}

func MoveFeature(db *store.DB, projectID, featureID string, pos model.Position) error {
	f, p, err := mustFeature(db, projectID, featureID)
	if err != nil {
		return err
	}
	f.Position = pos
	touch(p)
	return nil
}

func SetFeatureCollapsed(db *store.DB, projectID, featureID string, collapsed bool) error {
	f, p, err := mustFeature(db, projectID, featureID)
	if err != nil {
		return err
	}
	f.Collapsed = collapsed
	touch(p)
	return nil
}

func SetFeatureDescription(db *store.DB, projectID, featureID, desc string) error {
	f, p, err := mustFeature(db, projectID, featureID)
	if err != nil {
		return err
	}
	f.Description = desc
	touch(p)
	return nil
}

// AddDependency records a weak reference from one feature to another within
// the same project. Self references and duplicates are rejected.
func AddDependency(db *store.DB, projectID, fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("feature cannot depend on itself")
	}
	from, p, err := mustFeature(db, projectID, fromID)
	if err != nil {
		return err
	}
	if _, ok := store.FindFeature(p, toID); !ok {
		return NotFoundError{Kind: "feature", ID: toID}
	}
	for _, dep := range from.Dependencies {
		if dep == toID {
			return nil
		}
	}
	from.Dependencies = append(from.Dependencies, toID)
	touch(p)
	return nil
}

func RemoveDependency(db *store.DB, projectID, fromID, toID string) error {
	from, p, err := mustFeature(db, projectID, fromID)
	if err != nil {
		return err
	}
	for i, dep := range from.Dependencies {
		if dep == toID {
			from.Dependencies = append(from.Dependencies[:i], from.Dependencies[i+1:]...)
			touch(p)
			return nil
		}
	}
	return NotFoundError{Kind: "dependency", ID: toID}
}

func mustFeature(db *store.DB, projectID, featureID string) (*model.Feature, *model.Project, error) {
	p, ok := db.FindProject(projectID)
	if !ok {
		return nil, nil, NotFoundError{Kind: "project", ID: projectID}
	}
	loc, ok := store.FindFeature(p, featureID)
	if !ok {
		return nil, nil, NotFoundError{Kind: "feature", ID: featureID}
	}
	return loc.Feature, p, nil
}
