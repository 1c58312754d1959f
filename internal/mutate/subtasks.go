package mutate

import (
	"strings"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/store"
)

func AddSubtask(db *store.DB, projectID, featureID, description string) (*model.Subtask, error) {
	f, p, err := mustFeature(db, projectID, featureID)
	if err != nil {
		return nil, err
	}
	st := model.Subtask{
		ID:          store.NextID(db, "task"),
		FeatureID:   f.ID,
		Description: strings.TrimSpace(description),
	}
	f.Subtasks = append(f.Subtasks, st)
	// A fresh incomplete subtask can demote a previously complete feature.
	f.Status = f.DeriveStatus()
	touch(p)
	return &f.Subtasks[len(f.Subtasks)-1], nil
}

// DeleteSubtask removes the subtask from its owning feature. When subtasks
// remain, the feature status is recomputed; an emptied feature keeps its
// explicit status.
func DeleteSubtask(db *store.DB, projectID, subtaskID string) error {
	p, ok := db.FindProject(projectID)
	if !ok {
		return NotFoundError{Kind: "project", ID: projectID}
	}
	loc, ok := store.FindSubtask(p, subtaskID)
	if !ok {
		return NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	f := loc.Feature
	for i := range f.Subtasks {
		if f.Subtasks[i].ID == subtaskID {
			f.Subtasks = append(f.Subtasks[:i], f.Subtasks[i+1:]...)
			break
		}
	}
	if len(f.Subtasks) > 0 {
		f.Status = f.DeriveStatus()
	}
	touch(p)
	return nil
}

// ToggleSubtask flips completion and recomputes the owning feature's status,
// keeping the derived field honest on every toggle.
func ToggleSubtask(db *store.DB, projectID, subtaskID string) error {
	p, ok := db.FindProject(projectID)
	if !ok {
		return NotFoundError{Kind: "project", ID: projectID}
	}
	loc, ok := store.FindSubtask(p, subtaskID)
	if !ok {
		return NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	loc.Subtask.Completed = !loc.Subtask.Completed
	loc.Feature.Status = loc.Feature.DeriveStatus()
	touch(p)
	return nil
}
