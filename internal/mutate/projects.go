package mutate

import (
	"strings"
	"time"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/store"
)

// CreateProject appends a new project and makes it current.
func CreateProject(db *store.DB, name, goal string) *model.Project {
	now := time.Now().UTC()
	p := model.Project{
		ID:       store.NextID(db, "proj"),
		Name:     strings.TrimSpace(name),
		Goal:     strings.TrimSpace(goal),
		Created:  now,
		Modified: now,
		Phases:   []model.Phase{},
		ViewState: model.ViewState{
			Zoom: 1,
			PanX: 40,
			PanY: 40,
		},
	}
	db.Projects = append(db.Projects, p)
	db.CurrentProjectID = p.ID
	return &db.Projects[len(db.Projects)-1]
}

// DeleteProject removes the project and everything under it. Irreversible.
func DeleteProject(db *store.DB, id string) error {
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			db.Projects = append(db.Projects[:i], db.Projects[i+1:]...)
			if db.CurrentProjectID == id {
				db.CurrentProjectID = ""
			}
			return nil
		}
	}
	return NotFoundError{Kind: "project", ID: id}
}

func UseProject(db *store.DB, id string) error {
	if _, ok := db.FindProject(id); !ok {
		return NotFoundError{Kind: "project", ID: id}
	}
	db.CurrentProjectID = id
	return nil
}

// SetViewState stores the canvas transform for the project.
func SetViewState(db *store.DB, projectID string, vs model.ViewState) error {
	p, ok := db.FindProject(projectID)
	if !ok {
		return NotFoundError{Kind: "project", ID: projectID}
	}
	p.ViewState = vs
	return nil
}

func touch(p *model.Project) {
	p.Modified = time.Now().UTC()
}
