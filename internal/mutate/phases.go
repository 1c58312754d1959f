package mutate

import (
	"fmt"
	"strings"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/store"
)

// Default layout for newly added phases: columns march to the right.
const (
	phaseColumnWidth = 320
	phaseOriginX     = 40
	phaseOriginY     = 100
)

// AddPhase appends a phase to the project with order = len(phases) and a
// default position to the right of the last column.
func AddPhase(db *store.DB, projectID, name string) (*model.Phase, error) {
	p, ok := db.FindProject(projectID)
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	order := len(p.Phases)
	ph := model.Phase{
		ID:        store.NextID(db, "phase"),
		ProjectID: p.ID,
		Name:      strings.TrimSpace(name),
		Order:     order,
		Position: model.Position{
			X: float64(order*phaseColumnWidth + phaseOriginX),
			Y: phaseOriginY,
		},
		Features: []model.Feature{},
	}
	p.Phases = append(p.Phases, ph)
	touch(p)
	return &p.Phases[len(p.Phases)-1], nil
}

// DeletePhase removes the phase and all descendants, then renumbers the
// remaining phases so order stays contiguous from 0.
func DeletePhase(db *store.DB, projectID, phaseID string) error {
	p, ok := db.FindProject(projectID)
	if !ok {
		return NotFoundError{Kind: "project", ID: projectID}
	}
	for i := range p.Phases {
		if p.Phases[i].ID == phaseID {
			p.Phases = append(p.Phases[:i], p.Phases[i+1:]...)
			renumberPhases(p)
			touch(p)
			return nil
		}
	}
	return NotFoundError{Kind: "phase", ID: phaseID}
}

// ReorderPhase moves the phase to newOrder (clamped) and renumbers.
func ReorderPhase(db *store.DB, projectID, phaseID string, newOrder int) error {
	p, ok := db.FindProject(projectID)
	if !ok {
		return NotFoundError{Kind: "project", ID: projectID}
	}
	from := -1
	for i := range p.Phases {
		if p.Phases[i].ID == phaseID {
			from = i
			break
		}
	}
	if from < 0 {
		return NotFoundError{Kind: "phase", ID: phaseID}
	}
	if newOrder < 0 {
		newOrder = 0
	}
	if newOrder > len(p.Phases)-1 {
		newOrder = len(p.Phases) - 1
	}
	ph := p.Phases[from]
	p.Phases = append(p.Phases[:from], p.Phases[from+1:]...)
	p.Phases = append(p.Phases[:newOrder], append([]model.Phase{ph}, p.Phases[newOrder:]...)...)
	renumberPhases(p)
	touch(p)
	return nil
}

func RenamePhase(db *store.DB, projectID, phaseID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("phase name cannot be empty")
	}
	ph, err := mustPhase(db, projectID, phaseID)
	if err != nil {
		return err
	}
	ph.Name = name
	return nil
}

func SetPhaseDescription(db *store.DB, projectID, phaseID, desc string) error {
	ph, err := mustPhase(db, projectID, phaseID)
	if err != nil {
		return err
	}
	ph.Description = desc
	return nil
}

func MovePhase(db *store.DB, projectID, phaseID string, pos model.Position) error {
	ph, err := mustPhase(db, projectID, phaseID)
	if err != nil {
		return err
	}
	ph.Position = pos
	return nil
}

func SetPhaseCollapsed(db *store.DB, projectID, phaseID string, collapsed bool) error {
	ph, err := mustPhase(db, projectID, phaseID)
	if err != nil {
		return err
	}
	ph.Collapsed = collapsed
	return nil
}

func mustPhase(db *store.DB, projectID, phaseID string) (*model.Phase, error) {
	p, ok := db.FindProject(projectID)
	if !ok {
		return nil, NotFoundError{Kind: "project", ID: projectID}
	}
	ph, ok := store.FindPhase(p, phaseID)
	if !ok {
		return nil, NotFoundError{Kind: "phase", ID: phaseID}
	}
	touch(p)
	return ph, nil
}

func renumberPhases(p *model.Project) {
	for i := range p.Phases {
		p.Phases[i].Order = i
	}
}
