package mutate

import (
	"testing"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/store"
)

func newTestDB(t *testing.T) (*store.DB, *model.Project) {
	t.Helper()
	db := &store.DB{Version: 1}
	p := CreateProject(db, "Test App", "a habit tracker")
	return db, p
}

func TestAddPhaseOrderAndPosition(t *testing.T) {
	db, p := newTestDB(t)

	ph1, err := AddPhase(db, p.ID, "Phase 1: Setup")
	if err != nil {
		t.Fatalf("AddPhase: %v", err)
	}
	ph2, err := AddPhase(db, p.ID, "Phase 2: Core")
	if err != nil {
		t.Fatalf("AddPhase: %v", err)
	}

	if ph1.Order != 0 || ph2.Order != 1 {
		t.Fatalf("orders = %d,%d, want 0,1", ph1.Order, ph2.Order)
	}
	if ph1.Position.X != 40 || ph2.Position.X != 360 {
		t.Fatalf("positions = %v,%v, want x 40 and 360", ph1.Position, ph2.Position)
	}
}

func TestDeletePhaseCascadesAndRenumbers(t *testing.T) {
	db, p := newTestDB(t)
	ph1, _ := AddPhase(db, p.ID, "A")
	ph2, _ := AddPhase(db, p.ID, "B")
	ph3, _ := AddPhase(db, p.ID, "C")

	f, err := AddFeature(db, p.ID, ph2.ID, "doomed")
	if err != nil {
		t.Fatalf("AddFeature: %v", err)
	}
	if _, err := AddSubtask(db, p.ID, f.ID, "doomed too"); err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}

	if err := DeletePhase(db, p.ID, ph2.ID); err != nil {
		t.Fatalf("DeletePhase: %v", err)
	}

	if len(p.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(p.Phases))
	}
	if p.Phases[0].ID != ph1.ID || p.Phases[1].ID != ph3.ID {
		t.Fatalf("wrong phases survived: %+v", p.Phases)
	}
	if p.Phases[0].Order != 0 || p.Phases[1].Order != 1 {
		t.Fatalf("orders not contiguous: %d,%d", p.Phases[0].Order, p.Phases[1].Order)
	}
	if _, ok := store.FindFeature(p, f.ID); ok {
		t.Fatalf("feature survived phase delete")
	}
}

func TestReorderPhaseClampsAndRenumbers(t *testing.T) {
	db, p := newTestDB(t)
	phA, _ := AddPhase(db, p.ID, "A")
	AddPhase(db, p.ID, "B")
	phC, _ := AddPhase(db, p.ID, "C")

	if err := ReorderPhase(db, p.ID, phC.ID, 0); err != nil {
		t.Fatalf("ReorderPhase: %v", err)
	}
	if p.Phases[0].ID != phC.ID {
		t.Fatalf("C not first after reorder: %+v", p.Phases)
	}

	// Out-of-range target clamps to the end.
	if err := ReorderPhase(db, p.ID, phA.ID, 99); err != nil {
		t.Fatalf("ReorderPhase: %v", err)
	}
	if p.Phases[len(p.Phases)-1].ID != phA.ID {
		t.Fatalf("A not last after clamped reorder: %+v", p.Phases)
	}
	for i, ph := range p.Phases {
		if ph.Order != i {
			t.Fatalf("order[%d] = %d", i, ph.Order)
		}
	}
}

func TestDeletePhaseUnknown(t *testing.T) {
	db, p := newTestDB(t)
	err := DeletePhase(db, p.ID, "phase-nope0001")
	if _, ok := err.(NotFoundError); !ok {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestDeleteProjectClearsCurrent(t *testing.T) {
	db, p := newTestDB(t)
	if err := DeleteProject(db, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if db.CurrentProjectID != "" {
		t.Fatalf("current project not cleared: %q", db.CurrentProjectID)
	}
}

func TestRenamePhase(t *testing.T) {
	db, p := newTestDB(t)
	ph, _ := AddPhase(db, p.ID, "Setup")

	if err := RenamePhase(db, p.ID, ph.ID, "  Foundation  "); err != nil {
		t.Fatalf("RenamePhase: %v", err)
	}
	if ph.Name != "Foundation" {
		t.Fatalf("name = %q", ph.Name)
	}
	if err := RenamePhase(db, p.ID, ph.ID, "   "); err == nil {
		t.Fatalf("empty rename accepted")
	}
	if ph.Name != "Foundation" {
		t.Fatalf("rejected rename still applied: %q", ph.Name)
	}
}
