package canvas

import (
	"testing"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/mutate"
	"github.com/KTagupa/app-making-app/internal/store"
)

func depProject() *model.Project {
	return &model.Project{
		ID: "proj-test0001",
		Phases: []model.Phase{
			{
				ID: "phase-aaaa0001",
				Features: []model.Feature{
					{ID: "feat-setup001", Name: "Setup", Position: model.Position{X: 0, Y: 0}},
					{ID: "feat-auth0001", Name: "Auth", Position: model.Position{X: 100, Y: 0},
						Dependencies: []string{"feat-setup001"}},
					{ID: "feat-login001", Name: "Login", Position: model.Position{X: 200, Y: 0},
						Dependencies: []string{"feat-auth0001", "feat-gone0001"}},
				},
			},
		},
	}
}

func TestDependencyLinesDepthTwo(t *testing.T) {
	p := depProject()
	lines := DependencyLines(p, "feat-login001", DefaultTransform())

	// Login -> Auth (direct), Auth -> Setup (indirect). The dangling
	// reference to feat-gone0001 produces nothing.
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	if lines[0].Tier != TierDirect || lines[0].ToID != "feat-auth0001" {
		t.Fatalf("first line = %+v, want direct to feat-auth0001", lines[0])
	}
	if lines[1].Tier != TierIndirect || lines[1].ToID != "feat-setup001" {
		t.Fatalf("second line = %+v, want indirect to feat-setup001", lines[1])
	}
}

func TestDependencyLinesNoRecursionPastDepthTwo(t *testing.T) {
	p := depProject()
	// Give Setup its own dependency; it must not show up when inspecting Login.
	p.Phases[0].Features = append(p.Phases[0].Features,
		model.Feature{ID: "feat-infra001", Name: "Infra"})
	p.Phases[0].Features[0].Dependencies = []string{"feat-infra001"}

	lines := DependencyLines(p, "feat-login001", DefaultTransform())
	for _, ln := range lines {
		if ln.ToID == "feat-infra001" {
			t.Fatalf("depth-3 line leaked: %+v", ln)
		}
	}
}

func TestDependencyLinesTransformApplied(t *testing.T) {
	p := depProject()
	tr := Transform{Scale: 2, TX: 10, TY: 20}
	lines := DependencyLines(p, "feat-auth0001", tr)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	// Auth sits at content (100,0): screen (210,20). Setup at (0,0): (10,20).
	if lines[0].From.X != 210 || lines[0].From.Y != 20 {
		t.Fatalf("from = %+v, want (210,20)", lines[0].From)
	}
	if lines[0].To.X != 10 || lines[0].To.Y != 20 {
		t.Fatalf("to = %+v, want (10,20)", lines[0].To)
	}
}

func TestDependencyLinesUnknownFeature(t *testing.T) {
	if lines := DependencyLines(depProject(), "feat-nope0001", DefaultTransform()); lines != nil {
		t.Fatalf("expected nil for unknown feature, got %+v", lines)
	}
}

func TestDependencyLinesAfterFeatureDelete(t *testing.T) {
	db := &store.DB{Version: 1}
	p := mutate.CreateProject(db, "Test App", "a habit tracker")
	ph, _ := mutate.AddPhase(db, p.ID, "Phase 1: Setup")
	setup, _ := mutate.AddFeature(db, p.ID, ph.ID, "Setup")
	auth, _ := mutate.AddFeature(db, p.ID, ph.ID, "Auth")
	login, _ := mutate.AddFeature(db, p.ID, ph.ID, "Login")
	setupID, authID, loginID := setup.ID, auth.ID, login.ID

	for _, dep := range [][2]string{{authID, setupID}, {loginID, authID}, {loginID, setupID}} {
		if err := mutate.AddDependency(db, p.ID, dep[0], dep[1]); err != nil {
			t.Fatalf("AddDependency %v: %v", dep, err)
		}
	}

	if err := mutate.DeleteFeature(db, p.ID, authID); err != nil {
		t.Fatalf("DeleteFeature: %v", err)
	}

	// Login still references the deleted Auth; the overlay skips it and keeps
	// drawing the surviving Setup edge.
	lines := DependencyLines(p, loginID, DefaultTransform())
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %+v", len(lines), lines)
	}
	if lines[0].Tier != TierDirect || lines[0].ToID != setupID {
		t.Fatalf("line = %+v, want direct to %s", lines[0], setupID)
	}
}
