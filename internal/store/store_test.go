package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KTagupa/app-making-app/internal/model"
)

func testDB() *DB {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &DB{
		Version:          1,
		CurrentProjectID: "proj-aaaa0001",
		Projects: []model.Project{
			{
				ID:       "proj-aaaa0001",
				Name:     "Habit Tracker",
				Goal:     "track habits",
				Created:  now,
				Modified: now,
				ViewState: model.ViewState{Zoom: 1.3, PanX: -20, PanY: 55},
				Phases: []model.Phase{
					{
						ID: "phase-bbbb0001", ProjectID: "proj-aaaa0001", Name: "Phase 1: Setup",
						Position: model.Position{X: 40, Y: 100},
						Features: []model.Feature{
							{
								ID: "feat-cccc0001", PhaseID: "phase-bbbb0001", Name: "Scaffolding",
								Status: model.StatusInProgress,
								Subtasks: []model.Subtask{
									{ID: "task-dddd0001", FeatureID: "feat-cccc0001", Description: "init repo", Completed: true},
									{ID: "task-dddd0002", FeatureID: "feat-cccc0001", Description: "pick stack"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	in := testDB()

	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if out.CurrentProjectID != in.CurrentProjectID {
		t.Fatalf("current = %q, want %q", out.CurrentProjectID, in.CurrentProjectID)
	}
	if len(out.Projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(out.Projects))
	}
	p := out.Projects[0]
	if p.Name != "Habit Tracker" || p.ViewState.Zoom != 1.3 {
		t.Fatalf("project mangled: %+v", p)
	}
	if len(p.Phases) != 1 || len(p.Phases[0].Features) != 1 || len(p.Phases[0].Features[0].Subtasks) != 2 {
		t.Fatalf("tree mangled: %+v", p.Phases)
	}
}

func TestLoadEmptyDirIsFreshDB(t *testing.T) {
	s := Store{Dir: filepath.Join(t.TempDir(), ".appmaker")}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Projects) != 0 || db.CurrentProjectID != "" {
		t.Fatalf("fresh db not empty: %+v", db)
	}
}

func TestLoadClearsDanglingCurrentProject(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := testDB()
	db.CurrentProjectID = "proj-gone0001"
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.CurrentProjectID != "" {
		t.Fatalf("dangling current survived load: %q", out.CurrentProjectID)
	}
}

func TestSaveReplacesDeletedProjects(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := testDB()
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	db.Projects = nil
	db.CurrentProjectID = ""
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Projects) != 0 {
		t.Fatalf("deleted project resurrected: %+v", out.Projects)
	}
}

func TestDiscoverDirWalksUp(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, ".appmaker")
	if err := os.MkdirAll(filepath.Join(root, "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(ws, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := DiscoverDir(filepath.Join(root, "a", "b"))
	if !ok || got != ws {
		t.Fatalf("DiscoverDir = %q,%v, want %q", got, ok, ws)
	}
}

func TestNextIDPrefixAndUniqueness(t *testing.T) {
	db := &DB{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := NextID(db, "feat")
		if !strings.HasPrefix(id, "feat-") {
			t.Fatalf("id %q lacks prefix", id)
		}
		if len(id) < len("feat-")+8 {
			t.Fatalf("id %q too short", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestFindSubtaskLocatesOwners(t *testing.T) {
	db := testDB()
	p := &db.Projects[0]
	loc, ok := FindSubtask(p, "task-dddd0002")
	if !ok {
		t.Fatalf("subtask not found")
	}
	if loc.Feature.ID != "feat-cccc0001" || loc.Phase.ID != "phase-bbbb0001" {
		t.Fatalf("wrong owners: %+v", loc)
	}
}

func TestProjectIDBySyncRef(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := testDB()
	db.Projects[0].SyncRef = "gist-abc123"
	if err := s.Save(db); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx := context.Background()
	id, err := s.ProjectIDBySyncRef(ctx, "gist-abc123")
	if err != nil {
		t.Fatalf("ProjectIDBySyncRef: %v", err)
	}
	if id != "proj-aaaa0001" {
		t.Fatalf("id = %q, want proj-aaaa0001", id)
	}

	id, err = s.ProjectIDBySyncRef(ctx, "gist-unknown")
	if err != nil {
		t.Fatalf("ProjectIDBySyncRef unknown: %v", err)
	}
	if id != "" {
		t.Fatalf("unknown ref matched %q", id)
	}

	// Blank refs never match the unlinked projects that store "".
	id, err = s.ProjectIDBySyncRef(ctx, "  ")
	if err != nil {
		t.Fatalf("ProjectIDBySyncRef blank: %v", err)
	}
	if id != "" {
		t.Fatalf("blank ref matched %q", id)
	}
}
