package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/mutate"
	"github.com/KTagupa/app-making-app/internal/store"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestBoard(t *testing.T) (boardModel, *store.DB) {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	db := &store.DB{Version: 1}

	p := mutate.CreateProject(db, "Test App", "a habit tracker")
	ph, _ := mutate.AddPhase(db, p.ID, "Phase 1: Setup")
	f, _ := mutate.AddFeature(db, p.ID, ph.ID, "Scaffolding")
	mutate.AddSubtask(db, p.ID, f.ID, "init repo")
	mutate.AddFeature(db, p.ID, ph.ID, "Auth")
	mutate.AddPhase(db, p.ID, "Phase 2: Core")

	saver := store.NewAutosaver(s, time.Hour, zap.NewNop())
	t.Cleanup(saver.Stop)

	m := newBoardModel(s, db, saver, time.Hour)
	m.width = 120
	m.height = 40
	return m, db
}

func updateBoard(t *testing.T, m boardModel, msgs ...tea.Msg) boardModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(boardModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func TestSelectionMovesAndClamps(t *testing.T) {
	m, _ := newTestBoard(t)

	m = updateBoard(t, m, keyRunes("j"))
	if m.featIdx != 1 {
		t.Fatalf("featIdx = %d, want 1", m.featIdx)
	}
	// Past the end clamps.
	m = updateBoard(t, m, keyRunes("j"), keyRunes("j"))
	if m.featIdx != 1 {
		t.Fatalf("featIdx = %d, want clamp at 1", m.featIdx)
	}
	// Second phase has no features; feature index resets.
	m = updateBoard(t, m, keyRunes("l"))
	if m.phaseIdx != 1 || m.featIdx != 0 {
		t.Fatalf("selection = %d/%d, want 1/0", m.phaseIdx, m.featIdx)
	}
	m = updateBoard(t, m, keyRunes("l"))
	if m.phaseIdx != 1 {
		t.Fatalf("phaseIdx = %d, want clamp at 1", m.phaseIdx)
	}
}

func TestZoomKeysClampAndPersist(t *testing.T) {
	m, db := newTestBoard(t)

	for i := 0; i < 100; i++ {
		m = updateBoard(t, m, keyRunes("+"))
	}
	if m.view.Scale != 4.0 {
		t.Fatalf("scale = %v, want clamp at 4.0", m.view.Scale)
	}

	p, _ := db.CurrentProject()
	if p.ViewState.Zoom != 4.0 {
		t.Fatalf("view state not persisted: %+v", p.ViewState)
	}

	m = updateBoard(t, m, keyRunes("0"))
	if m.view.Scale != 1 || m.view.TX != 40 || m.view.TY != 40 {
		t.Fatalf("reset view = %+v", m.view)
	}
}

func TestPanKeysTranslateView(t *testing.T) {
	m, _ := newTestBoard(t)
	before := m.view

	m = updateBoard(t, m, tea.KeyMsg{Type: tea.KeyShiftRight})
	if m.view.TX != before.TX-panStep {
		t.Fatalf("TX = %v, want %v", m.view.TX, before.TX-panStep)
	}
	if m.view.Scale != before.Scale {
		t.Fatalf("pan changed scale: %v", m.view.Scale)
	}
}

func TestMarkKeyCyclesMarker(t *testing.T) {
	m, db := newTestBoard(t)
	p, _ := db.CurrentProject()

	m = updateBoard(t, m, keyRunes("m"))
	if got := p.Phases[0].Features[0].MarkedAs; got != model.MarkKeep {
		t.Fatalf("marker = %q, want keep", got)
	}
	m = updateBoard(t, m, keyRunes("m"))
	if got := p.Phases[0].Features[0].MarkedAs; got != model.MarkDiscard {
		t.Fatalf("marker = %q, want discard", got)
	}
	updateBoard(t, m, keyRunes("m"))
	if got := p.Phases[0].Features[0].MarkedAs; got != model.MarkNone {
		t.Fatalf("marker = %q, want none", got)
	}
}

func TestDigitTogglesSubtaskAndDerivesStatus(t *testing.T) {
	m, db := newTestBoard(t)
	p, _ := db.CurrentProject()

	updateBoard(t, m, keyRunes("1"))
	f := p.Phases[0].Features[0]
	if !f.Subtasks[0].Completed {
		t.Fatalf("subtask not toggled")
	}
	if f.Status != model.StatusComplete {
		t.Fatalf("status = %q, want complete with only subtask done", f.Status)
	}
}

func TestNewFeatureThroughInputLine(t *testing.T) {
	m, db := newTestBoard(t)
	p, _ := db.CurrentProject()

	m = updateBoard(t, m, keyRunes("n"))
	if m.inputKind != inputNewFeature {
		t.Fatalf("input not armed: %v", m.inputKind)
	}
	m = updateBoard(t, m, keyRunes("Reminders"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.inputKind != inputNone {
		t.Fatalf("input still armed after enter")
	}

	names := []string{}
	for _, f := range p.Phases[0].Features {
		names = append(names, f.Name)
	}
	if len(names) != 3 || names[2] != "Reminders" {
		t.Fatalf("features = %v, want Reminders appended", names)
	}
}

func TestEscCancelsInputWithoutMutation(t *testing.T) {
	m, db := newTestBoard(t)
	p, _ := db.CurrentProject()

	m = updateBoard(t, m, keyRunes("N"), keyRunes("Doomed"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.inputKind != inputNone {
		t.Fatalf("input still armed after esc")
	}
	if len(p.Phases) != 2 {
		t.Fatalf("esc committed a phase: %d", len(p.Phases))
	}
}

func TestViewRendersWithoutProject(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	db := &store.DB{Version: 1}
	saver := store.NewAutosaver(s, time.Hour, zap.NewNop())
	t.Cleanup(saver.Stop)

	m := newBoardModel(s, db, saver, time.Hour)
	m.width = 80
	m.height = 24
	if out := m.View(); out == "" {
		t.Fatalf("empty view for empty workspace")
	}
}
