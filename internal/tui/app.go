package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/KTagupa/app-making-app/internal/canvas"
	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/mutate"
	"github.com/KTagupa/app-making-app/internal/store"
)

// panStep is the screen-space translation applied per pan keypress, in the
// same pixel units the persisted view state uses.
const panStep = 40

type inputKind int

const (
	inputNone inputKind = iota
	inputNewPhase
	inputNewFeature
	inputRenameFeature
	inputNewSubtask
)

type boardModel struct {
	store store.Store
	db    *store.DB
	saver *store.Autosaver
	delay time.Duration

	width  int
	height int

	view canvas.Transform

	// Selection is positional: the phase column and the feature row inside
	// it. Both are re-clamped after every mutation.
	phaseIdx int
	featIdx  int

	showDeps bool
	status   string
	dirtyAt  time.Time

	input     textinput.Model
	inputKind inputKind
}

func newBoardModel(s store.Store, db *store.DB, saver *store.Autosaver, delay time.Duration) boardModel {
	ti := textinput.New()
	ti.CharLimit = 120

	m := boardModel{
		store: s,
		db:    db,
		saver: saver,
		delay: delay,
		view:  canvas.DefaultTransform(),
		input: ti,
	}
	if p, ok := db.CurrentProject(); ok {
		m.view = canvas.FromViewState(p.ViewState)
	}
	return m
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) project() *model.Project {
	p, _ := m.db.CurrentProject()
	return p
}

func (m *boardModel) clampSelection() {
	p := m.project()
	if p == nil || len(p.Phases) == 0 {
		m.phaseIdx, m.featIdx = 0, 0
		return
	}
	if m.phaseIdx >= len(p.Phases) {
		m.phaseIdx = len(p.Phases) - 1
	}
	if m.phaseIdx < 0 {
		m.phaseIdx = 0
	}
	n := len(p.Phases[m.phaseIdx].Features)
	if m.featIdx >= n {
		m.featIdx = n - 1
	}
	if m.featIdx < 0 {
		m.featIdx = 0
	}
}

func (m boardModel) selectedFeature() *model.Feature {
	p := m.project()
	if p == nil || m.phaseIdx >= len(p.Phases) {
		return nil
	}
	ph := &p.Phases[m.phaseIdx]
	if m.featIdx >= len(ph.Features) {
		return nil
	}
	return &ph.Features[m.featIdx]
}

// markDirty schedules a debounced write of the whole tree.
func (m *boardModel) markDirty() {
	m.dirtyAt = time.Now()
	m.saver.Schedule(m.db)
}

// saveView persists the transform onto the current project and schedules.
func (m *boardModel) saveView() {
	p := m.project()
	if p == nil {
		return
	}
	_ = mutate.SetViewState(m.db, p.ID, canvas.ToViewState(m.view))
	m.markDirty()
}

// viewportCenter is the zoom anchor for keyboard zoom, expressed in the same
// pixel space as the transform (one terminal cell is cellW x cellH pixels).
func (m boardModel) viewportCenter() canvas.Point {
	return canvas.Point{
		X: float64(m.width) * cellW / 2,
		Y: float64(m.height) * cellH / 2,
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.inputKind != inputNone {
			return m.updateInput(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.project()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		// Reload from disk so CLI commands in another terminal show up.
		if db, err := m.store.Load(); err == nil {
			*m.db = *db
			m.clampSelection()
			m.status = "reloaded"
		}
		return m, nil

	case "left", "h":
		m.phaseIdx--
		m.featIdx = 0
		m.clampSelection()
		return m, nil
	case "right", "l":
		m.phaseIdx++
		m.featIdx = 0
		m.clampSelection()
		return m, nil
	case "up", "k":
		m.featIdx--
		m.clampSelection()
		return m, nil
	case "down", "j":
		m.featIdx++
		m.clampSelection()
		return m, nil

	case "shift+left":
		m.view = canvas.PanBy(canvas.Point{X: panStep}, m.view)
		m.saveView()
		return m, nil
	case "shift+right":
		m.view = canvas.PanBy(canvas.Point{X: -panStep}, m.view)
		m.saveView()
		return m, nil
	case "shift+up":
		m.view = canvas.PanBy(canvas.Point{Y: panStep}, m.view)
		m.saveView()
		return m, nil
	case "shift+down":
		m.view = canvas.PanBy(canvas.Point{Y: -panStep}, m.view)
		m.saveView()
		return m, nil

	case "+", "=":
		m.view = canvas.ZoomInStep(m.viewportCenter(), m.view)
		m.saveView()
		return m, nil
	case "-", "_":
		m.view = canvas.ZoomOutStep(m.viewportCenter(), m.view)
		m.saveView()
		return m, nil
	case "0":
		m.view = canvas.DefaultTransform()
		m.saveView()
		return m, nil

	case "enter":
		if f := m.selectedFeature(); f != nil && p != nil {
			_ = mutate.SetFeatureCollapsed(m.db, p.ID, f.ID, !f.Collapsed)
			m.markDirty()
		}
		return m, nil
	case "c":
		if p != nil && m.phaseIdx < len(p.Phases) {
			ph := &p.Phases[m.phaseIdx]
			_ = mutate.SetPhaseCollapsed(m.db, p.ID, ph.ID, !ph.Collapsed)
			m.markDirty()
		}
		return m, nil

	case "t":
		if f := m.selectedFeature(); f != nil && p != nil {
			_ = mutate.ToggleFeatureComplete(m.db, p.ID, f.ID)
			m.markDirty()
		}
		return m, nil
	case "m":
		if f := m.selectedFeature(); f != nil && p != nil {
			_ = mutate.MarkFeature(m.db, p.ID, f.ID, nextMarker(f.MarkedAs))
			m.markDirty()
		}
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if f := m.selectedFeature(); f != nil && p != nil {
			i := int(msg.String()[0] - '1')
			if i < len(f.Subtasks) {
				_ = mutate.ToggleSubtask(m.db, p.ID, f.Subtasks[i].ID)
				m.markDirty()
			}
		}
		return m, nil

	case "d":
		m.showDeps = !m.showDeps
		return m, nil

	case "N":
		m.inputKind = inputNewPhase
		m.input.Placeholder = "phase name"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "n":
		if p != nil && len(p.Phases) > 0 {
			m.inputKind = inputNewFeature
			m.input.Placeholder = "feature name"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
		m.status = "add a phase first (N)"
		return m, nil
	case "e":
		if f := m.selectedFeature(); f != nil {
			m.inputKind = inputRenameFeature
			m.input.Placeholder = "feature name"
			m.input.SetValue(f.Name)
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	case "s":
		if m.selectedFeature() != nil {
			m.inputKind = inputNewSubtask
			m.input.Placeholder = "subtask"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	return m, nil
}

func (m boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputKind = inputNone
		m.input.Blur()
		return m, nil
	case "enter":
		m.commitInput()
		m.inputKind = inputNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) commitInput() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	p := m.project()
	if p == nil {
		return
	}

	switch m.inputKind {
	case inputNewPhase:
		if _, err := mutate.AddPhase(m.db, p.ID, text); err == nil {
			m.phaseIdx = len(p.Phases) - 1
			m.featIdx = 0
			m.markDirty()
		}
	case inputNewFeature:
		if m.phaseIdx < len(p.Phases) {
			ph := p.Phases[m.phaseIdx]
			if _, err := mutate.AddFeature(m.db, p.ID, ph.ID, text); err == nil {
				m.featIdx = len(p.Phases[m.phaseIdx].Features) - 1
				m.markDirty()
			}
		}
	case inputRenameFeature:
		if f := m.selectedFeature(); f != nil {
			if err := mutate.RenameFeature(m.db, p.ID, f.ID, text); err == nil {
				m.markDirty()
			}
		}
	case inputNewSubtask:
		if f := m.selectedFeature(); f != nil {
			if _, err := mutate.AddSubtask(m.db, p.ID, f.ID, text); err == nil {
				m.markDirty()
			}
		}
	}
	m.clampSelection()
}

func nextMarker(mk model.Marker) model.Marker {
	switch mk {
	case model.MarkNone:
		return model.MarkKeep
	case model.MarkKeep:
		return model.MarkDiscard
	default:
		return model.MarkNone
	}
}
