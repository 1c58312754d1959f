package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/KTagupa/app-making-app/internal/canvas"
	"github.com/KTagupa/app-making-app/internal/model"
)

// A terminal cell stands for a cellW x cellH pixel patch of the canvas, so
// the persisted transform keeps its pixel semantics while the TUI renders in
// character cells.
const (
	cellW = 10.0
	cellH = 20.0

	colWidth = 32
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colMuted    = ac("240", "245")
	colAccent   = ac("27", "62")
	colKeep     = ac("28", "42")
	colDiscard  = ac("124", "167")
	colSelected = ac("#e9e9e9", "#262626")

	styleHeader      = lipgloss.NewStyle().Bold(true)
	styleMutedText   = lipgloss.NewStyle().Foreground(colMuted)
	stylePhaseHeader = lipgloss.NewStyle().Bold(true).Foreground(colAccent)
	styleCard        = lipgloss.NewStyle().Width(colWidth - 2).PaddingLeft(1)
	styleCardSel     = styleCard.Background(colSelected)
	styleKeepTag     = lipgloss.NewStyle().Foreground(colKeep)
	styleDiscardTag  = lipgloss.NewStyle().Foreground(colDiscard)
)

func (m boardModel) View() string {
	p := m.project()
	if p == nil {
		return styleMutedText.Render("\n  No current project. Quit (q) and run: appmaker projects create --name ...\n")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(p))
	b.WriteString("\n")

	board := m.renderBoard(p)
	if m.showDeps {
		board = lipgloss.JoinHorizontal(lipgloss.Top, board, m.renderDepsPanel(p))
	}
	b.WriteString(board)
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m boardModel) renderHeader(p *model.Project) string {
	left := styleHeader.Render(p.Name)
	if goal := strings.TrimSpace(p.Goal); goal != "" {
		left += styleMutedText.Render("  " + truncate(goal, 48))
	}
	right := styleMutedText.Render(fmt.Sprintf("zoom %d%%", int(m.view.Scale*100+0.5)))
	if p.SyncRef != "" {
		right += styleMutedText.Render("  synced")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderBoard lays phase columns out by their transformed screen position.
// Columns that fall entirely outside the viewport are skipped.
func (m boardModel) renderBoard(p *model.Project) string {
	phases := make([]model.Phase, len(p.Phases))
	copy(phases, p.Phases)
	sort.Slice(phases, func(i, j int) bool { return phases[i].Order < phases[j].Order })

	boardW := m.width
	if m.showDeps {
		boardW -= depsPanelWidth
	}

	var cols []string
	prevRight := 0
	for _, ph := range phases {
		screen := canvas.ContentToScreen(canvas.Point{X: ph.Position.X, Y: ph.Position.Y}, m.view)
		x := int(screen.X / cellW)
		if x+colWidth < 0 || x >= boardW {
			continue
		}
		pad := x - prevRight
		if pad < 0 {
			pad = 0
		}
		col := m.renderPhase(p, ph)
		if pad > 0 {
			col = lipgloss.NewStyle().MarginLeft(pad).Render(col)
		}
		cols = append(cols, col)
		prevRight = x + colWidth
	}
	if len(cols) == 0 {
		return styleMutedText.Render("\n  Nothing in view. Reset with 0, or add a phase with N.\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m boardModel) renderPhase(p *model.Project, ph model.Phase) string {
	selectedPhase := m.phaseIdx < len(p.Phases) && p.Phases[m.phaseIdx].ID == ph.ID

	var b strings.Builder
	title := fmt.Sprintf("%d. %s", ph.Order+1, truncate(ph.Name, colWidth-6))
	if selectedPhase {
		title = "» " + title
	}
	b.WriteString(stylePhaseHeader.Render(title))
	b.WriteString("\n")

	if ph.Collapsed {
		b.WriteString(styleMutedText.Render(fmt.Sprintf("  (%d features)", len(ph.Features))))
		b.WriteString("\n")
		return lipgloss.NewStyle().Width(colWidth).Render(b.String())
	}

	for fi, f := range ph.Features {
		sel := selectedPhase && fi == m.featIdx
		b.WriteString(m.renderFeature(f, sel))
	}
	return lipgloss.NewStyle().Width(colWidth).Render(b.String())
}

func (m boardModel) renderFeature(f model.Feature, selected bool) string {
	st := styleCard
	if selected {
		st = styleCardSel
	}

	line := statusGlyph(f.Status) + " " + truncate(f.Name, colWidth-10)
	switch f.MarkedAs {
	case model.MarkKeep:
		line += " " + styleKeepTag.Render("keep")
	case model.MarkDiscard:
		line += " " + styleDiscardTag.Render("drop")
	}
	if f.AIGenerated {
		line += styleMutedText.Render(" ai")
	}
	out := st.Render(line) + "\n"

	if !f.Collapsed {
		for i, sub := range f.Subtasks {
			box := "☐"
			if sub.Completed {
				box = "☑"
			}
			row := fmt.Sprintf("  %d %s %s", i+1, box, truncate(sub.Description, colWidth-10))
			out += st.Render(styleMutedText.Render(row)) + "\n"
		}
		if len(f.Dependencies) > 0 {
			out += st.Render(styleMutedText.Render(fmt.Sprintf("  deps: %d", len(f.Dependencies)))) + "\n"
		}
	}
	return out
}

const depsPanelWidth = 34

func (m boardModel) renderDepsPanel(p *model.Project) string {
	st := lipgloss.NewStyle().Width(depsPanelWidth).PaddingLeft(2)

	f := m.selectedFeature()
	if f == nil {
		return st.Render(styleMutedText.Render("no feature selected"))
	}

	lines := canvas.DependencyLines(p, f.ID, m.view)
	names := featureNames(p)

	var b strings.Builder
	b.WriteString(styleHeader.Render(truncate(f.Name, depsPanelWidth-4)))
	b.WriteString("\n")
	if desc := renderMarkdown(f.Description, depsPanelWidth-4); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	b.WriteString(styleHeader.Render("Dependencies"))
	b.WriteString("\n")
	if len(lines) == 0 {
		b.WriteString(styleMutedText.Render("none"))
		return st.Render(b.String())
	}
	for _, ln := range lines {
		prefix := "→"
		row := fmt.Sprintf("%s %s", prefix, truncate(names[ln.ToID], depsPanelWidth-8))
		if ln.Tier == canvas.TierIndirect {
			row = styleMutedText.Render("  " + row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return st.Render(b.String())
}

func (m boardModel) renderFooter() string {
	if m.inputKind != inputNone {
		return "  " + m.input.View() + styleMutedText.Render("  enter: confirm  esc: cancel")
	}

	save := "saved"
	if !m.dirtyAt.IsZero() && time.Since(m.dirtyAt) < m.delay {
		save = "saving…"
	}
	help := "hjkl: select  N/n: phase/feature  s: subtask  1-9: toggle  t: done  m: mark  d: deps  +/-/0: zoom  shift+arrows: pan  q: quit"
	if m.status != "" {
		help = m.status + "  " + help
	}
	line := styleMutedText.Render(help)
	right := styleMutedText.Render(save)
	gap := m.width - lipgloss.Width(line) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return line + strings.Repeat(" ", gap) + right
}

func statusGlyph(s model.FeatureStatus) string {
	switch s {
	case model.StatusComplete:
		return "●"
	case model.StatusInProgress:
		return "◐"
	default:
		return "○"
	}
}

func featureNames(p *model.Project) map[string]string {
	out := map[string]string{}
	for _, ph := range p.Phases {
		for _, f := range ph.Features {
			out[f.ID] = f.Name
		}
	}
	return out
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
