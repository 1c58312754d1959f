package tui

import (
	"strings"
	"testing"

	"github.com/KTagupa/app-making-app/internal/mutate"
)

func TestRenderMarkdownStripsMarkup(t *testing.T) {
	out := renderMarkdown("**bold** and a `snippet`", 40)
	if out == "" {
		t.Fatalf("empty render")
	}
	if strings.Contains(out, "**") {
		t.Fatalf("markup left in output: %q", out)
	}
	if !strings.Contains(out, "bold") {
		t.Fatalf("text lost: %q", out)
	}
}

func TestRenderMarkdownEmptyAndBlank(t *testing.T) {
	if out := renderMarkdown("", 40); out != "" {
		t.Fatalf("empty input rendered %q", out)
	}
	if out := renderMarkdown("   \n  ", 40); out != "" {
		t.Fatalf("blank input rendered %q", out)
	}
}

func TestRenderMarkdownNarrowWidthFloor(t *testing.T) {
	// Widths below the floor must not panic or drop content.
	out := renderMarkdown("a long description that needs wrapping", 1)
	if !strings.Contains(out, "wrapping") {
		t.Fatalf("text lost at narrow width: %q", out)
	}
}

func TestDepsPanelRendersDescription(t *testing.T) {
	m, db := newTestBoard(t)
	p, _ := db.CurrentProject()
	f := p.Phases[0].Features[0]
	if err := mutate.SetFeatureDescription(db, p.ID, f.ID, "Uses **bcrypt** for hashing"); err != nil {
		t.Fatalf("SetFeatureDescription: %v", err)
	}

	panel := m.renderDepsPanel(p)
	if !strings.Contains(panel, "bcrypt") {
		t.Fatalf("description missing from panel: %q", panel)
	}
	if strings.Contains(panel, "**") {
		t.Fatalf("raw markup in panel: %q", panel)
	}
}
