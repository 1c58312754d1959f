package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KTagupa/app-making-app/internal/model"
)

type Mode string

const (
	ModeProject Mode = "project"
	ModePhase   Mode = "phase"
	ModeFeature Mode = "feature"
)

// Request describes one generation call. Snapshot/Phase/Feature feed the
// structure section of the prompt depending on Mode.
type Request struct {
	Mode          Mode
	Goal          string
	Snapshot      *model.Project
	Phase         *model.Phase
	Feature       *model.Feature
	Keep          []string
	Discard       []string
	ModelOverride string
}

const systemInstruction = `You are a software project planner. You respond with a single JSON object and nothing else: no prose, no markdown fences. The object has the shape {"phases": [{"name": string, "description": string, "features": [{"name": string, "description": string, "suggested_subtasks": [string], "dependencies": [string]}]}]}. Dependencies reference other feature names from the same response.`

// BuildPrompt composes the system instruction and user prompt for a request.
func BuildPrompt(req Request) (system, user string) {
	var b strings.Builder

	switch req.Mode {
	case ModePhase:
		fmt.Fprintf(&b, "Plan a single development phase for the app described below. Respond with exactly one phase.\n\n")
	case ModeFeature:
		fmt.Fprintf(&b, "Break the feature described below into subtasks. Respond with exactly one phase containing exactly one feature whose suggested_subtasks are the breakdown.\n\n")
	default:
		fmt.Fprintf(&b, "Plan the development of the app described below as 3-6 ordered phases.\n\n")
	}

	if goal := strings.TrimSpace(req.Goal); goal != "" {
		fmt.Fprintf(&b, "Project goal: %s\n\n", goal)
	}

	if snap := structureSnapshot(req); snap != "" {
		fmt.Fprintf(&b, "Current structure:\n%s\n\n", snap)
	}

	if len(req.Keep) > 0 {
		fmt.Fprintf(&b, "The user wants to KEEP these features; include them by their exact names: %s\n", strings.Join(req.Keep, ", "))
	}
	if len(req.Discard) > 0 {
		fmt.Fprintf(&b, "The user wants to DISCARD these features; do not include them: %s\n", strings.Join(req.Discard, ", "))
	}

	return systemInstruction, strings.TrimSpace(b.String())
}

// structureSnapshot renders the relevant slice of the current tree as
// minified JSON (names and completion only, no ids or bookkeeping).
func structureSnapshot(req Request) string {
	type snapFeature struct {
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Status      string   `json:"status,omitempty"`
		Subtasks    []string `json:"subtasks,omitempty"`
	}
	type snapPhase struct {
		Name     string        `json:"name"`
		Features []snapFeature `json:"features"`
	}

	featOf := func(f model.Feature) snapFeature {
		sf := snapFeature{Name: f.Name, Description: f.Description, Status: string(f.Status)}
		for _, st := range f.Subtasks {
			sf.Subtasks = append(sf.Subtasks, st.Description)
		}
		return sf
	}

	var snap any
	switch req.Mode {
	case ModeFeature:
		if req.Feature == nil {
			return ""
		}
		snap = featOf(*req.Feature)
	case ModePhase:
		if req.Phase == nil {
			return ""
		}
		sp := snapPhase{Name: req.Phase.Name}
		for _, f := range req.Phase.Features {
			sp.Features = append(sp.Features, featOf(f))
		}
		snap = sp
	default:
		if req.Snapshot == nil || len(req.Snapshot.Phases) == 0 {
			return ""
		}
		var sps []snapPhase
		for _, ph := range req.Snapshot.Phases {
			sp := snapPhase{Name: ph.Name}
			for _, f := range ph.Features {
				sp.Features = append(sp.Features, featOf(f))
			}
			sps = append(sps, sp)
		}
		snap = sps
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return ""
	}
	return string(raw)
}
