package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KTagupa/app-making-app/internal/model"
)

// Plan is the wire shape every provider response must ultimately yield.
type Plan struct {
	Phases []PlanPhase `json:"phases"`
}

type PlanPhase struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Features    []PlanFeature `json:"features"`
}

type PlanFeature struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	SuggestedSubtasks []string `json:"suggested_subtasks"`
	Dependencies      []string `json:"dependencies"`
}

// ParseError reports a non-JSON or structurally invalid payload. The raw
// text is retained for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable plan response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParsePlan extracts the plan from a model's text payload. Markdown code
// fences are stripped first since models routinely wrap JSON in them.
func ParsePlan(text string) (*Plan, error) {
	cleaned := stripFences(text)
	var plan Plan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}
	if plan.Phases == nil {
		return nil, &ParseError{Raw: text, Err: fmt.Errorf("missing phases array")}
	}
	for i, ph := range plan.Phases {
		if strings.TrimSpace(ph.Name) == "" {
			return nil, &ParseError{Raw: text, Err: fmt.Errorf("phase %d has no name", i)}
		}
	}
	return &plan, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Materialize converts the wire plan into model phases owned by projectID.
// newID supplies fresh ids per prefix. Dependency names are resolved to the
// ids of features generated in the same plan; unresolvable names are dropped
// rather than left dangling from birth.
func (p *Plan) Materialize(projectID string, startOrder int, newID func(prefix string) string) []model.Phase {
	idByName := map[string]string{}
	phases := make([]model.Phase, 0, len(p.Phases))

	for pi, wp := range p.Phases {
		order := startOrder + pi
		ph := model.Phase{
			ID:          newID("phase"),
			ProjectID:   projectID,
			Name:        wp.Name,
			Description: wp.Description,
			Order:       order,
			Position: model.Position{
				X: float64(order*320 + 40),
				Y: 100,
			},
			Features: []model.Feature{},
		}
		for fi, wf := range wp.Features {
			f := model.Feature{
				ID:          newID("feat"),
				PhaseID:     ph.ID,
				Name:        wf.Name,
				Description: wf.Description,
				Status:      model.StatusNotStarted,
				AIGenerated: true,
				MarkedAs:    model.MarkNone,
				Collapsed:   true,
				Position: model.Position{
					X: ph.Position.X + 20,
					Y: ph.Position.Y + 80 + float64(fi)*60,
				},
				Subtasks: []model.Subtask{},
			}
			for _, desc := range wf.SuggestedSubtasks {
				if strings.TrimSpace(desc) == "" {
					continue
				}
				f.Subtasks = append(f.Subtasks, model.Subtask{
					ID:          newID("task"),
					FeatureID:   f.ID,
					Description: desc,
					AIGenerated: true,
				})
			}
			idByName[strings.ToLower(wf.Name)] = f.ID
			ph.Features = append(ph.Features, f)
		}
		phases = append(phases, ph)
	}

	// Second pass: dependencies may point forward across phases.
	for pi, wp := range p.Phases {
		for fi, wf := range wp.Features {
			for _, depName := range wf.Dependencies {
				if id, ok := idByName[strings.ToLower(depName)]; ok && id != phases[pi].Features[fi].ID {
					phases[pi].Features[fi].Dependencies = append(phases[pi].Features[fi].Dependencies, id)
				}
			}
		}
	}

	return phases
}
