// Package merge reconciles a freshly generated phase/feature tree against
// the keep and discard markers the user set on the previous tree.
package merge

import (
	"strings"

	"github.com/KTagupa/app-making-app/internal/model"
)

// Constraints carry the marked features collected before regeneration.
// Matching is by case-insensitive exact name.
type Constraints struct {
	Keep    []model.Feature
	Discard []model.Feature
}

func (c Constraints) Empty() bool {
	return len(c.Keep) == 0 && len(c.Discard) == 0
}

// Merge combines newPhases with the constraints. The order of operations is
// fixed: keep-preservation first, discard-filtering second, so a name present
// in both lists ends up removed (discard wins because removal runs last).
func Merge(newPhases []model.Phase, c Constraints) []model.Phase {
	if c.Empty() {
		return newPhases
	}

	for _, keep := range c.Keep {
		if loc := findByName(newPhases, keep.Name); loc != nil {
			// Keep-item fully wins: last-write overwrite, not a field merge.
			*loc = keep
		} else if len(newPhases) > 0 {
			newPhases[0].Features = append(newPhases[0].Features, keep)
		}
		// With no generated phases the keep item is dropped.
	}

	if len(c.Discard) > 0 {
		discard := map[string]bool{}
		for _, d := range c.Discard {
			discard[strings.ToLower(d.Name)] = true
		}
		for pi := range newPhases {
			ph := &newPhases[pi]
			kept := ph.Features[:0]
			for _, f := range ph.Features {
				if !discard[strings.ToLower(f.Name)] {
					kept = append(kept, f)
				}
			}
			ph.Features = kept
		}
	}

	return newPhases
}

// ReattachKept re-inserts keep-marked features from the previous tree at the
// front of the generated phase whose name contains the feature's old phase
// name (case-insensitive, prefix-before-colon), or the first phase when none
// matches. AI bookkeeping is stripped and phase_id rewritten.
func ReattachKept(kept []model.Feature, oldPhaseName func(featureID string) string, newPhases []model.Phase) []model.Phase {
	if len(newPhases) == 0 {
		return newPhases
	}
	for _, f := range kept {
		f.AIGenerated = false
		f.MarkedAs = model.MarkNone

		target := &newPhases[0]
		if oldPhaseName != nil {
			want := phaseKey(oldPhaseName(f.ID))
			if want != "" {
				for i := range newPhases {
					if strings.Contains(strings.ToLower(newPhases[i].Name), want) {
						target = &newPhases[i]
						break
					}
				}
			}
		}
		f.PhaseID = target.ID
		target.Features = append([]model.Feature{f}, target.Features...)
	}
	return newPhases
}

// phaseKey lowercases and trims a phase name to its prefix before any colon,
// so "Phase 1: Setup" matches a regenerated "Phase 1: Foundations".
func phaseKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.Index(name, ":"); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	return name
}

func findByName(phases []model.Phase, name string) *model.Feature {
	for pi := range phases {
		ph := &phases[pi]
		for fi := range ph.Features {
			if strings.EqualFold(ph.Features[fi].Name, name) {
				return &ph.Features[fi]
			}
		}
	}
	return nil
}
