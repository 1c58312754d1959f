package canvas

import "github.com/KTagupa/app-making-app/internal/model"

// LineTier distinguishes direct dependency lines from the second visual tier
// drawn for each direct dependency's own dependencies.
type LineTier int

const (
	TierDirect LineTier = iota
	TierIndirect
)

// Line is one dependency segment in screen space.
type Line struct {
	From   Point
	To     Point
	FromID string
	ToID   string
	Tier   LineTier
}

// DependencyLines computes the segments to draw for a feature's dependencies
// at the current transform: one per direct dependency, plus indirect lines
// from each direct dependency to its own dependencies (depth exactly 2, no
// further recursion). Dangling ids are silently skipped.
func DependencyLines(p *model.Project, featureID string, t Transform) []Line {
	if p == nil {
		return nil
	}
	byID := map[string]*model.Feature{}
	for pi := range p.Phases {
		ph := &p.Phases[pi]
		for fi := range ph.Features {
			byID[ph.Features[fi].ID] = &ph.Features[fi]
		}
	}

	src, ok := byID[featureID]
	if !ok {
		return nil
	}

	var out []Line
	for _, depID := range src.Dependencies {
		dep, ok := byID[depID]
		if !ok {
			continue // dangling reference, pruned lazily
		}
		out = append(out, segment(src, dep, TierDirect, t))

		for _, indirectID := range dep.Dependencies {
			ind, ok := byID[indirectID]
			if !ok {
				continue
			}
			out = append(out, segment(dep, ind, TierIndirect, t))
		}
	}
	return out
}

func segment(from, to *model.Feature, tier LineTier, t Transform) Line {
	return Line{
		From:   ContentToScreen(Point{X: from.Position.X, Y: from.Position.Y}, t),
		To:     ContentToScreen(Point{X: to.Position.X, Y: to.Position.Y}, t),
		FromID: from.ID,
		ToID:   to.ID,
		Tier:   tier,
	}
}
