// Package canvas implements the pan/zoom math for the infinite project
// canvas: a single affine transform (uniform scale + translate) applied to
// the content layer, plus conversions between screen and content space.
package canvas

import (
	"math"

	"github.com/KTagupa/app-making-app/internal/model"
)

const (
	MinZoom  = 0.25
	MaxZoom  = 4.0
	ZoomStep = 0.1
)

// Transform maps content space to screen space:
// screen = content*Scale + (TX, TY).
type Transform struct {
	Scale float64
	TX    float64
	TY    float64
}

type Point struct {
	X float64
	Y float64
}

// DefaultTransform is the reset view: unit scale, content origin at (40,40).
func DefaultTransform() Transform {
	return Transform{Scale: 1, TX: 40, TY: 40}
}

func clampScale(s float64) float64 {
	if s < MinZoom {
		return MinZoom
	}
	if s > MaxZoom {
		return MaxZoom
	}
	return s
}

// ScreenToContent inverts the transform for a screen point.
func ScreenToContent(p Point, t Transform) Point {
	return Point{
		X: (p.X - t.TX) / t.Scale,
		Y: (p.Y - t.TY) / t.Scale,
	}
}

// ContentToScreen applies the transform to a content point.
func ContentToScreen(p Point, t Transform) Point {
	return Point{
		X: p.X*t.Scale + t.TX,
		Y: p.Y*t.Scale + t.TY,
	}
}

// ZoomAtPoint changes scale by delta, clamped, keeping the content point
// under the screen anchor fixed. When clamping leaves the scale unchanged
// the transform is returned as-is.
func ZoomAtPoint(anchor Point, delta float64, t Transform) Transform {
	next := clampScale(t.Scale + delta)
	return zoomTo(anchor, next, t)
}

// ZoomInStep and ZoomOutStep are the discrete zoom controls.
func ZoomInStep(anchor Point, t Transform) Transform  { return ZoomAtPoint(anchor, ZoomStep, t) }
func ZoomOutStep(anchor Point, t Transform) Transform { return ZoomAtPoint(anchor, -ZoomStep, t) }

func zoomTo(anchor Point, scale float64, t Transform) Transform {
	if scale == t.Scale {
		return t
	}
	// Anchor-preserving: solve translate' so the content point currently
	// under the anchor stays under it at the new scale.
	c := ScreenToContent(anchor, t)
	return Transform{
		Scale: scale,
		TX:    anchor.X - c.X*scale,
		TY:    anchor.Y - c.Y*scale,
	}
}

// PanBy translates the view. Unclamped: the canvas is conceptually infinite.
func PanBy(delta Point, t Transform) Transform {
	t.TX += delta.X
	t.TY += delta.Y
	return t
}

// Pinch tracks a two-pointer zoom gesture. Scale follows the ratio of the
// current pointer distance to the distance at gesture start, anchored at the
// current midpoint.
type Pinch struct {
	startScale float64
	startDist  float64
}

func StartPinch(a, b Point, t Transform) Pinch {
	return Pinch{startScale: t.Scale, startDist: dist(a, b)}
}

// Move returns the transform for the pointers' current placement.
func (g Pinch) Move(a, b Point, t Transform) Transform {
	if g.startDist == 0 {
		return t
	}
	next := clampScale(g.startScale * dist(a, b) / g.startDist)
	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return zoomTo(mid, next, t)
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// FromViewState converts a persisted per-project view into a live transform.
func FromViewState(vs model.ViewState) Transform {
	s := vs.Zoom
	if s == 0 {
		return DefaultTransform()
	}
	return Transform{Scale: clampScale(s), TX: vs.PanX, TY: vs.PanY}
}

// ToViewState freezes a transform for persistence.
func ToViewState(t Transform) model.ViewState {
	return model.ViewState{Zoom: t.Scale, PanX: t.TX, PanY: t.TY}
}
