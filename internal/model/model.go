package model

import "time"

type FeatureStatus string

const (
	StatusNotStarted FeatureStatus = "not_started"
	StatusInProgress FeatureStatus = "in_progress"
	StatusComplete   FeatureStatus = "complete"
)

type Marker string

const (
	MarkNone    Marker = "none"
	MarkKeep    Marker = "keep"
	MarkDiscard Marker = "discard"
)

// Position is a point in canvas content space (pre-transform).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewState is the per-project canvas transform. Persisted so a project
// reopens where the user left it; never shared across projects.
type ViewState struct {
	Zoom float64 `json:"zoomLevel"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

type Project struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Goal     string    `json:"goal,omitempty"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// AIModel overrides the configured default model for this project.
	AIModel string `json:"aiModel,omitempty"`

	// Remote sync bookkeeping. Nulled on export.
	SyncRef    string     `json:"syncRef,omitempty"`
	SyncURL    string     `json:"syncUrl,omitempty"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`

	Phases    []Phase   `json:"phases"`
	ViewState ViewState `json:"viewState"`
}

type Phase struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Order determines left-to-right layout and stays contiguous from 0
	// after any deletion.
	Order     int      `json:"order"`
	Collapsed bool     `json:"collapsed"`
	Position  Position `json:"position"`

	Features []Feature `json:"features"`
}

type Feature struct {
	ID          string        `json:"id"`
	PhaseID     string        `json:"phaseId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      FeatureStatus `json:"status"`
	AIGenerated bool          `json:"aiGenerated"`
	MarkedAs    Marker        `json:"markedAs"`
	Collapsed   bool          `json:"collapsed"`
	Position    Position      `json:"position"`

	// Dependencies are weak references to other feature ids within the same
	// project. They may dangle after a delete; consumers filter them, never
	// dereference unchecked.
	Dependencies []string `json:"dependencies,omitempty"`

	Subtasks []Subtask `json:"subtasks"`
}

type Subtask struct {
	ID          string `json:"id"`
	FeatureID   string `json:"featureId"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	AIGenerated bool   `json:"aiGenerated"`
}

// DeriveStatus returns the status implied by the feature's subtasks.
// Features without subtasks keep their explicit status.
func (f *Feature) DeriveStatus() FeatureStatus {
	if len(f.Subtasks) == 0 {
		return f.Status
	}
	done := 0
	for _, st := range f.Subtasks {
		if st.Completed {
			done++
		}
	}
	switch {
	case done == len(f.Subtasks):
		return StatusComplete
	case done > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}
