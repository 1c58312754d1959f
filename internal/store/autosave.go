package store

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultAutosaveDelay = 2 * time.Second

// Autosaver coalesces store writes behind a trailing debounce: any number of
// mutations inside the window collapse into one write of the latest snapshot.
// At most one write is pending; a reschedule cancels the previous timer and
// replaces the snapshot (last state wins). A failed write is only recovered
// by the next mutation opening a new window; there is no retry.
type Autosaver struct {
	store  Store
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *DB
}

func NewAutosaver(s Store, delay time.Duration, logger *zap.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autosaver{store: s, delay: delay, logger: logger}
}

// Schedule snapshots db and (re)arms the debounce timer. The snapshot is a
// deep copy so the caller may keep mutating its tree while a write is armed.
func (a *Autosaver) Schedule(db *DB) {
	snap, err := snapshotDB(db)
	if err != nil {
		a.logger.Error("autosave snapshot failed", zap.Error(err))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = snap
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	a.timer = nil
	a.mu.Unlock()

	if snap == nil {
		return
	}
	if err := a.store.Save(snap); err != nil {
		// Surfaced, not fatal: the in-memory tree stays the source of truth.
		a.logger.Warn("autosave failed", zap.Error(err))
		return
	}
	a.logger.Debug("autosave complete", zap.Int("projects", len(snap.Projects)))
}

// Flush writes any pending snapshot immediately and disarms the timer.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if snap == nil {
		return nil
	}
	return a.store.Save(snap)
}

// Stop disarms the timer and discards any pending snapshot.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
}

func snapshotDB(db *DB) (*DB, error) {
	raw, err := json.Marshal(db)
	if err != nil {
		return nil, err
	}
	var cp DB
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}
