package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/KTagupa/app-making-app/internal/store"
)

// Run starts the interactive canvas over db. Mutations are debounced to disk
// through an Autosaver; the pending write is flushed before returning.
func Run(s store.Store, db *store.DB, autosaveDelay time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	saver := store.NewAutosaver(s, autosaveDelay, logger)
	defer saver.Stop()

	m := newBoardModel(s, db, saver, autosaveDelay)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if ferr := saver.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
