package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KTagupa/app-making-app/internal/config"
	"github.com/KTagupa/app-making-app/internal/logging"
	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/store"
	"github.com/KTagupa/app-making-app/internal/tui"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool

	Settings *config.Settings
	Logger   *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "appmaker",
		Short:        "Plan app projects on an infinite canvas (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive canvas TUI
  appmaker

  # Scriptable commands
  appmaker projects create --name "My App" --goal "Habit tracker"
  appmaker phases add --name "Phase 1: Setup"
  appmaker generate
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(app.ConfigPath)
		if err != nil {
			return err
		}
		app.Settings = settings
		logger, err := logging.New(settings.Log.Level, settings.Log.Format)
		if err != nil {
			return err
		}
		app.Logger = logger
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("APPMAKER_DIR", ""), "Path to store dir (default: discovered or ./.appmaker)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("APPMAKER_CONFIG", ""), "Path to settings file (default: ~/.config/appmaker/config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newPhasesCmd(app))
	cmd.AddCommand(newFeaturesCmd(app))
	cmd.AddCommand(newSubtasksCmd(app))
	cmd.AddCommand(newDepsCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newSettingsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s, db, app.Settings.AutosaveDelay(), app.Logger)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// currentProject resolves the current project or explains how to get one.
func currentProject(db *store.DB) (*model.Project, error) {
	p, ok := db.CurrentProject()
	if !ok {
		return nil, errors.New("no current project; run `appmaker projects create --name ...` or `appmaker projects use <proj-id>`")
	}
	return p, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	var (
		raw []byte
		err error
	)
	if app.PrettyJSON {
		raw, err = json.MarshalIndent(v, "", "  ")
	} else {
		raw, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
