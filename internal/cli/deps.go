package cli

import (
	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/canvas"
	"github.com/KTagupa/app-making-app/internal/mutate"
)

func newDepsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Feature dependency commands",
	}
	cmd.AddCommand(newDepsAddCmd(app))
	cmd.AddCommand(newDepsRemoveCmd(app))
	cmd.AddCommand(newDepsLinesCmd(app))
	return cmd
}

func newDepsAddCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record that one feature depends on another",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.AddDependency(db, p.ID, from, to); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"from": from, "to": to})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Dependent feature id")
	cmd.Flags().StringVar(&to, "on", "", "Feature it depends on")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("on")
	return cmd
}

func newDepsRemoveCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a dependency",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.RemoveDependency(db, p.ID, from, to); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"removed": to})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Dependent feature id")
	cmd.Flags().StringVar(&to, "on", "", "Feature it depends on")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("on")
	return cmd
}

// newDepsLinesCmd exposes the overlay computation: the screen-space segments
// a renderer would draw for one feature at the project's saved view.
func newDepsLinesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lines <feat-id>",
		Short: "Compute dependency line segments at the current view transform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			t := canvas.FromViewState(p.ViewState)
			lines := canvas.DependencyLines(p, args[0], t)
			return writeOut(cmd, app, map[string]any{"data": lines})
		},
	}
}
