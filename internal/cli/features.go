package cli

import (
	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/mutate"
)

func newFeaturesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Feature commands (operate on the current project)",
	}
	cmd.AddCommand(newFeaturesAddCmd(app))
	cmd.AddCommand(newFeaturesDeleteCmd(app))
	cmd.AddCommand(newFeaturesToggleCmd(app))
	cmd.AddCommand(newFeaturesMarkCmd(app))
	cmd.AddCommand(newFeaturesMoveCmd(app))
	cmd.AddCommand(newFeaturesDescribeCmd(app))
	return cmd
}

func newFeaturesAddCmd(app *App) *cobra.Command {
	var phaseID, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a feature to a phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := mutate.AddFeature(db, p.ID, phaseID, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}

	cmd.Flags().StringVar(&phaseID, "phase", "", "Owning phase id")
	cmd.Flags().StringVar(&name, "name", "", "Feature name")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFeaturesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <feat-id>",
		Short: "Delete a feature and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.DeleteFeature(db, p.ID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}
}

func newFeaturesToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <feat-id>",
		Short: "Toggle a feature's completion (propagates to subtasks)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.ToggleFeatureComplete(db, p.ID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"toggled": args[0]})
		},
	}
}

func newFeaturesMarkCmd(app *App) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "mark <feat-id>",
		Short: "Mark a feature keep/discard/none for the next AI regeneration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.MarkFeature(db, p.ID, args[0], model.Marker(as)); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"marked": as})
		},
	}

	cmd.Flags().StringVar(&as, "as", "none", "Marker (none|keep|discard)")
	return cmd
}

func newFeaturesMoveCmd(app *App) *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "move <feat-id>",
		Short: "Set a feature's canvas position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.MoveFeature(db, p.ID, args[0], model.Position{X: x, Y: y}); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"moved": args[0]})
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Content-space x")
	cmd.Flags().Float64Var(&y, "y", 0, "Content-space y")
	return cmd
}

func newFeaturesDescribeCmd(app *App) *cobra.Command {
	var desc string

	cmd := &cobra.Command{
		Use:   "describe <feat-id>",
		Short: "Set a feature's description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := mutate.SetFeatureDescription(db, p.ID, args[0], desc); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"described": args[0]})
		},
	}

	cmd.Flags().StringVar(&desc, "text", "", "Description text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
