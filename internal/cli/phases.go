package cli

import (
	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/mutate"
)

func newPhasesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phases",
		Short: "Phase commands (operate on the current project)",
	}
	cmd.AddCommand(newPhasesAddCmd(app))
	cmd.AddCommand(newPhasesDeleteCmd(app))
	cmd.AddCommand(newPhasesMoveCmd(app))
	cmd.AddCommand(newPhasesReorderCmd(app))
	cmd.AddCommand(newPhasesCollapseCmd(app))
	cmd.AddCommand(newPhasesRenameCmd(app))
	return cmd
}

func newPhasesAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a phase to the current project",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			ph, err := mutate.AddPhase(db, p.ID, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ph})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Phase name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPhasesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <phase-id>",
		Short: "Delete a phase and everything under it",
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
			if err := mutate.DeletePhase(db, p.ID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}
}

func newPhasesMoveCmd(app *App) *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "move <phase-id>",
		Short: "Set a phase's canvas position",
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
			if err := mutate.MovePhase(db, p.ID, args[0], model.Position{X: x, Y: y}); err != nil {
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

func newPhasesReorderCmd(app *App) *cobra.Command {
	var order int

	cmd := &cobra.Command{
		Use:   "reorder <phase-id>",
		Short: "Move a phase to a new order slot",
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
			if err := mutate.ReorderPhase(db, p.ID, args[0], order); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"reordered": args[0]})
		},
	}

	cmd.Flags().IntVar(&order, "to", 0, "Target order (0-based)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newPhasesCollapseCmd(app *App) *cobra.Command {
	var expand bool

	cmd := &cobra.Command{
		Use:   "collapse <phase-id>",
		Short: "Collapse (or --expand) a phase on the canvas",
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
			if err := mutate.SetPhaseCollapsed(db, p.ID, args[0], !expand); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"collapsed": !expand})
		},
	}

	cmd.Flags().BoolVar(&expand, "expand", false, "Expand instead of collapse")
	return cmd
}

func newPhasesRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <phase-id>",
		Short: "Rename a phase",
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
			if err := mutate.RenamePhase(db, p.ID, args[0], name); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"renamed": args[0]})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
