package cli

import (
	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/mutate"
	"github.com/KTagupa/app-making-app/internal/store"
)

func newSubtasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtasks",
		Short: "Subtask commands (operate on the current project)",
	}
	cmd.AddCommand(newSubtasksAddCmd(app))
	cmd.AddCommand(newSubtasksToggleCmd(app))
	cmd.AddCommand(newSubtasksDeleteCmd(app))
	return cmd
}

func newSubtasksAddCmd(app *App) *cobra.Command {
	var featureID, desc string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a subtask to a feature",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := mutate.AddSubtask(db, p.ID, featureID, desc)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}

	cmd.Flags().StringVar(&featureID, "feature", "", "Owning feature id")
	cmd.Flags().StringVar(&desc, "text", "", "Subtask description")
	_ = cmd.MarkFlagRequired("feature")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newSubtasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a subtask's completion (recomputes the feature status)",
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
			if err := mutate.ToggleSubtask(db, p.ID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			status, _ := ownerStatus(db, p.ID, args[0])
			return writeOut(cmd, app, map[string]any{"toggled": args[0], "featureStatus": status})
		},
	}
}

func ownerStatus(db *store.DB, projectID, subtaskID string) (model.FeatureStatus, bool) {
	p, ok := db.FindProject(projectID)
	if !ok {
		return "", false
	}
	loc, ok := store.FindSubtask(p, subtaskID)
	if !ok {
		return "", false
	}
	return loc.Feature.Status, true
}

func newSubtasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a subtask",
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
			if err := mutate.DeleteSubtask(db, p.ID, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}
}
