package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current project as a portable JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := store.ExportProject(p)
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" || out == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			}
			if err := os.WriteFile(out, append(raw, '\n'), 0o644); err != nil {
				return writeErr(cmd, fmt.Errorf("writing %s: %w", out, err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"path": out, "projectId": p.ID}})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file (default stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an exported project document as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, fmt.Errorf("reading %s: %w", args[0], err))
			}

			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := s.ImportProject(db, raw)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	return cmd
}
