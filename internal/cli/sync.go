package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/gist"
	"github.com/KTagupa/app-making-app/internal/store"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push or pull project snapshots via GitHub Gists",
	}
	cmd.AddCommand(newSyncCreateCmd(app), newSyncUpdateCmd(app), newSyncFetchCmd(app))
	return cmd
}

func newSyncCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Upload the current project as a new secret gist",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx := context.Background()
			client, err := gist.NewClient(ctx, app.Settings.GitHubToken(), app.Logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			ref, err := client.Create(ctx, p)
			if err != nil {
				return writeErr(cmd, err)
			}

			now := time.Now().UTC()
			p.SyncRef = ref.SyncRef
			p.SyncURL = ref.SyncURL
			p.LastSynced = &now
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ref, "lastSynced": now})
		},
	}
}

func newSyncUpdateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Overwrite the gist the current project was previously synced to",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx := context.Background()
			client, err := gist.NewClient(ctx, app.Settings.GitHubToken(), app.Logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.Update(ctx, p.SyncRef, p); err != nil {
				return writeErr(cmd, err)
			}

			now := time.Now().UTC()
			p.LastSynced = &now
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": gist.Ref{SyncRef: p.SyncRef, SyncURL: p.SyncURL}, "lastSynced": now})
		},
	}
}

func newSyncFetchCmd(app *App) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "fetch <sync-ref>",
		Short: "Download a synced snapshot; --apply imports it as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := gist.NewClient(ctx, app.Settings.GitHubToken(), app.Logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			fetched, err := client.Fetch(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !apply {
				return writeOut(cmd, app, map[string]any{"data": fetched})
			}

			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// The project that created the gist already holds this content;
			// importing it back would just duplicate the tree.
			if existing, err := s.ProjectIDBySyncRef(ctx, args[0]); err != nil {
				return writeErr(cmd, err)
			} else if existing != "" {
				return writeErr(cmd, fmt.Errorf("sync ref %s is already linked to project %s", args[0], existing))
			}
			// Round-trip through the import path so the snapshot lands with
			// fresh ids and remapped dependencies.
			doc := store.ExportDoc{Version: store.ExportVersion, Exported: time.Now().UTC().UnixMilli(), Project: *fetched}
			raw, err := json.Marshal(doc)
			if err != nil {
				return writeErr(cmd, err)
			}
			imported, err := s.ImportProject(db, raw)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": imported})
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Import the fetched snapshot as a new project")
	return cmd
}
