package cli

import (
	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/config"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change appmaker settings",
	}
	cmd.AddCommand(newSettingsShowCmd(app), newSettingsSetCmd(app))
	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print effective settings with credentials redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *app.Settings
			s.AI.Key = redact(s.AI.Key)
			s.Sync.GitHubToken = redact(s.Sync.GitHubToken)
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var (
		aiKey, aiModel, aiBaseURL string
		githubToken               string
		logLevel, logFormat       string
		autosaveMS                int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings and persist them to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Mutate the file-backed settings, not the env-overridden view, so
			// a one-shot APPMAKER_* override is not baked into the file.
			path := app.ConfigPath
			s, err := config.Load(path)
			if err != nil {
				return writeErr(cmd, err)
			}

			if cmd.Flags().Changed("ai-key") {
				s.AI.Key = config.EncodeSecret(aiKey)
			}
			if cmd.Flags().Changed("ai-model") {
				s.AI.Model = aiModel
			}
			if cmd.Flags().Changed("ai-base-url") {
				s.AI.BaseURL = aiBaseURL
			}
			if cmd.Flags().Changed("github-token") {
				s.Sync.GitHubToken = config.EncodeSecret(githubToken)
			}
			if cmd.Flags().Changed("log-level") {
				s.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				s.Log.Format = logFormat
			}
			if cmd.Flags().Changed("autosave-delay-ms") {
				s.Autosave.DelayMS = autosaveMS
			}

			if err := config.Save(path, s); err != nil {
				return writeErr(cmd, err)
			}
			app.Settings = s

			out := *s
			out.AI.Key = redact(out.AI.Key)
			out.Sync.GitHubToken = redact(out.Sync.GitHubToken)
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&aiKey, "ai-key", "", "API key for the AI endpoint")
	cmd.Flags().StringVar(&aiModel, "ai-model", "", "Default model name")
	cmd.Flags().StringVar(&aiBaseURL, "ai-base-url", "", "OpenAI-compatible base URL")
	cmd.Flags().StringVar(&githubToken, "github-token", "", "GitHub token used for gist sync")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "Log format (console or json)")
	cmd.Flags().IntVar(&autosaveMS, "autosave-delay-ms", 0, "Autosave debounce delay in milliseconds")
	return cmd
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "(set)"
}
