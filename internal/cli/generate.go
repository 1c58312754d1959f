package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KTagupa/app-making-app/internal/ai"
	"github.com/KTagupa/app-making-app/internal/merge"
	"github.com/KTagupa/app-making-app/internal/model"
	"github.com/KTagupa/app-making-app/internal/mutate"
	"github.com/KTagupa/app-making-app/internal/store"
)

var errEmptyPlan = errors.New("model returned an empty plan")

func notFound(kind, id string) error {
	return &mutate.NotFoundError{Kind: kind, ID: id}
}

func newGenerateCmd(app *App) *cobra.Command {
	var phaseID, featureID string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate project structure with AI (whole project, --phase, or --feature)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := currentProject(db)
			if err != nil {
				return writeErr(cmd, err)
			}

			client, err := ai.NewClient(ai.Config{
				BaseURL: app.Settings.AI.BaseURL,
				Model:   app.Settings.AI.Model,
				APIKey:  app.Settings.AIKey(),
			}, app.Logger)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx := context.Background()
			switch {
			case featureID != "":
				err = generateFeature(ctx, client, db, p, featureID)
			case phaseID != "":
				err = generatePhase(ctx, client, db, p, phaseID)
			default:
				err = generateProject(ctx, client, db, p)
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			p.Modified = time.Now().UTC()
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&phaseID, "phase", "", "Regenerate a single phase")
	cmd.Flags().StringVar(&featureID, "feature", "", "Generate subtasks for a single feature")
	cmd.MarkFlagsMutuallyExclusive("phase", "feature")
	return cmd
}

// generateProject regenerates the whole tree. Keep-marked features from the
// previous tree are reattached to the matching generated phase; discard
// marks filter the generated features last, so discard wins on conflict.
func generateProject(ctx context.Context, client *ai.Client, db *store.DB, p *model.Project) error {
	kept, discarded, oldPhaseName := collectMarks(p.Phases)

	plan, err := client.GeneratePlan(ctx, ai.Request{
		Mode:          ai.ModeProject,
		Goal:          p.Goal,
		Snapshot:      p,
		Keep:          names(kept),
		Discard:       names(discarded),
		ModelOverride: p.AIModel,
	})
	if err != nil {
		return err
	}

	phases := plan.Materialize(p.ID, 0, func(prefix string) string { return store.NextID(db, prefix) })
	phases = merge.ReattachKept(kept, func(fid string) string { return oldPhaseName[fid] }, phases)
	phases = merge.Merge(phases, merge.Constraints{Discard: discarded})

	// The store is only mutated after successful parse and merge.
	p.Phases = phases
	return nil
}

// generatePhase regenerates one phase in place, reconciling its own
// keep/discard marks through the merge engine.
func generatePhase(ctx context.Context, client *ai.Client, db *store.DB, p *model.Project, phaseID string) error {
	ph, ok := store.FindPhase(p, phaseID)
	if !ok {
		return notFound("phase", phaseID)
	}
	kept, discarded, _ := collectMarks([]model.Phase{*ph})

	plan, err := client.GeneratePlan(ctx, ai.Request{
		Mode:          ai.ModePhase,
		Goal:          p.Goal,
		Phase:         ph,
		Keep:          names(kept),
		Discard:       names(discarded),
		ModelOverride: p.AIModel,
	})
	if err != nil {
		return err
	}

	generated := plan.Materialize(p.ID, ph.Order, func(prefix string) string { return store.NextID(db, prefix) })
	generated = merge.Merge(generated, merge.Constraints{Keep: kept, Discard: discarded})
	if len(generated) == 0 {
		return &ai.ParseError{Raw: "", Err: errEmptyPlan}
	}

	next := generated[0]
	ph.Name = next.Name
	ph.Description = next.Description
	ph.Features = next.Features
	for i := range ph.Features {
		ph.Features[i].PhaseID = ph.ID
	}
	return nil
}

// generateFeature asks for a subtask breakdown and appends suggestions that
// do not duplicate existing subtask descriptions.
func generateFeature(ctx context.Context, client *ai.Client, db *store.DB, p *model.Project, featureID string) error {
	loc, ok := store.FindFeature(p, featureID)
	if !ok {
		return notFound("feature", featureID)
	}
	f := loc.Feature

	plan, err := client.GeneratePlan(ctx, ai.Request{
		Mode:          ai.ModeFeature,
		Goal:          p.Goal,
		Feature:       f,
		ModelOverride: p.AIModel,
	})
	if err != nil {
		return err
	}
	if len(plan.Phases) == 0 || len(plan.Phases[0].Features) == 0 {
		return &ai.ParseError{Raw: "", Err: errEmptyPlan}
	}

	existing := map[string]bool{}
	for _, st := range f.Subtasks {
		existing[strings.ToLower(strings.TrimSpace(st.Description))] = true
	}
	for _, desc := range plan.Phases[0].Features[0].SuggestedSubtasks {
		key := strings.ToLower(strings.TrimSpace(desc))
		if key == "" || existing[key] {
			continue
		}
		f.Subtasks = append(f.Subtasks, model.Subtask{
			ID:          store.NextID(db, "task"),
			FeatureID:   f.ID,
			Description: strings.TrimSpace(desc),
			AIGenerated: true,
		})
		existing[key] = true
	}
	f.Status = f.DeriveStatus()
	return nil
}

// collectMarks walks phases for keep/discard markers, remembering each kept
// feature's owning phase name for reattachment.
func collectMarks(phases []model.Phase) (kept, discarded []model.Feature, oldPhaseName map[string]string) {
	oldPhaseName = map[string]string{}
	for _, ph := range phases {
		for _, f := range ph.Features {
			switch f.MarkedAs {
			case model.MarkKeep:
				kept = append(kept, f)
				oldPhaseName[f.ID] = ph.Name
			case model.MarkDiscard:
				discarded = append(discarded, f)
			}
		}
	}
	return kept, discarded, oldPhaseName
}

func names(fs []model.Feature) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}
