// Package gist implements one-way sync of project snapshots to GitHub
// Gists: create, update keyed by the gist id, and fetch back.
package gist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/KTagupa/app-making-app/internal/model"
)

const snapshotFile = "project.json"

// ErrNoToken is the precondition failure reported before any network call.
var ErrNoToken = errors.New("no GitHub token configured (run `appmaker settings set --github-token ...`)")

// Ref identifies a synced document.
type Ref struct {
	SyncRef string `json:"syncRef"`
	SyncURL string `json:"syncUrl"`
}

type Client struct {
	gh     *github.Client
	logger *zap.Logger
}

func NewClient(ctx context.Context, token string, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoToken
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &Client{gh: github.NewClient(tc), logger: logger}, nil
}

// Create uploads a new secret gist holding the project snapshot.
func (c *Client) Create(ctx context.Context, p *model.Project) (Ref, error) {
	body, err := snapshot(p)
	if err != nil {
		return Ref{}, err
	}
	g := &github.Gist{
		Description: github.String(fmt.Sprintf("appmaker project: %s", p.Name)),
		Public:      github.Bool(false),
		Files: map[github.GistFilename]github.GistFile{
			snapshotFile: {Content: github.String(body)},
		},
	}
	created, _, err := c.gh.Gists.Create(ctx, g)
	if err != nil {
		return Ref{}, fmt.Errorf("creating gist: %w", err)
	}
	ref := Ref{SyncRef: created.GetID(), SyncURL: created.GetHTMLURL()}
	c.logger.Info("gist created", zap.String("ref", ref.SyncRef))
	return ref, nil
}

// Update overwrites the snapshot file of an existing gist.
func (c *Client) Update(ctx context.Context, syncRef string, p *model.Project) error {
	if strings.TrimSpace(syncRef) == "" {
		return errors.New("project has no sync reference; run `appmaker sync create` first")
	}
	body, err := snapshot(p)
	if err != nil {
		return err
	}
	g := &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			snapshotFile: {Content: github.String(body)},
		},
	}
	if _, _, err := c.gh.Gists.Edit(ctx, syncRef, g); err != nil {
		return fmt.Errorf("updating gist %s: %w", syncRef, err)
	}
	c.logger.Info("gist updated", zap.String("ref", syncRef))
	return nil
}

// Fetch downloads the embedded project snapshot from a gist.
func (c *Client) Fetch(ctx context.Context, syncRef string) (*model.Project, error) {
	if strings.TrimSpace(syncRef) == "" {
		return nil, errors.New("no sync reference given")
	}
	g, _, err := c.gh.Gists.Get(ctx, syncRef)
	if err != nil {
		return nil, fmt.Errorf("fetching gist %s: %w", syncRef, err)
	}
	f, ok := g.Files[snapshotFile]
	if !ok {
		return nil, fmt.Errorf("gist %s holds no %s", syncRef, snapshotFile)
	}
	var p model.Project
	if err := json.Unmarshal([]byte(f.GetContent()), &p); err != nil {
		return nil, fmt.Errorf("gist %s snapshot is not a project document: %w", syncRef, err)
	}
	return &p, nil
}

func snapshot(p *model.Project) (string, error) {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
