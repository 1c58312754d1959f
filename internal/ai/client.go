// Package ai is the boundary to the generative-AI provider. Any
// OpenAI-compatible chat endpoint works; the base URL, model, and key come
// from configuration.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a generation request. On expiry the in-flight
// request is cancelled and surfaced as a timeout error; no retry.
const DefaultTimeout = 60 * time.Second

var ErrNoAPIKey = errors.New("no AI API key configured (run `appmaker settings set --ai-key ...`)")

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	llm    llms.Model
	cfg    Config
	logger *zap.Logger
}

// NewClient validates the credential before anything else; a missing key is
// a precondition failure, never a network error.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating AI client: %w", err)
	}
	return &Client{llm: llm, cfg: cfg, logger: logger}, nil
}

// GeneratePlan sends the composed prompt and parses the response into a
// plan. Parse failures carry the raw payload for diagnostics.
func (c *Client) GeneratePlan(ctx context.Context, req Request) (*Plan, error) {
	system, user := BuildPrompt(req)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	c.logger.Debug("ai request",
		zap.String("mode", string(req.Mode)),
		zap.String("model", c.modelFor(req)),
	)

	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	var callOpts []llms.CallOption
	if m := c.modelFor(req); m != "" {
		callOpts = append(callOpts, llms.WithModel(m))
	}

	resp, err := c.llm.GenerateContent(ctx, msgs, callOpts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("AI request timed out after %s", c.cfg.Timeout)
		}
		return nil, fmt.Errorf("AI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ParseError{Raw: "", Err: errors.New("empty response")}
	}

	plan, err := ParsePlan(resp.Choices[0].Content)
	if err != nil {
		return nil, err
	}

	c.logger.Info("ai plan received",
		zap.Int("phases", len(plan.Phases)),
		zap.Duration("took", time.Since(start)),
	)
	return plan, nil
}

// modelFor prefers the per-request (per-project) model override.
func (c *Client) modelFor(req Request) string {
	if strings.TrimSpace(req.ModelOverride) != "" {
		return req.ModelOverride
	}
	return c.cfg.Model
}
