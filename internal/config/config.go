// Package config loads appmaker settings from a YAML file overridden by
// environment variables (highest precedence).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "APPMAKER_"

type AISettings struct {
	// BaseURL points at any OpenAI-compatible chat endpoint.
	BaseURL string `koanf:"base_url" yaml:"base_url,omitempty"`
	Model   string `koanf:"model" yaml:"model,omitempty"`
	// Key is stored reversibly encoded. Obfuscation against casual
	// inspection only; explicitly not a security boundary.
	Key string `koanf:"key" yaml:"key,omitempty"`
}

type SyncSettings struct {
	GitHubToken string `koanf:"github_token" yaml:"github_token,omitempty"`
}

type AutosaveSettings struct {
	DelayMS int `koanf:"delay_ms" yaml:"delay_ms,omitempty"`
}

type LogSettings struct {
	Level  string `koanf:"level" yaml:"level,omitempty"`
	Format string `koanf:"format" yaml:"format,omitempty"`
}

type Settings struct {
	AI       AISettings       `koanf:"ai" yaml:"ai,omitempty"`
	Sync     SyncSettings     `koanf:"sync" yaml:"sync,omitempty"`
	Autosave AutosaveSettings `koanf:"autosave" yaml:"autosave,omitempty"`
	Log      LogSettings      `koanf:"log" yaml:"log,omitempty"`
}

func Defaults() Settings {
	return Settings{
		AI: AISettings{
			Model: "gpt-4o-mini",
		},
		Autosave: AutosaveSettings{DelayMS: 2000},
		Log:      LogSettings{Level: "warn", Format: "console"},
	}
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "appmaker", "config.yaml"), nil
}

// Load reads path (or the default path when empty), then overrides with
// APPMAKER_* environment variables: APPMAKER_AI_BASE_URL -> ai.base_url.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if content, err := os.ReadFile(path); err == nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// First underscore separates the section: AI_BASE_URL -> ai.base_url.
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(s, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	out := Defaults()
	if err := k.Unmarshal("", &out); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &out, nil
}

// Save writes settings to path, creating parent directories. 0600 since the
// file carries (encoded) credentials.
func Save(path string, s *Settings) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := yamlv3.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func (s *Settings) AutosaveDelay() time.Duration {
	if s.Autosave.DelayMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(s.Autosave.DelayMS) * time.Millisecond
}

// AIKey returns the decoded AI credential.
func (s *Settings) AIKey() string { return DecodeSecret(s.AI.Key) }

// GitHubToken returns the decoded sync credential.
func (s *Settings) GitHubToken() string { return DecodeSecret(s.Sync.GitHubToken) }
