package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{Model: "gpt-4o-mini"}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = NewClient(Config{Model: "gpt-4o-mini", APIKey: "   "}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewClientDefaultsTimeout(t *testing.T) {
	c, err := NewClient(Config{Model: "gpt-4o-mini", APIKey: "sk-test"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)
}

func TestNewClientKeepsExplicitTimeout(t *testing.T) {
	c, err := NewClient(Config{Model: "gpt-4o-mini", APIKey: "sk-test", Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.cfg.Timeout)
}

func TestModelForPrefersOverride(t *testing.T) {
	c, err := NewClient(Config{Model: "gpt-4o-mini", APIKey: "sk-test"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", c.modelFor(Request{}))
	assert.Equal(t, "o4-mini", c.modelFor(Request{ModelOverride: "o4-mini"}))
}
