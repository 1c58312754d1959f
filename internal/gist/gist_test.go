package gist

import (
	"context"
	"testing"
)

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(context.Background(), "", nil); err != ErrNoToken {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if _, err := NewClient(context.Background(), "   ", nil); err != ErrNoToken {
		t.Fatalf("err = %v, want ErrNoToken for blank token", err)
	}
}

func TestUpdateRequiresSyncRef(t *testing.T) {
	c, err := NewClient(context.Background(), "ghp_test", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Update(context.Background(), "", nil); err == nil {
		t.Fatalf("empty sync ref accepted")
	}
}

func TestFetchRequiresSyncRef(t *testing.T) {
	c, err := NewClient(context.Background(), "ghp_test", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Fetch(context.Background(), "  "); err == nil {
		t.Fatalf("blank sync ref accepted")
	}
}
