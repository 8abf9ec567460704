package telegram

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"tgd/internal/config"
)

func TestConnUnconfigured(t *testing.T) {
	m := NewManager(&config.Config{}, filepath.Join(t.TempDir(), "session.dat"))
	defer m.Close()

	_, err := m.Conn(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestConnBadAPIID(t *testing.T) {
	cfg := &config.Config{}
	cfg.User.APIID = "not-a-number"
	cfg.User.APIHash = "abc123"
	cfg.User.Phone = "+15551234567"
	m := NewManager(cfg, filepath.Join(t.TempDir(), "session.dat"))
	defer m.Close()

	_, err := m.Conn(context.Background())
	if err == nil {
		t.Fatal("expected error for non-numeric api_id")
	}
	if !strings.Contains(err.Error(), "api_id") {
		t.Errorf("err = %v, want mention of api_id", err)
	}
}

func TestCloseBeforeConn(t *testing.T) {
	m := NewManager(&config.Config{}, filepath.Join(t.TempDir(), "session.dat"))
	if err := m.Close(); err != nil {
		t.Fatalf("Close on unused manager: %v", err)
	}
}
