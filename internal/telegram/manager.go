package telegram

import (
	"context"
	"fmt"
	"sync"

	"tgd/internal/config"
)

// Manager owns the single MTProto client for the process. The first
// Conn call builds and connects the client; later calls reuse it. All
// callers go through Conn so the session file has exactly one writer.
type Manager struct {
	cfg         *config.Config
	sessionPath string

	mu     sync.Mutex
	client *Client
}

func NewManager(cfg *config.Config, sessionPath string) *Manager {
	return &Manager{cfg: cfg, sessionPath: sessionPath}
}

// Conn returns the shared backend, connecting lazily. It fails with
// ErrNotConfigured when user credentials are absent and ErrNotAuthorized
// when the session file holds no signed-in account.
func (m *Manager) Conn(ctx context.Context) (Backend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.User.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if m.client == nil {
		client, err := NewClient(m.cfg, m.sessionPath)
		if err != nil {
			return nil, err
		}
		m.client = client
	}
	if err := m.client.connect(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	ok, err := m.client.authorized()
	if err != nil {
		return nil, fmt.Errorf("authorization check: %w", err)
	}
	if !ok {
		return nil, ErrNotAuthorized
	}
	return m.client, nil
}

// Close disconnects the client if one was ever created.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	return m.client.Close()
}
