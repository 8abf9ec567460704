package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tgd/internal/telegram"
)

type stubManager struct {
	stubSource
	closed bool
}

func (m *stubManager) Close() error {
	m.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLifecycle(t *testing.T, manager *stubManager, pidFile string) *Lifecycle {
	t.Helper()
	logger := discardLogger()
	server := NewServer(&manager.stubSource, logger)
	// Port 0 lets the kernel pick a free port for the test run.
	return NewLifecycle(server, manager, pidFile, "127.0.0.1", 0, logger)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRunFailsWithoutAuthorizationLeavesNoRecord(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "tgd.pid")
	manager := &stubManager{stubSource: stubSource{err: telegram.ErrNotAuthorized}}

	err := newTestLifecycle(t, manager, pidFile).Run(context.Background())
	if !errors.Is(err, telegram.ErrNotAuthorized) {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if _, statErr := os.Stat(pidFile); !os.IsNotExist(statErr) {
		t.Error("failed start must not leave a PID record")
	}
}

func TestRunRefusesWhenAlreadyRunning(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "tgd.pid")
	if err := WritePIDFile(pidFile, PIDInfo{PID: os.Getpid()}); err != nil {
		t.Fatal(err)
	}
	manager := &stubManager{stubSource: stubSource{backend: &stubBackend{}}}

	err := newTestLifecycle(t, manager, pidFile).Run(context.Background())
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v, want ErrAlreadyRunning", err)
	}
}

func TestRunWritesRecordAndCleansUpOnShutdown(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "tgd.pid")
	manager := &stubManager{stubSource: stubSource{backend: &stubBackend{}}}
	lc := newTestLifecycle(t, manager, pidFile)

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	waitFor(t, "PID record", func() bool {
		_, err := os.Stat(pidFile)
		return err == nil
	})

	info, err := ReadPIDFile(pidFile)
	if err != nil {
		t.Fatalf("ReadPIDFile: %v", err)
	}
	if info.PID != os.Getpid() {
		t.Errorf("recorded PID = %d, want %d", info.PID, os.Getpid())
	}
	if info.StartedAt.IsZero() {
		t.Error("StartedAt not recorded")
	}

	lc.Shutdown()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after shutdown")
	}

	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Error("PID record not removed on graceful shutdown")
	}
	if !manager.closed {
		t.Error("backend not disconnected on shutdown")
	}
}

func TestRunOverwritesStaleRecord(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "tgd.pid")
	if err := WritePIDFile(pidFile, PIDInfo{PID: 99999999}); err != nil {
		t.Fatal(err)
	}
	manager := &stubManager{stubSource: stubSource{backend: &stubBackend{}}}
	lc := newTestLifecycle(t, manager, pidFile)

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	waitFor(t, "record overwrite", func() bool {
		info, err := ReadPIDFile(pidFile)
		return err == nil && info.PID == os.Getpid()
	})

	lc.Shutdown()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}
