package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tgd/internal/config"
	"tgd/internal/daemon"
	"tgd/internal/telegram"
)

func TestDaemonStopNoRecord(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())

	err := DaemonStop()
	if !errors.Is(err, daemon.ErrNotRunning) {
		t.Fatalf("err = %v, want ErrNotRunning", err)
	}
}

func TestDaemonStopStaleRecord(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	pidPath := filepath.Join(dir, "tgd.pid")
	if err := daemon.WritePIDFile(pidPath, daemon.PIDInfo{PID: 99999999}); err != nil {
		t.Fatal(err)
	}

	err := DaemonStop()
	if !errors.Is(err, daemon.ErrNotRunning) {
		t.Fatalf("stale record must read as not running, got %v", err)
	}
}

func TestWaitForExitTimeout(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "tgd.pid")
	// Our own PID survives the whole wait, so the window must run out.
	if err := daemon.WritePIDFile(pidPath, daemon.PIDInfo{PID: os.Getpid()}); err != nil {
		t.Fatal(err)
	}

	err := waitForExit(pidPath, os.Getpid(), 300*time.Millisecond)
	if !errors.Is(err, ErrStopTimeout) {
		t.Fatalf("err = %v, want ErrStopTimeout", err)
	}
}

func TestWaitForExitRecordRemoved(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "tgd.pid")
	if err := daemon.WritePIDFile(pidPath, daemon.PIDInfo{PID: os.Getpid()}); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = daemon.RemovePIDFile(pidPath)
	}()

	if err := waitForExit(pidPath, os.Getpid(), 5*time.Second); err != nil {
		t.Fatalf("waitForExit after record removal: %v", err)
	}
}

func TestDaemonStartUnconfigured(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())

	cfg := &config.Config{}
	err := DaemonStart(cfg)
	if !errors.Is(err, telegram.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestDaemonStatusNotRunning(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	result, err := DaemonStatus(cfg)
	if err != nil {
		t.Fatalf("DaemonStatus: %v", err)
	}
	if result.Running || result.Status != StatusNotRunning {
		t.Errorf("result = %+v, want not running", result)
	}
}

func TestDaemonStatusStaleRecord(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	pidPath := filepath.Join(dir, "tgd.pid")
	if err := daemon.WritePIDFile(pidPath, daemon.PIDInfo{PID: 99999999}); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	result, err := DaemonStatus(cfg)
	if err != nil {
		t.Fatalf("DaemonStatus: %v", err)
	}
	if result.Running || result.Status != StatusStale {
		t.Errorf("result = %+v, want stale record", result)
	}
	if result.PID != 99999999 {
		t.Errorf("PID = %d, want record preserved", result.PID)
	}
}
