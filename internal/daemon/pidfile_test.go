package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteReadPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgd.pid")

	want := PIDInfo{
		PID:       os.Getpid(),
		Host:      "127.0.0.1",
		Port:      19876,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := WritePIDFile(path, want); err != nil {
		t.Fatalf("WritePIDFile: %v", err)
	}

	got, err := ReadPIDFile(path)
	if err != nil {
		t.Fatalf("ReadPIDFile: %v", err)
	}
	if got.PID != want.PID || got.Host != want.Host || got.Port != want.Port {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
}

func TestWritePIDFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tgd.pid")

	if err := WritePIDFile(path, PIDInfo{PID: 1234}); err != nil {
		t.Fatalf("WritePIDFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PID file not created: %v", err)
	}
}

func TestReadPIDFileMissing(t *testing.T) {
	_, err := ReadPIDFile(filepath.Join(t.TempDir(), "absent.pid"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want os.IsNotExist", err)
	}
}

func TestReadPIDFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgd.pid")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPIDFile(path); err == nil {
		t.Fatal("expected error for non-JSON PID file")
	}
}

func TestCheckPIDFileMissing(t *testing.T) {
	running, info, err := CheckPIDFile(filepath.Join(t.TempDir(), "absent.pid"))
	if err != nil {
		t.Fatalf("CheckPIDFile: %v", err)
	}
	if running {
		t.Error("running = true for missing file")
	}
	if info.PID != 0 {
		t.Errorf("PID = %d, want 0", info.PID)
	}
}

func TestCheckPIDFileCurrentProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgd.pid")
	if err := WritePIDFile(path, PIDInfo{PID: os.Getpid()}); err != nil {
		t.Fatal(err)
	}

	running, info, err := CheckPIDFile(path)
	if err != nil {
		t.Fatalf("CheckPIDFile: %v", err)
	}
	if !running {
		t.Error("running = false for current process")
	}
	if info.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", info.PID, os.Getpid())
	}
}

func TestCheckPIDFileStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgd.pid")
	// PID far beyond any default pid_max
	if err := WritePIDFile(path, PIDInfo{PID: 99999999}); err != nil {
		t.Fatal(err)
	}

	running, info, err := CheckPIDFile(path)
	if err != nil {
		t.Fatalf("CheckPIDFile: %v", err)
	}
	if running {
		t.Error("running = true for stale PID")
	}
	if info.PID != 99999999 {
		t.Errorf("PID = %d, want record preserved", info.PID)
	}
}

func TestRemovePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgd.pid")
	if err := WritePIDFile(path, PIDInfo{PID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := RemovePIDFile(path); err != nil {
		t.Fatalf("RemovePIDFile: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("PID file still exists after removal")
	}
	// Removing again is not an error
	if err := RemovePIDFile(path); err != nil {
		t.Fatalf("RemovePIDFile on missing file: %v", err)
	}
}
