package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"tgd/internal/config"
	"tgd/internal/daemon"
	"tgd/internal/telegram"
)

// Daemon status strings reported by DaemonStatus.
const (
	StatusNotRunning = "not running"
	StatusStale      = "stale record"
	StatusUnhealthy  = "running (unhealthy)"
	StatusHealthy    = "running"
)

// ErrStopTimeout is returned by DaemonStop when the daemon is still
// shutting down after the wait window. The signal was delivered; the
// shutdown just has not finished yet.
var ErrStopTimeout = errors.New("still shutting down")

// DaemonStatusResult contains daemon status information.
type DaemonStatusResult struct {
	Running bool              `json:"running"`
	Status  string            `json:"status"`
	PID     int               `json:"pid,omitempty"`
	Addr    string            `json:"addr,omitempty"`
	Uptime  string            `json:"uptime,omitempty"`
	User    *telegram.Profile `json:"user,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// DaemonStart spawns the daemon in the background and waits until its
// health endpoint answers.
func DaemonStart(cfg *config.Config) error {
	pidPath, err := config.PIDPath()
	if err != nil {
		return err
	}

	running, info, err := daemon.CheckPIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("%w (PID %d)", daemon.ErrAlreadyRunning, info.PID)
	}

	if !cfg.User.IsConfigured() {
		return telegram.ErrNotConfigured
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, "daemon", "run") //nolint:gosec // executable from os.Executable()

	// Detach from current process - daemon runs independently
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // Create new session (detach from terminal)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon process: %w", err)
	}

	// Release the child process so it gets adopted by init/launchd.
	// Do NOT call cmd.Wait() — the parent is about to exit and a goroutine
	// calling Wait() will be killed mid-syscall, leaving the child in an
	// uninterruptible state on macOS that can't be force-killed.
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release daemon process: %w", err)
	}

	// Wait for the health endpoint to answer (indicates daemon is ready)
	client := daemon.NewClient(cfg.Daemon.URL())
	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return fmt.Errorf("timeout waiting for daemon to start; check 'tgd daemon logs'")
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_, err := client.Health(ctx)
			cancel()
			if err == nil {
				return nil
			}
			// An APIError means the daemon is up but unhealthy (for
			// example the session expired); that still counts as started.
			if _, ok := err.(*daemon.APIError); ok {
				return nil
			}
		}
	}
}

// DaemonStop stops the daemon gracefully. A shutdown that outlives the
// wait window is reported but not treated as fatal.
func DaemonStop() error {
	pidPath, err := config.PIDPath()
	if err != nil {
		return err
	}

	running, info, err := daemon.CheckPIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		return daemon.ErrNotRunning
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", info.PID, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM to process %d: %w", info.PID, err)
	}

	return waitForExit(pidPath, info.PID, 10*time.Second)
}

// waitForExit polls the PID record until the daemon is gone or the wait
// window runs out, in which case ErrStopTimeout is returned.
func waitForExit(pidPath string, pid int, wait time.Duration) error {
	timeout := time.After(wait)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return fmt.Errorf("daemon (PID %d) %w after %s", pid, ErrStopTimeout, wait)
		case <-ticker.C:
			running, _, _ := daemon.CheckPIDFile(pidPath)
			if !running {
				return nil
			}
		}
	}
}

// DaemonStatus derives one of four states from the PID record plus a
// live health probe.
func DaemonStatus(cfg *config.Config) (*DaemonStatusResult, error) {
	pidPath, err := config.PIDPath()
	if err != nil {
		return nil, err
	}

	running, info, err := daemon.CheckPIDFile(pidPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		status := StatusNotRunning
		if info.PID != 0 {
			status = StatusStale
		}
		return &DaemonStatusResult{Running: false, Status: status, PID: info.PID}, nil
	}

	result := &DaemonStatusResult{
		Running: true,
		PID:     info.PID,
		Addr:    fmt.Sprintf("%s:%d", info.Host, info.Port),
	}
	if !info.StartedAt.IsZero() {
		result.Uptime = formatDuration(time.Since(info.StartedAt))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	user, err := daemon.NewClient(cfg.Daemon.URL()).Health(ctx)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		return result, nil
	}
	result.Status = StatusHealthy
	result.User = &user
	return result, nil
}

// DaemonRestart restarts the daemon (stop + start).
func DaemonRestart(cfg *config.Config) error {
	// Ignore "not running"; restart doubles as a plain start then.
	_ = DaemonStop()

	// Wait a bit for cleanup
	time.Sleep(500 * time.Millisecond)

	return DaemonStart(cfg)
}

// FormatDaemonStatus formats the daemon status for display.
func FormatDaemonStatus(result *DaemonStatusResult) string {
	switch result.Status {
	case StatusNotRunning:
		return "Daemon:   not running\n"
	case StatusStale:
		return fmt.Sprintf("Daemon:   not running (stale record, PID %d)\n", result.PID)
	}

	status := fmt.Sprintf("Daemon:   %s (PID %d)\n", result.Status, result.PID)
	if result.Addr != "" {
		status += fmt.Sprintf("Address:  %s\n", result.Addr)
	}
	if result.Uptime != "" {
		status += fmt.Sprintf("Uptime:   %s\n", result.Uptime)
	}
	if result.User != nil {
		status += fmt.Sprintf("Account:  %s (id %d)\n", displayUser(*result.User), result.User.ID)
	}
	if result.Error != "" {
		status += fmt.Sprintf("Problem:  %s\n", result.Error)
	}
	return status
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return d.String()
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
