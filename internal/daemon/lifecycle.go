package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"tgd/internal/telegram"
)

// Lifecycle state conflicts. Informational, not failures.
var (
	ErrAlreadyRunning = errors.New("daemon already running")
	ErrNotRunning     = errors.New("daemon not running")
)

// connectionManager is the slice of telegram.Manager the lifecycle
// needs; an interface so tests can run the loop without MTProto.
type connectionManager interface {
	Conn(ctx context.Context) (telegram.Backend, error)
	Close() error
}

// Lifecycle manages the daemon run loop: singleton check, backend
// authorization, PID record, HTTP serving and signal-driven shutdown.
type Lifecycle struct {
	server  *Server
	manager connectionManager
	pidFile string
	host    string
	port    int
	logger  *slog.Logger

	httpSrv      *http.Server
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

func NewLifecycle(server *Server, manager connectionManager, pidFile, host string, port int, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		server:     server,
		manager:    manager,
		pidFile:    pidFile,
		host:       host,
		port:       port,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Run starts the daemon and blocks until shutdown. A failed start
// never leaves a PID record behind: the record is written only after
// the backend is connected and authorized.
func (l *Lifecycle) Run(ctx context.Context) error {
	// 1. Singleton check. A stale record is overwritten silently.
	running, info, err := CheckPIDFile(l.pidFile)
	if err != nil {
		l.logger.Warn("could not read existing PID file, overwriting", "error", err)
	} else if running {
		return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, info.PID)
	}

	// 2. Connect and authorize before claiming to be alive.
	conn, err := l.manager.Conn(ctx)
	if err != nil {
		return fmt.Errorf("startup aborted: %w", err)
	}
	me, err := conn.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("startup aborted: %w", err)
	}
	l.logger.Info("authorized", "user_id", me.ID, "username", me.Username)

	// 3. Bind before writing the record so a port clash fails cleanly.
	addr := net.JoinHostPort(l.host, fmt.Sprintf("%d", l.port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	// 4. Now the daemon is observably live; record it.
	if err := WritePIDFile(l.pidFile, PIDInfo{
		PID:       os.Getpid(),
		Host:      l.host,
		Port:      l.port,
		StartedAt: time.Now().UTC(),
	}); err != nil {
		listener.Close()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	// Safety net: clean up on ANY exit path, including panics.
	var shutdownComplete atomic.Bool
	defer func() {
		if !shutdownComplete.Load() {
			_ = l.manager.Close()
			_ = RemovePIDFile(l.pidFile)
		}
	}()

	l.httpSrv = &http.Server{
		Handler:           l.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := l.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	l.logger.Info("daemon listening", "addr", addr, "pid", os.Getpid())

	go l.handleSignals()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-l.shutdownCh:
	}

	shutdownComplete.Store(true)
	return l.shutdown()
}

// handleSignals listens for SIGTERM/SIGINT and triggers shutdown.
func (l *Lifecycle) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	l.logger.Info("received signal, shutting down", "signal", sig.String())

	l.Shutdown()
}

// Shutdown triggers a graceful shutdown (can be called programmatically).
func (l *Lifecycle) Shutdown() {
	l.shutdownOnce.Do(func() {
		close(l.shutdownCh)
	})
}

// shutdown runs the teardown steps. Each is best-effort: a failure is
// logged and the remaining steps still run.
func (l *Lifecycle) shutdown() error {
	if l.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.httpSrv.Shutdown(ctx); err != nil {
			l.logger.Warn("error stopping HTTP server", "error", err)
		}
	}

	if err := l.manager.Close(); err != nil {
		l.logger.Warn("error disconnecting backend", "error", err)
	}

	if err := RemovePIDFile(l.pidFile); err != nil {
		l.logger.Warn("error removing PID file", "error", err)
		return err
	}

	l.logger.Info("shutdown complete")
	return nil
}
