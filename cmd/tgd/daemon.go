package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tgd/internal/cli"
	"tgd/internal/config"
	"tgd/internal/daemon"
	"tgd/internal/logging"
	"tgd/internal/telegram"
)

func daemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the tgd daemon",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			err = cli.DaemonStart(cfg)
			if errors.Is(err, daemon.ErrAlreadyRunning) {
				// A live daemon is the desired end state, not a failure.
				fmt.Println(err.Error())
				return nil
			}
			if err != nil {
				return err
			}
			if !flagQuiet {
				fmt.Println("✓ Daemon started")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon gracefully",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cli.DaemonStop()
			if errors.Is(err, daemon.ErrNotRunning) {
				fmt.Println("Daemon is not running")
				return nil
			}
			if errors.Is(err, cli.ErrStopTimeout) {
				// The signal went out; the daemon just needs more time.
				fmt.Println(err.Error())
				return nil
			}
			if err != nil {
				return err
			}
			if !flagQuiet {
				fmt.Println("✓ Daemon stopped")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			result, err := cli.DaemonStatus(cfg)
			if err != nil {
				return err
			}

			if flagJSON {
				printJSON(result)
			} else {
				fmt.Print(cli.FormatDaemonStatus(result))
			}

			// Exit code 1 when daemon is not running (like systemctl status)
			if !result.Running {
				os.Exit(1)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restart",
		Short: "Restart the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cli.DaemonRestart(cfg); err != nil {
				return err
			}
			if !flagQuiet {
				fmt.Println("✓ Daemon restarted")
			}
			return nil
		},
	})

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, _ := cmd.Flags().GetInt("lines")
			follow, _ := cmd.Flags().GetBool("follow")
			return cli.DaemonLogs(os.Stdout, lines, follow)
		},
	}
	logsCmd.Flags().IntP("lines", "n", 50, "Number of trailing lines to show")
	logsCmd.Flags().BoolP("follow", "f", false, "Keep printing appended log output")
	cmd.AddCommand(logsCmd)

	cmd.AddCommand(daemonRunCmd())

	return cmd
}

func daemonRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "run",
		Short:  "Run the daemon in the foreground (internal use)",
		Hidden: true, // Hidden from help - used internally by daemon start
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
}

func runDaemon() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	logger, closer, err := logging.NewDaemon(logPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	sessionPath, err := config.SessionPath()
	if err != nil {
		return err
	}
	pidPath, err := config.PIDPath()
	if err != nil {
		return err
	}

	manager := telegram.NewManager(cfg, sessionPath)
	server := daemon.NewServer(manager, logger)
	lc := daemon.NewLifecycle(server, manager, pidPath, cfg.Daemon.Host, cfg.Daemon.Port, logger)

	if err := lc.Run(context.Background()); err != nil {
		logger.Error("daemon exited", "error", err)
		return err
	}
	return nil
}
