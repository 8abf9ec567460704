package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	goruntime "runtime"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tgd/internal/cli"
	"tgd/internal/config"
	"tgd/internal/daemon"
)

var (
	// Build info (set via ldflags).
	Version = "dev"
	Build   = "unknown"
)

var (
	// Global flags.
	flagJSON  bool
	flagQuiet bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tgd",
		Short: "Telegram daemon and CLI",
		Long: `tgd keeps a single authorized Telegram session alive in a local
daemon and exposes it to the CLI and MCP clients over a loopback
HTTP control channel, so the session file only ever has one writer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "JSON output for scripting")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Suppress non-essential output")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("tgd v{{.Version}} (build: " + Build + ", " + goruntime.Version() + ")\n")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(fileCmd())
	rootCmd.AddCommand(voiceCmd())
	rootCmd.AddCommand(messagesCmd())
	rootCmd.AddCommand(dialogsCmd())
	rootCmd.AddCommand(downloadCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())

	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(botCmd())
	rootCmd.AddCommand(mcpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

// loadConfig reads the config file, creating the config directory on
// first use.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// getClient builds a control-channel client from the configured
// daemon address.
func getClient() (*daemon.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return daemon.NewClient(cfg.Daemon.URL()), nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) {
	output, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(output))
}

// isInteractive returns true if stdin is a terminal (not piped/redirected).
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in the user account (not yet supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			sessionPath, err := config.SessionPath()
			if err != nil {
				return err
			}
			if !isInteractive() || flagQuiet {
				return errors.New("login is not supported")
			}
			fmt.Fprintf(os.Stderr, `Interactive sign-in is not built into tgd yet.

tgd needs two things before the daemon can start:
  1. api_id, api_hash and phone in %s
  2. an authorized session file at %s

Create the session with a one-off sign-in script using the same
MTProto library and place it at the path above; tgd reuses it from
then on and never writes credentials itself.
`, path, sessionPath)
			return errors.New("login is not supported")
		},
	}
}
