package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	tgdmcp "tgd/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server integration",
	}

	cmd.AddCommand(mcpServeCmd())
	return cmd
}

func mcpServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP stdio server for Telegram messaging",
		Long: `Starts an MCP server on stdin/stdout exposing the user_* and bot_*
messaging tools.

The user_* tools require the tgd daemon to be running; bot_* tools
only need a bot token in the config file.

Configure in Claude Code's .claude/settings.json:
  {
    "mcpServers": {
      "tgd": {
        "type": "stdio",
        "command": "tgd",
        "args": ["mcp", "serve"]
      }
    }
  }`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPServe()
		},
	}
}

func runMCPServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	server := tgdmcp.NewServer(cfg, tgdmcp.WithVersion(Version))

	// Set up context with signal handling for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Run MCP server (blocks on stdio until client disconnects)
	return server.Run(ctx)
}
