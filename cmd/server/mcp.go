package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-tracker/internal/config"
	"github.com/KirkDiggler/rpg-tracker/internal/tools"
)

// version is set at build time
var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the character actions as MCP tools over stdio",
	Long: `Serve every character action as an MCP tool on stdin/stdout. Each tool
checks its input first and records it only when the check passes.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout carries the protocol
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, book, closeService, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeService()

	adapter, err := tools.New(&tools.Config{Service: svc, Rules: book})
	if err != nil {
		return err
	}
	server, err := adapter.NewServer(ctx, &mcp.Implementation{Name: "rpg-tracker", Version: version})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "mcp server starting", "store", cfg.Store)
	return server.Run(ctx, &mcp.StdioTransport{})
}
