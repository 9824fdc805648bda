// Package main is the entry point for the rpg-tracker server, MCP tools and
// client commands
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-tracker/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-tracker",
	Short: "D&D 5e character tracker",
	Long: `rpg-tracker derives character state from an append-only ledger and
validates every change before recording it. It serves gRPC, MCP tools over
stdio, and client commands for both.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
