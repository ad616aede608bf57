package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
	"github.com/custodia-labs/docchat/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools: ask, list_documents, upload_document, remove_document,
check_connection. Resource: docchat://documents.

By default the server communicates over stdio using JSON-RPC. Use --http
to serve streamable HTTP instead, for example for the MCP Inspector.

Examples:
  # Stdio mode (default)
  docchat mcp

  # HTTP mode
  docchat mcp --http :8080

Client configuration:
  {
    "mcpServers": {
      "docchat": {
        "command": "/path/to/docchat",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("http", "", "serve HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	// stdout carries the protocol in stdio mode.
	session, err := openSession(console.Discard{})
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := session.Load(ctx); err != nil {
		return err
	}
	session.Probe(ctx)

	server, err := mcp.NewServer(&mcp.Ports{
		Session:   session,
		ServerURL: serverAddress(),
	})
	if err != nil {
		return err
	}

	if addr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
