package main

import (
	"context"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/awcjack/joplin-expenses-sub001/internal/adapters/joplin"
	mcpadapter "github.com/awcjack/joplin-expenses-sub001/internal/adapters/mcp"
	"github.com/awcjack/joplin-expenses-sub001/internal/config"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("expenses-mcp: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("expenses-mcp: %v", err)
	}
	// Stdout carries the MCP protocol, so logs go to stderr.
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	client := joplin.NewClient(joplin.Options{
		BaseURL:    cfg.Joplin.BaseURL,
		Token:      cfg.Joplin.Token,
		PageLimit:  cfg.Joplin.PageLimit,
		MaxRetries: cfg.Joplin.MaxRetries,
		Logger:     logger,
	})
	svc := structure.NewService(client, structure.Options{
		RootFolderTitle: cfg.Structure.RootFolderTitle,
		CacheTTL:        cfg.Structure.CacheTTL,
		JanitorInterval: cfg.Structure.JanitorInterval,
		Logger:          logger,
	})
	defer svc.Close()

	mcpServer := server.NewMCPServer(
		"expenses-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterTools(mcpServer, svc)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("expenses-mcp: %v", err)
	}
}
