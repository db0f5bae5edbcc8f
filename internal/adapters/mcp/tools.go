package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
	"github.com/awcjack/joplin-expenses-sub001/internal/structure"
)

// RegisterTools adds all expense structure tools to the MCP server.
func RegisterTools(s *server.MCPServer, svc *structure.Service) {
	s.AddTool(ensureStructureTool(), ensureStructureHandler(svc))
	s.AddTool(validateStructureTool(), validateStructureHandler(svc))
	s.AddTool(addExpenseTool(), addExpenseHandler(svc))
	s.AddTool(treeTool(), treeHandler(svc))
	s.AddTool(cacheStatusTool(), cacheStatusHandler(svc))
	s.AddTool(invalidateCacheTool(), invalidateCacheHandler(svc))
}

// --- ensure_structure ---

func ensureStructureTool() mcp.Tool {
	return mcp.NewTool("ensure_structure",
		mcp.WithDescription("Create the folder and note hierarchy for a year: year folder, twelve month notes, annual summary, and utility notes. Idempotent."),
		mcp.WithString("year",
			mcp.Description("Four-digit year, e.g. 2025"),
			mcp.Required(),
		),
	)
}

func ensureStructureHandler(svc *structure.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		year := req.GetString("year", "")

		cmd := commands.NewEnsureStructureCommand(svc, year)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- validate_structure ---

func validateStructureTool() mcp.Tool {
	return mcp.NewTool("validate_structure",
		mcp.WithDescription("Read-only integrity check of the expense hierarchy for the current year. Does not create anything."),
	)
}

func validateStructureHandler(svc *structure.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewValidateStructureCommand(svc)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_expense ---

func addExpenseTool() mcp.Tool {
	return mcp.NewTool("add_expense",
		mcp.WithDescription("Append an expense row to the month note matching the entry date, creating the year structure first if needed."),
		mcp.WithString("price",
			mcp.Description("Amount spent, decimal string (e.g. 12.50)"),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("What the expense was for"),
			mcp.Required(),
		),
		mcp.WithString("category",
			mcp.Description("Expense category (e.g. food, transport)"),
		),
		mcp.WithString("date",
			mcp.Description("Date in YYYY-MM-DD format. Defaults to today."),
		),
		mcp.WithString("shop",
			mcp.Description("Where the expense happened"),
		),
	)
}

func addExpenseHandler(svc *structure.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddExpenseCommand(svc,
			req.GetString("price", ""),
			req.GetString("description", ""),
			req.GetString("category", ""),
			req.GetString("date", ""),
			req.GetString("shop", ""),
		)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Render the expense folder hierarchy as an indented tree."),
	)
}

func treeHandler(svc *structure.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewTreeCommand(svc, svc.RootFolderTitle())
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- cache_status ---

func cacheStatusTool() mcp.Tool {
	return mcp.NewTool("cache_status",
		mcp.WithDescription("Report cache entry counts and the in-flight lock table size."),
	)
}

func cacheStatusHandler(svc *structure.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewStatusCommand(svc)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- invalidate_cache ---

func invalidateCacheTool() mcp.Tool {
	return mcp.NewTool("invalidate_cache",
		mcp.WithDescription("Drop every cached folder and note id. The next operation re-reads the remote store."),
	)
}

func invalidateCacheHandler(svc *structure.Service) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		svc.InvalidateCaches()
		return mcp.NewToolResultText("Caches invalidated"), nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
