package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/wayfinder/pkg/command"
	"tableflip.dev/wayfinder/pkg/host"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerEventTool(srv, svc, "open_document", host.DocumentOpened, "Announce that a document was opened.")
	registerEventTool(srv, svc, "focus_document", host.DocumentFocused, "Focus a document, registering it on first focus.")
	registerCloseTool(srv, svc)
	registerToggleTool(srv, svc)
	registerAddSignTool(srv, svc)
	registerUpdateSignsTool(srv, svc)
	registerStateTool(srv, svc)
}

func registerEventTool(srv *server.MCPServer, svc *Service, name string, kind host.Kind, desc string) {
	tool := mcp.NewTool(
		name,
		mcp.WithDescription(desc),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Document name, for example Tower.rvt."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Event(ctx, kind, doc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCloseTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"close_document",
		mcp.WithDescription("Close a document. Its enabled setting is saved first."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Document name to close."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Close(ctx, doc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerToggleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle",
		mcp.WithDescription("Press a toggle button for the focused document."),
		mcp.WithString("flag",
			mcp.Description("Which flag to flip."),
			mcp.Enum("active", "debug"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Flag string `json:"flag"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		cmd, err := ParseToggle(args.Flag)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Press(ctx, cmd)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAddSignTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_sign",
		mcp.WithDescription("Add a sign to the focused document."),
		mcp.WithString("room",
			mcp.Required(),
			mcp.Description("Room the sign belongs to."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		room, err := request.RequireString("room")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sign, err := svc.AddSign(ctx, room)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(sign)
	})
}

func registerUpdateSignsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_signs",
		mcp.WithDescription("Press Update Info for the focused document's signs."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Press(ctx, command.NameUpdateSignInfo)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerStateTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_state",
		mcp.WithDescription("Return the focused document, open documents, buttons and signs."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.State(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
