package agent

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-congress-backend/internal/services"
)

// NewMCPServer serves every registry tool over MCP.
func NewMCPServer(r *Registry, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"congress",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)
	for _, t := range r.Tools() {
		def := t.Definition()
		s.AddTool(def, handler(r, def.Name))
	}
	return s
}

// ServeStdio blocks serving s on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func handler(r *Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := r.Call(ctx, name, Args(req.GetArguments()))
		if err != nil {
			if !isCallerError(err) {
				log.Error().Err(err).Str("tool", name).Msg("mcp tool failed")
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out.Text), nil
	}
}

// isCallerError reports errors caused by the arguments rather than the
// backend.
func isCallerError(err error) bool {
	for _, target := range []error{
		ErrMissingArgument,
		services.ErrMemberNotFound,
		services.ErrBillNotFound,
		services.ErrInvalidMemberID,
		services.ErrInvalidBillID,
		services.ErrInvalidLegislationKind,
		services.ErrUnknownTool,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

const serverInstructions = `Tools for the members, bills and roll-call votes of the U.S. Congress.

Members are identified by bioguide id (e.g. L000577) and bills by type,
number and congress (e.g. hr1-119). Use search_members or search_bills to
find ids, then the get_* tools for details.`
