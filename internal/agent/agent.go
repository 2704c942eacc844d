// Package agent exposes the Congress data services as named tools.
//
// Each tool follows the same shape:
//   - a struct holding the service it reads from, injected via constructor
//   - Definition() returns the MCP tool schema
//   - Run() executes the call and renders a plain-text answer
//
// The Registry is shared by the built-in Planner, which answers assistant
// prompts, and by the MCP stdio server, which serves the same tools to an
// external model.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/observability"
	"github.com/tbourn/go-congress-backend/internal/services"
)

// ErrMissingArgument is returned when a required tool argument is absent.
var ErrMissingArgument = errors.New("missing required argument")

// MemberFinder is the member surface the tools read from.
type MemberFinder interface {
	Search(ctx context.Context, q services.MemberQuery) (services.Page[services.MemberSummary], error)
	Get(ctx context.Context, id string) (*domain.Member, error)
	Bills(ctx context.Context, id, kind string, page, pageSize int) (services.Page[domain.Bill], error)
	Votes(ctx context.Context, id string, page, pageSize int) (services.Page[domain.MemberVoteRecord], error)
}

// BillFinder is the bill surface the tools read from.
type BillFinder interface {
	Search(ctx context.Context, q services.BillQuery) (services.Page[domain.Bill], error)
	Get(ctx context.Context, id string) (*domain.Bill, error)
}

var (
	_ MemberFinder = (*services.MemberService)(nil)
	_ BillFinder   = (*services.BillService)(nil)
)

// Args are the decoded JSON arguments of a tool call.
type Args map[string]any

// String returns the trimmed string argument key, or def.
func (a Args) String(key, def string) string {
	v, ok := a[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// Int returns the integer argument key, or def. JSON numbers decode as
// float64; numeric strings are accepted too.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n
		}
	}
	return def
}

// Output is the result of a tool run. Refs lists the ids of the entities
// in the answer, in display order, so a caller can chain tools.
type Output struct {
	Text string
	Refs []string
}

// Tool is one named data tool.
type Tool interface {
	Definition() mcp.Tool
	Run(ctx context.Context, args Args) (Output, error)
}

// Registry holds the tools by name.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry registers the six Congress data tools.
func NewRegistry(members MemberFinder, bills BillFinder) *Registry {
	r := &Registry{tools: map[string]Tool{}}
	r.Register(NewSearchMembersTool(members))
	r.Register(NewMemberDetailsTool(members))
	r.Register(NewMemberBillsTool(members))
	r.Register(NewMemberVotesTool(members))
	r.Register(NewSearchBillsTool(bills))
	r.Register(NewGetBillTool(bills))
	return r
}

// Register adds t, replacing any tool of the same name.
func (r *Registry) Register(t Tool) {
	if r.tools == nil {
		r.tools = map[string]Tool{}
	}
	r.tools[t.Definition().Name] = t
}

// Tools returns the registered tools ordered by name.
func (r *Registry) Tools() []Tool {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Tool, 0, len(names))
	for _, n := range names {
		out = append(out, r.tools[n])
	}
	return out
}

// Call runs the named tool and records the outcome.
func (r *Registry) Call(ctx context.Context, name string, args Args) (Output, error) {
	t, ok := r.tools[name]
	if !ok {
		observability.AssistantToolCalls.WithLabelValues("unknown", "unknown").Inc()
		return Output{}, fmt.Errorf("%w: %s", services.ErrUnknownTool, name)
	}
	if args == nil {
		args = Args{}
	}
	out, err := t.Run(ctx, args)
	switch {
	case err != nil:
		observability.AssistantToolCalls.WithLabelValues(name, "error").Inc()
	case len(out.Refs) == 0:
		observability.AssistantToolCalls.WithLabelValues(name, "empty").Inc()
	default:
		observability.AssistantToolCalls.WithLabelValues(name, "ok").Inc()
	}
	return out, err
}

func limitArg(a Args) int {
	n := a.Int("limit", 10)
	if n < 1 {
		return 1
	}
	if n > 20 {
		return 20
	}
	return n
}

func required(a Args, key string) (string, error) {
	v := a.String(key, "")
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	return v, nil
}
