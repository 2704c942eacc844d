package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tbourn/go-congress-backend/internal/services"
)

// SearchMembersTool handles search_members.
type SearchMembersTool struct {
	members MemberFinder
}

// NewSearchMembersTool creates a SearchMembersTool.
func NewSearchMembersTool(m MemberFinder) *SearchMembersTool {
	return &SearchMembersTool{members: m}
}

// Definition returns the MCP tool definition for search_members.
func (t *SearchMembersTool) Definition() mcp.Tool {
	return mcp.NewTool("search_members",
		mcp.WithDescription(
			"Search current members of Congress by name, state, party or chamber. "+
				"Names match word prefixes in either order, so \"Mic\" finds Michael.",
		),
		mcp.WithString("query", mcp.Description("Full or partial member name")),
		mcp.WithString("state", mcp.Description("Two-letter state code, e.g. UT")),
		mcp.WithString("party", mcp.Description("Party code: D, R or I")),
		mcp.WithString("chamber", mcp.Description("house or senate"), mcp.Enum("house", "senate")),
		mcp.WithNumber("limit", mcp.Description("Max results (default: 10, max: 20)")),
	)
}

// Run executes search_members.
func (t *SearchMembersTool) Run(ctx context.Context, a Args) (Output, error) {
	q := services.MemberQuery{
		Name:     a.String("query", ""),
		State:    a.String("state", ""),
		Party:    a.String("party", ""),
		Chamber:  a.String("chamber", ""),
		PageSize: limitArg(a),
	}
	pg, err := t.members.Search(ctx, q)
	if err != nil {
		return Output{}, err
	}
	if len(pg.Results) == 0 {
		return Output{Text: "No members found matching your query."}, nil
	}

	out := Output{Refs: make([]string, 0, len(pg.Results))}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s:\n", pg.Total, plural(pg.Total, "member", "members"))
	for _, m := range pg.Results {
		fmt.Fprintf(&b, "- %s\n", memberLine(m))
		out.Refs = append(out.Refs, m.BioguideID)
	}
	if int64(len(pg.Results)) < pg.Total {
		fmt.Fprintf(&b, "(showing the first %d)\n", len(pg.Results))
	}
	out.Text = strings.TrimRight(b.String(), "\n")
	return out, nil
}

// MemberDetailsTool handles get_member_details.
type MemberDetailsTool struct {
	members MemberFinder
}

// NewMemberDetailsTool creates a MemberDetailsTool.
func NewMemberDetailsTool(m MemberFinder) *MemberDetailsTool {
	return &MemberDetailsTool{members: m}
}

// Definition returns the MCP tool definition for get_member_details.
func (t *MemberDetailsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_member_details",
		mcp.WithDescription("Get a member's party, state, chamber, district, service terms and office contact details."),
		mcp.WithString("bioguide_id", mcp.Required(), mcp.Description("Bioguide id, e.g. L000577")),
	)
}

// Run executes get_member_details.
func (t *MemberDetailsTool) Run(ctx context.Context, a Args) (Output, error) {
	id, err := required(a, "bioguide_id")
	if err != nil {
		return Output{}, err
	}
	m, err := t.members.Get(ctx, id)
	if err != nil {
		return Output{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", m.Name, memberTag(m.Party, m.State, m.District))
	fmt.Fprintf(&b, "Chamber: %s\n", chamberName(m.Chamber))
	if n := len(m.Terms); n > 0 {
		first, last := m.Terms[0], m.Terms[n-1]
		fmt.Fprintf(&b, "Served: %d terms, %d to ", n, first.StartYear)
		if last.EndYear > 0 {
			fmt.Fprintf(&b, "%d\n", last.EndYear)
		} else {
			b.WriteString("present\n")
		}
	}
	if m.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", m.Phone)
	}
	if m.Address != "" {
		fmt.Fprintf(&b, "Office: %s\n", m.Address)
	}
	if m.OfficialURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", m.OfficialURL)
	}
	return Output{Text: strings.TrimRight(b.String(), "\n"), Refs: []string{m.BioguideID}}, nil
}

// MemberBillsTool handles get_member_bills.
type MemberBillsTool struct {
	members MemberFinder
}

// NewMemberBillsTool creates a MemberBillsTool.
func NewMemberBillsTool(m MemberFinder) *MemberBillsTool {
	return &MemberBillsTool{members: m}
}

// Definition returns the MCP tool definition for get_member_bills.
func (t *MemberBillsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_member_bills",
		mcp.WithDescription("List bills a member sponsored or cosponsored, newest first."),
		mcp.WithString("bioguide_id", mcp.Required(), mcp.Description("Bioguide id, e.g. L000577")),
		mcp.WithString("type",
			mcp.Description("sponsored (default) or cosponsored"),
			mcp.Enum(services.LegislationSponsored, services.LegislationCosponsored),
		),
		mcp.WithNumber("limit", mcp.Description("Max results (default: 10, max: 20)")),
	)
}

// Run executes get_member_bills.
func (t *MemberBillsTool) Run(ctx context.Context, a Args) (Output, error) {
	id, err := required(a, "bioguide_id")
	if err != nil {
		return Output{}, err
	}
	kind := a.String("type", services.LegislationSponsored)
	pg, err := t.members.Bills(ctx, id, kind, 1, limitArg(a))
	if err != nil {
		return Output{}, err
	}
	if len(pg.Results) == 0 {
		return Output{Text: fmt.Sprintf("No %s bills found for %s.", kind, strings.ToUpper(id))}, nil
	}

	out := Output{Refs: make([]string, 0, len(pg.Results))}
	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d %s %s:\n", strings.ToUpper(id), pg.Total, kind, plural(pg.Total, "measure", "measures"))
	for _, bill := range pg.Results {
		fmt.Fprintf(&b, "- %s\n", billLine(bill))
		out.Refs = append(out.Refs, bill.BillID)
	}
	out.Text = strings.TrimRight(b.String(), "\n")
	return out, nil
}

// MemberVotesTool handles get_member_votes.
type MemberVotesTool struct {
	members MemberFinder
}

// NewMemberVotesTool creates a MemberVotesTool.
func NewMemberVotesTool(m MemberFinder) *MemberVotesTool {
	return &MemberVotesTool{members: m}
}

// Definition returns the MCP tool definition for get_member_votes.
func (t *MemberVotesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_member_votes",
		mcp.WithDescription("Show a member's recent roll-call vote positions (Yea, Nay, Present, Not Voting)."),
		mcp.WithString("bioguide_id", mcp.Required(), mcp.Description("Bioguide id, e.g. L000577")),
		mcp.WithNumber("limit", mcp.Description("Max results (default: 10, max: 20)")),
	)
}

// Run executes get_member_votes.
func (t *MemberVotesTool) Run(ctx context.Context, a Args) (Output, error) {
	id, err := required(a, "bioguide_id")
	if err != nil {
		return Output{}, err
	}
	pg, err := t.members.Votes(ctx, id, 1, limitArg(a))
	if err != nil {
		return Output{}, err
	}
	if len(pg.Results) == 0 {
		return Output{Text: fmt.Sprintf("No recorded votes found for %s.", strings.ToUpper(id))}, nil
	}

	out := Output{Refs: make([]string, 0, len(pg.Results))}
	var b strings.Builder
	fmt.Fprintf(&b, "Recent votes of %s (%d recorded):\n", strings.ToUpper(id), pg.Total)
	for _, v := range pg.Results {
		fmt.Fprintf(&b, "- %s: %s", v.VoteID, v.Position)
		if v.Question != "" {
			fmt.Fprintf(&b, " on %q", clip(v.Question, 120))
		}
		if v.BillID != "" {
			fmt.Fprintf(&b, " [%s]", v.BillID)
		}
		if v.Result != "" {
			fmt.Fprintf(&b, ", %s", v.Result)
		}
		b.WriteByte('\n')
		out.Refs = append(out.Refs, v.VoteID)
	}
	out.Text = strings.TrimRight(b.String(), "\n")
	return out, nil
}
