package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tbourn/go-congress-backend/internal/services"
)

// SearchBillsTool handles search_bills.
type SearchBillsTool struct {
	bills BillFinder
}

// NewSearchBillsTool creates a SearchBillsTool.
func NewSearchBillsTool(b BillFinder) *SearchBillsTool {
	return &SearchBillsTool{bills: b}
}

// Definition returns the MCP tool definition for search_bills.
func (t *SearchBillsTool) Definition() mcp.Tool {
	return mcp.NewTool("search_bills",
		mcp.WithDescription(
			"Search bills and resolutions by keyword, congress, type, sponsor or subject. "+
				"Keywords must all appear in the title or summary.",
		),
		mcp.WithString("query", mcp.Description("Keywords, e.g. \"border security\"")),
		mcp.WithNumber("congress", mcp.Description("Congress number, e.g. 119 (default: current)")),
		mcp.WithString("type", mcp.Description("Bill type: hr, s, hres, sres, hjres, sjres, hconres, sconres")),
		mcp.WithString("sponsor", mcp.Description("Sponsor bioguide id")),
		mcp.WithString("sponsor_party", mcp.Description("Sponsor party code: D, R or I")),
		mcp.WithString("subject", mcp.Description("Policy area or legislative subject")),
		mcp.WithNumber("limit", mcp.Description("Max results (default: 10, max: 20)")),
	)
}

// Run executes search_bills.
func (t *SearchBillsTool) Run(ctx context.Context, a Args) (Output, error) {
	q := services.BillQuery{
		Congress:     a.Int("congress", 0),
		Type:         a.String("type", ""),
		Sponsor:      a.String("sponsor", ""),
		SponsorParty: a.String("sponsor_party", ""),
		Subject:      a.String("subject", ""),
		Q:            a.String("query", ""),
		PageSize:     limitArg(a),
	}
	pg, err := t.bills.Search(ctx, q)
	if err != nil {
		return Output{}, err
	}
	if len(pg.Results) == 0 {
		return Output{Text: "No bills found matching your query."}, nil
	}

	out := Output{Refs: make([]string, 0, len(pg.Results))}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s:\n", pg.Total, plural(pg.Total, "bill", "bills"))
	for _, bill := range pg.Results {
		fmt.Fprintf(&b, "- %s [%s]\n", billLine(bill), bill.BillID)
		out.Refs = append(out.Refs, bill.BillID)
	}
	out.Text = strings.TrimRight(b.String(), "\n")
	return out, nil
}

// GetBillTool handles get_bill.
type GetBillTool struct {
	bills BillFinder
}

// NewGetBillTool creates a GetBillTool.
func NewGetBillTool(b BillFinder) *GetBillTool {
	return &GetBillTool{bills: b}
}

// Definition returns the MCP tool definition for get_bill.
func (t *GetBillTool) Definition() mcp.Tool {
	return mcp.NewTool("get_bill",
		mcp.WithDescription("Get a bill's title, sponsor, latest action, policy area, subjects and summary."),
		mcp.WithString("bill_id", mcp.Required(), mcp.Description("Bill id such as hr1-119 (type, number, congress)")),
	)
}

// Run executes get_bill.
func (t *GetBillTool) Run(ctx context.Context, a Args) (Output, error) {
	id, err := required(a, "bill_id")
	if err != nil {
		return Output{}, err
	}
	bill, err := t.bills.Get(ctx, id)
	if err != nil {
		return Output{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", billLabel(*bill))
	fmt.Fprintf(&b, "Title: %s\n", bill.Title)
	if bill.ShortTitle != "" && bill.ShortTitle != bill.Title {
		fmt.Fprintf(&b, "Short title: %s\n", bill.ShortTitle)
	}
	if bill.SponsorID != "" {
		fmt.Fprintf(&b, "Sponsor: %s\n", bill.SponsorID)
	}
	if bill.IntroducedDate != "" {
		fmt.Fprintf(&b, "Introduced: %s\n", bill.IntroducedDate)
	}
	if bill.LatestAction != "" {
		fmt.Fprintf(&b, "Latest action (%s): %s\n", bill.LatestActionDate, bill.LatestAction)
	}
	if bill.PolicyArea != "" {
		fmt.Fprintf(&b, "Policy area: %s\n", bill.PolicyArea)
	}
	if len(bill.Subjects) > 0 {
		subjects := bill.Subjects
		if len(subjects) > 8 {
			subjects = subjects[:8]
		}
		fmt.Fprintf(&b, "Subjects: %s\n", strings.Join(subjects, "; "))
	}
	if n := len(bill.Summaries); n > 0 {
		fmt.Fprintf(&b, "Summary: %s\n", clip(bill.Summaries[n-1].TextPlain, 600))
	}
	return Output{Text: strings.TrimRight(b.String(), "\n"), Refs: []string{bill.BillID}}, nil
}
