package agent

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/services"
)

// ─── Fakes ──────────────────────────────────────────────────────────────────

type fakeMembers struct {
	members []domain.Member
	bills   map[string][]domain.Bill
	votes   map[string][]domain.MemberVoteRecord

	lastQuery services.MemberQuery
	lastKind  string
	err       error
}

func (f *fakeMembers) Search(_ context.Context, q services.MemberQuery) (services.Page[services.MemberSummary], error) {
	f.lastQuery = q
	if f.err != nil {
		return services.Page[services.MemberSummary]{}, f.err
	}
	var out []services.MemberSummary
	for _, m := range f.members {
		if !nameMatches(m.Name, q.Name) {
			continue
		}
		if q.State != "" && m.State != q.State {
			continue
		}
		if q.Party != "" && m.Party != q.Party {
			continue
		}
		if q.Chamber != "" && string(m.Chamber) != q.Chamber {
			continue
		}
		out = append(out, services.MemberSummary{
			BioguideID: m.BioguideID,
			Name:       m.Name,
			Party:      m.Party,
			State:      m.State,
			District:   m.District,
			Chamber:    m.Chamber,
		})
	}
	total := int64(len(out))
	if q.PageSize > 0 && len(out) > q.PageSize {
		out = out[:q.PageSize]
	}
	return services.NewPage(out, total, 1, q.PageSize), nil
}

// nameMatches requires every query word to prefix some word of the name.
func nameMatches(name, q string) bool {
	words := strings.Fields(strings.ToLower(name))
	for _, qw := range strings.Fields(strings.ToLower(q)) {
		ok := false
		for _, w := range words {
			if strings.HasPrefix(w, qw) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (f *fakeMembers) Get(_ context.Context, id string) (*domain.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.members {
		if f.members[i].BioguideID == strings.ToUpper(id) {
			m := f.members[i]
			return &m, nil
		}
	}
	return nil, services.ErrMemberNotFound
}

func (f *fakeMembers) Bills(_ context.Context, id, kind string, page, pageSize int) (services.Page[domain.Bill], error) {
	f.lastKind = kind
	if f.err != nil {
		return services.Page[domain.Bill]{}, f.err
	}
	bills := f.bills[strings.ToUpper(id)]
	return services.NewPage(bills, int64(len(bills)), page, pageSize), nil
}

func (f *fakeMembers) Votes(_ context.Context, id string, page, pageSize int) (services.Page[domain.MemberVoteRecord], error) {
	if f.err != nil {
		return services.Page[domain.MemberVoteRecord]{}, f.err
	}
	votes := f.votes[strings.ToUpper(id)]
	return services.NewPage(votes, int64(len(votes)), page, pageSize), nil
}

type fakeBills struct {
	bills []domain.Bill

	lastQuery services.BillQuery
	lastID    string
	err       error
}

func (f *fakeBills) Search(_ context.Context, q services.BillQuery) (services.Page[domain.Bill], error) {
	f.lastQuery = q
	if f.err != nil {
		return services.Page[domain.Bill]{}, f.err
	}
	var out []domain.Bill
	for _, b := range f.bills {
		if q.Congress != 0 && b.Congress != q.Congress {
			continue
		}
		if !nameMatches(b.Title, q.Q) {
			continue
		}
		out = append(out, b)
	}
	return services.NewPage(out, int64(len(out)), 1, q.PageSize), nil
}

func (f *fakeBills) Get(_ context.Context, id string) (*domain.Bill, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.bills {
		if f.bills[i].BillID == id {
			b := f.bills[i]
			return &b, nil
		}
	}
	return nil, services.ErrBillNotFound
}

// ─── Fixtures ───────────────────────────────────────────────────────────────

func intPtr(n int) *int { return &n }

func newFakes() (*fakeMembers, *fakeBills) {
	members := &fakeMembers{
		members: []domain.Member{
			{
				BioguideID: "L000577", Name: "Mike Lee", Party: "R", State: "UT",
				Chamber: domain.ChamberSenate, Phone: "202-224-5444",
				Address:     "363 Russell Senate Office Building",
				OfficialURL: "https://www.lee.senate.gov",
				Terms: []domain.Term{
					{Congress: 112, Chamber: domain.ChamberSenate, StartYear: 2011, EndYear: 2017},
					{Congress: 118, Chamber: domain.ChamberSenate, StartYear: 2017},
				},
			},
			{BioguideID: "C001114", Name: "John Curtis", Party: "R", State: "UT", Chamber: domain.ChamberSenate},
			{BioguideID: "B001267", Name: "Michael Bennet", Party: "D", State: "CO", Chamber: domain.ChamberSenate},
			{BioguideID: "A000370", Name: "Alma Adams", Party: "D", State: "NC", District: intPtr(12), Chamber: domain.ChamberHouse},
		},
		bills: map[string][]domain.Bill{
			"L000577": {
				{BillID: "s5-119", Congress: 119, Type: "s", Number: 5, Title: "Laken Riley Act", IntroducedDate: "2025-01-06"},
				{BillID: "s9-119", Congress: 119, Type: "s", Number: 9, Title: "A bill to repeal things"},
			},
		},
		votes: map[string][]domain.MemberVoteRecord{
			"L000577": {
				{VoteID: "s119-1-5", Chamber: domain.ChamberSenate, Congress: 119, Session: 1,
					Question: "On Passage of the Bill", Result: "Bill Passed", BillID: "s5-119", Position: domain.PositionYea},
				{VoteID: "s119-1-4", Chamber: domain.ChamberSenate, Congress: 119, Session: 1,
					Question: "On the Cloture Motion", Position: domain.PositionNotVoting},
			},
		},
	}
	bills := &fakeBills{
		bills: []domain.Bill{
			{
				BillID: "hr1-119", Congress: 119, Type: "hr", Number: 1,
				Title:          "One Big Beautiful Bill Act",
				SponsorID:      "A000370",
				IntroducedDate: "2025-05-20",
				LatestAction:   "Became Public Law No: 119-21.", LatestActionDate: "2025-07-04",
				PolicyArea: "Economics and Public Finance",
				Subjects:   []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
				Summaries: []domain.BillSummary{
					{VersionCode: "00", TextPlain: "First version."},
					{VersionCode: "49", TextPlain: "This act provides for reconciliation."},
				},
			},
			{BillID: "s5-119", Congress: 119, Type: "s", Number: 5, Title: "Laken Riley Act", ShortTitle: "Laken Riley Act", IntroducedDate: "2025-01-06"},
			{BillID: "hr82-118", Congress: 118, Type: "hr", Number: 82, Title: "Border Security and Enforcement Act"},
		},
	}
	return members, bills
}

func newTestRegistry() (*Registry, *fakeMembers, *fakeBills) {
	m, b := newFakes()
	return NewRegistry(m, b), m, b
}

// ─── MCP helpers ────────────────────────────────────────────────────────────

// makeReq builds a CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
