package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-congress-backend/internal/services"
)

func newTestPlanner() (*Planner, *fakeMembers, *fakeBills) {
	reg, m, b := newTestRegistry()
	return NewPlanner(reg, 119), m, b
}

func TestPlan_MembersByStateAndChamber(t *testing.T) {
	p, m, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "Who are the senators from Utah?")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "search_members" {
		t.Fatalf("tools = %v", reply.Tools)
	}
	if m.lastQuery.State != "UT" || m.lastQuery.Chamber != "senate" || m.lastQuery.Name != "" {
		t.Errorf("query = %+v", m.lastQuery)
	}
	if !strings.HasPrefix(reply.Text, "Found 2 members:") {
		t.Errorf("text = %s", reply.Text)
	}
}

func TestPlan_MemberVotesChainsOnSingleMatch(t *testing.T) {
	p, m, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "How did Mike Lee vote?")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "search_members,get_member_votes" {
		t.Fatalf("tools = %v", reply.Tools)
	}
	if m.lastQuery.Name != "Mike Lee" {
		t.Errorf("name = %q", m.lastQuery.Name)
	}
	if !strings.Contains(reply.Text, "Found 1 member:") || !strings.Contains(reply.Text, "Recent votes of L000577") {
		t.Errorf("text = %s", reply.Text)
	}
}

func TestPlan_NoChainOnSeveralMatches(t *testing.T) {
	p, _, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "How did the Utah senators vote?")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "search_members" {
		t.Fatalf("tools = %v", reply.Tools)
	}
}

func TestPlan_CosponsoredBills(t *testing.T) {
	p, m, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "What bills has Mike Lee cosponsored?")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "search_members,get_member_bills" {
		t.Fatalf("tools = %v", reply.Tools)
	}
	if m.lastKind != services.LegislationCosponsored {
		t.Errorf("kind = %q", m.lastKind)
	}
}

func TestPlan_MemberDetailsForName(t *testing.T) {
	p, _, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "Tell me about Alma Adams")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "search_members,get_member_details" {
		t.Fatalf("tools = %v", reply.Tools)
	}
	if !strings.Contains(reply.Text, "Chamber: House") {
		t.Errorf("text = %s", reply.Text)
	}
}

func TestPlan_BioguideID(t *testing.T) {
	p, _, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "L000577 votes")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "get_member_votes" {
		t.Fatalf("tools = %v", reply.Tools)
	}

	reply, err = p.Plan(context.Background(), "who is Z999999")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "No member with bioguide id Z999999 was found." {
		t.Errorf("text = %q", reply.Text)
	}
}

func TestPlan_BillIDCompletesCongress(t *testing.T) {
	p, _, b := newTestPlanner()

	reply, err := p.Plan(context.Background(), "Tell me about H.R. 1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "get_bill" || b.lastID != "hr1-119" {
		t.Fatalf("tools = %v id = %q", reply.Tools, b.lastID)
	}
	if !strings.HasPrefix(reply.Text, "H.R. 1 (119th Congress)") {
		t.Errorf("text = %s", reply.Text)
	}

	if _, err := p.Plan(context.Background(), "what happened to s5-118"); err != nil {
		t.Fatal(err)
	}
	if b.lastID != "s5-118" {
		t.Errorf("id = %q", b.lastID)
	}
}

func TestPlan_MissingBillIsAnAnswer(t *testing.T) {
	p, _, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "status of hr999-119")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "No bill hr999-119 was found." {
		t.Errorf("text = %q", reply.Text)
	}
	if strings.Join(reply.Tools, ",") != "get_bill" {
		t.Errorf("tools = %v", reply.Tools)
	}
}

func TestPlan_BillKeywordSearch(t *testing.T) {
	p, _, b := newTestPlanner()

	reply, err := p.Plan(context.Background(), "Find bills about border security in the 118th congress")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(reply.Tools, ",") != "search_bills" {
		t.Fatalf("tools = %v", reply.Tools)
	}
	if b.lastQuery.Q != "border security" || b.lastQuery.Congress != 118 {
		t.Errorf("query = %+v", b.lastQuery)
	}
	if !strings.Contains(reply.Text, "[hr82-118]") {
		t.Errorf("text = %s", reply.Text)
	}
}

func TestPlan_CapitalizedBillTopicIsKeyword(t *testing.T) {
	p, _, b := newTestPlanner()

	if _, err := p.Plan(context.Background(), "Border Security bills"); err != nil {
		t.Fatal(err)
	}
	if b.lastQuery.Q != "border security" {
		t.Errorf("query = %q", b.lastQuery.Q)
	}
}

func TestPlan_NothingToDo(t *testing.T) {
	p, _, _ := newTestPlanner()

	reply, err := p.Plan(context.Background(), "hello there")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "" || len(reply.Tools) != 0 {
		t.Errorf("reply = %+v", reply)
	}
}

func TestPlan_BackendErrorStops(t *testing.T) {
	p, _, b := newTestPlanner()
	b.err = errors.New("db down")

	reply, err := p.Plan(context.Background(), "Tell me about hr1-119")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Join(reply.Tools, ",") != "get_bill" {
		t.Errorf("tools = %v", reply.Tools)
	}
}

func TestParsePrompt(t *testing.T) {
	cases := []struct {
		prompt string
		check  func(promptInfo) bool
	}{
		{"Democratic senators from West Virginia", func(in promptInfo) bool {
			return in.party == "D" && in.chamber == "senate" && in.state == "WV" && len(in.name) == 0
		}},
		{"representatives from New York", func(in promptInfo) bool {
			return in.state == "NY" && in.chamber == "house"
		}},
		{"members from TX", func(in promptInfo) bool {
			return in.state == "TX" && in.memberWord
		}},
		{"Senator Lee's sponsored bills", func(in promptInfo) bool {
			return strings.Join(in.name, " ") == "Lee" && in.sponsorWord && !in.cosponsor
		}},
		{"Lee's 5 bills", func(in promptInfo) bool {
			return in.billID == ""
		}},
		{"S. 5", func(in promptInfo) bool {
			return in.billID == "" && len(in.name) == 0
		}},
		{"sjres12", func(in promptInfo) bool {
			return in.billID == "sjres12"
		}},
		{"votes of l000577", func(in promptInfo) bool {
			return in.bioguideID == "L000577" && in.voteWord
		}},
	}
	for _, c := range cases {
		if got := parsePrompt(c.prompt); !c.check(got) {
			t.Errorf("parsePrompt(%q) = %+v", c.prompt, got)
		}
	}
}
