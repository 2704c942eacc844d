package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

func decode(op string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

// ---- members ----

// ListMembers returns one page of the current roster of a congress.
func (c *Client) ListMembers(ctx context.Context, congress, limit, offset int) ([]MemberRecord, Pagination, error) {
	const op = "members.list"
	q := pageParams(limit, offset)
	q.Set("currentMember", "true")
	body, err := c.get(ctx, op, fmt.Sprintf("/member/congress/%d", congress), q)
	if err != nil {
		return nil, Pagination{}, err
	}
	var resp struct {
		Members    []MemberRecord `json:"members"`
		Pagination Pagination     `json:"pagination"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, Pagination{}, err
	}
	return resp.Members, resp.Pagination, nil
}

// Member fetches one member's detail record.
func (c *Client) Member(ctx context.Context, bioguideID string) (*MemberRecord, error) {
	const op = "members.get"
	body, err := c.get(ctx, op, "/member/"+url.PathEscape(bioguideID), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Member MemberRecord `json:"member"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Member, nil
}

// SponsoredLegislation lists measures a member sponsored.
func (c *Client) SponsoredLegislation(ctx context.Context, bioguideID string, limit, offset int) ([]BillRecord, Pagination, error) {
	return c.memberLegislation(ctx, "members.sponsored", bioguideID, "sponsored-legislation", "sponsoredLegislation", limit, offset)
}

// CosponsoredLegislation lists measures a member cosponsored.
func (c *Client) CosponsoredLegislation(ctx context.Context, bioguideID string, limit, offset int) ([]BillRecord, Pagination, error) {
	return c.memberLegislation(ctx, "members.cosponsored", bioguideID, "cosponsored-legislation", "cosponsoredLegislation", limit, offset)
}

func (c *Client) memberLegislation(ctx context.Context, op, id, segment, key string, limit, offset int) ([]BillRecord, Pagination, error) {
	body, err := c.get(ctx, op, "/member/"+url.PathEscape(id)+"/"+segment, pageParams(limit, offset))
	if err != nil {
		return nil, Pagination{}, err
	}
	var resp map[string]json.RawMessage
	if err := decode(op, body, &resp); err != nil {
		return nil, Pagination{}, err
	}
	var out []BillRecord
	if raw, ok := resp[key]; ok {
		if err := decode(op, raw, &out); err != nil {
			return nil, Pagination{}, err
		}
	}
	var p Pagination
	if raw, ok := resp["pagination"]; ok {
		_ = json.Unmarshal(raw, &p)
	}
	if p.Count == 0 {
		p.Count = len(out)
	}
	return out, p, nil
}

// ---- bills ----

// ListBills returns one page of a congress's bills, most recently updated
// first.
func (c *Client) ListBills(ctx context.Context, congress, limit, offset int) ([]BillRecord, Pagination, error) {
	const op = "bills.list"
	q := pageParams(limit, offset)
	q.Set("sort", "updateDate desc")
	body, err := c.get(ctx, op, fmt.Sprintf("/bill/%d", congress), q)
	if err != nil {
		return nil, Pagination{}, err
	}
	var resp struct {
		Bills      []BillRecord `json:"bills"`
		Pagination Pagination   `json:"pagination"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, Pagination{}, err
	}
	return resp.Bills, resp.Pagination, nil
}

func billPath(congress int, billType string, number int) string {
	return fmt.Sprintf("/bill/%d/%s/%d", congress, strings.ToLower(billType), number)
}

// Bill fetches a bill's detail record.
func (c *Client) Bill(ctx context.Context, congress int, billType string, number int) (*BillRecord, error) {
	const op = "bills.get"
	body, err := c.get(ctx, op, billPath(congress, billType, number), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Bill BillRecord `json:"bill"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Bill, nil
}

// BillSummaries fetches the CRS summaries of a bill (HTML text).
func (c *Client) BillSummaries(ctx context.Context, congress int, billType string, number int) ([]SummaryRecord, error) {
	const op = "bills.summaries"
	body, err := c.get(ctx, op, billPath(congress, billType, number)+"/summaries", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Summaries items[SummaryRecord] `json:"summaries"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	return resp.Summaries, nil
}

// BillSubjects fetches a bill's policy area and legislative subjects.
func (c *Client) BillSubjects(ctx context.Context, congress int, billType string, number int) (*SubjectsRecord, error) {
	const op = "bills.subjects"
	body, err := c.get(ctx, op, billPath(congress, billType, number)+"/subjects", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Subjects SubjectsRecord `json:"subjects"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Subjects, nil
}

// BillActions fetches up to limit actions of a bill.
func (c *Client) BillActions(ctx context.Context, congress int, billType string, number, limit int) ([]BillAction, error) {
	const op = "bills.actions"
	body, err := c.get(ctx, op, billPath(congress, billType, number)+"/actions", pageParams(limit, 0))
	if err != nil {
		return nil, err
	}
	var resp struct {
		Actions items[actionRecord] `json:"actions"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	out := make([]BillAction, 0, len(resp.Actions))
	for _, a := range resp.Actions {
		out = append(out, BillAction{Date: a.ActionDate, Text: a.Text, Type: a.Type, Code: a.ActionCode})
	}
	return out, nil
}

// ---- votes ----

func votePrefix(ch domain.Chamber) (path, listKey string) {
	if ch == domain.ChamberSenate {
		return "/senate-vote", "senateRollCallVotes"
	}
	return "/house-vote", "houseRollCallVotes"
}

// ListVotes returns one page of a chamber's roll calls for a session.
func (c *Client) ListVotes(ctx context.Context, ch domain.Chamber, congress, session, limit, offset int) ([]VoteListItem, Pagination, error) {
	op := string(ch) + ".votes.list"
	prefix, key := votePrefix(ch)
	body, err := c.get(ctx, op, fmt.Sprintf("%s/%d/%d", prefix, congress, session), pageParams(limit, offset))
	if err != nil {
		return nil, Pagination{}, err
	}
	var resp map[string]json.RawMessage
	if err := decode(op, body, &resp); err != nil {
		return nil, Pagination{}, err
	}
	var out []VoteListItem
	if raw, ok := resp[key]; ok {
		if err := decode(op, raw, &out); err != nil {
			return nil, Pagination{}, err
		}
	}
	var p Pagination
	if raw, ok := resp["pagination"]; ok {
		_ = json.Unmarshal(raw, &p)
	}
	return out, p, nil
}

// HouseVote fetches a House roll call's metadata and party totals.
func (c *Client) HouseVote(ctx context.Context, congress, session, roll int) (*VoteRecord, error) {
	const op = "house.votes.get"
	body, err := c.get(ctx, op, fmt.Sprintf("/house-vote/%d/%d/%d", congress, session, roll), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Vote VoteRecord `json:"houseRollCallVote"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Vote, nil
}

// HouseVoteMembers fetches every member position on a House roll call,
// following upstream paging.
func (c *Client) HouseVoteMembers(ctx context.Context, congress, session, roll int) ([]HouseMemberVote, error) {
	const op = "house.votes.members"
	var out []HouseMemberVote
	for offset := 0; ; {
		body, err := c.get(ctx, op, fmt.Sprintf("/house-vote/%d/%d/%d/members", congress, session, roll), pageParams(maxPageLimit, offset))
		if err != nil {
			return nil, err
		}
		var resp struct {
			Votes struct {
				Results []HouseMemberVote `json:"results"`
			} `json:"houseRollCallVoteMemberVotes"`
		}
		if err := decode(op, body, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Votes.Results...)
		if len(resp.Votes.Results) < maxPageLimit {
			return out, nil
		}
		offset += len(resp.Votes.Results)
	}
}

// SenateVoteURL is the senate.gov XML location of a roll call.
func (c *Client) SenateVoteURL(congress, session, roll int) string {
	return fmt.Sprintf("%s/legislative/LIS/roll_call_votes/vote%d%d/vote_%d_%d_%05d.xml",
		c.senateURL, congress, session, congress, session, roll)
}

// SenateVoteXML downloads a Senate roll call's XML. sourceURL is used when
// the listing provided one.
func (c *Client) SenateVoteXML(ctx context.Context, congress, session, roll int, sourceURL string) ([]byte, error) {
	if sourceURL == "" {
		sourceURL = c.SenateVoteURL(congress, session, roll)
	}
	return c.FetchRaw(ctx, "senate.votes.xml", sourceURL)
}

// legislationNumber extracts the digits of values such as "4801" or "H.R. 4801".
func legislationNumber(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, _ := strconv.Atoi(b.String())
	return n
}
