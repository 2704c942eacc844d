package congress

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tbourn/go-congress-backend/internal/config"
	"github.com/tbourn/go-congress-backend/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(config.UpstreamConfig{
		APIKey:        "test-key",
		BaseURL:       srv.URL + "/v3",
		SenateBaseURL: srv.URL,
		Timeout:       2 * time.Second,
		MaxRetries:    2,
		Backoff:       time.Millisecond,
	})
	return c, srv
}

func TestClient_SendsKeyAndFormat(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format=json not set: %s", r.URL.RawQuery)
		}
		if r.URL.Path != "/v3/member/P000197" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"member":{"bioguideId":"P000197","directOrderName":"Nancy Pelosi","state":"California","district":11,
			"terms":[{"chamber":"House of Representatives","congress":119,"startYear":2025,"stateCode":"CA","partyName":"Democratic"}],
			"partyHistory":[{"partyName":"Democratic"}],
			"addressInformation":{"phoneNumber":"(202) 225-4965","officeAddress":"1236 Longworth"}}}`)
	})

	rec, err := c.Member(context.Background(), "P000197")
	if err != nil {
		t.Fatalf("Member: %v", err)
	}
	if rec.BioguideID != "P000197" || rec.District == nil || int(*rec.District) != 11 || len(rec.Terms) != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestClient_RetriesOn5xxAnd429(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fmt.Fprint(w, `{"bills":[{"congress":119,"type":"HR","number":"1"}],"pagination":{"count":1}}`)
		}
	})

	bills, p, err := c.ListBills(context.Background(), 119, 20, 0)
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if calls.Load() != 3 || len(bills) != 1 || p.Count != 1 {
		t.Fatalf("calls=%d bills=%d count=%d", calls.Load(), len(bills), p.Count)
	}
	if bills[0].Number == nil || int(*bills[0].Number) != 1 {
		t.Fatalf("string number not decoded: %+v", bills[0])
	}
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Bill(context.Background(), 119, "hr", 1)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 1+2 attempts, got %d", calls.Load())
	}
}

func TestClient_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := c.Member(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Member(context.Background(), "X000001"); err == nil {
		t.Fatalf("expected error on 403")
	}
	if calls.Load() != 2 {
		t.Fatalf("4xx must not be retried, calls=%d", calls.Load())
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := c.ListMembers(ctx, 119, 10, 0); err == nil {
		t.Fatalf("expected error on canceled context")
	}
}

func TestClient_BadJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"members":`)
	})
	if _, _, err := c.ListMembers(context.Background(), 119, 10, 0); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestClient_BillSubResources(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/bill/118/hr/1234/summaries":
			fmt.Fprint(w, `{"summaries":[{"versionCode":"00","text":"<p>Hello <b>world</b></p>"}]}`)
		case "/v3/bill/118/hr/1234/subjects":
			fmt.Fprint(w, `{"subjects":{"policyArea":{"name":"Health"},"legislativeSubjects":{"item":[{"name":"Medicare"},{"name":""}]}}}`)
		case "/v3/bill/118/hr/1234/actions":
			fmt.Fprint(w, `{"actions":[{"actionDate":"2024-01-02","text":"Introduced","type":"IntroReferral","actionCode":"1000"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	sums, err := c.BillSummaries(ctx, 118, "HR", 1234)
	if err != nil || len(sums) != 1 {
		t.Fatalf("summaries: %v %+v", err, sums)
	}
	subj, err := c.BillSubjects(ctx, 118, "hr", 1234)
	if err != nil || subj.PolicyArea == nil || subj.PolicyArea.Name != "Health" || len(subj.LegislativeSubjects) != 2 {
		t.Fatalf("subjects: %v %+v", err, subj)
	}
	acts, err := c.BillActions(ctx, 118, "hr", 1234, 10)
	if err != nil || len(acts) != 1 || acts[0].Code != "1000" || acts[0].Date != "2024-01-02" {
		t.Fatalf("actions: %v %+v", err, acts)
	}
}

func TestClient_MemberLegislationAndVotes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/member/P000197/sponsored-legislation":
			fmt.Fprint(w, `{"sponsoredLegislation":[{"congress":118,"type":"HR","number":"5"},{"congress":118,"amendmentNumber":"7"}],"pagination":{"count":40}}`)
		case "/v3/member/P000197/cosponsored-legislation":
			fmt.Fprint(w, `{"cosponsoredLegislation":[{"congress":118,"type":"S","number":"9"}]}`)
		case "/v3/senate-vote/119/1":
			fmt.Fprint(w, `{"senateRollCallVotes":[{"rollCallNumber":12,"sourceDataURL":"http://x/vote.xml"}]}`)
		case "/v3/house-vote/119/1/3":
			fmt.Fprint(w, `{"houseRollCallVote":{"voteQuestion":"On Passage","legislationType":"HR","legislationNumber":"4801",
				"votePartyTotal":[{"yeaTotal":200,"nayTotal":10},{"yeaTotal":15,"nayTotal":190,"notVotingTotal":"3"}]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	sp, p, err := c.SponsoredLegislation(ctx, "P000197", 20, 0)
	if err != nil || len(sp) != 2 || p.Count != 40 {
		t.Fatalf("sponsored: %v %d %+v", err, len(sp), p)
	}
	co, p, err := c.CosponsoredLegislation(ctx, "P000197", 20, 0)
	if err != nil || len(co) != 1 || p.Count != 1 {
		t.Fatalf("cosponsored: %v %d %+v", err, len(co), p)
	}

	items, _, err := c.ListVotes(ctx, domain.ChamberSenate, 119, 1, 10, 0)
	if err != nil || len(items) != 1 || int(items[0].RollCallNumber) != 12 || items[0].SourceDataURL == "" {
		t.Fatalf("senate list: %v %+v", err, items)
	}

	v, err := c.HouseVote(ctx, 119, 1, 3)
	if err != nil || len(v.VotePartyTotal) != 2 || int(v.VotePartyTotal[1].NotVotingTotal) != 3 {
		t.Fatalf("house vote: %v %+v", err, v)
	}
}

func TestClient_HouseVoteMembersPages(t *testing.T) {
	var pages atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		n := 250
		if r.URL.Query().Get("offset") == "250" {
			n = 3
		}
		var b strings.Builder
		b.WriteString(`{"houseRollCallVoteMemberVotes":{"results":[`)
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, `{"bioguideID":"A%06d","voteCast":"Yea"}`, i)
		}
		b.WriteString(`]}}`)
		fmt.Fprint(w, b.String())
	})

	got, err := c.HouseVoteMembers(context.Background(), 119, 1, 3)
	if err != nil {
		t.Fatalf("HouseVoteMembers: %v", err)
	}
	if len(got) != 253 || pages.Load() != 2 {
		t.Fatalf("got %d members over %d pages", len(got), pages.Load())
	}
}

func TestClient_SenateVoteXML(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "" {
			t.Errorf("api key must not be sent to the senate feed")
		}
		if r.URL.Path != "/legislative/LIS/roll_call_votes/vote1191/vote_119_1_00012.xml" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `<roll_call_vote/>`)
	})

	want := srv.URL + "/legislative/LIS/roll_call_votes/vote1191/vote_119_1_00012.xml"
	if got := c.SenateVoteURL(119, 1, 12); got != want {
		t.Fatalf("SenateVoteURL = %s", got)
	}
	b, err := c.SenateVoteXML(context.Background(), 119, 1, 12, "")
	if err != nil || string(b) != "<roll_call_vote/>" {
		t.Fatalf("SenateVoteXML: %v %q", err, b)
	}
}

func TestNew_ThrottleAndOptions(t *testing.T) {
	h := &http.Client{}
	c := New(config.UpstreamConfig{RPS: 2, Burst: 0}, WithHTTPClient(h))
	if c.http != h {
		t.Fatalf("WithHTTPClient not applied")
	}
	if c.limiter.Burst() != 1 || float64(c.limiter.Limit()) != 2 {
		t.Fatalf("limiter = %v/%d", c.limiter.Limit(), c.limiter.Burst())
	}
}
