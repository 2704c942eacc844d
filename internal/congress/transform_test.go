package congress

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func mustDecode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestToMember_ListShape(t *testing.T) {
	r := mustDecode[MemberRecord](t, `{
		"bioguideId":"L000577","name":"Lee, Mike","partyName":"Republican","state":"Utah",
		"depiction":{"imageUrl":"https://img/l.jpg"},
		"terms":{"item":[{"chamber":"Senate","startYear":2011}]}
	}`)
	m, err := ToMember(r, now)
	if err != nil {
		t.Fatalf("ToMember: %v", err)
	}
	if m.FirstName != "Mike" || m.LastName != "Lee" || m.State != "UT" || m.Party != "R" ||
		m.Chamber != domain.ChamberSenate || m.District != nil || m.ImageURL != "https://img/l.jpg" {
		t.Fatalf("unexpected member: %+v", m)
	}
	if !m.UpdatedAt.Equal(now) || len(m.Terms) != 1 || m.Terms[0].StartYear != 2011 {
		t.Fatalf("terms/updated_at unexpected: %+v", m)
	}
}

func TestToMember_MiddleNameDropped_AndHouseFromDistrict(t *testing.T) {
	r := mustDecode[MemberRecord](t, `{"bioguideId":"o000172","name":"Ocasio-Cortez, Alexandria M.","state":"New York","district":14,"partyName":"Democratic"}`)
	m, err := ToMember(r, now)
	if err != nil {
		t.Fatalf("ToMember: %v", err)
	}
	if m.BioguideID != "O000172" || m.FirstName != "Alexandria" || m.LastName != "Ocasio-Cortez" {
		t.Fatalf("names/id unexpected: %+v", m)
	}
	if m.Chamber != domain.ChamberHouse || m.District == nil || *m.District != 14 || m.State != "NY" {
		t.Fatalf("chamber/district unexpected: %+v", m)
	}
}

func TestToMember_DetailShape(t *testing.T) {
	r := mustDecode[MemberRecord](t, `{
		"bioguideId":"S000148","directOrderName":"Charles E. Schumer","firstName":"Charles","lastName":"Schumer",
		"state":"New York","partyHistory":[{"partyName":"Democratic"}],
		"officialWebsiteUrl":"https://schumer.senate.gov",
		"addressInformation":{"phoneNumber":"(202) 224-6542","officeAddress":"322 Hart"},
		"terms":[{"chamber":"House of Representatives","district":9},{"chamber":"Senate","stateCode":"NY"}]
	}`)
	m, err := ToMember(r, now)
	if err != nil {
		t.Fatalf("ToMember: %v", err)
	}
	if m.Name != "Charles E. Schumer" || m.Party != "D" || m.Chamber != domain.ChamberSenate || m.District != nil {
		t.Fatalf("unexpected: %+v", m)
	}
	if m.Phone != "(202) 224-6542" || m.Address != "322 Hart" || m.OfficialURL == "" {
		t.Fatalf("contact unexpected: %+v", m)
	}
	if m.Terms[0].Chamber != domain.ChamberHouse || m.Terms[0].District == nil {
		t.Fatalf("term mapping unexpected: %+v", m.Terms)
	}
}

func TestToMember_Invalid(t *testing.T) {
	r := mustDecode[MemberRecord](t, `{"bioguideId":"bad","name":"X","state":"Nowhere"}`)
	if _, err := ToMember(r, now); !errors.Is(err, domain.ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember, got %v", err)
	}
}

func TestToBill(t *testing.T) {
	r := mustDecode[BillRecord](t, `{
		"congress":118,"type":"HR","number":"1234","title":"A bill",
		"sponsors":[{"bioguideId":"p000197"}],"introducedDate":"2023-02-01",
		"latestAction":{"actionDate":"2023-03-01","text":"Referred"},
		"policyArea":{"name":"Taxation"}
	}`)
	sums := []SummaryRecord{
		{VersionCode: "00", Text: "<p>Makes <b>changes</b> &amp; more.</p>"},
		{VersionCode: "01", Text: "   "},
	}
	subj := mustDecode[SubjectsRecord](t, `{"policyArea":{"name":"Health"},"legislativeSubjects":[{"name":"Medicare"},{"name":"Hospitals"}]}`)

	b, err := ToBill(r, sums, &subj, now)
	if err != nil {
		t.Fatalf("ToBill: %v", err)
	}
	if b.BillID != "hr1234-118" || b.SponsorID != "P000197" || b.PolicyArea != "Health" {
		t.Fatalf("unexpected bill: %+v", b)
	}
	if !reflect.DeepEqual(b.Subjects, []string{"Medicare", "Hospitals"}) {
		t.Fatalf("subjects: %#v", b.Subjects)
	}
	if len(b.Summaries) != 1 || b.Summaries[0].TextPlain != "Makes changes & more." {
		t.Fatalf("summaries: %+v", b.Summaries)
	}
	if b.SummaryText != "Makes changes & more." || b.LatestAction != "Referred" {
		t.Fatalf("derived text unexpected: %+v", b)
	}
}

func TestToBill_NoSecondaryData(t *testing.T) {
	r := mustDecode[BillRecord](t, `{"congress":119,"type":"S","number":5,"title":"T","policyArea":{"name":"Energy"}}`)
	b, err := ToBill(r, nil, nil, now)
	if err != nil {
		t.Fatalf("ToBill: %v", err)
	}
	if b.BillID != "s5-119" || b.PolicyArea != "Energy" || b.Subjects == nil || b.Summaries == nil {
		t.Fatalf("unexpected: %+v", b)
	}
}

func TestToBill_RejectsNonBills(t *testing.T) {
	cases := map[string]string{
		"amendment":    `{"congress":118,"amendmentNumber":"12","type":"SAMDT"}`,
		"no number":    `{"congress":118,"type":"HR"}`,
		"no type":      `{"congress":118,"number":"3"}`,
		"unknown type": `{"congress":118,"type":"PN","number":"3"}`,
	}
	for name, js := range cases {
		t.Run(name, func(t *testing.T) {
			r := mustDecode[BillRecord](t, js)
			if _, err := ToBill(r, nil, nil, now); !errors.Is(err, ErrNotABill) {
				t.Fatalf("expected ErrNotABill, got %v", err)
			}
		})
	}
}

func TestToHouseVote(t *testing.T) {
	r := mustDecode[VoteRecord](t, `{"startDate":"2025-01-09T10:00:00-05:00","voteQuestion":"On Passage","result":"Passed",
		"legislationType":"HR","legislationNumber":"4801",
		"votePartyTotal":[{"yeaTotal":200,"nayTotal":10,"presentTotal":1},{"yeaTotal":15,"nayTotal":190,"notVotingTotal":3}]}`)
	members := []HouseMemberVote{
		{BioguideID: "a000001", VoteCast: "Aye"},
		{BioguideID: "B000002", VoteCast: "No"},
		{BioguideID: "C000003", VoteCast: "Not Voting"},
		{BioguideID: "D000004", VoteCast: "Speaker"},
		{BioguideID: "", VoteCast: "Yea"},
	}
	v, err := ToHouseVote(r, members, 119, 1, 17, now)
	if err != nil {
		t.Fatalf("ToHouseVote: %v", err)
	}
	if v.VoteID != "h119-1-17" || v.BillID != "hr4801-119" || v.Question != "On Passage" {
		t.Fatalf("unexpected vote: %+v", v)
	}
	if v.Totals != (domain.VoteTotals{Yea: 215, Nay: 200, Present: 1, NotVoting: 3}) {
		t.Fatalf("totals: %+v", v.Totals)
	}
	want := map[string]domain.Position{
		"A000001": domain.PositionYea,
		"B000002": domain.PositionNay,
		"C000003": domain.PositionNotVoting,
	}
	if !reflect.DeepEqual(v.MemberVotes, want) {
		t.Fatalf("positions: %#v", v.MemberVotes)
	}
}

func TestLegislationBillID(t *testing.T) {
	cases := []struct {
		typ, num string
		congress int
		want     string
	}{
		{"HR", "4801", 118, "hr4801-118"},
		{"H.R.", "H.R. 12", 118, "hr12-118"},
		{"S.J.RES.", "7", 119, "sjres7-119"},
		{"PN", "12", 119, ""},
		{"HR", "", 119, ""},
		{"", "", 119, ""},
	}
	for _, tc := range cases {
		if got := LegislationBillID(tc.typ, tc.num, tc.congress); got != tc.want {
			t.Fatalf("LegislationBillID(%q,%q,%d) = %q, want %q", tc.typ, tc.num, tc.congress, got, tc.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	cases := map[string]string{
		"":                                       "",
		"plain   text":                           "plain text",
		"<p>One</p><p>Two</p>":                   "One Two",
		"<ul><li>a</li><li>b &lt;c&gt;</li></ul>": "a b <c>",
		"<p>x<script>alert(1)</script>y</p>":     "x y",
		"<br/>line<br/>":                         "line",
	}
	for in, want := range cases {
		if got := StripHTML(in); got != want {
			t.Fatalf("StripHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecoders(t *testing.T) {
	var f struct {
		A flexInt  `json:"a"`
		B flexInt  `json:"b"`
		C flexInt  `json:"c"`
		D *flexInt `json:"d"`
		E flexInt  `json:"e"`
	}
	if err := json.Unmarshal([]byte(`{"a":3,"b":"42","c":"n/a","d":null,"e":7.0}`), &f); err != nil {
		t.Fatalf("flexInt: %v", err)
	}
	if f.A != 3 || f.B != 42 || f.C != 0 || f.D != nil || f.E != 7 {
		t.Fatalf("flexInt decoded %+v", f)
	}

	var it struct {
		X items[int] `json:"x"`
		Y items[int] `json:"y"`
		Z items[int] `json:"z"`
	}
	if err := json.Unmarshal([]byte(`{"x":[1,2],"y":{"item":[3]},"z":null}`), &it); err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(it.X) != 2 || len(it.Y) != 1 || it.Y[0] != 3 || it.Z != nil {
		t.Fatalf("items decoded %+v", it)
	}
}
