package congress

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

// ErrNotABill marks records that look like bills but are not: amendments
// mixed into legislation lists, and records without a type or number.
var ErrNotABill = errors.New("record is not a bill")

// ToMember maps an upstream member onto the domain record. The chamber
// comes from the latest term, falling back to district-implies-house.
func ToMember(r MemberRecord, now time.Time) (*domain.Member, error) {
	var last TermRecord
	if n := len(r.Terms); n > 0 {
		last = r.Terms[n-1]
	}

	district := intPtr(r.District)
	if district == nil && last.District != nil {
		district = intPtr(last.District)
	}

	var chamber domain.Chamber
	switch lc := strings.ToLower(last.Chamber); {
	case strings.Contains(lc, "house"):
		chamber = domain.ChamberHouse
	case strings.Contains(lc, "senate"):
		chamber = domain.ChamberSenate
	case district != nil:
		chamber = domain.ChamberHouse
	default:
		chamber = domain.ChamberSenate
	}
	if chamber == domain.ChamberSenate {
		district = nil
	}

	state := domain.StateCode(r.State)
	if state == "" {
		state = domain.StateCode(last.StateCode)
	}

	party := r.PartyName
	if party == "" && len(r.PartyHistory) > 0 {
		party = r.PartyHistory[len(r.PartyHistory)-1].PartyName
	}
	if party == "" {
		party = last.PartyName
	}

	name := r.DirectOrderName
	if name == "" {
		name = r.Name
	}
	first, lastName := r.FirstName, r.LastName
	if first == "" || lastName == "" {
		pf, pl := domain.ParseName(r.Name)
		if first == "" {
			// Only the given name; middle names and initials are dropped.
			if f := strings.Fields(pf); len(f) > 0 {
				first = f[0]
			}
		}
		if lastName == "" {
			lastName = pl
		}
	}

	terms := make([]domain.Term, 0, len(r.Terms))
	for _, t := range r.Terms {
		terms = append(terms, toTerm(t))
	}

	return domain.NewMember(domain.Member{
		BioguideID:  r.BioguideID,
		Name:        name,
		FirstName:   first,
		LastName:    lastName,
		Party:       domain.PartyCode(party),
		State:       state,
		District:    district,
		Chamber:     chamber,
		ImageURL:    r.Depiction.ImageURL,
		OfficialURL: r.OfficialWebsiteURL,
		Phone:       r.AddressInformation.PhoneNumber,
		Address:     r.AddressInformation.OfficeAddress,
		Terms:       terms,
		UpdatedAt:   now,
	})
}

func toTerm(t TermRecord) domain.Term {
	ch, _ := domain.ParseChamber(t.Chamber)
	return domain.Term{
		Congress:  int(t.Congress),
		Chamber:   ch,
		StartYear: int(t.StartYear),
		EndYear:   int(t.EndYear),
		State:     t.StateCode,
		District:  intPtr(t.District),
		Party:     domain.PartyCode(t.PartyName),
	}
}

// ToBill maps an upstream bill plus its optional summaries and subjects
// onto the domain record. Amendments and typeless records yield
// ErrNotABill.
func ToBill(r BillRecord, summaries []SummaryRecord, subjects *SubjectsRecord, now time.Time) (*domain.Bill, error) {
	if r.AmendmentNumber != nil || r.Number == nil || strings.TrimSpace(r.Type) == "" {
		return nil, ErrNotABill
	}
	if !domain.IsBillType(r.Type) {
		return nil, fmt.Errorf("%w: type %q", ErrNotABill, r.Type)
	}

	b := domain.Bill{
		Congress:         int(r.Congress),
		Type:             r.Type,
		Number:           int(*r.Number),
		Title:            r.Title,
		ShortTitle:       r.ShortTitle,
		IntroducedDate:   r.IntroducedDate,
		LatestAction:     r.LatestAction.Text,
		LatestActionDate: r.LatestAction.ActionDate,
		PolicyArea:       r.PolicyArea.Name,
		UpdatedAt:        now,
	}
	if len(r.Sponsors) > 0 {
		b.SponsorID = r.Sponsors[0].BioguideID
	}

	if subjects != nil {
		if subjects.PolicyArea != nil && subjects.PolicyArea.Name != "" {
			b.PolicyArea = subjects.PolicyArea.Name
		}
		for _, s := range subjects.LegislativeSubjects {
			if s.Name != "" {
				b.Subjects = append(b.Subjects, s.Name)
			}
		}
	}

	for _, s := range summaries {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		b.Summaries = append(b.Summaries, domain.BillSummary{
			VersionCode: s.VersionCode,
			ActionDesc:  s.ActionDesc,
			ActionDate:  s.ActionDate,
			Text:        s.Text,
			TextPlain:   StripHTML(s.Text),
			UpdateDate:  s.UpdateDate,
		})
	}

	return domain.NewBill(b)
}

// ToHouseVote maps a House roll call and its member positions onto the
// domain record. Positions outside the closed vocabulary are dropped.
func ToHouseVote(r VoteRecord, members []HouseMemberVote, congress, session, roll int, now time.Time) (*domain.Vote, error) {
	v := domain.Vote{
		Chamber:     domain.ChamberHouse,
		Congress:    congress,
		Session:     session,
		RollNumber:  roll,
		Date:        r.StartDate,
		Question:    r.VoteQuestion,
		Description: r.Description,
		Result:      r.Result,
		BillID:      LegislationBillID(r.LegislationType, r.LegislationNumber, congress),
		MemberVotes: make(map[string]domain.Position, len(members)),
		UpdatedAt:   now,
	}
	for _, t := range r.VotePartyTotal {
		v.Totals.Yea += int(t.YeaTotal)
		v.Totals.Nay += int(t.NayTotal)
		v.Totals.Present += int(t.PresentTotal)
		v.Totals.NotVoting += int(t.NotVotingTotal)
	}
	for _, m := range members {
		id := strings.ToUpper(strings.TrimSpace(m.BioguideID))
		if id == "" {
			continue
		}
		if p, ok := domain.ParsePosition(m.VoteCast); ok {
			v.MemberVotes[id] = p
		}
	}
	return domain.NewVote(v)
}

// LegislationBillID builds a bill id from a vote's legislation reference,
// e.g. ("H.R.", "4801", 118) -> "hr4801-118". Non-bill references (such
// as nominations or amendments) yield "".
func LegislationBillID(legType, legNumber string, congress int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(legType) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	t := b.String()
	n := legislationNumber(legNumber)
	if !domain.IsBillType(t) || n <= 0 || congress <= 0 {
		return ""
	}
	return domain.BillID(t, n, congress)
}
