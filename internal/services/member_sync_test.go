package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

func rosterRecord(t *testing.T, id, first, last, state, chamber string) congress.MemberRecord {
	t.Helper()
	return fromJSON[congress.MemberRecord](t, fmt.Sprintf(
		`{"bioguideId":%q,"firstName":%q,"lastName":%q,"name":"%s, %s","state":%q,"partyName":"Republican",
		  "terms":{"item":[{"congress":119,"chamber":%q,"startYear":2025}]}}`,
		id, first, last, last, first, state, chamber))
}

func newMemberSyncer(t *testing.T, up *fakeUpstream) *MemberSyncer {
	t.Helper()
	s := NewMemberSyncer(newTestDB(t), up)
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestSyncRoster_PagesAndFilters(t *testing.T) {
	up := newFakeUpstream()
	up.roster = []congress.MemberRecord{
		rosterRecord(t, "L000577", "Mike", "Lee", "Utah", "Senate"),
		rosterRecord(t, "A000370", "Alma", "Adams", "North Carolina", "House of Representatives"),
		rosterRecord(t, "C001098", "Ted", "Cruz", "Texas", "Senate"),
		rosterRecord(t, "bad", "No", "Id", "Texas", "Senate"),
		rosterRecord(t, "P000145", "Alex", "Padilla", "California", "Senate"),
	}
	s := newMemberSyncer(t, up)
	s.PageSize = 2

	stats, err := s.SyncRoster(context.Background(), 119, domain.ChamberSenate)
	if err != nil {
		t.Fatalf("SyncRoster: %v", err)
	}
	want := SyncStats{Total: 5, Imported: 3, Skipped: 2}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
	if up.count("members.list") != 3 {
		t.Fatalf("pages fetched = %d, want 3", up.count("members.list"))
	}
	m, err := repo.GetMember(context.Background(), s.DB, "C001098")
	if err != nil || m.State != "TX" || m.Party != "R" || m.Chamber != domain.ChamberSenate {
		t.Fatalf("stored member = %+v, %v", m, err)
	}
	if _, err := repo.GetMember(context.Background(), s.DB, "A000370"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("house member stored despite senate filter: %v", err)
	}
}

func TestSyncRoster_StopsAtCount(t *testing.T) {
	up := newFakeUpstream()
	up.roster = []congress.MemberRecord{
		rosterRecord(t, "L000577", "Mike", "Lee", "UT", "Senate"),
		rosterRecord(t, "C001098", "Ted", "Cruz", "TX", "Senate"),
	}
	s := newMemberSyncer(t, up)
	s.PageSize = 2

	if _, err := s.SyncRoster(context.Background(), 119, ""); err != nil {
		t.Fatalf("SyncRoster: %v", err)
	}
	if up.count("members.list") != 1 {
		t.Fatalf("pages fetched = %d, want 1", up.count("members.list"))
	}
}

func TestSyncRoster_PageErrorReturned(t *testing.T) {
	up := newFakeUpstream()
	up.errs["members.list"] = errors.New("429 too many requests")
	s := newMemberSyncer(t, up)

	if _, err := s.SyncRoster(context.Background(), 119, ""); err == nil {
		t.Fatal("expected page fetch error")
	}
}

func TestSyncContacts(t *testing.T) {
	up := newFakeUpstream()
	s := newMemberSyncer(t, up)
	s.Concurrency = 2
	seedMember(t, s.DB, "L000577", "Mike", "Lee", "UT", domain.ChamberSenate)
	seedMember(t, s.DB, "C001098", "Ted", "Cruz", "TX", domain.ChamberSenate)
	seedMember(t, s.DB, "A000370", "Alma", "Adams", "NC", domain.ChamberHouse)
	up.members["L000577"] = fromJSON[congress.MemberRecord](t, `{
		"bioguideId":"L000577","officialWebsiteUrl":"https://www.lee.senate.gov/",
		"addressInformation":{"phoneNumber":"(202) 224-5444","officeAddress":"363 Russell Senate Office Building"}}`)
	up.members["C001098"] = fromJSON[congress.MemberRecord](t, `{"bioguideId":"C001098"}`)
	up.members["A000370"] = fromJSON[congress.MemberRecord](t, `{"bioguideId":"A000370","officialWebsiteUrl":"https://adams.house.gov"}`)

	stats, err := s.SyncContacts(context.Background(), domain.ChamberSenate)
	if err != nil {
		t.Fatalf("SyncContacts: %v", err)
	}
	if stats != (SyncStats{Total: 2, Imported: 1, Skipped: 1}) {
		t.Fatalf("stats = %+v", stats)
	}
	m, _ := repo.GetMember(context.Background(), s.DB, "L000577")
	if m.Phone != "(202) 224-5444" || m.OfficialURL != "https://www.lee.senate.gov/" {
		t.Fatalf("contact = %q %q", m.Phone, m.OfficialURL)
	}
	if up.count("members.get") != 2 {
		t.Fatalf("detail fetches = %d, want 2", up.count("members.get"))
	}

	up.errs["members.get"] = errors.New("boom")
	stats, _ = s.SyncContacts(context.Background(), "")
	if stats.Total != 3 || stats.Failed != 3 {
		t.Fatalf("failure stats = %+v", stats)
	}
}
