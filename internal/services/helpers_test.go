package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

var fixedNow = time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection: shared-cache SQLite does not honor busy_timeout for
	// table locks, so concurrent sync workers are serialized here.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedMember(t *testing.T, db *gorm.DB, id, first, last, state string, ch domain.Chamber) *domain.Member {
	t.Helper()
	m, err := domain.NewMember(domain.Member{
		BioguideID: id,
		Name:       first + " " + last,
		FirstName:  first,
		LastName:   last,
		State:      state,
		Chamber:    ch,
		Party:      "D",
		UpdatedAt:  fixedNow,
	})
	if err != nil {
		t.Fatalf("new member %s: %v", id, err)
	}
	if err := repo.UpsertMember(context.Background(), db, m); err != nil {
		t.Fatalf("seed member %s: %v", id, err)
	}
	return m
}

// fromJSON decodes s into a T, for building upstream records whose numeric
// fields use the congress package's lenient decoders.
func fromJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

func billRecord(t *testing.T, congressNum int, typ string, number int, title string) congress.BillRecord {
	t.Helper()
	return fromJSON[congress.BillRecord](t, fmt.Sprintf(
		`{"congress":%d,"type":%q,"number":"%d","title":%q,"introducedDate":"2025-01-%02d","sponsors":[{"bioguideId":"l000577"}]}`,
		congressNum, typ, number, title, 1+number%28))
}

func notFound(op string) error { return fmt.Errorf("%s: %w", op, congress.ErrNotFound) }

// fakeUpstream implements MemberUpstream, BillUpstream and VoteUpstream
// from in-memory fixtures and counts calls per operation.
type fakeUpstream struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error

	roster      []congress.MemberRecord
	members     map[string]congress.MemberRecord
	sponsored   []congress.BillRecord
	cosponsored []congress.BillRecord
	legCount    int

	bills      []congress.BillRecord
	billDetail map[string]congress.BillRecord
	summaries  map[string][]congress.SummaryRecord
	subjects   map[string]*congress.SubjectsRecord
	actions    []congress.BillAction

	voteList     map[domain.Chamber][]congress.VoteListItem
	houseVotes   map[int]congress.VoteRecord
	houseMembers map[int][]congress.HouseMemberVote
	senateXML    map[int]string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		calls:        map[string]int{},
		errs:         map[string]error{},
		members:      map[string]congress.MemberRecord{},
		billDetail:   map[string]congress.BillRecord{},
		summaries:    map[string][]congress.SummaryRecord{},
		subjects:     map[string]*congress.SubjectsRecord{},
		voteList:     map[domain.Chamber][]congress.VoteListItem{},
		houseVotes:   map[int]congress.VoteRecord{},
		houseMembers: map[int][]congress.HouseMemberVote{},
		senateXML:    map[int]string{},
	}
}

func (f *fakeUpstream) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeUpstream) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// addBill registers a bill in both the listing and the detail fixtures.
func (f *fakeUpstream) addBill(r congress.BillRecord) {
	f.bills = append(f.bills, r)
	f.billDetail[domain.BillID(r.Type, int(*r.Number), int(r.Congress))] = r
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

func (f *fakeUpstream) ListMembers(_ context.Context, _, limit, offset int) ([]congress.MemberRecord, congress.Pagination, error) {
	if err := f.hit("members.list"); err != nil {
		return nil, congress.Pagination{}, err
	}
	return page(f.roster, limit, offset), congress.Pagination{Count: len(f.roster)}, nil
}

func (f *fakeUpstream) Member(_ context.Context, id string) (*congress.MemberRecord, error) {
	if err := f.hit("members.get"); err != nil {
		return nil, err
	}
	r, ok := f.members[id]
	if !ok {
		return nil, notFound("members.get")
	}
	return &r, nil
}

func (f *fakeUpstream) SponsoredLegislation(_ context.Context, _ string, limit, offset int) ([]congress.BillRecord, congress.Pagination, error) {
	if err := f.hit("members.sponsored"); err != nil {
		return nil, congress.Pagination{}, err
	}
	return page(f.sponsored, limit, offset), congress.Pagination{Count: f.legCount}, nil
}

func (f *fakeUpstream) CosponsoredLegislation(_ context.Context, _ string, limit, offset int) ([]congress.BillRecord, congress.Pagination, error) {
	if err := f.hit("members.cosponsored"); err != nil {
		return nil, congress.Pagination{}, err
	}
	return page(f.cosponsored, limit, offset), congress.Pagination{Count: f.legCount}, nil
}

func (f *fakeUpstream) ListBills(_ context.Context, _, limit, offset int) ([]congress.BillRecord, congress.Pagination, error) {
	if err := f.hit("bills.list"); err != nil {
		return nil, congress.Pagination{}, err
	}
	return page(f.bills, limit, offset), congress.Pagination{Count: len(f.bills)}, nil
}

func (f *fakeUpstream) Bill(_ context.Context, c int, typ string, n int) (*congress.BillRecord, error) {
	if err := f.hit("bills.get"); err != nil {
		return nil, err
	}
	r, ok := f.billDetail[domain.BillID(typ, n, c)]
	if !ok {
		return nil, notFound("bills.get")
	}
	return &r, nil
}

func (f *fakeUpstream) BillSummaries(_ context.Context, c int, typ string, n int) ([]congress.SummaryRecord, error) {
	if err := f.hit("bills.summaries"); err != nil {
		return nil, err
	}
	return f.summaries[domain.BillID(typ, n, c)], nil
}

func (f *fakeUpstream) BillSubjects(_ context.Context, c int, typ string, n int) (*congress.SubjectsRecord, error) {
	if err := f.hit("bills.subjects"); err != nil {
		return nil, err
	}
	return f.subjects[domain.BillID(typ, n, c)], nil
}

func (f *fakeUpstream) BillActions(_ context.Context, _ int, _ string, _, limit int) ([]congress.BillAction, error) {
	if err := f.hit("bills.actions"); err != nil {
		return nil, err
	}
	return page(f.actions, limit, 0), nil
}

func (f *fakeUpstream) ListVotes(_ context.Context, ch domain.Chamber, _, _, limit, offset int) ([]congress.VoteListItem, congress.Pagination, error) {
	if err := f.hit(string(ch) + ".votes.list"); err != nil {
		return nil, congress.Pagination{}, err
	}
	all := f.voteList[ch]
	return page(all, limit, offset), congress.Pagination{Count: len(all)}, nil
}

func (f *fakeUpstream) HouseVote(_ context.Context, _, _, roll int) (*congress.VoteRecord, error) {
	if err := f.hit("house.votes.get"); err != nil {
		return nil, err
	}
	r, ok := f.houseVotes[roll]
	if !ok {
		return nil, notFound("house.votes.get")
	}
	return &r, nil
}

func (f *fakeUpstream) HouseVoteMembers(_ context.Context, _, _, roll int) ([]congress.HouseMemberVote, error) {
	if err := f.hit("house.votes.members"); err != nil {
		return nil, err
	}
	return f.houseMembers[roll], nil
}

func (f *fakeUpstream) SenateVoteXML(_ context.Context, _, _, roll int, _ string) ([]byte, error) {
	if err := f.hit("senate.votes.xml"); err != nil {
		return nil, err
	}
	doc, ok := f.senateXML[roll]
	if !ok {
		return nil, notFound("senate.votes.xml")
	}
	return []byte(doc), nil
}

var (
	_ MemberUpstream = (*fakeUpstream)(nil)
	_ BillUpstream   = (*fakeUpstream)(nil)
	_ VoteUpstream   = (*fakeUpstream)(nil)
)
