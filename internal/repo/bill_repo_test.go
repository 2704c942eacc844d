package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

func mustBill(t *testing.T, b domain.Bill) *domain.Bill {
	t.Helper()
	nb, err := domain.NewBill(b)
	if err != nil {
		t.Fatalf("NewBill: %v", err)
	}
	return nb
}

func TestBills_UpsertGetAndFilters(t *testing.T) {
	db := newTestDB(t, &domain.Bill{}, &domain.Member{})
	ctx := context.Background()
	now := time.Now().UTC()

	_ = UpsertMember(ctx, db, &domain.Member{BioguideID: "L000577", Name: "Mike Lee", LastName: "Lee", State: "UT", Party: "R", Chamber: domain.ChamberSenate})
	_ = UpsertMember(ctx, db, &domain.Member{BioguideID: "S000033", Name: "Bernie Sanders", LastName: "Sanders", State: "VT", Party: "I", Chamber: domain.ChamberSenate})

	bills := []*domain.Bill{
		mustBill(t, domain.Bill{Type: "s", Number: 10, Congress: 118, Title: "Energy Freedom Act", SponsorID: "L000577", IntroducedDate: "2023-02-01",
			PolicyArea: "Energy", Subjects: []string{"Oil and gas"}, UpdatedAt: now}),
		mustBill(t, domain.Bill{Type: "s", Number: 11, Congress: 118, Title: "Medicare for All", SponsorID: "S000033", IntroducedDate: "2023-05-01",
			PolicyArea: "Health", Summaries: []domain.BillSummary{{VersionCode: "00", TextPlain: "Establishes a national health insurance program"}}, UpdatedAt: now}),
		mustBill(t, domain.Bill{Type: "hr", Number: 1, Congress: 119, Title: "100% Clean_Energy", IntroducedDate: "2025-01-03", UpdatedAt: now.Add(-3 * time.Hour)}),
	}
	for _, b := range bills {
		if err := UpsertBill(ctx, db, b); err != nil {
			t.Fatalf("UpsertBill %s: %v", b.BillID, err)
		}
	}
	again := *bills[0]
	again.LatestAction = "Referred to committee"
	if err := UpsertBill(ctx, db, &again); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	got, err := GetBill(ctx, db, "s10-118")
	if err != nil || got.LatestAction != "Referred to committee" || len(got.Subjects) != 1 {
		t.Fatalf("GetBill = %+v, %v", got, err)
	}
	if _, err := GetBill(ctx, db, "hr999-118"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	check := func(name string, f BillFilter, want ...string) {
		t.Helper()
		n, err := CountBills(ctx, db, f)
		if err != nil {
			t.Fatalf("%s: count: %v", name, err)
		}
		page, err := ListBillsPage(ctx, db, f, 0, 50)
		if err != nil {
			t.Fatalf("%s: list: %v", name, err)
		}
		if int(n) != len(want) || len(page) != len(want) {
			t.Fatalf("%s: got count=%d page=%d want %d", name, n, len(page), len(want))
		}
		for i, id := range want {
			if page[i].BillID != id {
				t.Fatalf("%s: page[%d]=%s want %s", name, i, page[i].BillID, id)
			}
		}
	}
	check("all", BillFilter{}, "hr1-119", "s11-118", "s10-118")
	check("congress", BillFilter{Congress: 118}, "s11-118", "s10-118")
	check("type", BillFilter{Type: "HR"}, "hr1-119")
	check("sponsor", BillFilter{SponsorID: "l000577"}, "s10-118")
	check("party", BillFilter{SponsorParty: "i"}, "s11-118")
	check("subject", BillFilter{Subject: "oil"}, "s10-118")
	check("policy", BillFilter{Subject: "health"}, "s11-118")
	check("keyword summary", BillFilter{Query: "insurance"}, "s11-118")
	check("keyword title words", BillFilter{Query: "energy act"}, "s10-118")
	check("keyword literal wildcard", BillFilter{Query: "100%"}, "hr1-119")
	check("underscore literal", BillFilter{Query: "n_e"}, "hr1-119")
	check("no match", BillFilter{Query: "zzz"})

	fresh, err := FreshBillIDs(ctx, db, []string{"s10-118", "hr1-119", "missing"}, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("FreshBillIDs: %v", err)
	}
	if _, ok := fresh["s10-118"]; !ok || len(fresh) != 1 {
		t.Fatalf("unexpected fresh set: %v", fresh)
	}
}
