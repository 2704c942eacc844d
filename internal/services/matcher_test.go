package services

import (
	"context"
	"testing"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

type countingCache struct {
	MatchCache
	gets, puts int
}

func (c *countingCache) Get(k string) (string, bool) { c.gets++; return c.MatchCache.Get(k) }
func (c *countingCache) Put(k, id string)           { c.puts++; c.MatchCache.Put(k, id) }

func TestNameMatcher_Exact(t *testing.T) {
	db := newTestDB(t)
	seedMember(t, db, "P000145", "Alex", "Padilla", "CA", domain.ChamberSenate)
	seedMember(t, db, "S001150", "Adam", "Schiff", "CA", domain.ChamberSenate)

	m := NewNameMatcher(db)
	id, ok := m.Resolve(context.Background(), "adam", "SCHIFF", "ca", "Senate")
	if !ok || id != "S001150" {
		t.Fatalf("Resolve = %q, %v; want S001150", id, ok)
	}
}

func TestNameMatcher_PrefixFallback(t *testing.T) {
	db := newTestDB(t)
	seedMember(t, db, "S000999", "Jonathan", "Smith III", "CA", domain.ChamberSenate)
	// Same last-name prefix, wrong chamber and wrong state.
	seedMember(t, db, "S000111", "John", "Smith", "CA", domain.ChamberHouse)
	seedMember(t, db, "S000222", "John", "Smith", "NV", domain.ChamberSenate)

	m := NewNameMatcher(db)
	id, ok := m.Resolve(context.Background(), "John", "Smith", "CA", "senate")
	if !ok || id != "S000999" {
		t.Fatalf("Resolve = %q, %v; want S000999", id, ok)
	}
}

func TestNameMatcher_PrefixTieBreaksOnSmallestID(t *testing.T) {
	db := newTestDB(t)
	seedMember(t, db, "S000300", "Ann", "Smithers", "CA", domain.ChamberSenate)
	seedMember(t, db, "S000200", "Bea", "Smith Jr.", "CA", domain.ChamberSenate)

	m := NewNameMatcher(db)
	id, ok := m.Resolve(context.Background(), "Cal", "Smith", "CA", "senate")
	if !ok || id != "S000200" {
		t.Fatalf("Resolve = %q, %v; want S000200", id, ok)
	}
}

func TestNameMatcher_QueryLongerThanStoredDoesNotMatch(t *testing.T) {
	db := newTestDB(t)
	seedMember(t, db, "S000999", "John", "Smith", "CA", domain.ChamberSenate)

	m := NewNameMatcher(db)
	if id, ok := m.Resolve(context.Background(), "John", "Smithfield", "CA", "senate"); ok {
		t.Fatalf("Resolve matched %q; stored name is shorter than query", id)
	}
}

func TestNameMatcher_MissReturnsAbsent(t *testing.T) {
	db := newTestDB(t)
	m := NewNameMatcher(db)
	if id, ok := m.Resolve(context.Background(), "Nobody", "Here", "WY", "senate"); ok || id != "" {
		t.Fatalf("Resolve = %q, %v; want miss", id, ok)
	}
	if id, ok := m.Resolve(context.Background(), "First", "", "WY", "senate"); ok || id != "" {
		t.Fatalf("blank last name resolved to %q", id)
	}
}

func TestNameMatcher_CachesHitsOnly(t *testing.T) {
	db := newTestDB(t)
	seedMember(t, db, "L000577", "Mike", "Lee", "UT", domain.ChamberSenate)

	cache := &countingCache{MatchCache: NewMemoryMatchCache()}
	m := &NameMatcher{DB: db, Cache: cache}
	ctx := context.Background()

	if _, ok := m.Resolve(ctx, "Mike", "Lee", "UT", "senate"); !ok {
		t.Fatal("first resolve missed")
	}
	// Remove the row: a second resolve must be served from the cache.
	if err := db.Exec("DELETE FROM members").Error; err != nil {
		t.Fatalf("delete: %v", err)
	}
	id, ok := m.Resolve(ctx, "MIKE", "lee", "ut", "SENATE")
	if !ok || id != "L000577" {
		t.Fatalf("cached Resolve = %q, %v", id, ok)
	}
	if cache.puts != 1 {
		t.Fatalf("puts = %d, want 1", cache.puts)
	}

	if _, ok := m.Resolve(ctx, "Nobody", "Here", "UT", "senate"); ok {
		t.Fatal("unexpected hit")
	}
	if cache.puts != 1 {
		t.Fatalf("miss was cached (puts = %d)", cache.puts)
	}

	m.Reset()
	if _, ok := m.Resolve(ctx, "Mike", "Lee", "UT", "senate"); ok {
		t.Fatal("Reset did not clear the cache")
	}
}

func TestNameMatcher_StoreErrorIsMiss(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrator().DropTable("members"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	m := NewNameMatcher(db)
	if id, ok := m.Resolve(context.Background(), "Mike", "Lee", "UT", "senate"); ok || id != "" {
		t.Fatalf("Resolve = %q, %v; want miss on store error", id, ok)
	}
}

func TestMatchKey(t *testing.T) {
	got := MatchKey(" Mike ", "Lee", "UT", "Senate")
	if got != "lee_mike_ut_senate" {
		t.Fatalf("MatchKey = %q", got)
	}
}

func TestNameMatcher_FoldsNonASCII(t *testing.T) {
	db := newTestDB(t)
	seedMember(t, db, "V000081", "Nydia", "Velázquez", "NY", domain.ChamberHouse)

	m := NewNameMatcher(db)
	id, ok := m.Resolve(context.Background(), "NYDIA", "VELÁZQUEZ", "NY", "house")
	if !ok || id != "V000081" {
		t.Fatalf("exact Resolve = %q, %v; want V000081", id, ok)
	}
	id, ok = NewNameMatcher(db).Resolve(context.Background(), "N.", "VELÁZ", "NY", "house")
	if !ok || id != "V000081" {
		t.Fatalf("prefix Resolve = %q, %v; want V000081", id, ok)
	}
}
