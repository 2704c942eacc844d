package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

func TestConversationsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t)
	if _, _, err := ConversationsStats(context.Background(), db, "u1"); err == nil {
		t.Fatalf("expected error due to missing conversations table")
	}
}

func TestConversationsStats_ZeroAndLatest(t *testing.T) {
	db := newTestDB(t, &domain.Conversation{})
	ctx := context.Background()

	n, ts, err := ConversationsStats(ctx, db, "u1")
	if err != nil || n != 0 || ts != nil {
		t.Fatalf("zero rows: %d %v %v", n, ts, err)
	}

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	db.Create(&domain.Conversation{ID: "a", UserID: "u1", Title: "a", CreatedAt: base, UpdatedAt: base})
	db.Create(&domain.Conversation{ID: "b", UserID: "u1", Title: "b", CreatedAt: base, UpdatedAt: base.Add(time.Hour)})
	db.Create(&domain.Conversation{ID: "c", UserID: "u2", Title: "c", CreatedAt: base, UpdatedAt: base.Add(5 * time.Hour)})

	n, ts, err = ConversationsStats(ctx, db, "u1")
	if err != nil || n != 2 || ts == nil || !ts.Equal(base.Add(time.Hour)) {
		t.Fatalf("stats = %d %v %v", n, ts, err)
	}
}

func TestMessagesStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.Conversation{}, &domain.Message{})
	db.Create(&domain.Conversation{ID: "c1", UserID: "u1", Title: "t"})
	db.Create(&domain.Message{ID: "m1", ConversationID: "c1", Role: domain.RoleUser, Content: "x"})

	if err := db.Exec(`ALTER TABLE messages RENAME COLUMN updated_at TO updated_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}
	if _, _, err := MessagesStats(context.Background(), db, "c1"); err == nil {
		t.Fatalf("expected error from latest-updated select after column rename")
	}
}

func TestMembersStats(t *testing.T) {
	db := newTestDB(t, &domain.Member{})
	ctx := context.Background()
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_ = UpsertMember(ctx, db, &domain.Member{BioguideID: "A000001", Name: "a", State: "CA", Chamber: domain.ChamberHouse, UpdatedAt: ts})
	n, latestTS, err := MembersStats(ctx, db)
	if err != nil || n != 1 || latestTS == nil || !latestTS.Equal(ts) {
		t.Fatalf("MembersStats = %d %v %v", n, latestTS, err)
	}
}
