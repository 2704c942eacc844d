package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

func TestCreateConversation_Error_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	c, err := CreateConversation(context.Background(), db, "u1", "t")
	if err == nil || c != nil {
		t.Fatalf("expected error creating without table, got c=%v err=%v", c, err)
	}
}

func TestConversations_CRUDAndPaging(t *testing.T) {
	db := newTestDB(t, &domain.Conversation{})
	ctx := context.Background()

	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"c1", "c2", "c3"} {
		db.Create(&domain.Conversation{ID: id, UserID: "u1", Title: id, CreatedAt: t1.Add(time.Duration(i) * time.Hour)})
	}
	db.Create(&domain.Conversation{ID: "other", UserID: "u2", Title: "x", CreatedAt: t1})

	n, err := CountConversations(ctx, db, "u1")
	if err != nil || n != 3 {
		t.Fatalf("CountConversations = %d, %v", n, err)
	}
	page, err := ListConversationsPage(ctx, db, "u1", 1, 1)
	if err != nil || len(page) != 1 || page[0].ID != "c2" {
		t.Fatalf("ListConversationsPage = %+v, %v", page, err)
	}

	created, err := CreateConversation(ctx, db, "u1", "Who represents Utah?")
	if err != nil || created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("CreateConversation = %+v, %v", created, err)
	}
	got, err := GetConversation(ctx, db, created.ID, "u1")
	if err != nil || got.Title != "Who represents Utah?" {
		t.Fatalf("GetConversation = %+v, %v", got, err)
	}
	if _, err := GetConversation(ctx, db, created.ID, "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user should not see conversation, got %v", err)
	}

	if err := UpdateConversationTitle(ctx, db, created.ID, "u1", "Utah"); err != nil {
		t.Fatalf("UpdateConversationTitle: %v", err)
	}
	if err := UpdateConversationTitle(ctx, db, "nope", "u1", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
