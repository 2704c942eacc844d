package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

// seedReply creates a conversation owned by userID holding one message.
func seedReply(t *testing.T, db *gorm.DB, userID, role string) *domain.Message {
	t.Helper()
	ctx := context.Background()
	conv, err := repo.CreateConversation(ctx, db, userID, "t")
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	msg, err := repo.CreateMessage(ctx, db, conv.ID, role, "answer", nil)
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return msg
}

func TestFeedback_Leave_InvalidValue(t *testing.T) {
	svc := &FeedbackService{DB: newTestDB(t)}

	err := svc.Leave(context.Background(), "u1", "m1", 0)
	if !errors.Is(err, ErrInvalidFeedback) {
		t.Fatalf("expected ErrInvalidFeedback, got %v", err)
	}
}

func TestFeedback_Leave_MessageNotFound(t *testing.T) {
	svc := &FeedbackService{DB: newTestDB(t)}

	err := svc.Leave(context.Background(), "u1", "missing", 1)
	if !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestFeedback_Leave_ConversationNotOwned(t *testing.T) {
	db := newTestDB(t)
	msg := seedReply(t, db, "ownerA", domain.RoleAssistant)

	svc := &FeedbackService{DB: db}
	err := svc.Leave(context.Background(), "uX", msg.ID, 1)
	if !errors.Is(err, ErrForbiddenFeedback) {
		t.Fatalf("expected ErrForbiddenFeedback (not owner), got %v", err)
	}
}

func TestFeedback_Leave_NotAssistantRole(t *testing.T) {
	db := newTestDB(t)
	msg := seedReply(t, db, "u1", domain.RoleUser)

	svc := &FeedbackService{DB: db}
	err := svc.Leave(context.Background(), "u1", msg.ID, -1)
	if !errors.Is(err, ErrForbiddenFeedback) {
		t.Fatalf("expected ErrForbiddenFeedback (role=user), got %v", err)
	}
}

func TestFeedback_Leave_DuplicateFeedback(t *testing.T) {
	db := newTestDB(t)
	msg := seedReply(t, db, "u1", domain.RoleAssistant)
	svc := &FeedbackService{DB: db}

	if err := svc.Leave(context.Background(), "u1", msg.ID, 1); err != nil {
		t.Fatalf("first Leave failed: %v", err)
	}
	err := svc.Leave(context.Background(), "u1", msg.ID, -1)
	if !errors.Is(err, ErrDuplicateFeedback) {
		t.Fatalf("expected ErrDuplicateFeedback, got %v", err)
	}
}

func TestFeedback_Leave_SuccessAndTotals(t *testing.T) {
	db := newTestDB(t)
	msg := seedReply(t, db, "u9", domain.RoleAssistant)
	other := seedReply(t, db, "u8", domain.RoleAssistant)
	svc := &FeedbackService{DB: db}

	if err := svc.Leave(context.Background(), "u9", msg.ID, -1); err != nil {
		t.Fatalf("Leave returned error: %v", err)
	}
	if err := svc.Leave(context.Background(), "u8", other.ID, 1); err != nil {
		t.Fatalf("Leave returned error: %v", err)
	}

	var got domain.Feedback
	if err := db.Where("message_id = ? AND user_id = ?", msg.ID, "u9").First(&got).Error; err != nil {
		t.Fatalf("load feedback: %v", err)
	}
	if got.Value != -1 {
		t.Fatalf("expected value -1, got %d", got.Value)
	}
	if got.CreatedAt.IsZero() || time.Since(got.CreatedAt) > time.Minute {
		t.Fatalf("unexpected CreatedAt: %v", got.CreatedAt)
	}

	totals, err := svc.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Up != 1 || totals.Down != 1 {
		t.Fatalf("totals = %+v", totals)
	}
}

func Test_isNotFound_and_isDuplicate(t *testing.T) {
	if !isNotFound(repo.ErrNotFound) {
		t.Fatalf("isNotFound(repo.ErrNotFound) = false; want true")
	}
	if isNotFound(errors.New("nope")) {
		t.Fatalf("isNotFound(random) = true; want false")
	}
	if !isDuplicate(errors.New("UNIQUE constraint failed: feedback.message_id, feedback.user_id")) {
		t.Fatalf("isDuplicate(sqlite unique) = false; want true")
	}
	if !isDuplicate(errors.New("duplicate key value violates unique constraint \"ux_feedback_message_user\"")) {
		t.Fatalf("isDuplicate(pg duplicate) = false; want true")
	}
	if isDuplicate(errors.New("some other error")) {
		t.Fatalf("isDuplicate(other) = true; want false")
	}
}

func TestFeedback_Leave_GetMessageUnexpectedDBError(t *testing.T) {
	db := newTestDB(t)
	if err := db.Callback().Query().Before("gorm:query").Register("force_err_on_messages", func(tx *gorm.DB) {
		if tx.Statement != nil && strings.Contains(tx.Statement.Table, "messages") {
			tx.AddError(errors.New("forced-getmessage-error"))
		}
	}); err != nil {
		t.Fatalf("register query callback: %v", err)
	}

	svc := &FeedbackService{DB: db}
	err := svc.Leave(context.Background(), "u1", "m-any", 1)
	if err == nil {
		t.Fatalf("expected error from forced query callback; got nil")
	}
	if errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("unexpected mapping to ErrMessageNotFound: %v", err)
	}
}

func TestFeedback_Leave_CreateUnexpectedDBError(t *testing.T) {
	db := newTestDB(t)
	msg := seedReply(t, db, "uX", domain.RoleAssistant)
	if err := db.Migrator().DropTable("feedback"); err != nil {
		t.Fatalf("drop feedback: %v", err)
	}

	svc := &FeedbackService{DB: db}
	err := svc.Leave(context.Background(), "uX", msg.ID, 1)
	if err == nil {
		t.Fatalf("expected error when feedback table is missing; got nil")
	}
	if errors.Is(err, ErrDuplicateFeedback) || errors.Is(err, ErrForbiddenFeedback) ||
		errors.Is(err, ErrInvalidFeedback) || errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("unexpected mapping to service sentinel error: %v", err)
	}
}

func TestFeedback_Leave_DuplicateFeedback_GormErrDuplicatedKey(t *testing.T) {
	db := newTestDB(t)
	msg := seedReply(t, db, "uY", domain.RoleAssistant)

	if err := db.Callback().Create().Before("gorm:create").Register("force_dup_for_feedback", func(tx *gorm.DB) {
		if tx.Statement != nil && strings.Contains(tx.Statement.Table, "feedback") {
			tx.AddError(gorm.ErrDuplicatedKey)
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	svc := &FeedbackService{DB: db}
	got := svc.Leave(context.Background(), "uY", msg.ID, 1)
	if !errors.Is(got, ErrDuplicateFeedback) {
		t.Fatalf("expected ErrDuplicateFeedback via gorm.ErrDuplicatedKey, got %v", got)
	}
}
