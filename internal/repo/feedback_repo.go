// Feedback persistence.
//
// Error semantics:
//   - Duplicate feedback (same message_id,user_id) relies on the database
//     unique constraint and is returned as a raw DB error. The service layer
//     should translate that into a domain error (e.g., ErrDuplicateFeedback).
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
//
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

// CreateFeedback inserts a rating of an assistant message. A second rating
// of the same message by the same user violates ux_feedback_message_user.
func CreateFeedback(ctx context.Context, db *gorm.DB, messageID, userID string, value int) error {
	fb := &domain.Feedback{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(fb).Error
}

// FeedbackTotals sums the ratings left on assistant messages.
type FeedbackTotals struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

// SumFeedback aggregates ratings across all messages.
func SumFeedback(ctx context.Context, db *gorm.DB) (FeedbackTotals, error) {
	var t FeedbackTotals
	err := db.WithContext(ctx).Model(&domain.Feedback{}).
		Select("COALESCE(SUM(CASE WHEN value = 1 THEN 1 ELSE 0 END), 0) AS up, " +
			"COALESCE(SUM(CASE WHEN value = -1 THEN 1 ELSE 0 END), 0) AS down").
		Scan(&t).Error
	return t, err
}
