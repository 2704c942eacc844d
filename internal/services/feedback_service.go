// Package services – FeedbackService
//
// FeedbackService records +1/-1 ratings of assistant replies. It checks
// that the message exists, that its conversation belongs to the rater and
// that it is an assistant message, and maps the unique-index violation of a
// second rating to ErrDuplicateFeedback.
package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

// FeedbackService implements the message feedback use cases.
type FeedbackService struct {
	DB *gorm.DB
}

// Leave records value for messageID on behalf of userID.
//
// Errors:
//   - ErrInvalidFeedback when value is not -1 or 1.
//   - ErrMessageNotFound when the message does not exist.
//   - ErrForbiddenFeedback when the conversation is not the user's or the
//     message is not an assistant reply.
//   - ErrDuplicateFeedback when the user already rated the message.
//
// The checks and the insert run in one transaction.
func (s *FeedbackService) Leave(ctx context.Context, userID, messageID string, value int) error {
	tr := otel.Tracer("services/FeedbackService")
	ctx, span := tr.Start(ctx, "Leave",
		trace.WithAttributes(
			attribute.String("message.id", messageID),
			attribute.String("user.id", userID),
			attribute.Int("value", value),
		),
	)
	defer span.End()

	if value != -1 && value != 1 {
		return ErrInvalidFeedback
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msg, err := repo.GetMessage(ctx, tx, messageID)
		if err != nil {
			if isNotFound(err) {
				return ErrMessageNotFound
			}
			return err
		}
		if _, err := repo.GetConversation(ctx, tx, msg.ConversationID, userID); err != nil {
			return ErrForbiddenFeedback
		}
		if msg.Role != domain.RoleAssistant {
			return ErrForbiddenFeedback
		}
		if err := repo.CreateFeedback(ctx, tx, messageID, userID, value); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrDuplicateFeedback
			}
			return err
		}
		return nil
	})
}

// Totals returns the number of positive and negative ratings.
func (s *FeedbackService) Totals(ctx context.Context) (repo.FeedbackTotals, error) {
	return repo.SumFeedback(ctx, s.DB)
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate detects unique-constraint violations that the driver does not
// translate to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite: "UNIQUE constraint failed"; Postgres: "duplicate key value violates unique constraint".
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
