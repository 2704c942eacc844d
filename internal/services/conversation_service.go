// Package services – ConversationService
//
// ConversationService manages assistant conversations: creation with a
// normalized title, paginated listing and title updates. Ownership is
// enforced on every lookup. Automatic titling from the first prompt is done
// by AssistantService.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

// ConversationRepo defines the persistence contract of ConversationService.
type ConversationRepo interface {
	// CreateConversation inserts a conversation for the given user.
	CreateConversation(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Conversation, error)

	// GetConversation fetches a conversation by id, scoped to its owner.
	GetConversation(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Conversation, error)

	// UpdateConversationTitle renames an owned conversation.
	UpdateConversationTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error

	// CountConversations returns the number of a user's conversations.
	CountConversations(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// ListConversationsPage returns one page of a user's conversations.
	ListConversationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Conversation, error)
}

// Placeholder titles eligible for automatic replacement.
const (
	defaultTitleNew      = "New conversation"
	defaultTitleUntitled = "Untitled"
)

// ConversationService provides conversation-level operations.
type ConversationService struct {
	DB   *gorm.DB
	Repo ConversationRepo

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// TitleLocale is used by AssistantService when casing generated titles.
	TitleLocale language.Tag
}

// NewConversationService constructs a ConversationService with a 60-rune
// title cap.
func NewConversationService(db *gorm.DB, r ConversationRepo) *ConversationService {
	return &ConversationService{
		DB:          db,
		Repo:        r,
		TitleMaxLen: 60,
		TitleLocale: language.Und,
	}
}

// Create inserts a conversation owned by userID. A blank title becomes the
// placeholder "New conversation".
func (s *ConversationService) Create(ctx context.Context, userID, title string) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Create", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	title = normalizeTitle(title)
	if title == "" {
		title = defaultTitleNew
	}
	return s.Repo.CreateConversation(ctx, s.DB, userID, s.clip(title))
}

// Get returns an owned conversation or ErrConversationNotFound.
func (s *ConversationService) Get(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	c, err := s.Repo.GetConversation(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListPage returns a page of a user's conversations, newest first, and the
// total count.
func (s *ConversationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Conversation, int64, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	_, size, offset := normalizePage(page, pageSize)

	total, err := s.Repo.CountConversations(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversation{}, 0, nil
	}
	items, err := s.Repo.ListConversationsPage(ctx, s.DB, userID, offset, size)
	return items, total, err
}

// UpdateTitle renames an owned conversation. A blank title becomes
// "Untitled".
func (s *ConversationService) UpdateTitle(ctx context.Context, userID, id, title string) error {
	title = normalizeTitle(title)
	if title == "" {
		title = defaultTitleUntitled
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.UpdateConversationTitle(ctx, s.DB, id, userID, s.clip(title))
}

func (s *ConversationService) clip(title string) string {
	return clipRunes(title, s.TitleMaxLen)
}

func clipRunes(s string, n int) string {
	if n > 0 && utf8.RuneCountInString(s) > n {
		return string([]rune(s)[:n])
	}
	return s
}

// normalizeTitle trims whitespace and collapses runs of it to one space.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)
