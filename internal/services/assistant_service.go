// Package services – AssistantService
//
// AssistantService owns the message lifecycle of a conversation. It
// validates the prompt, checks ownership, asks the Planner for a reply
// built from data-tool calls, and stores the user/assistant pair in one
// transaction. The first prompt of a placeholder-titled conversation also
// names it.
package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

// Reply is a planner answer and the tools it called.
type Reply struct {
	Text  string
	Tools []string
}

// Planner turns a prompt into a reply by calling data tools.
type Planner interface {
	Plan(ctx context.Context, prompt string) (Reply, error)
}

// fallbackReply is stored when no planner is wired or planning fails.
const fallbackReply = "I can't answer that from the available Congress data."

// AssistantService coordinates message persistence and planner replies.
type AssistantService struct {
	DB      *gorm.DB
	Planner Planner

	MaxPromptRunes int
	MaxReplyRunes  int

	TitleLocale language.Tag
	TitleMaxLen int
}

// Answer stores prompt and the planner's reply in conversationID and
// returns the assistant message.
func (s *AssistantService) Answer(ctx context.Context, userID, conversationID, prompt string) (*domain.Message, error) {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if s.MaxPromptRunes > 0 && utf8.RuneCountInString(prompt) > s.MaxPromptRunes {
		return nil, ErrTooLong
	}

	conv, err := repo.GetConversation(ctx, s.DB, conversationID, userID)
	if err != nil {
		return nil, ErrConversationNotFound
	}

	reply := s.plan(ctx, prompt)
	reply.Text = clipRunes(reply.Text, s.MaxReplyRunes)
	span.SetAttributes(attribute.StringSlice("tools", reply.Tools))

	var assistantMsg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateMessage(ctx, tx, conversationID, domain.RoleUser, prompt, nil); err != nil {
			return err
		}
		m, err := repo.CreateMessage(ctx, tx, conversationID, domain.RoleAssistant, reply.Text, reply.Tools)
		if err != nil {
			return err
		}
		assistantMsg = m

		if shouldAutoTitle(conv.Title) {
			if gen := s.clipTitle(s.generateTitle(prompt)); gen != "" {
				if uerr := tx.Model(&domain.Conversation{}).Where("id = ?", conversationID).Update("title", gen).Error; uerr == nil {
					conv.Title = gen
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assistantMsg, nil
}

// ListPage returns a page of a conversation's messages, oldest first.
func (s *AssistantService) ListPage(ctx context.Context, conversationID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	_, size, offset := normalizePage(page, pageSize)

	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Conversation{}).Where("id = ?", conversationID).Count(&n).Error; err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, ErrConversationNotFound
	}

	total, err := repo.CountMessages(ctx, s.DB, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}
	items, err := repo.ListMessagesPage(ctx, s.DB, conversationID, offset, size)
	return items, total, err
}

func (s *AssistantService) plan(ctx context.Context, prompt string) Reply {
	if s.Planner == nil {
		return Reply{Text: fallbackReply}
	}
	r, err := s.Planner.Plan(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("assistant planning failed")
		return Reply{Text: fallbackReply, Tools: r.Tools}
	}
	if strings.TrimSpace(r.Text) == "" {
		r.Text = fallbackReply
	}
	return r
}

func shouldAutoTitle(current string) bool {
	t := strings.ToLower(strings.TrimSpace(current))
	return t == "" || t == strings.ToLower(defaultTitleNew) || t == strings.ToLower(defaultTitleUntitled)
}

// generateTitle keeps up to eight non-stopword words of the prompt in title
// case.
func (s *AssistantService) generateTitle(prompt string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(prompt), -1)
	if len(toks) == 0 {
		return ""
	}
	loc := s.TitleLocale
	if loc == language.Und {
		loc = language.English
	}
	caser := cases.Title(loc)
	out := make([]string, 0, 8)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, caser.String(w))
		if len(out) >= 8 {
			break
		}
	}
	return strings.Join(out, " ")
}

func (s *AssistantService) clipTitle(title string) string {
	n := s.TitleMaxLen
	if n <= 0 {
		n = 60
	}
	return clipRunes(title, n)
}

var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*|[\p{N}]+`)

var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
	"who": {}, "what": {}, "which": {}, "how": {}, "me": {}, "show": {}, "tell": {}, "about": {},
}
