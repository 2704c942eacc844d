// Assistant HTTP handlers.
//
//   - POST /agent/conversations                 (create)
//   - GET  /agent/conversations                 (list, paginated, ETag support)
//   - PUT  /agent/conversations/{id}/title      (rename)
//   - POST /agent/conversations/{id}/messages   (ask; assistant reply)
//   - GET  /agent/conversations/{id}/messages   (list, paginated, ETag support)
//   - POST /agent/messages/{id}/feedback        (rate an assistant reply)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, conversation, key), PostMessage returns that
// recorded assistant message and sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/http/middleware"
	"github.com/tbourn/go-congress-backend/internal/repo"
	"github.com/tbourn/go-congress-backend/internal/services"
)

// defaultIdempotencyTTL bounds how long a stored reply is replayed when
// Deps.IdempotencyTTL is unset.
const defaultIdempotencyTTL = 24 * time.Hour

//
// DTOs
//

// CreateConversationRequest is the JSON payload for creating a conversation.
type CreateConversationRequest struct {
	// Title optionally names the conversation; the first prompt names it otherwise.
	Title string `json:"title" example:"Utah delegation"`
}

// UpdateTitleRequest is the JSON payload for renaming a conversation.
type UpdateTitleRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"Farm bill votes"`
}

// ListConversationsResponse wraps a page of conversations.
type ListConversationsResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}

// PostMessageRequest is the JSON payload for asking the assistant.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,min=1" example:"How did Mike Lee vote recently?"`
}

// PostMessageResponse wraps the assistant reply.
type PostMessageResponse struct {
	Message *domain.Message `json:"message"`
}

// ListMessagesResponse wraps a page of messages, oldest first.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// LeaveFeedbackRequest is the JSON payload for rating a reply.
type LeaveFeedbackRequest struct {
	// Value is +1 (helpful) or -1 (not helpful).
	Value int `json:"value" binding:"required,oneof=-1 1" example:"1"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes line endings, collapses blank-line runs and
// trims the prompt.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// maxPromptRunes reads the limit configured on the concrete service.
func maxPromptRunes(svc AssistantService) int {
	const fallback = 2000
	if as, isSvc := svc.(*services.AssistantService); isSvc && as.MaxPromptRunes > 0 {
		return as.MaxPromptRunes
	}
	return fallback
}

func conversationIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return "", false
	}
	return id, true
}

// checkETag sets a weak ETag built from (kind, key, count, newest update)
// and reports whether the request's If-None-Match already matches it.
func checkETag(c *gin.Context, kind, key string, count int64, maxTS *time.Time) bool {
	var ts int64
	if maxTS != nil {
		ts = maxTS.Unix()
	}
	etag := fmt.Sprintf(`W/"%s:%s:%d:%d"`, kind, key, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

//
// Conversations
//

// CreateConversation godoc
// @ID          createConversation
// @Summary     Create a conversation
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateConversationRequest  false  "Create payload"
// @Success     201  {object}  domain.Conversation
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /agent/conversations [post]
func (h *Handlers) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}

	conv, err := h.convSvc.Create(c.Request.Context(), userID(c), strings.TrimSpace(req.Title))
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, conv)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List conversations (paginated)
// @Description Returns a page of the user's conversations, newest first. Supports weak ETag via If-None-Match.
// @Tags        Assistant
// @Produce     json
// @Param       X-User-ID      header  string  false "User ID (demo header)"  example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListConversationsResponse
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /agent/conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize, valid := pageParams(c)
	if !valid {
		return
	}

	if svc, isSvc := h.convSvc.(*services.ConversationService); isSvc && svc.DB != nil {
		if count, maxTS, err := repo.ConversationsStats(ctx, svc.DB, uid); err == nil {
			if checkETag(c, "conversations", uid, count, maxTS) {
				return
			}
		}
	}

	items, total, err := h.convSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListConversationsResponse{
		Conversations: items,
		Pagination:    newPagination(page, pageSize, total),
	})
}

// UpdateConversationTitle godoc
// @ID          updateConversationTitle
// @Summary     Rename a conversation
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Conversation ID (UUID)"  format(uuid)
// @Param       body       body    handlers.UpdateTitleRequest  true  "New title"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Conversation not found"
// @Router      /agent/conversations/{id}/title [put]
func (h *Handlers) UpdateConversationTitle(c *gin.Context) {
	convID, valid := conversationIDParam(c)
	if !valid {
		return
	}
	var req UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–255 chars)")
		return
	}

	if err := h.convSvc.UpdateTitle(c.Request.Context(), userID(c), convID, req.Title); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

//
// Messages
//

// PostMessage godoc
// @ID          postMessage
// @Summary     Ask the assistant
// @Description Stores the prompt and an assistant reply built from data-tool calls.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header  string  true  "User ID that owns the conversation"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       id               path    string  true  "Conversation ID (UUID)"  format(uuid)
// @Param       body             body    handlers.PostMessageRequest  true  "Prompt"
// @Success     200  {object}  handlers.PostMessageResponse "Assistant reply"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /agent/conversations/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	convID, valid := conversationIDParam(c)
	if !valid {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	content := sanitizeContent(req.Content)
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	if maxRunes := maxPromptRunes(h.asstSvc); utf8.RuneCountInString(content) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		return
	}

	uid := userID(c)
	svc, isSvc := h.asstSvc.(*services.AssistantService)
	canStore := isSvc && svc.DB != nil

	// Replay path.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && canStore {
		if rec, err := repo.GetIdempotency(ctx, svc.DB, uid, convID, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err := repo.GetMessage(ctx, svc.DB, rec.MessageID); err == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, PostMessageResponse{Message: prev})
				return
			}
		}
	}

	m, err := h.asstSvc.Answer(ctx, uid, convID, content)
	if err != nil {
		failErr(c, err, ErrCodeAnswerFailed)
		return
	}

	// Store path, best effort.
	if idemKey != "" && canStore {
		if _, err := repo.CreateIdempotency(ctx, svc.DB, uid, convID, idemKey, m.ID, http.StatusOK, h.idemTTL); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusOK, PostMessageResponse{Message: m})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List conversation messages
// @Tags        Assistant
// @Produce     json
// @Param       id             path    string  true  "Conversation ID (UUID)"  format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListMessagesResponse
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Conversation not found"
// @Router      /agent/conversations/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	convID, valid := conversationIDParam(c)
	if !valid {
		return
	}
	page, pageSize, valid := pageParams(c)
	if !valid {
		return
	}

	if svc, isSvc := h.asstSvc.(*services.AssistantService); isSvc && svc.DB != nil {
		if count, maxTS, err := repo.MessagesStats(ctx, svc.DB, convID); err == nil && count > 0 {
			if checkETag(c, "messages", convID, count, maxTS) {
				return
			}
		}
	}

	items, total, err := h.asstSvc.ListPage(ctx, convID, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

//
// Feedback
//

// LeaveFeedback godoc
// @ID          leaveFeedback
// @Summary     Rate an assistant reply
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Message ID (UUID)"      format(uuid)
// @Param       body       body    handlers.LeaveFeedbackRequest  true  "Feedback payload"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     403  {object}  handlers.ErrorResponse "Not allowed to leave feedback"
// @Failure     404  {object}  handlers.ErrorResponse "Message not found"
// @Failure     409  {object}  handlers.ErrorResponse "Feedback already exists"
// @Router      /agent/messages/{id}/feedback [post]
func (h *Handlers) LeaveFeedback(c *gin.Context) {
	var req LeaveFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1")
		return
	}

	if err := h.fbSvc.Leave(c.Request.Context(), userID(c), c.Param("id"), req.Value); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}
