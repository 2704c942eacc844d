package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
	"github.com/tbourn/go-congress-backend/internal/services"
	"github.com/tbourn/go-congress-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// MemberService serves member searches, details and per-member records.
type MemberService interface {
	Search(ctx context.Context, q services.MemberQuery) (services.Page[services.MemberSummary], error)
	Get(ctx context.Context, id string) (*domain.Member, error)
	Bills(ctx context.Context, id, kind string, page, pageSize int) (services.Page[domain.Bill], error)
	Votes(ctx context.Context, id string, page, pageSize int) (services.Page[domain.MemberVoteRecord], error)
	States(ctx context.Context) ([]repo.StateCount, error)
	Stats(ctx context.Context) (services.MemberStats, error)
}

// BillService serves bill searches, details and actions.
type BillService interface {
	Search(ctx context.Context, q services.BillQuery) (services.Page[domain.Bill], error)
	Get(ctx context.Context, id string) (*domain.Bill, error)
	Actions(ctx context.Context, id string, limit int) ([]congress.BillAction, error)
}

// VoteService serves roll-call searches and details.
type VoteService interface {
	Search(ctx context.Context, q services.VoteQuery) (services.Page[domain.Vote], error)
	Get(ctx context.Context, id string) (*domain.Vote, error)
	Recent(ctx context.Context, ch domain.Chamber, limit int) ([]domain.Vote, error)
}

// ConversationService manages assistant conversations.
type ConversationService interface {
	Create(ctx context.Context, userID, title string) (*domain.Conversation, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Conversation, int64, error)
	UpdateTitle(ctx context.Context, userID, conversationID, title string) error
}

// AssistantService answers prompts and lists conversation messages.
type AssistantService interface {
	Answer(ctx context.Context, userID, conversationID, prompt string) (*domain.Message, error)
	ListPage(ctx context.Context, conversationID string, page, pageSize int) ([]domain.Message, int64, error)
}

// FeedbackService records ratings of assistant messages.
type FeedbackService interface {
	Leave(ctx context.Context, userID, messageID string, value int) error
}

var (
	_ MemberService       = (*services.MemberService)(nil)
	_ BillService         = (*services.BillService)(nil)
	_ VoteService         = (*services.VoteService)(nil)
	_ ConversationService = (*services.ConversationService)(nil)
	_ AssistantService    = (*services.AssistantService)(nil)
	_ FeedbackService     = (*services.FeedbackService)(nil)
)

//
// Handler wiring
//

// Deps bundles the services behind the handlers. Nil services leave their
// routes answering 500.
type Deps struct {
	Members       MemberService
	Bills         BillService
	Votes         VoteService
	Conversations ConversationService
	Assistant     AssistantService
	Feedback      FeedbackService

	// IdempotencyTTL is how long an answered Idempotency-Key replays.
	IdempotencyTTL time.Duration
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	members MemberService
	bills   BillService
	votes   VoteService
	convSvc ConversationService
	asstSvc AssistantService
	fbSvc   FeedbackService

	idemTTL time.Duration
}

// New constructs Handlers bound to d.
func New(d Deps) *Handlers {
	h := &Handlers{
		members: d.Members,
		bills:   d.Bills,
		votes:   d.Votes,
		convSvc: d.Conversations,
		asstSvc: d.Assistant,
		fbSvc:   d.Feedback,
		idemTTL: d.IdempotencyTTL,
	}
	if h.idemTTL <= 0 {
		h.idemTTL = defaultIdempotencyTTL
	}
	return h
}

// userID extracts the caller from the Gin context (set by upstream
// middleware), then the X-User-ID header, then "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// pageParams reads page and page_size. Invalid values abort with 400.
func pageParams(c *gin.Context) (page, pageSize int, valid bool) {
	page, pageSize, err := utils.ParsePage(c.Query("page"), c.Query("page_size"))
	if err != nil {
		failErr(c, err, ErrCodeBadRequest)
		return 0, 0, false
	}
	return page, pageSize, true
}

// intParam reads an optional integer query parameter. Invalid values abort
// with 400.
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := utils.ParseOptionalInt(c.Query(name))
	if err != nil || n < 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

// Pagination carries pagination metadata for list responses that are not
// services.Page envelopes.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	pages := 1
	if total > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}
