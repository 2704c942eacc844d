// Vote HTTP handlers.
//
//   - GET /votes          (search with lazy backfill, paginated)
//   - GET /votes/recent   (newest stored roll calls)
//   - GET /votes/{id}     (detail with member positions)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/services"
	"github.com/tbourn/go-congress-backend/internal/utils"
)

// RecentVotesResponse wraps the newest roll calls.
type RecentVotesResponse struct {
	Votes []domain.Vote `json:"votes"`
}

// SearchVotes godoc
// @ID          searchVotes
// @Summary     Search roll-call votes
// @Tags        Votes
// @Produce     json
//
// @Param       chamber    query  string  false "house or senate"  Enums(house, senate)
// @Param       congress   query  int     false "Congress number"  example(119)
// @Param       session    query  int     false "Session (1 or 2)"
// @Param       bill_id    query  string  false "Bill id"          example(hr1-119)
// @Param       page       query  int     false "Page number"      minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"   minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  services.Page[domain.Vote]
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /votes [get]
func (h *Handlers) SearchVotes(c *gin.Context) {
	page, pageSize, valid := pageParams(c)
	if !valid {
		return
	}
	ch, valid := chamberParam(c)
	if !valid {
		return
	}
	cong, valid := intParam(c, "congress")
	if !valid {
		return
	}
	sess, valid := intParam(c, "session")
	if !valid {
		return
	}
	if sess > 2 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "session must be 1 or 2")
		return
	}

	res, err := h.votes.Search(c.Request.Context(), services.VoteQuery{
		Chamber:  ch,
		Congress: cong,
		Session:  sess,
		BillID:   strings.ToLower(strings.TrimSpace(c.Query("bill_id"))),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// RecentVotes godoc
// @ID          recentVotes
// @Summary     Recent roll-call votes
// @Tags        Votes
// @Produce     json
// @Param       chamber  query  string  false "house or senate"  Enums(house, senate)
// @Param       limit    query  int     false "Max votes"        minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.RecentVotesResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /votes/recent [get]
func (h *Handlers) RecentVotes(c *gin.Context) {
	ch, valid := chamberParam(c)
	if !valid {
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), utils.DefaultPageSize)
	if limit < 1 || limit > utils.MaxPageSize {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be between 1 and 100")
		return
	}

	votes, err := h.votes.Recent(c.Request.Context(), ch, limit)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, RecentVotesResponse{Votes: votes})
}

// GetVote godoc
// @ID          getVote
// @Summary     Roll-call detail
// @Description Returns totals and member positions, fetching the roll call upstream when missing.
// @Tags        Votes
// @Produce     json
// @Param       id   path  string  true  "Vote id (chamber, congress, session, roll)"  example(h118-1-123)
// @Success     200  {object}  domain.Vote
// @Failure     400  {object}  handlers.ErrorResponse "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse "Vote not found"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream unavailable"
// @Router      /votes/{id} [get]
func (h *Handlers) GetVote(c *gin.Context) {
	v, err := h.votes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, v)
}
