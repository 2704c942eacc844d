// Bill HTTP handlers.
//
//   - GET /bills               (search with lazy backfill, paginated)
//   - GET /bills/{id}          (detail, upstream fallback)
//   - GET /bills/{id}/actions  (legislative history from upstream)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/services"
	"github.com/tbourn/go-congress-backend/internal/utils"
)

// ActionsResponse wraps a bill's actions.
type ActionsResponse struct {
	BillID  string                `json:"bill_id"`
	Actions []congress.BillAction `json:"actions"`
}

// SearchBills godoc
// @ID          searchBills
// @Summary     Search bills
// @Description Searches stored bills. A thin first result page for a congress not yet synced in this process triggers one upstream backfill.
// @Tags        Bills
// @Produce     json
//
// @Param       q              query  string  false "Keywords; all must appear in title, short title or summary"  example(border security)
// @Param       congress       query  int     false "Congress number"        example(119)
// @Param       type           query  string  false "Bill type"              Enums(hr, s, hres, sres, hjres, sjres, hconres, sconres)
// @Param       sponsor        query  string  false "Sponsor bioguide id"    example(L000577)
// @Param       sponsor_party  query  string  false "Sponsor party code"     example(R)
// @Param       subject        query  string  false "Policy area or subject"
// @Param       page           query  int     false "Page number"            minimum(1) default(1)
// @Param       page_size      query  int     false "Items per page"         minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  services.Page[domain.Bill]
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /bills [get]
func (h *Handlers) SearchBills(c *gin.Context) {
	page, pageSize, valid := pageParams(c)
	if !valid {
		return
	}
	cong, valid := intParam(c, "congress")
	if !valid {
		return
	}
	typ := strings.ToLower(strings.TrimSpace(c.Query("type")))
	if typ != "" && !domain.IsBillType(typ) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown bill type "+typ)
		return
	}
	sponsorParty, valid := partyParam(c, "sponsor_party")
	if !valid {
		return
	}

	res, err := h.bills.Search(c.Request.Context(), services.BillQuery{
		Congress:     cong,
		Type:         typ,
		Sponsor:      strings.ToUpper(strings.TrimSpace(c.Query("sponsor"))),
		SponsorParty: sponsorParty,
		Subject:      strings.TrimSpace(c.Query("subject")),
		Q:            strings.TrimSpace(c.Query("q")),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// GetBill godoc
// @ID          getBill
// @Summary     Bill detail
// @Tags        Bills
// @Produce     json
// @Param       id   path  string  true  "Bill id (type, number, congress)"  example(hr1-119)
// @Success     200  {object}  domain.Bill
// @Failure     400  {object}  handlers.ErrorResponse "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse "Bill not found"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream unavailable"
// @Router      /bills/{id} [get]
func (h *Handlers) GetBill(c *gin.Context) {
	b, err := h.bills.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, b)
}

// BillActions godoc
// @ID          billActions
// @Summary     Bill actions
// @Tags        Bills
// @Produce     json
// @Param       id     path   string  true  "Bill id"  example(hr1-119)
// @Param       limit  query  int     false "Max actions"  minimum(1) maximum(250) default(20)
// @Success     200  {object}  handlers.ActionsResponse
// @Failure     400  {object}  handlers.ErrorResponse "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse "Bill not found"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream unavailable"
// @Router      /bills/{id}/actions [get]
func (h *Handlers) BillActions(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), utils.DefaultPageSize)
	if limit < 1 || limit > 250 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be between 1 and 250")
		return
	}
	id := strings.ToLower(strings.TrimSpace(c.Param("id")))

	acts, err := h.bills.Actions(c.Request.Context(), id, limit)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ActionsResponse{BillID: id, Actions: acts})
}
