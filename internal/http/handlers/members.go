// Member HTTP handlers.
//
//   - GET /members                 (search, paginated)
//   - GET /members/states          (member count per state)
//   - GET /members/stats           (party and chamber totals, ETag support)
//   - GET /members/{id}            (detail, upstream fallback)
//   - GET /members/{id}/bills      (sponsored or cosponsored legislation)
//   - GET /members/{id}/votes      (voting record from stored roll calls)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
	"github.com/tbourn/go-congress-backend/internal/services"
)

// StatesResponse lists member counts per state.
type StatesResponse struct {
	States []repo.StateCount `json:"states"`
}

// chamberParam validates the optional chamber query parameter.
func chamberParam(c *gin.Context) (domain.Chamber, bool) {
	raw := strings.TrimSpace(c.Query("chamber"))
	if raw == "" {
		return "", true
	}
	ch, err := domain.ParseChamber(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chamber must be house or senate")
		return "", false
	}
	return ch, true
}

// stateParam validates the optional state query parameter. Full state names
// are accepted and mapped to their postal code.
func stateParam(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.Query("state"))
	if raw == "" {
		return "", true
	}
	code := domain.StateCode(raw)
	if code == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown state "+raw)
		return "", false
	}
	return code, true
}

// partyParam resolves the optional party filter of key to its code; an
// unknown party is a 400.
func partyParam(c *gin.Context, key string) (string, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return "", true
	}
	code := domain.PartyCode(raw)
	if code == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown party "+raw)
		return "", false
	}
	return code, true
}

// SearchMembers godoc
// @ID          searchMembers
// @Summary     Search members
// @Description Matches name words as prefixes in any order ("Mic" finds Michael, "lee mike" finds Mike Lee), combined with exact state, party and chamber filters.
// @Tags        Members
// @Produce     json
//
// @Param       q          query  string  false "Full or partial name"   example(Mike Lee)
// @Param       state      query  string  false "State code or name"     example(UT)
// @Param       party      query  string  false "Party code or name"     example(R)
// @Param       chamber    query  string  false "house or senate"        Enums(house, senate)
// @Param       page       query  int     false "Page number"            minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"         minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  services.Page[services.MemberSummary]
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /members [get]
func (h *Handlers) SearchMembers(c *gin.Context) {
	page, pageSize, valid := pageParams(c)
	if !valid {
		return
	}
	ch, valid := chamberParam(c)
	if !valid {
		return
	}
	state, valid := stateParam(c)
	if !valid {
		return
	}
	party, valid := partyParam(c, "party")
	if !valid {
		return
	}
	name := c.Query("q")
	if name == "" {
		name = c.Query("name")
	}

	res, err := h.members.Search(c.Request.Context(), services.MemberQuery{
		Name:     name,
		State:    state,
		Party:    party,
		Chamber:  string(ch),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// MemberStates godoc
// @ID          memberStates
// @Summary     Member counts per state
// @Tags        Members
// @Produce     json
// @Success     200  {object}  handlers.StatesResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /members/states [get]
func (h *Handlers) MemberStates(c *gin.Context) {
	states, err := h.members.States(c.Request.Context())
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, StatesResponse{States: states})
}

// MemberStats godoc
// @ID          memberStats
// @Summary     Roster statistics
// @Description Totals by party and chamber. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Members
// @Produce     json
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Success     200  {object}  services.MemberStats
// @Header      200  {string}  ETag "Weak ETag for current roster"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /members/stats [get]
func (h *Handlers) MemberStats(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if svc, isSvc := h.members.(*services.MemberService); isSvc && svc.DB != nil {
		if count, maxTS, err := repo.MembersStats(ctx, svc.DB); err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"members:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	stats, err := h.members.Stats(ctx)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, stats)
}

// GetMember godoc
// @ID          getMember
// @Summary     Member detail
// @Description Returns the stored member, fetching and caching it from upstream when missing.
// @Tags        Members
// @Produce     json
// @Param       id   path  string  true  "Bioguide id"  example(L000577)
// @Success     200  {object}  domain.Member
// @Failure     400  {object}  handlers.ErrorResponse "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse "Member not found"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream unavailable"
// @Router      /members/{id} [get]
func (h *Handlers) GetMember(c *gin.Context) {
	m, err := h.members.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, m)
}

// MemberBills godoc
// @ID          memberBills
// @Summary     Member legislation
// @Tags        Members
// @Produce     json
// @Param       id         path   string  true  "Bioguide id"  example(L000577)
// @Param       type       query  string  false "sponsored or cosponsored"  Enums(sponsored, cosponsored) default(sponsored)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  services.Page[domain.Bill]
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Member not found"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream unavailable"
// @Router      /members/{id}/bills [get]
func (h *Handlers) MemberBills(c *gin.Context) {
	page, pageSize, valid := pageParams(c)
	if !valid {
		return
	}
	kind := strings.ToLower(strings.TrimSpace(c.DefaultQuery("type", services.LegislationSponsored)))

	res, err := h.members.Bills(c.Request.Context(), c.Param("id"), kind, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// MemberVotes godoc
// @ID          memberVotes
// @Summary     Member voting record
// @Description Positions from stored roll calls, newest first.
// @Tags        Members
// @Produce     json
// @Param       id         path   string  true  "Bioguide id"  example(L000577)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  services.Page[domain.MemberVoteRecord]
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /members/{id}/votes [get]
func (h *Handlers) MemberVotes(c *gin.Context) {
	page, pageSize, valid := pageParams(c)
	if !valid {
		return
	}
	res, err := h.members.Votes(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, res)
}
