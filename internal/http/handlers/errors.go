package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-congress-backend/internal/services"
	"github.com/tbourn/go-congress-backend/internal/utils"
)

// Error codes returned in ErrorResponse.Code. Clients branch on these, not
// on messages.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidPagination = "invalid_pagination"
	ErrCodeUpstream          = "upstream_unavailable"
	ErrCodeAnswerFailed      = "answer_failed"
	ErrCodeCreateFailed      = "create_failed"
	ErrCodeListFailed        = "list_failed"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// serviceErrors maps sentinel errors to responses. Order matters only for
// errors wrapping more than one sentinel.
var serviceErrors = []errorMapping{
	{utils.ErrInvalidPagination, http.StatusBadRequest, ErrCodeInvalidPagination},
	{services.ErrInvalidMemberID, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidBillID, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidVoteID, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidLegislationKind, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrEmptyPrompt, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrTooLong, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidFeedback, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrMemberNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrBillNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrVoteNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrConversationNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrMessageNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrForbiddenFeedback, http.StatusForbidden, ErrCodeForbidden},
	{services.ErrDuplicateFeedback, http.StatusConflict, ErrCodeConflict},
	{services.ErrUpstream, http.StatusBadGateway, ErrCodeUpstream},
}

// failErr writes the response for err. Unmapped errors become a 500 with
// fallbackCode.
func failErr(c *gin.Context, err error, fallbackCode string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			fail(c, m.status, m.code, err.Error())
			return
		}
	}
	fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
}
