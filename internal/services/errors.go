// Package services defines the business logic for members, bills, votes and
// the assistant conversations that query them. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Congress data errors.
var (
	// ErrMemberNotFound indicates that no member with the requested bioguide
	// id exists locally or upstream.
	ErrMemberNotFound = errors.New("member not found")

	// ErrBillNotFound indicates that the requested bill does not exist.
	ErrBillNotFound = errors.New("bill not found")

	// ErrVoteNotFound indicates that the requested roll call does not exist.
	ErrVoteNotFound = errors.New("vote not found")

	// ErrInvalidMemberID is returned for blank or malformed bioguide ids.
	ErrInvalidMemberID = errors.New("invalid member id")

	// ErrInvalidBillID is returned when a bill id does not parse, e.g. "hr1-0".
	ErrInvalidBillID = errors.New("invalid bill id")

	// ErrInvalidVoteID is returned when a vote id does not parse.
	ErrInvalidVoteID = errors.New("invalid vote id")

	// ErrInvalidLegislationKind is returned when member legislation is asked
	// for with a kind other than sponsored or cosponsored.
	ErrInvalidLegislationKind = errors.New("legislation kind must be sponsored or cosponsored")

	// ErrUpstream wraps failures of the upstream data source that are not a
	// plain "not found".
	ErrUpstream = errors.New("upstream unavailable")
)

// Assistant errors.
var (
	// ErrConversationNotFound indicates that the requested conversation does
	// not exist or is not owned by the current user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyPrompt is returned when a message is posted without content.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrTooLong is returned when a prompt exceeds the configured rune limit.
	ErrTooLong = errors.New("prompt too long")

	// ErrInvalidFeedback is returned when a feedback value is outside the
	// allowed set (-1 or 1).
	ErrInvalidFeedback = errors.New("feedback value must be -1 or 1")

	// ErrMessageNotFound indicates that the requested message does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrForbiddenFeedback is returned when a user rates a message they may
	// not rate: someone else's conversation, or a user message.
	ErrForbiddenFeedback = errors.New("cannot leave feedback on this message")

	// ErrDuplicateFeedback is returned when a user rates a message twice.
	ErrDuplicateFeedback = errors.New("feedback already exists")

	// ErrUnknownTool is returned when the assistant is asked to call a tool
	// that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)
