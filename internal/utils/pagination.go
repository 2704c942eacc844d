// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pagination bounds shared by every list endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*MaxPageSize within an int.
	MaxPage = math.MaxInt / MaxPageSize
)

// ErrInvalidPagination is returned by ParsePage for out-of-range or
// non-numeric page parameters.
var ErrInvalidPagination = errors.New("invalid pagination")

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage validates raw page and page_size values. Empty values take the
// defaults (1 and DefaultPageSize). Anything else must be an integer with
// 1 <= page <= MaxPage and 1 <= page_size <= MaxPageSize; values are
// rejected, not clamped.
func ParsePage(rawPage, rawSize string) (page, pageSize int, err error) {
	page, pageSize = 1, DefaultPageSize

	if s := strings.TrimSpace(rawPage); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil || n < 1 || n > MaxPage {
			return 0, 0, fmt.Errorf("%w: page must be an integer between 1 and %d", ErrInvalidPagination, MaxPage)
		}
		page = n
	}
	if s := strings.TrimSpace(rawSize); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil || n < 1 || n > MaxPageSize {
			return 0, 0, fmt.Errorf("%w: page_size must be an integer between 1 and %d", ErrInvalidPagination, MaxPageSize)
		}
		pageSize = n
	}
	return page, pageSize, nil
}

// ParseOptionalInt parses an optional integer parameter. Empty input yields
// (0, nil).
func ParseOptionalInt(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
