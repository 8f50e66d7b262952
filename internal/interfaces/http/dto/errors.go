package dto

import "net/http"

// Common error codes surfaced by the HTTP layer itself
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back by prefix, then to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInternal:     http.StatusInternalServerError,

	// Conflicts with current state or a concurrent request
	"ALREADY_EXISTS":       http.StatusConflict,
	"SKU_EXISTS":           http.StatusConflict,
	"CODE_EXISTS":          http.StatusConflict,
	"SLUG_EXISTS":          http.StatusConflict,
	"EMAIL_EXISTS":         http.StatusConflict,
	"INVALID_STATE":        http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations the client must change the request to fix
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"QUANTITY_EXCEEDED":  http.StatusUnprocessableEntity,
	"ALREADY_RECEIVED":   http.StatusUnprocessableEntity,
	"NO_LINES":           http.StatusUnprocessableEntity,
	"INCOMPLETE_COUNT":   http.StatusUnprocessableEntity,
	"MISSING_COST":       http.StatusUnprocessableEntity,

	"DUPLICATE_LINE":    http.StatusBadRequest,
	"DUPLICATE_PRODUCT": http.StatusBadRequest,
	"SAME_LOCATION":     http.StatusBadRequest,
	"ROLE_NOT_FOUND":    http.StatusNotFound,
	"LINE_NOT_FOUND":    http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// INVALID_* codes are client input problems and map to 400.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
