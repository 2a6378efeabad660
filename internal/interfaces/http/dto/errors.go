package dto

import (
	"net/http"

	"github.com/rastreo/backend/internal/domain/shared"
	"github.com/rastreo/backend/internal/domain/tracking"
)

// API error codes, ERR_<CATEGORY>[_<DETAIL>]
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeNotFound = "ERR_NOT_FOUND"

	// ErrCodeSourceUnavailable means the orders table could not be read
	ErrCodeSourceUnavailable = "ERR_SOURCE_UNAVAILABLE"
	// ErrCodeSchemaMismatch means the orders table lacks a required column
	ErrCodeSchemaMismatch = "ERR_SCHEMA_MISMATCH"

	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	// no page can be rendered without the orders table
	ErrCodeSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSchemaMismatch:    http.StatusInternalServerError,

	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an API error code, 500 when unmapped
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps shared.DomainError codes to API codes
var domainErrorCodes = map[string]string{
	shared.ErrNotFound.Code:            ErrCodeNotFound,
	shared.ErrInvalidInput.Code:        ErrCodeInvalidInput,
	shared.ErrInternal.Code:            ErrCodeInternal,
	tracking.ErrSourceUnavailable.Code: ErrCodeSourceUnavailable,
	tracking.ErrSchemaMismatch.Code:    ErrCodeSchemaMismatch,
}

// NormalizeErrorCode converts a domain error code to its API code.
// Codes already in API form, and unknown codes, are returned as is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodes[code]; ok {
		return apiCode
	}
	return code
}
