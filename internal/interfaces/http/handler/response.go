package handler

import "github.com/rastreo/backend/internal/interfaces/http/dto"

// APIResponse is the dto.Response envelope with a typed data field.
// Handler docs and tests decode responses through it.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse is the envelope of a failed request
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
