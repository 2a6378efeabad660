package csvimport

import (
	"errors"
	"fmt"
)

// Common parse errors
var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the content is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrFileTooLarge is returned when the content exceeds the configured maximum size
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

	// ErrInvalidDelimiter is returned when a delimiter is not a single usable rune
	ErrInvalidDelimiter = errors.New("invalid CSV delimiter")
)

// RowError reports a malformed record at a specific line
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Unwrap returns the underlying reader error
func (e *RowError) Unwrap() error {
	return e.Err
}

func newRowError(row int, err error) *RowError {
	return &RowError{Row: row, Message: err.Error(), Err: err}
}
