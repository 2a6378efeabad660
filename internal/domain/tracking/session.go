package tracking

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rastreo/backend/internal/domain/shared"
)

// Session holds the query state of one user of the lookup page.
// Clearing a session resets its query; the pipeline is then rerun with an empty query.
type Session struct {
	shared.BaseEntity
	Query string `json:"query"`
}

// NewSession creates a session with an empty query
func NewSession() *Session {
	return &Session{BaseEntity: shared.NewBaseEntity()}
}

// SetQuery stores the trimmed ticket query
func (s *Session) SetQuery(query string) {
	s.Query = strings.TrimSpace(query)
	s.Touch()
}

// Clear resets the stored query
func (s *Session) Clear() {
	s.Query = ""
	s.Touch()
}

// SessionRepository persists lookup sessions
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	// FindByID returns ErrSessionNotFound when the session does not exist or expired
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
