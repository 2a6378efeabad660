package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/rastreo/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// Lookuper runs the lookup pipeline for a query
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*LookupResult, error)
}

// SessionView is a session together with the pipeline result for its query
type SessionView struct {
	Session *tracking.Session
	Result  *LookupResult
}

// SessionService keeps per-session query state and reruns the pipeline on
// every interaction
type SessionService struct {
	repo   tracking.SessionRepository
	lookup Lookuper
	logger *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(repo tracking.SessionRepository, lookup Lookuper, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repo:   repo,
		lookup: lookup,
		logger: logger,
	}
}

// Start creates a session with an empty query and renders it
func (s *SessionService) Start(ctx context.Context) (*SessionView, error) {
	session := tracking.NewSession()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Debug("Session started", zap.String("session_id", session.ID.String()))
	return s.render(ctx, session)
}

// View reruns the pipeline with the stored query
func (s *SessionService) View(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, session)
}

// Submit stores a new query and reruns the pipeline
func (s *SessionService) Submit(ctx context.Context, id uuid.UUID, query string) (*SessionView, error) {
	if err := tracking.ValidateTicket(query); err != nil {
		return nil, err
	}
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.SetQuery(query)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.render(ctx, session)
}

// Clear resets the stored query and reruns the pipeline with an empty query
func (s *SessionService) Clear(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Clear()
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Debug("Session cleared", zap.String("session_id", session.ID.String()))
	return s.render(ctx, session)
}

// End removes the session
func (s *SessionService) End(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *SessionService) render(ctx context.Context, session *tracking.Session) (*SessionView, error) {
	result, err := s.lookup.Lookup(ctx, session.Query)
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: session, Result: result}, nil
}
