package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	trackingapp "github.com/rastreo/backend/internal/application/tracking"
	"github.com/rastreo/backend/internal/interfaces/http/middleware"
)

// OrderLookup runs the lookup pipeline for a ticket query
type OrderLookup interface {
	Lookup(ctx context.Context, query string) (*trackingapp.LookupResult, error)
}

// SessionManager manages lookup sessions
type SessionManager interface {
	Start(ctx context.Context) (*trackingapp.SessionView, error)
	View(ctx context.Context, id uuid.UUID) (*trackingapp.SessionView, error)
	Submit(ctx context.Context, id uuid.UUID, query string) (*trackingapp.SessionView, error)
	Clear(ctx context.Context, id uuid.UUID) (*trackingapp.SessionView, error)
	End(ctx context.Context, id uuid.UUID) error
}

// TrackingHandler handles order lookup and session API endpoints
type TrackingHandler struct {
	BaseHandler
	lookup   OrderLookup
	sessions SessionManager
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(lookup OrderLookup, sessions SessionManager) *TrackingHandler {
	return &TrackingHandler{
		lookup:   lookup,
		sessions: sessions,
	}
}

// LookupOrder godoc
// @ID           lookupTrackingOrder
// @Summary      Look up an order
// @Description  Runs the lookup pipeline for the ticket in the query string. An empty ticket returns no order and no not-found message.
// @Tags         tracking
// @Produce      json
// @Param        ticket query string false "Order ticket"
// @Success      200 {object} APIResponse[LookupResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /tracking/orders [get]
func (h *TrackingHandler) LookupOrder(c *gin.Context) {
	var req LookupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	h.runLookup(c, req.Ticket)
}

// GetOrder godoc
// @ID           getTrackingOrder
// @Summary      Get an order by ticket
// @Description  Runs the lookup pipeline for the ticket in the path
// @Tags         tracking
// @Produce      json
// @Param        ticket path string true "Order ticket"
// @Success      200 {object} APIResponse[LookupResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /tracking/orders/{ticket} [get]
func (h *TrackingHandler) GetOrder(c *gin.Context) {
	var req LookupPathRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	h.runLookup(c, req.Ticket)
}

func (h *TrackingHandler) runLookup(c *gin.Context, ticket string) {
	result, err := h.lookup.Lookup(c.Request.Context(), ticket)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLookupResponse(result))
}

// StartSession godoc
// @ID           startTrackingSession
// @Summary      Start a lookup session
// @Description  Creates a session with an empty query and returns its initial render
// @Tags         tracking
// @Produce      json
// @Success      201 {object} APIResponse[SessionResponse]
// @Failure      500 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /tracking/sessions [post]
func (h *TrackingHandler) StartSession(c *gin.Context) {
	view, err := h.sessions.Start(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSessionResponse(view))
}

// GetSession godoc
// @ID           getTrackingSession
// @Summary      Render a lookup session
// @Description  Reruns the lookup pipeline with the query stored in the session
// @Tags         tracking
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /tracking/sessions/{id} [get]
func (h *TrackingHandler) GetSession(c *gin.Context) {
	id, err := parseSessionID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := h.sessions.View(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionResponse(view))
}

// SubmitQuery godoc
// @ID           submitTrackingQuery
// @Summary      Submit a ticket query
// @Description  Stores the ticket in the session and reruns the lookup pipeline
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body SubmitQueryRequest true "Ticket query"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /tracking/sessions/{id}/query [put]
func (h *TrackingHandler) SubmitQuery(c *gin.Context) {
	id, err := parseSessionID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req SubmitQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	view, err := h.sessions.Submit(c.Request.Context(), id, req.Ticket)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionResponse(view))
}

// ClearQuery godoc
// @ID           clearTrackingQuery
// @Summary      Clear the ticket query
// @Description  Resets the session query and reruns the lookup pipeline with an empty query
// @Tags         tracking
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /tracking/sessions/{id}/query [delete]
func (h *TrackingHandler) ClearQuery(c *gin.Context) {
	id, err := parseSessionID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := h.sessions.Clear(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionResponse(view))
}

// EndSession godoc
// @ID           endTrackingSession
// @Summary      End a lookup session
// @Tags         tracking
// @Param        id path string true "Session ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /tracking/sessions/{id} [delete]
func (h *TrackingHandler) EndSession(c *gin.Context) {
	id, err := parseSessionID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.sessions.End(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
