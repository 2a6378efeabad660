package handler

import (
	"time"

	trackingapp "github.com/rastreo/backend/internal/application/tracking"
	"github.com/rastreo/backend/internal/domain/tracking"
)

// ========== Request DTOs ==========

// LookupQueryRequest is the query string of the order lookup endpoint
// @name HandlerLookupQueryRequest
type LookupQueryRequest struct {
	Ticket string `form:"ticket" json:"ticket" binding:"ticket" example:"T-1001"`
}

// LookupPathRequest is the path of the ticket lookup endpoint
// @name HandlerLookupPathRequest
type LookupPathRequest struct {
	Ticket string `uri:"ticket" binding:"required,ticket" example:"T-1001"`
}

// SubmitQueryRequest sets the ticket query of a session
// @name HandlerSubmitQueryRequest
type SubmitQueryRequest struct {
	Ticket string `json:"ticket" binding:"ticket" example:"T-1001"`
}

// ========== Response DTOs ==========

// MetricResponse is one labeled date of the display plan
// @name HandlerMetricResponse
type MetricResponse struct {
	Kind  string `json:"kind" example:"load_date"`
	Label string `json:"label" example:"📦 Cargado"`
	Value string `json:"value" example:"05/03/2024"`
}

// DisplayPlanResponse is what a client renders for a found order
// @name HandlerDisplayPlanResponse
type DisplayPlanResponse struct {
	Status      string           `json:"status" example:"PACKAGED"`
	StatusLabel string           `json:"status_label" example:"Empaquetado"`
	Recognized  bool             `json:"recognized" example:"true"`
	Narrative   string           `json:"narrative,omitempty"`
	Metrics     []MetricResponse `json:"metrics"`
}

// OrderResponse is a found order with its customer name resolved
// @name HandlerOrderResponse
type OrderResponse struct {
	ID           string `json:"id" example:"T-1001"`
	CustomerRef  string `json:"customer_ref" example:"C-7"`
	CustomerName string `json:"customer_name,omitempty" example:"Ana Pérez"`
	DisplayName  string `json:"display_name" example:"Ana Pérez"`
	Status       string `json:"status" example:"Empaquetado"`
	LoadedAt     string `json:"loaded_at" example:"05/03/2024"`
	PackagedAt   string `json:"packaged_at" example:"06/03/2024"`
	DeliveredAt  string `json:"delivered_at" example:"Pendiente"`
	Courier      string `json:"courier,omitempty" example:"Luis"`
	Address      string `json:"address,omitempty" example:"Calle 1 #23"`
}

// AdvisoryResponse is a non-fatal notice attached to a lookup
// @name HandlerAdvisoryResponse
type AdvisoryResponse struct {
	Code    string `json:"code" example:"CUSTOMERS_UNAVAILABLE"`
	Message string `json:"message"`
}

// LookupResponse is the outcome of one lookup
// @name HandlerLookupResponse
type LookupResponse struct {
	Query           string               `json:"query" example:"T-1001"`
	Found           bool                 `json:"found" example:"true"`
	Order           *OrderResponse       `json:"order,omitempty"`
	Plan            *DisplayPlanResponse `json:"plan,omitempty"`
	NotFoundMessage string               `json:"not_found_message,omitempty"`
	Advisory        *AdvisoryResponse    `json:"advisory,omitempty"`
}

// SessionResponse is a session with the lookup result of its current query
// @name HandlerSessionResponse
type SessionResponse struct {
	ID        string          `json:"id" example:"e0b8f7a4-4c0e-4f4e-8f5a-1f2d3c4b5a69"`
	Query     string          `json:"query" example:"T-1001"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Result    *LookupResponse `json:"result"`
}

// ========== Mappers ==========

func toLookupResponse(r *trackingapp.LookupResult) *LookupResponse {
	if r == nil {
		return nil
	}
	resp := &LookupResponse{
		Query:           r.Query,
		Found:           r.Found,
		NotFoundMessage: r.NotFoundMessage,
	}
	if r.Order != nil {
		resp.Order = toOrderResponse(r.Order)
	}
	if r.Plan != nil {
		resp.Plan = toDisplayPlanResponse(r.Plan)
	}
	if r.Advisory != nil {
		resp.Advisory = &AdvisoryResponse{
			Code:    r.Advisory.Code,
			Message: r.Advisory.Message,
		}
	}
	return resp
}

func toOrderResponse(o *tracking.EnrichedOrder) *OrderResponse {
	return &OrderResponse{
		ID:           o.ID,
		CustomerRef:  o.CustomerRef,
		CustomerName: o.CustomerName,
		DisplayName:  o.DisplayName,
		Status:       o.Status,
		LoadedAt:     tracking.FormatDisplayDate(o.LoadedAt),
		PackagedAt:   tracking.FormatDisplayDate(o.PackagedAt),
		DeliveredAt:  tracking.FormatDisplayDate(o.DeliveredAt),
		Courier:      o.Courier,
		Address:      o.Address,
	}
}

func toDisplayPlanResponse(p *tracking.DisplayPlan) *DisplayPlanResponse {
	metrics := make([]MetricResponse, len(p.Metrics))
	for i, m := range p.Metrics {
		metrics[i] = MetricResponse{
			Kind:  string(m.Kind),
			Label: m.Label,
			Value: m.Value,
		}
	}
	return &DisplayPlanResponse{
		Status:      string(p.Status),
		StatusLabel: p.StatusLabel,
		Recognized:  p.Recognized,
		Narrative:   p.Narrative,
		Metrics:     metrics,
	}
}

func toSessionResponse(v *trackingapp.SessionView) SessionResponse {
	return SessionResponse{
		ID:        v.Session.ID.String(),
		Query:     v.Session.Query,
		CreatedAt: v.Session.CreatedAt,
		UpdatedAt: v.Session.UpdatedAt,
		Result:    toLookupResponse(v.Result),
	}
}
