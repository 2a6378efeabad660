package router

import (
	"net/http"

	"github.com/rastreo/backend/internal/interfaces/http/handler"
)

// SystemRoutes builds the /system route group
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		Handle(http.MethodGet, "/ping", "liveness probe", h.Ping).
		Handle(http.MethodGet, "/info", "service name, version and uptime", h.GetSystemInfo)
}

// TrackingRoutes builds the /tracking route group
func TrackingRoutes(h *handler.TrackingHandler) *DomainGroup {
	return NewDomainGroup("tracking", "/tracking").
		Handle(http.MethodGet, "/orders", "look up an order by ?ticket=", h.LookupOrder).
		Handle(http.MethodGet, "/orders/:ticket", "look up an order by ticket", h.GetOrder).
		Handle(http.MethodPost, "/sessions", "start a lookup session", h.StartSession).
		Handle(http.MethodGet, "/sessions/:id", "render a session", h.GetSession).
		Handle(http.MethodPut, "/sessions/:id/query", "submit a ticket query", h.SubmitQuery).
		Handle(http.MethodDelete, "/sessions/:id/query", "clear the ticket query", h.ClearQuery).
		Handle(http.MethodDelete, "/sessions/:id", "end a session", h.EndSession)
}
