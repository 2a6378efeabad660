package tracking

import (
	"strings"

	"golang.org/x/text/cases"
)

// Status represents the lifecycle stage of an order as read from the source.
// Status values are changed by the spreadsheet owner; this system only reads them.
type Status string

const (
	StatusLoaded       Status = "LOADED"
	StatusPackaged     Status = "PACKAGED"
	StatusRouted       Status = "ROUTED"
	StatusDelivered    Status = "DELIVERED"
	StatusUnrecognized Status = "UNRECOGNIZED"
)

// statusLiterals maps case-folded source literals to a Status
var statusLiterals = map[string]Status{
	"cargado":     StatusLoaded,
	"empacado":    StatusPackaged,
	"empaquetado": StatusPackaged,
	"enrutado":    StatusRouted,
	"entregado":   StatusDelivered,
}

// ParseStatus maps a raw status literal to a Status.
// Unknown literals map to StatusUnrecognized.
func ParseStatus(raw string) Status {
	key := cases.Fold().String(strings.TrimSpace(raw))
	if s, ok := statusLiterals[key]; ok {
		return s
	}
	return StatusUnrecognized
}

// IsRecognized reports whether the status has a display policy
func (s Status) IsRecognized() bool {
	_, ok := stagePolicies[s]
	return ok
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}
