package tracking

import (
	"strings"
	"time"
)

// PendingDate is the display sentinel for an empty or missing date
const PendingDate = "Pendiente"

// DisplayDateLayout is the DD/MM/YYYY presentation layout
const DisplayDateLayout = "02/01/2006"

// missingLiterals are textual renderings of an absent value produced by
// spreadsheet exports and dataframe tooling
var missingLiterals = map[string]struct{}{
	"NaT":  {},
	"nan":  {},
	"NaN":  {},
	"None": {},
	"null": {},
}

// dateLayouts are tried in order. Slash and dash day-month forms are day-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	time.RFC3339Nano,
	"02/01/2006",
	"2/1/2006",
	"2006/01/02",
	"02-01-2006",
}

func isMissingLiteral(s string) bool {
	_, ok := missingLiterals[s]
	return ok
}

// NormalizeDate reduces a raw date cell to its leading date token.
// A combined "date time" value keeps only the date part; empty and missing
// values become PendingDate. Applying it to its own output is a no-op.
func NormalizeDate(cell any) string {
	fields := strings.Fields(CellText(cell))
	if len(fields) == 0 {
		return PendingDate
	}
	token := fields[0]
	if isMissingLiteral(token) {
		return PendingDate
	}
	return token
}

// ParseDate parses a normalized date token.
// The bool is false for PendingDate and for anything no layout accepts.
func ParseDate(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" || token == PendingDate {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders a normalized token as DD/MM/YYYY.
// PendingDate and unparseable values are returned unchanged.
func FormatDisplayDate(token string) string {
	if token == PendingDate {
		return token
	}
	if t, ok := ParseDate(token); ok {
		return t.Format(DisplayDateLayout)
	}
	return token
}

// TentativeDelivery derives the expected delivery date: the recorded
// delivery date plus one day. When the recorded value does not parse it
// falls back to the display form of the recorded value.
func TentativeDelivery(deliveredAt string) string {
	if t, ok := ParseDate(deliveredAt); ok {
		return t.AddDate(0, 0, 1).Format(DisplayDateLayout)
	}
	return FormatDisplayDate(deliveredAt)
}
