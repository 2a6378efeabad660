package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	trackingapp "github.com/rastreo/backend/internal/application/tracking"
	"github.com/rastreo/backend/internal/domain/tracking"
)

type styles struct {
	label    lipgloss.Style
	advisory lipgloss.Style
	notFound lipgloss.Style
	status   map[tracking.Status]lipgloss.Style
	muted    lipgloss.Style
}

// newStyles binds the palette to w, so colors are dropped when w is not a terminal
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		label:    r.NewStyle().Bold(true),
		advisory: r.NewStyle().Foreground(lipgloss.Color("214")),
		notFound: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		status: map[tracking.Status]lipgloss.Style{
			tracking.StatusLoaded:    r.NewStyle().Foreground(lipgloss.Color("39")),
			tracking.StatusPackaged:  r.NewStyle().Foreground(lipgloss.Color("141")),
			tracking.StatusRouted:    r.NewStyle().Foreground(lipgloss.Color("220")),
			tracking.StatusDelivered: r.NewStyle().Foreground(lipgloss.Color("42")),
		},
		muted: r.NewStyle().Faint(true),
	}
}

func (s styles) statusStyle(status tracking.Status) lipgloss.Style {
	if st, ok := s.status[status]; ok {
		return st
	}
	return s.muted
}

// render prints the lookup view: advisory first, then either the order
// summary or the not-found message
func render(w io.Writer, result *trackingapp.LookupResult) {
	st := newStyles(w)

	if result.Advisory != nil {
		fmt.Fprintln(w, st.advisory.Render(result.Advisory.Message))
		fmt.Fprintln(w)
	}

	if !result.Found {
		if result.NotFoundMessage != "" {
			fmt.Fprintln(w, st.notFound.Render("❌ "+result.NotFoundMessage))
		}
		return
	}

	order := result.Order
	plan := result.Plan

	fmt.Fprintf(w, "%s  %s\n", st.label.Render("Pedido:"), order.ID)
	fmt.Fprintf(w, "%s %s\n", st.label.Render("Cliente:"), order.DisplayName)
	fmt.Fprintf(w, "%s  %s\n", st.label.Render("Estado:"), st.statusStyle(plan.Status).Render(plan.StatusLabel))

	if plan.Recognized {
		fmt.Fprintln(w)
		fmt.Fprintln(w, plan.Narrative)
		fmt.Fprintln(w)
		for _, m := range plan.Metrics {
			fmt.Fprintf(w, "%s %s\n", st.label.Render(m.Label+":"), m.Value)
		}
	}

	if order.Courier != "" {
		fmt.Fprintf(w, "\n%s %s\n", st.label.Render("Repartidor:"), order.Courier)
	}
	if order.Address != "" {
		fmt.Fprintf(w, "%s %s\n", st.label.Render("Dirección:"), order.Address)
	}
}
