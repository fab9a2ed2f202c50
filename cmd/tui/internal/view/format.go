package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
)

const storeTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return money.FormatDollars(cents)
}

// FormatDate renders a ledger date the way the table shows it.
func FormatDate(iso string) string {
	return dates.Display(iso)
}

// StoreCtx returns a context with a standard timeout for storage writes.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

var stateColors = map[reconcile.State]lipgloss.Color{
	reconcile.StateOwed:     lipgloss.Color("196"),
	reconcile.StateSettled:  lipgloss.Color("46"),
	reconcile.StateOverpaid: lipgloss.Color("33"),
}

// SummaryLine renders the reconciliation totals shown above ledger tables.
func SummaryLine(s reconcile.Summary) string {
	state := s.State()
	remaining := lipgloss.NewStyle().
		Bold(true).
		Foreground(stateColors[state]).
		Render(fmt.Sprintf("%s (%s)", FormatAmount(s.Remaining), state))

	return fmt.Sprintf(
		"Value %s | Paid %s | Prev %s | Profit %s | Remaining %s",
		FormatAmount(s.TotalValue),
		FormatAmount(s.DisplayPaid),
		FormatAmount(s.DisplayPrev),
		FormatAmount(s.TotalProfit),
		remaining,
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func newTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}
