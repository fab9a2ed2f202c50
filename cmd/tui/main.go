package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bakery/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/bakery/internal/app"
	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/config"
	"github.com/MrJamesThe3rd/bakery/internal/importer"
)

const loadTimeout = 30 * time.Second

type model struct {
	book          *book.Book
	importService *importer.Service

	currentView View

	deliveriesView   view.DeliveriesModel
	transactionsView view.TransactionsModel
	snapshotsView    view.SnapshotsModel
	importView       view.ImportModel
	exportView       view.ExportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDeliveries   View = 1
	ViewTransactions View = 2
	ViewSnapshots    View = 3
	ViewImport       View = 4
	ViewExport       View = 5
)

// tickMsg drives expiry of the undo windows.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(b *book.Book) model {
	impSvc := importer.NewService()

	return model{
		book:             b,
		importService:    impSvc,
		currentView:      ViewMenu,
		deliveriesView:   view.NewDeliveriesModel(b),
		transactionsView: view.NewTransactionsModel(b),
		snapshotsView:    view.NewSnapshotsModel(b),
		importView:       view.NewImportModel(b, impSvc),
		exportView:       view.NewExportModel(b),
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		m.book.Tick()
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDeliveries
				m.deliveriesView = view.NewDeliveriesModel(m.book)

				return m, m.deliveriesView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.book)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewSnapshots
				m.snapshotsView = view.NewSnapshotsModel(m.book)

				return m, m.snapshotsView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.book, m.importService)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.book)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDeliveries:
		var newModel tea.Model
		newModel, cmd = m.deliveriesView.Update(msg)
		m.deliveriesView = newModel.(view.DeliveriesModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewSnapshots:
		var newModel tea.Model
		newModel, cmd = m.snapshotsView.Update(msg)
		m.snapshotsView = newModel.(view.SnapshotsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		summary := m.book.Summary("")

		return lipgloss.NewStyle().Padding(2).Render(
			"Bakery Ledger\n\n" +
				view.SummaryLine(summary) + "\n\n" +
				"1. Deliveries\n" +
				"2. Payments & Deductions\n" +
				"3. Snapshots\n" +
				"4. Import Deliveries\n" +
				"5. Export\n\n" +
				"q. Quit",
		)
	case ViewDeliveries:
		current = m.deliveriesView
	case ViewTransactions:
		current = m.transactionsView
	case ViewSnapshots:
		current = m.snapshotsView
	case ViewImport:
		current = m.importView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title()),
		current.View(),
		help,
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	b, closeStore, err := app.OpenBook(ctx, cfg)
	cancel()

	if err != nil {
		slog.Error("failed to open book", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	p := tea.NewProgram(initialModel(b), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		closeStore()
		os.Exit(1)
	}
}
