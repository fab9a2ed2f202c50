package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
)

type txState int

const (
	txStateList txState = iota
	txStateAdding
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx transaction.Transaction
}

func (i txItem) Title() string {
	kind := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Kind))

	shop := i.tx.Shop
	if shop == "" {
		shop = "all shops"
	}

	return fmt.Sprintf("%s  %s  %s  %s", FormatDate(i.tx.Date), FormatAmount(i.tx.AmountCents), kind, shop)
}

func (i txItem) Description() string {
	return i.tx.Notes
}

func (i txItem) FilterValue() string {
	return i.tx.Shop + " " + i.tx.Notes
}

type TransactionsModel struct {
	CommonModel
	book *book.Book

	state   txState
	list    list.Model
	form    *huh.Form
	summary reconcile.Summary
	status  string

	add *addTxForm
}

// addTxForm holds the raw text bound to the add form's inputs.
type addTxForm struct {
	kind   string
	amount string
	date   string
	shop   string
	notes  string
}

func NewTransactionsModel(b *book.Book) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 80, 20)
	l.Title = "Payments & Deductions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		book: b,
		list: l,
	}
}

func (m TransactionsModel) Title() string { return "Payments" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateAdding {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | a: add | x: delete | u: undo | /: filter"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		items := make([]list.Item, len(msg.txs))
		for i, tx := range msg.txs {
			items[i] = txItem{tx: tx}
		}

		m.summary = msg.summary
		return m, m.list.SetItems(items)

	case txChangedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
		}

		m.state = txStateList
		m.form = nil

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil
	}

	switch m.state {
	case txStateList:
		return m.updateList(msg)
	case txStateAdding:
		return m.updateAdding(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break // let the list clear the filter
			}

			return m, Back
		case "a":
			return m.startAdding()
		case "x":
			return m, m.removeCmd()
		case "u":
			return m, m.undoCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startAdding() (tea.Model, tea.Cmd) {
	m.add = &addTxForm{
		kind: string(transaction.KindPayment),
		date: dates.Today(time.Now),
	}

	shopOptions := []huh.Option[string]{huh.NewOption("All shops", "")}
	for _, shop := range m.book.Shops() {
		shopOptions = append(shopOptions, huh.NewOption(shop, shop))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Payment", string(transaction.KindPayment)),
					huh.NewOption("Deduction", string(transaction.KindDeduction)),
				).
				Value(&m.add.kind),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("25.00").
				Value(&m.add.amount).
				Validate(func(s string) error {
					if money.ParseCents(s) <= 0 {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Value(&m.add.date).
				Validate(func(s string) error {
					_, err := dates.Parse(s)
					return err
				}),

			huh.NewSelect[string]().
				Key("shop").
				Title("Shop").
				Options(shopOptions...).
				Value(&m.add.shop),

			huh.NewInput().
				Key("notes").
				Title("Notes (optional)").
				Value(&m.add.notes),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateAdding

	return m, m.form.Init()
}

func (m TransactionsModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.addCmd()
}

func (m TransactionsModel) View() string {
	if m.state == txStateAdding && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			"Record Payment or Deduction\n\n" + m.form.View(),
		)
	}

	lines := []string{SummaryLine(m.summary), ""}
	if m.status != "" {
		lines = append([]string{lipgloss.NewStyle().Faint(true).Render(m.status)}, lines...)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		strings.Join(lines, "\n") + "\n" + m.list.View(),
	)
}

func (m TransactionsModel) selected() (transaction.Transaction, bool) {
	item, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return transaction.Transaction{}, false
	}

	return item.tx, true
}

// Messages

type loadTxsMsg struct {
	txs     []transaction.Transaction
	summary reconcile.Summary
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	b := m.book

	return func() tea.Msg {
		return loadTxsMsg{
			txs:     b.Transactions(transaction.ListFilter{}),
			summary: b.Summary(""),
		}
	}
}

type txChangedMsg struct {
	status string
	err    error
}

func (m TransactionsModel) addCmd() tea.Cmd {
	b := m.book
	in := *m.add

	return func() tea.Msg {
		date, err := dates.Parse(in.date)
		if err != nil {
			return txChangedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		tx, err := b.AddTransaction(ctx, transaction.CreateParams{
			Date:        date,
			Kind:        transaction.Kind(in.kind),
			AmountCents: money.ParseCents(in.amount),
			Shop:        in.shop,
			Notes:       in.notes,
		})
		if err != nil {
			return txChangedMsg{err: err}
		}

		return txChangedMsg{status: fmt.Sprintf("Recorded %s of %s.", tx.Kind, FormatAmount(tx.AmountCents))}
	}
}

func (m TransactionsModel) removeCmd() tea.Cmd {
	tx, ok := m.selected()
	if !ok {
		return nil
	}

	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := b.RemoveTransaction(ctx, tx.ID); err != nil {
			return txChangedMsg{err: err}
		}

		return txChangedMsg{status: fmt.Sprintf("Removed %s of %s. Press u to undo.", tx.Kind, FormatAmount(tx.AmountCents))}
	}
}

func (m TransactionsModel) undoCmd() tea.Cmd {
	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		tx, ok, err := b.UndoTransaction(ctx)
		switch {
		case err != nil:
			return txChangedMsg{err: err}
		case !ok:
			return txChangedMsg{status: "Nothing to undo."}
		}

		return txChangedMsg{status: fmt.Sprintf("Restored %s of %s.", tx.Kind, FormatAmount(tx.AmountCents))}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	if i.Description() == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
