package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
)

type deliveriesState int

const (
	deliveriesStateBrowse deliveriesState = iota
	deliveriesStateAdd
	deliveriesStateEdit
	deliveriesStateSearch
)

type DeliveriesModel struct {
	CommonModel
	book *book.Book

	state      deliveriesState
	table      table.Model
	deliveries []delivery.Delivery
	summary    reconcile.Summary
	shops      []string
	form       *huh.Form

	shopIdx int // 0 means every shop
	search  string
	status  string

	add  *addDeliveryForm
	edit *editDeliveryForm
}

// addDeliveryForm holds the raw text bound to the add form's inputs.
type addDeliveryForm struct {
	date        string
	shop        string
	deliveredBy string
	item        string
	quantity    string
	price       string
	cost        string
	paid        string
	prev        string
	notes       string
}

type editDeliveryForm struct {
	field string
	value string
}

func NewDeliveriesModel(b *book.Book) DeliveriesModel {
	columns := []table.Column{
		{Title: "No.", Width: 4},
		{Title: "Date", Width: 11},
		{Title: "Shop", Width: 14},
		{Title: "Item", Width: 16},
		{Title: "Qty", Width: 5},
		{Title: "Price", Width: 9},
		{Title: "Total", Width: 10},
		{Title: "Paid", Width: 10},
		{Title: "Balance", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(newTableStyles())

	return DeliveriesModel{
		book:  b,
		table: t,
	}
}

func (m DeliveriesModel) Title() string { return "Deliveries" }

func (m DeliveriesModel) ShortHelp() string {
	if m.state != deliveriesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | x: delete | u: undo | s: shop | /: search"
}

func (m DeliveriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DeliveriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deliveriesLoadedMsg:
		m.deliveries = msg.deliveries
		m.summary = msg.summary
		m.shops = msg.shops
		if m.shopIdx > len(m.shops) {
			m.shopIdx = 0
		}
		m.refreshTable()
		return m, nil

	case deliveryChangedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
		}
		m.state = deliveriesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	if m.state == deliveriesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m DeliveriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "e":
			return m.enterEditMode()
		case "/":
			return m.enterSearchMode()
		case "x":
			return m, m.removeCmd()
		case "u":
			return m, m.undoCmd()
		case "s":
			m.shopIdx = (m.shopIdx + 1) % (len(m.shops) + 1)
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DeliveriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = deliveriesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case deliveriesStateAdd:
		return m, m.addCmd()
	case deliveriesStateEdit:
		return m, m.editCmd()
	case deliveriesStateSearch:
		m.search = strings.TrimSpace(m.form.GetString("search"))
		m.state = deliveriesStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()
	}

	return m, nil
}

func (m DeliveriesModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.add = &addDeliveryForm{
		date: dates.Today(time.Now),
		shop: m.currentShop(),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("date").Title("Date").Placeholder("YYYY-MM-DD or MM/DD/YYYY").Value(&m.add.date).
				Validate(func(s string) error {
					_, err := dates.Parse(s)
					return err
				}),
			huh.NewInput().Key("shop").Title("Shop").Value(&m.add.shop).Validate(notBlank("shop")),
			huh.NewInput().Key("deliveredBy").Title("Delivered by").Value(&m.add.deliveredBy),
			huh.NewInput().Key("item").Title("Item").Value(&m.add.item).Validate(notBlank("item")),
		),
		huh.NewGroup(
			huh.NewInput().Key("quantity").Title("Quantity").Value(&m.add.quantity),
			huh.NewInput().Key("price").Title("Price per piece").Placeholder("1.50").Value(&m.add.price),
			huh.NewInput().Key("cost").Title("Cost per piece").Placeholder("0.00").Value(&m.add.cost),
			huh.NewInput().Key("paid").Title("Paid").Placeholder("0.00").Value(&m.add.paid),
			huh.NewInput().Key("prev").Title("Previous balance").Placeholder("0.00").Value(&m.add.prev),
			huh.NewText().Key("notes").Title("Notes").Lines(2).Value(&m.add.notes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = deliveriesStateAdd
	m.table.Blur()
	return m, m.form.Init()
}

func (m DeliveriesModel) enterEditMode() (tea.Model, tea.Cmd) {
	d, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.edit = &editDeliveryForm{
		field: string(delivery.FieldPaid),
		value: money.Format(d.PaidCents),
	}

	options := []huh.Option[string]{
		huh.NewOption("Date", string(delivery.FieldDate)),
		huh.NewOption("Shop", string(delivery.FieldShop)),
		huh.NewOption("Delivered by", string(delivery.FieldDeliveredBy)),
		huh.NewOption("Item", string(delivery.FieldItem)),
		huh.NewOption("Quantity", string(delivery.FieldQuantity)),
		huh.NewOption("Price per piece", string(delivery.FieldUnitPrice)),
		huh.NewOption("Cost per piece", string(delivery.FieldUnitCost)),
		huh.NewOption("Paid", string(delivery.FieldPaid)),
		huh.NewOption("Previous balance", string(delivery.FieldPreviousBalance)),
		huh.NewOption("Notes", string(delivery.FieldNotes)),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Key("field").Title("Field").Options(options...).Value(&m.edit.field),
			huh.NewInput().Key("value").Title("New value").Value(&m.edit.value),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = deliveriesStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m DeliveriesModel) enterSearchMode() (tea.Model, tea.Cmd) {
	search := m.search

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("search").Title("Search").Placeholder("shop, item, date, notes").Value(&search),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = deliveriesStateSearch
	m.table.Blur()
	return m, m.form.Init()
}

func (m DeliveriesModel) View() string {
	shopLabel := "All Shops"
	if shop := m.currentShop(); shop != "" {
		shopLabel = shop
	}

	searchLabel := "-"
	if m.search != "" {
		searchLabel = m.search
	}

	header := fmt.Sprintf("[s] Shop: %s | [/] Search: %s", activeStyle(shopLabel), activeStyle(searchLabel))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		SummaryLine(m.summary),
		"",
		tableView,
	)

	if m.state != deliveriesStateBrowse && m.form != nil {
		title := map[deliveriesState]string{
			deliveriesStateAdd:    "Add Delivery",
			deliveriesStateEdit:   "Edit Delivery",
			deliveriesStateSearch: "Search Deliveries",
		}[m.state]

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DeliveriesModel) currentShop() string {
	if m.shopIdx == 0 || m.shopIdx > len(m.shops) {
		return ""
	}

	return m.shops[m.shopIdx-1]
}

func (m DeliveriesModel) selected() (delivery.Delivery, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.deliveries) {
		return delivery.Delivery{}, false
	}

	return m.deliveries[idx], true
}

func (m *DeliveriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.deliveries))
	for i, d := range m.deliveries {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			FormatDate(d.Date),
			d.Shop,
			d.Item,
			strconv.FormatInt(d.Quantity, 10),
			FormatAmount(d.UnitPriceCents),
			FormatAmount(d.TotalCents),
			FormatAmount(d.PaidCents),
			FormatAmount(d.BalanceCents),
		})
	}
	m.table.SetRows(rows)
}

func notBlank(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

// Messages

type deliveriesLoadedMsg struct {
	deliveries []delivery.Delivery
	summary    reconcile.Summary
	shops      []string
}

func (m DeliveriesModel) loadCmd() tea.Cmd {
	b := m.book
	shopIdx := m.shopIdx
	search := m.search

	return func() tea.Msg {
		shops := b.Shops()

		shop := ""
		if shopIdx > 0 && shopIdx <= len(shops) {
			shop = shops[shopIdx-1]
		}

		return deliveriesLoadedMsg{
			deliveries: b.Deliveries(delivery.ListFilter{Shop: shop, Search: search}),
			summary:    b.Summary(shop),
			shops:      shops,
		}
	}
}

type deliveryChangedMsg struct {
	status string
	err    error
}

func (m DeliveriesModel) addCmd() tea.Cmd {
	b := m.book
	in := *m.add

	return func() tea.Msg {
		date, err := dates.Parse(in.date)
		if err != nil {
			return deliveryChangedMsg{err: err}
		}

		var prev int64
		if strings.TrimSpace(in.prev) != "" {
			prev, err = money.ParseSignedCents(in.prev)
			if err != nil {
				return deliveryChangedMsg{err: err}
			}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		d, err := b.AddDelivery(ctx, delivery.CreateParams{
			Date:                 date,
			Shop:                 in.shop,
			DeliveredBy:          in.deliveredBy,
			Item:                 in.item,
			Quantity:             int64(money.ParseQuantity(in.quantity)),
			UnitPriceCents:       money.ParseCents(in.price),
			UnitCostCents:        money.ParseCents(in.cost),
			PaidCents:            money.ParseCents(in.paid),
			PreviousBalanceCents: prev,
			Notes:                in.notes,
		})
		if err != nil {
			return deliveryChangedMsg{err: err}
		}

		return deliveryChangedMsg{status: fmt.Sprintf("Added %d x %s for %s.", d.Quantity, d.Item, d.Shop)}
	}
}

func (m DeliveriesModel) editCmd() tea.Cmd {
	d, ok := m.selected()
	if !ok {
		return nil
	}

	b := m.book
	field := delivery.Field(m.edit.field)
	value := m.edit.value

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := b.UpdateDelivery(ctx, d.ID, field, value); err != nil {
			return deliveryChangedMsg{err: err}
		}

		return deliveryChangedMsg{status: "Saved."}
	}
}

func (m DeliveriesModel) removeCmd() tea.Cmd {
	d, ok := m.selected()
	if !ok {
		return nil
	}

	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := b.RemoveDelivery(ctx, d.ID); err != nil {
			return deliveryChangedMsg{err: err}
		}

		return deliveryChangedMsg{status: fmt.Sprintf("Removed %s for %s. Press u to undo.", d.Item, d.Shop)}
	}
}

func (m DeliveriesModel) undoCmd() tea.Cmd {
	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		d, ok, err := b.UndoDelivery(ctx)
		switch {
		case err != nil:
			return deliveryChangedMsg{err: err}
		case !ok:
			return deliveryChangedMsg{status: "Nothing to undo."}
		}

		return deliveryChangedMsg{status: fmt.Sprintf("Restored %s for %s.", d.Item, d.Shop)}
	}
}
