package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
)

type snapshotsState int

const (
	snapshotsStateBrowse snapshotsState = iota
	snapshotsStateCreate
	snapshotsStatePurge
)

// SnapshotsModel lists saved snapshots. Deleted snapshots live in a
// separate bin that can be recovered from or purged.
type SnapshotsModel struct {
	CommonModel
	book *book.Book

	state     snapshotsState
	table     table.Model
	snapshots []snapshot.Snapshot
	form      *huh.Form
	deleted   bool
	status    string

	create *createSnapshotForm
	phrase *string
}

type createSnapshotForm struct {
	name string
	shop string
}

func NewSnapshotsModel(b *book.Book) SnapshotsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Shop", Width: 14},
		{Title: "Taken", Width: 17},
		{Title: "Deliveries", Width: 10},
		{Title: "Payments", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(newTableStyles())

	return SnapshotsModel{
		book:  b,
		table: t,
	}
}

func (m SnapshotsModel) Title() string { return "Snapshots" }

func (m SnapshotsModel) ShortHelp() string {
	switch {
	case m.state != snapshotsStateBrowse:
		return "Navigate form | Esc: cancel"
	case m.deleted:
		return "Esc: back | r: recover | p: purge | d: saved snapshots"
	}

	return "Esc: back | n: new | r: restore | a: append | x: delete | d: deleted bin"
}

func (m SnapshotsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SnapshotsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotsLoadedMsg:
		m.snapshots = msg.snapshots
		m.refreshTable()
		return m, nil

	case snapshotChangedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
		}
		m.state = snapshotsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()
	}

	if m.state == snapshotsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m SnapshotsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "d":
			m.deleted = !m.deleted
			m.status = ""
			return m, m.loadCmd()
		}

		if m.deleted {
			switch keyMsg.String() {
			case "r":
				return m, m.recoverCmd()
			case "p":
				return m.enterPurgeMode()
			}
		} else {
			switch keyMsg.String() {
			case "n":
				return m.enterCreateMode()
			case "r":
				return m, m.restoreCmd(snapshot.ModeReplace)
			case "a":
				return m, m.restoreCmd(snapshot.ModeAppend)
			case "x":
				return m, m.deleteCmd()
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SnapshotsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = snapshotsStateBrowse
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

	if m.state == snapshotsStateCreate {
		return m, m.createCmd()
	}

	return m, m.purgeCmd()
}

func (m SnapshotsModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.create = &createSnapshotForm{}

	shopOptions := []huh.Option[string]{huh.NewOption("Whole ledger", "")}
	for _, shop := range m.book.Shops() {
		shopOptions = append(shopOptions, huh.NewOption(shop, shop))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("Untitled").
				Value(&m.create.name),
			huh.NewSelect[string]().
				Key("shop").
				Title("Scope").
				Options(shopOptions...).
				Value(&m.create.shop),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = snapshotsStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m SnapshotsModel) enterPurgeMode() (tea.Model, tea.Cmd) {
	if _, ok := m.selected(); !ok {
		return m, nil
	}

	m.phrase = new(string)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("confirm").
				Title(fmt.Sprintf("Type %s to delete forever", snapshot.ConfirmPhrase)).
				Value(m.phrase),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = snapshotsStatePurge
	m.table.Blur()
	return m, m.form.Init()
}

func (m SnapshotsModel) View() string {
	title := "Saved Snapshots"
	if m.deleted {
		title = "Deleted Snapshots"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		activeStyle(title),
		"",
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.state != snapshotsStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m SnapshotsModel) selected() (snapshot.Snapshot, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.snapshots) {
		return snapshot.Snapshot{}, false
	}

	return m.snapshots[idx], true
}

func (m *SnapshotsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		shop := s.Shop
		if shop == "" {
			shop = "-"
		}

		rows = append(rows, table.Row{
			s.Name,
			shop,
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(len(s.State.Deliveries)),
			strconv.Itoa(len(s.State.Transactions)),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type snapshotsLoadedMsg struct {
	snapshots []snapshot.Snapshot
}

func (m SnapshotsModel) loadCmd() tea.Cmd {
	b := m.book
	deleted := m.deleted

	return func() tea.Msg {
		return snapshotsLoadedMsg{snapshots: b.Snapshots(deleted)}
	}
}

type snapshotChangedMsg struct {
	status string
	err    error
}

func (m SnapshotsModel) createCmd() tea.Cmd {
	b := m.book
	in := *m.create

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		s, err := b.CreateSnapshot(ctx, in.name, in.shop)
		if err != nil {
			return snapshotChangedMsg{err: err}
		}

		return snapshotChangedMsg{status: fmt.Sprintf("Saved snapshot %q.", s.Name)}
	}
}

func (m SnapshotsModel) restoreCmd(mode snapshot.Mode) tea.Cmd {
	s, ok := m.selected()
	if !ok {
		return nil
	}

	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if err := b.RestoreSnapshot(ctx, s.ID, mode); err != nil {
			return snapshotChangedMsg{err: err}
		}

		return snapshotChangedMsg{status: fmt.Sprintf("Restored %q (%s).", s.Name, mode)}
	}
}

func (m SnapshotsModel) deleteCmd() tea.Cmd {
	s, ok := m.selected()
	if !ok {
		return nil
	}

	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if err := b.DeleteSnapshot(ctx, s.ID); err != nil {
			return snapshotChangedMsg{err: err}
		}

		return snapshotChangedMsg{status: fmt.Sprintf("Moved %q to the deleted bin.", s.Name)}
	}
}

func (m SnapshotsModel) recoverCmd() tea.Cmd {
	s, ok := m.selected()
	if !ok {
		return nil
	}

	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := b.RestoreDeletedSnapshot(ctx, s.ID); err != nil {
			return snapshotChangedMsg{err: err}
		}

		return snapshotChangedMsg{status: fmt.Sprintf("Recovered %q.", s.Name)}
	}
}

func (m SnapshotsModel) purgeCmd() tea.Cmd {
	s, ok := m.selected()
	if !ok {
		return nil
	}

	b := m.book
	phrase := *m.phrase

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if err := b.PurgeSnapshot(ctx, s.ID, phrase); err != nil {
			return snapshotChangedMsg{err: err}
		}

		return snapshotChangedMsg{status: fmt.Sprintf("Purged %q.", s.Name)}
	}
}
