package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bakery/internal/book"
	"github.com/MrJamesThe3rd/bakery/internal/importer"
)

const importTimeout = 2 * time.Minute

var errEmptyFile = errors.New("file has no rows")

type importState int

const (
	importStateModeSelect importState = iota
	importStateFilePick
	importStateImporting
	importStateResult
)

type importMode struct {
	label  string
	append bool
}

type ImportModel struct {
	CommonModel
	book          *book.Book
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	modes      []importMode
	modeCursor int

	status string
	err    error
}

func NewImportModel(b *book.Book, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		book:          b,
		importService: impSvc,
		filePicker:    fp,
		modes: []importMode{
			{label: "Append to ledger", append: true},
			{label: "Replace ledger", append: false},
		},
	}
}

func (m ImportModel) Title() string { return "Import Deliveries" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "u: undo import | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateModeSelect {
			return m.updateModeSelect(msg)
		}

		if m.state == importStateResult && msg.String() == "u" {
			return m, m.undoCmd()
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path, m.modes[m.modeCursor].append)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateModeSelect
		return m, nil
	case importStateResult:
		m.state = importStateModeSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateModeSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.modeCursor > 0 {
			m.modeCursor--
		}
	case tea.KeyDown:
		if m.modeCursor < len(m.modes)-1 {
			m.modeCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateModeSelect:
		return m.viewModeSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV or XLSX file (%s):\n\n%s", m.modes[m.modeCursor].label, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewModeSelect() string {
	s := "Import Mode:\n\n"

	for i, mode := range m.modes {
		cursor := " "
		if i == m.modeCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, mode.label)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	hint := "\n\n(Esc to go back)"
	if m.book.CanUndoImport() {
		hint = "\n\n(u to undo this import, Esc to go back)"
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) + hint,
	)
}

// Messages

type importResultMsg struct {
	status string
	err    error
}

func (m ImportModel) importCmd(path string, appendRows bool) tea.Cmd {
	b := m.book
	svc := m.importService

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		rows, err := svc.Read(importer.FormatFromName(path), f)
		if err != nil {
			return importResultMsg{err: err}
		}

		if len(rows) == 0 {
			return importResultMsg{err: errEmptyFile}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := b.Import(ctx, book.ImportParams{
			Rows:      rows,
			Mapping:   importer.GuessMapping(rows[0]),
			HasHeader: true,
			Append:    appendRows,
		})
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{status: res.Summary()}
	}
}

func (m ImportModel) undoCmd() tea.Cmd {
	b := m.book

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		ok, err := b.UndoImport(ctx)
		switch {
		case err != nil:
			return importResultMsg{err: err}
		case !ok:
			return importResultMsg{status: "Nothing to undo."}
		}

		return importResultMsg{status: "Import undone."}
	}
}
