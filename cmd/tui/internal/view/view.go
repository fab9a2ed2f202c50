package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is a screen reachable from the main menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct{}

// BackMsg asks the menu to take focus again.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
