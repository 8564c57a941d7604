package tui

import tea "github.com/charmbracelet/bubbletea"

// keyName normalizes a bubbletea key message to the names the keymap uses,
// so persisted keybinds stay portable across frontends.
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeySpace:
		return " "
	case tea.KeyEnter:
		return "enter"
	case tea.KeyDelete, tea.KeyBackspace:
		return "delete"
	case tea.KeyRight:
		return "arrowright"
	case tea.KeyLeft:
		return "arrowleft"
	case tea.KeyUp:
		return "arrowup"
	case tea.KeyDown:
		return "arrowdown"
	}
	return msg.String()
}
