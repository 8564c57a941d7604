package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace}, " "},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, "enter"},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, "delete"},
		{"backspace maps to delete", tea.KeyMsg{Type: tea.KeyBackspace}, "delete"},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, "arrowright"},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, "arrowleft"},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, "arrowup"},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, "arrowdown"},
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}}, "i"},
		{"period", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'.'}}, "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyName(tt.msg); got != tt.want {
				t.Errorf("keyName() = %q, want %q", got, tt.want)
			}
		})
	}
}
