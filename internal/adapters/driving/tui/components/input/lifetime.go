// Package input provides text input components for the TUI.
package input

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/styles"
)

// LifetimeInput wraps a bubbles textinput for entering a token lifetime
// in minutes. Only digits are accepted; an empty value means "use the
// configured default".
type LifetimeInput struct {
	textinput textinput.Model
	styles    *styles.Styles
}

// NewLifetimeInput creates a new lifetime input component.
func NewLifetimeInput(s *styles.Styles) *LifetimeInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "default"
	ti.CharLimit = 4
	ti.Width = 8
	ti.Validate = func(v string) error {
		if v == "" {
			return nil
		}
		_, err := strconv.Atoi(v)
		return err
	}

	return &LifetimeInput{
		textinput: ti,
		styles:    s,
	}
}

// Init initialises the lifetime input.
func (l *LifetimeInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (l *LifetimeInput) Update(msg tea.Msg) (*LifetimeInput, tea.Cmd) {
	var cmd tea.Cmd
	l.textinput, cmd = l.textinput.Update(msg)
	return l, cmd
}

// View renders the lifetime input.
func (l *LifetimeInput) View() string {
	label := l.styles.Subtitle.Render("Lifetime (minutes): ")
	field := l.styles.InputField.Render(l.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Minutes returns the entered lifetime. An empty input returns 0, which
// callers treat as the default lifetime.
func (l *LifetimeInput) Minutes() (int, error) {
	v := strings.TrimSpace(l.textinput.Value())
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// Value returns the raw input value.
func (l *LifetimeInput) Value() string {
	return l.textinput.Value()
}

// SetValue sets the input value.
func (l *LifetimeInput) SetValue(value string) {
	l.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (l *LifetimeInput) Focus() tea.Cmd {
	return l.textinput.Focus()
}

// Blur removes focus from the input.
func (l *LifetimeInput) Blur() {
	l.textinput.Blur()
}

// Focused returns whether the input is focused.
func (l *LifetimeInput) Focused() bool {
	return l.textinput.Focused()
}

// Reset clears the input.
func (l *LifetimeInput) Reset() {
	l.textinput.Reset()
}
