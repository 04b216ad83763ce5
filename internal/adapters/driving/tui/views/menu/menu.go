// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Label  string
	View   messages.ViewType
	Extend bool // If true, selecting this item extends the default data source
	Quit   bool // If true, selecting this item quits the app
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool

	// extending and the extension outcome are shown under the menu when
	// the Extend Token shortcut is used.
	extending    bool
	extendResult *domain.ExtensionResult
	extendErr    error
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Data Sources", View: messages.ViewSources},
			{Label: "Extend Token", Extend: true},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		selected: 0,
		width:    80,
		height:   24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.ExtensionCompleted:
		v.extending = false
		v.extendResult = msg.Result
		v.extendErr = msg.Err
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			if item.Extend {
				if v.extending {
					return v, nil
				}
				v.extending = true
				v.extendResult = nil
				v.extendErr = nil
				return v, func() tea.Msg {
					return messages.ExtendRequested{}
				}
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	// Title
	title := v.styles.Title.Render("byods")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Subtitle
	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("Webex Data Source Manager")
	b.WriteString(subtitle)
	b.WriteString("\n\n")

	// Menu items
	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)
		}

		line := cursor + style.Render(item.Label)
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Extension outcome, if the shortcut was used
	if notice := v.renderExtendNotice(); notice != "" {
		b.WriteString("\n")
		b.WriteString(notice)
		b.WriteString("\n")
	}

	// Footer with keybindings
	b.WriteString("\n")
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("[j/k] Navigate  [Enter] Select  [q] Quit")
	b.WriteString(footer)

	return b.String()
}

// renderExtendNotice renders the outcome of the Extend Token shortcut.
func (v *View) renderExtendNotice() string {
	switch {
	case v.extending:
		return v.styles.Muted.Render("Extending the default data source token...")
	case v.extendErr != nil:
		return v.styles.Error.Render(fmt.Sprintf("Extension failed: %s", v.extendErr))
	case v.extendResult != nil && !v.extendResult.Success:
		return v.styles.Warning.Render(fmt.Sprintf(
			"Extension rejected (status %d): %s", v.extendResult.Status, v.extendResult.Detail))
	case v.extendResult != nil:
		return v.styles.Success.Render(fmt.Sprintf(
			"Token extended for %s, expires %s",
			v.extendResult.DataSourceID, v.extendResult.ExpiryTime))
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Extending reports whether an extension is in flight.
func (v *View) Extending() bool {
	return v.extending
}

// ExtendErr returns the last extension error.
func (v *View) ExtendErr() error {
	return v.extendErr
}
