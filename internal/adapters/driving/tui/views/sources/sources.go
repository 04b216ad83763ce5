// Package sources provides the data source list view for the TUI.
package sources

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
)

// View is the data source list view.
type View struct {
	styles      *styles.Styles
	dataSources driving.DataSourceService

	sources  []domain.DataSource
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new data source list view.
func NewView(s *styles.Styles, dataSources driving.DataSourceService) *View {
	return &View{
		styles:      s,
		dataSources: dataSources,
		sources:     []domain.DataSource{},
	}
}

// Init initialises the view and loads the data sources.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadSources()
}

// loadSources returns a command that lists data sources from the service.
func (v *View) loadSources() tea.Cmd {
	return func() tea.Msg {
		if v.dataSources == nil {
			return messages.SourcesLoaded{Err: fmt.Errorf("data source service not available")}
		}

		sources, err := v.dataSources.List(context.Background())
		if err != nil {
			return messages.SourcesLoaded{Err: err}
		}
		return messages.SourcesLoaded{Sources: sources}
	}
}

// Update handles messages for the data source list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.sources = msg.Sources
			v.err = nil
			if v.selected >= len(v.sources) && len(v.sources) > 0 {
				v.selected = len(v.sources) - 1
			}
		}
		return v, nil

	case messages.SourceRemoved:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			// Reload the list after a deletion
			v.loading = true
			return v, v.loadSources()
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.sources)-1 {
			v.selected++
		}
	case "enter":
		// Navigate to the detail view
		if len(v.sources) > 0 && v.selected < len(v.sources) {
			source := v.sources[v.selected]
			return v, func() tea.Msg {
				return messages.SourceSelected{Source: source}
			}
		}
	case "d", "delete", "backspace":
		// Delete the selected data source
		if len(v.sources) > 0 && v.selected < len(v.sources) {
			return v, v.deleteSource(v.sources[v.selected].ID)
		}
	case "r":
		// Reload the list
		v.loading = true
		return v, v.loadSources()
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// deleteSource returns a command that deletes a data source.
func (v *View) deleteSource(id string) tea.Cmd {
	return func() tea.Msg {
		if v.dataSources == nil {
			return messages.SourceRemoved{ID: id, Err: fmt.Errorf("data source service not available")}
		}

		err := v.dataSources.Remove(context.Background(), id)
		return messages.SourceRemoved{ID: id, Err: err}
	}
}

// View renders the data source list.
func (v *View) View() string {
	var b strings.Builder

	// Title
	b.WriteString(v.styles.Title.Render("Data Sources"))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading data sources..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Empty state
	if len(v.sources) == 0 {
		b.WriteString(v.styles.Muted.Render("No data sources registered."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Data source list
	for i := range v.sources {
		b.WriteString(v.renderSource(i, &v.sources[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderSource renders a single data source line.
func (v *View) renderSource(index int, source *domain.DataSource) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	// Format: > [status] id  url
	status := source.Status
	if status == "" {
		status = "unknown"
	}
	statusStr := fmt.Sprintf("[%s]", status)

	detail := source.URL
	if source.TokenExpiryTime != "" {
		detail = fmt.Sprintf("%s  expires %s", detail, source.TokenExpiryTime)
	}

	// Truncate the detail column to the terminal width
	maxDetailLen := v.width - len(statusStr) - len(source.ID) - 8
	if maxDetailLen < 10 {
		maxDetailLen = 10
	}
	if len(detail) > maxDetailLen {
		detail = detail[:maxDetailLen-3] + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-11s %s  %s", indicator, statusStr, source.ID, detail))
	}
	return v.styles.Normal.Render(indicator) +
		v.styles.StatusStyle(status).Render(fmt.Sprintf("%-11s ", statusStr)) +
		v.styles.Normal.Render(source.ID) +
		v.styles.Muted.Render("  "+detail)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] details  [d] delete  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sources returns the current list of data sources.
func (v *View) Sources() []domain.DataSource {
	return v.sources
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
