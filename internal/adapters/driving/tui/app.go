package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// sourcesView is the data source list view component.
	sourcesView *sources.View

	// detailView is the data source detail view component.
	detailView *detail.View

	// selectedSource tracks the currently selected data source.
	selectedSource *domain.DataSource

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		menuView:    menu.NewView(s),
		sourcesView: sources.NewView(s, ports.DataSources),
		detailView:  detail.NewView(s, ports.DataSources, ports.Settings),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("byods - Data Source Manager"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.sourcesView.SetDimensions(msg.Width, msg.Height)
		a.detailView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to the active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewSources:
			// Esc from the list goes to the menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.sourcesView, cmd = a.sourcesView.Update(msg)
			return a, cmd

		case messages.ViewDetail:
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to the menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewSources:
			return a, a.sourcesView.Init()
		case messages.ViewDetail:
			return a, a.detailView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.SourceSelected:
		// Navigate from the list to the detail view
		a.selectedSource = &msg.Source
		a.detailView.SetSource(msg.Source)
		a.currentView = messages.ViewDetail
		return a, a.detailView.Init()

	case messages.ExtendRequested:
		return a, a.extendDefaultSource()

	case messages.ExtensionCompleted:
		// The outcome renders on whichever view asked for it
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewDetail:
			a.detailView, cmd = a.detailView.Update(msg)
		case messages.ViewSources, messages.ViewHelp:
			// Other views don't run extensions
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewDetail {
			a.detailView, cmd = a.detailView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit

	case messages.SourcesLoaded:
		if a.currentView == messages.ViewSources {
			a.sourcesView, cmd = a.sourcesView.Update(msg)
			return a, cmd
		}

	case messages.SourceRemoved:
		if a.currentView == messages.ViewSources {
			a.sourcesView, cmd = a.sourcesView.Update(msg)
			return a, cmd
		}
		if a.currentView == messages.ViewDetail {
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd
		}
	}

	// Forward other messages to the active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't handle other messages
	}

	return a, cmd
}

// extendDefaultSource returns a command that extends the data source
// configured as the extend default in settings.
func (a *App) extendDefaultSource() tea.Cmd {
	return func() tea.Msg {
		if a.ports.Settings == nil {
			return messages.ExtensionCompleted{
				Err: fmt.Errorf("settings not available; open Data Sources and extend from the detail view"),
			}
		}

		id := a.ports.Settings.DefaultDataSourceID()
		if id == "" {
			return messages.ExtensionCompleted{
				Err: fmt.Errorf("no default data source configured; set extend.data_source_id or extend from the detail view"),
			}
		}

		result, err := a.ports.DataSources.Extend(a.ctx, id, a.ports.Settings.DefaultLifetimeMinutes())
		return messages.ExtensionCompleted{Result: result, Err: err}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewSources:
		return a.sourcesView.View()
	case messages.ViewDetail:
		return a.detailView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Data Sources:
  j/k, ↑/↓    Navigate
  enter       Open detail
  d           Delete
  r           Reload

Detail:
  e           Extend the token
  enter       Submit the lifetime
  esc         Cancel / back

[esc] back to menu`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SelectedSource returns the data source opened in the detail view.
func (a *App) SelectedSource() *domain.DataSource {
	return a.selectedSource
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.sourcesView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
}
