// Package detail provides the data source detail view for the TUI.
// It shows the stored record enriched with the token's claims and hosts
// the extend action.
package detail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
)

// MenuOption represents an action in the detail menu.
type MenuOption int

const (
	OptionExtend MenuOption = iota
	OptionDelete
	OptionBack
)

// View is the data source detail view.
type View struct {
	styles      *styles.Styles
	dataSources driving.DataSourceService
	settings    driving.SettingsService

	source   *domain.DataSource
	claims   *domain.TokenClaims
	lifetime *input.LifetimeInput
	selected MenuOption
	width    int
	height   int
	ready    bool
	err      error

	editing   bool
	extending bool
	deleting  bool
	result    *domain.ExtensionResult
}

// NewView creates a new detail view.
func NewView(s *styles.Styles, dataSources driving.DataSourceService, settings driving.SettingsService) *View {
	return &View{
		styles:      s,
		dataSources: dataSources,
		settings:    settings,
		lifetime:    input.NewLifetimeInput(s),
		selected:    OptionExtend,
	}
}

// SetSource sets the data source to display. The token claims are
// decoded best effort; the stored record stands on its own.
func (v *View) SetSource(source domain.DataSource) {
	v.source = &source
	v.claims = nil
	v.err = nil
	v.editing = false
	v.extending = false
	v.deleting = false
	v.result = nil
	v.selected = OptionExtend
	v.lifetime.Reset()
	v.lifetime.Blur()

	if v.dataSources != nil {
		if claims, err := v.dataSources.Claims(&source); err == nil {
			v.claims = claims
		}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ExtensionCompleted:
		v.extending = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.result = msg.Result
		if msg.Result != nil && msg.Result.Success && v.source != nil {
			// Reflect the renewal in the displayed record
			v.source.Nonce = msg.Result.Nonce
			v.source.TokenExpiryTime = msg.Result.ExpiryTime
			v.source.TokenLifetimeMinutes = msg.Result.LifetimeMinutes
		}
		return v, nil

	case messages.SourceRemoved:
		v.deleting = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Navigate back after deletion
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.extending = false
		return v, nil
	}

	// While editing, forward everything else to the input for cursor blinks
	if v.editing {
		var cmd tea.Cmd
		v.lifetime, cmd = v.lifetime.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		return v.handleEditKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > OptionExtend {
			v.selected--
		}
	case "down", "j":
		if v.selected < OptionBack {
			v.selected++
		}
	case "enter":
		return v.handleSelect()
	case "e":
		return v, v.beginExtend()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// handleEditKey handles key presses while the lifetime input is focused.
func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.submitExtension()
	case "esc":
		v.editing = false
		v.lifetime.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.lifetime, cmd = v.lifetime.Update(msg)
	return v, cmd
}

// handleSelect handles selection of a menu option.
func (v *View) handleSelect() (*View, tea.Cmd) {
	switch v.selected {
	case OptionExtend:
		return v, v.beginExtend()
	case OptionDelete:
		return v, v.deleteSource()
	case OptionBack:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}
	}
	return v, nil
}

// beginExtend focuses the lifetime input.
func (v *View) beginExtend() tea.Cmd {
	v.editing = true
	v.err = nil
	v.result = nil
	v.selected = OptionExtend
	return v.lifetime.Focus()
}

// submitExtension parses the lifetime and runs the extension.
func (v *View) submitExtension() tea.Cmd {
	minutes, err := v.lifetime.Minutes()
	if err != nil {
		v.err = fmt.Errorf("lifetime must be a whole number of minutes")
		return nil
	}

	v.editing = false
	v.lifetime.Blur()

	if minutes == 0 && v.settings != nil {
		minutes = v.settings.DefaultLifetimeMinutes()
	}

	v.extending = true
	id := ""
	if v.source != nil {
		id = v.source.ID
	}
	return v.extendSource(id, minutes)
}

// extendSource returns a command that renews the data source token.
func (v *View) extendSource(id string, minutes int) tea.Cmd {
	return func() tea.Msg {
		if v.dataSources == nil {
			return messages.ExtensionCompleted{Err: fmt.Errorf("data source service not available")}
		}

		result, err := v.dataSources.Extend(context.Background(), id, minutes)
		return messages.ExtensionCompleted{Result: result, Err: err}
	}
}

// deleteSource returns a command that deletes the data source.
func (v *View) deleteSource() tea.Cmd {
	if v.source == nil {
		return nil
	}
	v.deleting = true
	id := v.source.ID
	return func() tea.Msg {
		if v.dataSources == nil {
			return messages.SourceRemoved{ID: id, Err: fmt.Errorf("data source service not available")}
		}

		err := v.dataSources.Remove(context.Background(), id)
		return messages.SourceRemoved{ID: id, Err: err}
	}
}

// View renders the detail view.
func (v *View) View() string {
	if v.source == nil {
		return v.styles.Muted.Render("No data source selected")
	}

	var b strings.Builder

	// Title
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Data Source: %s", v.source.ID)))
	b.WriteString("\n\n")

	v.renderFields(&b)

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Status
	if v.extending {
		b.WriteString(v.styles.Muted.Render("Extending token..."))
		b.WriteString("\n\n")
	}
	if v.deleting {
		b.WriteString(v.styles.Muted.Render("Deleting..."))
		b.WriteString("\n\n")
	}
	if notice := v.renderResult(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n\n")
	}

	// Menu separator, shrunk on narrow terminals
	sep := minInt(40, v.width-4)
	if sep < 1 {
		sep = 40
	}
	b.WriteString(strings.Repeat("─", sep))
	b.WriteString("\n\n")

	if v.editing {
		b.WriteString(v.lifetime.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Leave blank for the configured default."))
		b.WriteString("\n")
	} else {
		v.renderOptions(&b)
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderFields writes the record fields, falling back to token claims
// where the stored record is empty.
func (v *View) renderFields(b *strings.Builder) {
	v.renderField(b, "Schema", v.fieldOr(v.source.SchemaID, v.claimSchema()))
	v.renderField(b, "URL", v.source.URL)
	v.renderField(b, "Audience", v.fieldOr(v.source.Audience, v.claimAudience()))
	v.renderField(b, "Subject", v.fieldOr(v.source.Subject, v.claimSubject()))

	status := v.source.Status
	if status != "" {
		b.WriteString(v.styles.Subtitle.Render("Status: "))
		b.WriteString(v.styles.StatusStyle(status).Render(status))
		b.WriteString("\n")
	}
	if v.source.ErrorMessage != "" {
		v.renderField(b, "Error", v.source.ErrorMessage)
	}

	if v.source.TokenLifetimeMinutes > 0 {
		v.renderField(b, "Lifetime", fmt.Sprintf("%d minutes", v.source.TokenLifetimeMinutes))
	}
	v.renderField(b, "Expires", v.fieldOr(v.source.TokenExpiryTime, v.claimExpiry()))
	if v.claims != nil && !v.claims.IssuedAt.IsZero() {
		v.renderField(b, "Issued", v.claims.IssuedAt.Local().Format("2006-01-02 15:04:05"))
	}

	b.WriteString("\n")
}

// renderField writes a single labelled field, skipping empty values.
func (v *View) renderField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(v.styles.Subtitle.Render(label + ": "))
	b.WriteString(v.styles.Normal.Render(value))
	b.WriteString("\n")
}

// fieldOr prefers the stored value and falls back to the token claim.
func (v *View) fieldOr(value, claim string) string {
	if value != "" {
		return value
	}
	if claim != "" {
		return claim + " (from token)"
	}
	return ""
}

func (v *View) claimSchema() string {
	if v.claims == nil {
		return ""
	}
	return v.claims.SchemaID
}

func (v *View) claimAudience() string {
	if v.claims == nil {
		return ""
	}
	return v.claims.Audience
}

func (v *View) claimSubject() string {
	if v.claims == nil {
		return ""
	}
	return v.claims.Subject
}

func (v *View) claimExpiry() string {
	if v.claims == nil || v.claims.ExpiresAt.IsZero() {
		return ""
	}
	return v.claims.ExpiresAt.Local().Format("2006-01-02 15:04:05")
}

// renderResult renders the extension outcome.
func (v *View) renderResult() string {
	switch {
	case v.result == nil:
		return ""
	case !v.result.Success:
		return v.styles.Warning.Render(fmt.Sprintf(
			"Extension rejected (status %d): %s", v.result.Status, v.result.Detail))
	default:
		return v.styles.Success.Render(fmt.Sprintf(
			"Token extended, expires %s", v.result.ExpiryTime))
	}
}

// renderOptions renders the action menu.
func (v *View) renderOptions(b *strings.Builder) {
	options := []struct {
		option MenuOption
		label  string
	}{
		{OptionExtend, "Extend Token"},
		{OptionDelete, "Delete Data Source"},
		{OptionBack, "Back"},
	}

	for _, opt := range options {
		indicator := "  "
		if v.selected == opt.option {
			indicator = "> "
			b.WriteString(v.styles.Selected.Render(fmt.Sprintf("%s%s", indicator, opt.label)))
		} else {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%s%s", indicator, opt.label)))
		}
		b.WriteString("\n")
	}
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] extend  [esc] cancel")
	}
	return v.styles.Help.Render("[↑/↓] navigate  [enter] select  [e] extend  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Source returns the current data source.
func (v *View) Source() *domain.DataSource {
	return v.source
}

// SelectedOption returns the currently selected menu option.
func (v *View) SelectedOption() MenuOption {
	return v.selected
}

// Editing reports whether the lifetime input is focused.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
