package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/byods-cli/internal/adapters/driving/tui"
)

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Launch the interactive data source manager",
	Long: `Launch the terminal UI for browsing and renewing data sources.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / open detail
  e        - Extend the selected data source token
  d        - Delete the selected data source
  r        - Reload the list
  Esc      - Back
  q        - Quit`,
	RunE: runManage,
}

func init() {
	rootCmd.AddCommand(manageCmd)
}

func runManage(cmd *cobra.Command, _ []string) error {
	if dataSourceService == nil {
		return errors.New("data source service not configured")
	}

	// Recover so a panic in the Elm loop still restores the terminal
	// and leaves a trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in manager: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		DataSources: dataSourceService,
		Settings:    settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("creating manager: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("manager error: %w", err)
	}

	return nil
}
