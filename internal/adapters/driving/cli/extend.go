package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extendCmd = &cobra.Command{
	Use:   "extend [data-source-id]",
	Short: "Renew a data source token",
	Long: `Renew the signed token of a registered data source.

The current record is fetched, its nonce regenerated, and the record
resubmitted with the requested token lifetime. When the id argument is
omitted the extend.data_source_id setting is used.

Examples:
  byods extend ds-1234
  byods extend ds-1234 --lifetime 720
  byods extend                       # uses extend.data_source_id`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtend,
}

// extendLifetime is the --lifetime flag value in minutes.
var extendLifetime int

func init() {
	extendCmd.Flags().IntVar(
		&extendLifetime, "lifetime", 0, "Token lifetime in minutes, 1 to 1440 (default from settings)")
	rootCmd.AddCommand(extendCmd)
}

func runExtend(cmd *cobra.Command, args []string) error {
	if dataSourceService == nil {
		return errors.New("data source service not configured")
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	} else if settingsService != nil {
		id = settingsService.DefaultDataSourceID()
	}
	if id == "" {
		return errors.New("data source id required: pass an id or set extend.data_source_id")
	}

	lifetime := extendLifetime
	if !cmd.Flags().Changed("lifetime") && settingsService != nil {
		lifetime = settingsService.DefaultLifetimeMinutes()
	}

	ctx := cmd.Context()
	result, err := dataSourceService.Extend(ctx, id, lifetime)
	if err != nil {
		return tokenGuidance(err)
	}

	if !result.Success {
		cmd.Printf("Extension rejected (status %d): %s\n", result.Status, result.Detail)
		return fmt.Errorf("extending data source %s failed", id)
	}

	cmd.Printf("Token extended for data source %s.\n", result.DataSourceID)
	cmd.Printf("  Lifetime: %d minutes\n", result.LifetimeMinutes)
	if result.ExpiryTime != "" {
		cmd.Printf("  Expires:  %s\n", result.ExpiryTime)
	}
	return nil
}
