package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

var datasourceCmd = &cobra.Command{
	Use:   "datasource",
	Short: "Manage registered data sources",
	Long: `List, inspect, register, update, and delete data source registrations.

Every subcommand authenticates with an orchestrated service-app token,
so a valid credential store is required. Run 'byods setup' first if you
have not authorized yet.

Examples:
  byods datasource list
  byods datasource get ds-1234
  byods datasource register --schema-id sid-1 --url https://example.com/ds \
    --audience myapp --subject "HR records"
  byods datasource update ds-1234 --status disabled
  byods datasource delete ds-1234 --yes`,
}

var datasourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List data sources visible to the service app",
	RunE:  runDatasourceList,
}

var datasourceGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one data source with its decoded token claims",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasourceGet,
}

var datasourceRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new data source",
	Long: `Register a new data source with the vendor.

Run without flags for an interactive wizard, or provide --schema-id,
--url, --audience, and --subject for non-interactive use.`,
	RunE: runDatasourceRegister,
}

var datasourceUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update fields of a data source",
	Long: `Update a data source registration.

Only the flags you pass change; the remaining fields are carried over
from the current record and the nonce is rotated.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasourceUpdate,
}

var datasourceDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a data source registration",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasourceDelete,
}

// Flags for datasource subcommands.
var (
	datasourceListSave string

	datasourceRegisterSchemaID string
	datasourceRegisterURL      string
	datasourceRegisterAudience string
	datasourceRegisterSubject  string
	datasourceRegisterLifetime int

	datasourceUpdateURL      string
	datasourceUpdateStatus   string
	datasourceUpdateErrorMsg string
	datasourceUpdateLifetime int

	datasourceDeleteYes bool
)

func init() {
	datasourceListCmd.Flags().StringVar(
		&datasourceListSave, "save", "", "Write the full list as JSON to this file")

	datasourceRegisterCmd.Flags().StringVar(
		&datasourceRegisterSchemaID, "schema-id", "", "Schema UUID the data source conforms to")
	datasourceRegisterCmd.Flags().StringVar(
		&datasourceRegisterURL, "url", "", "HTTPS endpoint serving the data")
	datasourceRegisterCmd.Flags().StringVar(
		&datasourceRegisterAudience, "audience", "", "Audience the signed token is minted for")
	datasourceRegisterCmd.Flags().StringVar(
		&datasourceRegisterSubject, "subject", "", "Human-readable description of the data")
	datasourceRegisterCmd.Flags().IntVar(
		&datasourceRegisterLifetime, "lifetime", 0, "Token lifetime in minutes, 1 to 1440 (default 1440)")

	datasourceUpdateCmd.Flags().StringVar(
		&datasourceUpdateURL, "url", "", "New endpoint URL")
	datasourceUpdateCmd.Flags().StringVar(
		&datasourceUpdateStatus, "status", "", "New status (active or disabled)")
	datasourceUpdateCmd.Flags().StringVar(
		&datasourceUpdateErrorMsg, "error-message", "", "Error message recorded on the data source")
	datasourceUpdateCmd.Flags().IntVar(
		&datasourceUpdateLifetime, "lifetime", 0, "New token lifetime in minutes")

	datasourceDeleteCmd.Flags().BoolVar(
		&datasourceDeleteYes, "yes", false, "Skip the confirmation prompt")

	datasourceCmd.AddCommand(datasourceListCmd)
	datasourceCmd.AddCommand(datasourceGetCmd)
	datasourceCmd.AddCommand(datasourceRegisterCmd)
	datasourceCmd.AddCommand(datasourceUpdateCmd)
	datasourceCmd.AddCommand(datasourceDeleteCmd)
	rootCmd.AddCommand(datasourceCmd)
}

func runDatasourceList(cmd *cobra.Command, _ []string) error {
	if dataSourceService == nil {
		return errors.New("data source service not configured")
	}

	ctx := cmd.Context()
	sources, err := dataSourceService.List(ctx)
	if err != nil {
		return tokenGuidance(err)
	}

	if datasourceListSave != "" {
		data, err := json.MarshalIndent(sources, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding data source list: %w", err)
		}
		if err := os.WriteFile(datasourceListSave, append(data, '\n'), 0o600); err != nil {
			return fmt.Errorf("saving data source list: %w", err)
		}
		cmd.Printf("Saved %d data sources to %s\n", len(sources), datasourceListSave)
	}

	if len(sources) == 0 {
		cmd.Println("No data sources registered.")
		cmd.Println("Add one with: byods datasource register")
		return nil
	}

	cmd.Printf("Data sources (%d):\n\n", len(sources))
	for i := range sources {
		ds := &sources[i]
		cmd.Printf("  %s\n", ds.ID)
		cmd.Printf("    Schema:  %s\n", ds.SchemaID)
		cmd.Printf("    URL:     %s\n", ds.URL)
		cmd.Printf("    Status:  %s\n", ds.Status)
		if ds.TokenExpiryTime != "" {
			cmd.Printf("    Expires: %s\n", ds.TokenExpiryTime)
		}
		cmd.Println()
	}
	return nil
}

func runDatasourceGet(cmd *cobra.Command, args []string) error {
	if dataSourceService == nil {
		return errors.New("data source service not configured")
	}

	ctx := cmd.Context()
	ds, err := dataSourceService.Get(ctx, args[0])
	if err != nil {
		return tokenGuidance(err)
	}

	printDataSource(cmd, ds)

	// Claim decoding is best effort; the stored record already stands
	// on its own.
	if claims, err := dataSourceService.Claims(ds); err == nil {
		cmd.Println("Token claims:")
		cmd.Printf("  Audience: %s\n", claims.Audience)
		cmd.Printf("  Subject:  %s\n", claims.Subject)
		cmd.Printf("  Schema:   %s\n", claims.SchemaID)
		if !claims.ExpiresAt.IsZero() {
			cmd.Printf("  Expires:  %s\n", claims.ExpiresAt)
		}
	}
	return nil
}

//nolint:errcheck // CLI interactive flow
func runDatasourceRegister(cmd *cobra.Command, _ []string) error {
	if dataSourceService == nil {
		return errors.New("data source service not configured")
	}

	input := domain.RegistrationInput{
		SchemaID:             datasourceRegisterSchemaID,
		URL:                  datasourceRegisterURL,
		Audience:             datasourceRegisterAudience,
		Subject:              datasourceRegisterSubject,
		TokenLifetimeMinutes: datasourceRegisterLifetime,
	}

	nonInteractive := input.SchemaID != "" && input.URL != "" &&
		input.Audience != "" && input.Subject != ""
	if !nonInteractive {
		reader := bufio.NewReader(os.Stdin)
		cmd.Println("Register a new data source")
		cmd.Println("--------------------------")

		if input.SchemaID == "" {
			cmd.Print("Schema ID: ")
			input.SchemaID = readLine(reader)
		}
		if input.URL == "" {
			cmd.Print("Endpoint URL: ")
			input.URL = readLine(reader)
		}
		if input.Audience == "" {
			cmd.Print("Audience: ")
			input.Audience = readLine(reader)
		}
		if input.Subject == "" {
			cmd.Print("Subject: ")
			input.Subject = readLine(reader)
		}
		if input.TokenLifetimeMinutes == 0 {
			cmd.Printf("Token lifetime in minutes [%d]: ", domain.DefaultRegistrationLifetimeMinutes)
			if raw := readLine(reader); raw != "" {
				minutes, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("invalid lifetime %q", raw)
				}
				input.TokenLifetimeMinutes = minutes
			}
		}
	}

	ctx := cmd.Context()
	ds, err := dataSourceService.Register(ctx, input)
	if err != nil {
		return tokenGuidance(err)
	}

	cmd.Printf("\nData source registered: %s\n", ds.ID)
	if ds.TokenExpiryTime != "" {
		cmd.Printf("Token expires: %s\n", ds.TokenExpiryTime)
	}
	cmd.Printf("Renew it with: byods extend %s\n", ds.ID)
	return nil
}

func runDatasourceUpdate(cmd *cobra.Command, args []string) error {
	if dataSourceService == nil {
		return errors.New("data source service not configured")
	}

	var update domain.DataSourceUpdate
	if cmd.Flags().Changed("url") {
		update.URL = &datasourceUpdateURL
	}
	if cmd.Flags().Changed("status") {
		update.Status = &datasourceUpdateStatus
	}
	if cmd.Flags().Changed("error-message") {
		update.ErrorMessage = &datasourceUpdateErrorMsg
	}
	if cmd.Flags().Changed("lifetime") {
		update.TokenLifetimeMinutes = &datasourceUpdateLifetime
	}
	if update.Empty() {
		return errors.New("nothing to update: pass at least one of --url, --status, --error-message, --lifetime")
	}

	ctx := cmd.Context()
	ds, err := dataSourceService.Update(ctx, args[0], update)
	if err != nil {
		return tokenGuidance(err)
	}

	cmd.Printf("Data source updated: %s\n", ds.ID)
	printDataSource(cmd, ds)
	return nil
}

//nolint:errcheck // CLI interactive flow
func runDatasourceDelete(cmd *cobra.Command, args []string) error {
	if dataSourceService == nil {
		return errors.New("data source service not configured")
	}

	id := args[0]
	if !datasourceDeleteYes {
		cmd.Printf("Delete data source %s? This cannot be undone. [y/N]: ", id)
		reader := bufio.NewReader(os.Stdin)
		input := readLine(reader)
		if input != "y" && input != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx := cmd.Context()
	if err := dataSourceService.Remove(ctx, id); err != nil {
		return tokenGuidance(err)
	}
	cmd.Printf("Deleted data source: %s\n", id)
	return nil
}

func printDataSource(cmd *cobra.Command, ds *domain.DataSource) {
	cmd.Printf("  ID:       %s\n", ds.ID)
	cmd.Printf("  Schema:   %s\n", ds.SchemaID)
	cmd.Printf("  URL:      %s\n", ds.URL)
	cmd.Printf("  Audience: %s\n", ds.Audience)
	cmd.Printf("  Subject:  %s\n", ds.Subject)
	cmd.Printf("  Status:   %s\n", ds.Status)
	if ds.ErrorMessage != "" {
		cmd.Printf("  Error:    %s\n", ds.ErrorMessage)
	}
	cmd.Printf("  Lifetime: %d minutes\n", ds.TokenLifetimeMinutes)
	if ds.TokenExpiryTime != "" {
		cmd.Printf("  Expires:  %s\n", ds.TokenExpiryTime)
	}
	cmd.Println()
}
