// Package cli implements the byods command tree. Commands talk to the
// core services through the driving ports; wiring happens in cmd/byods
// after the global flags are parsed.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

// version is the build version, overridden at link time via cmd/byods.
var version = "dev"

// Services used by the commands. Set by the factory after flag parsing;
// tests assign them directly.
var (
	tokenService      driving.TokenService
	dataSourceService driving.DataSourceService
	setupService      driving.SetupService
	settingsService   driving.SettingsService
	historyService    driving.HistoryService
)

// Global flag values.
var (
	flagConfigPath      string
	flagCredentialsPath string
	flagSecretName      string
	flagBaseURL         string
	flagVerbose         bool
)

// ServiceOptions carries the global flag values the service factory
// needs to build the real adapters.
type ServiceOptions struct {
	ConfigPath      string
	CredentialsPath string
	SecretName      string
	BaseURL         string
}

// ServiceSet bundles the services the command tree depends on.
type ServiceSet struct {
	Token      driving.TokenService
	DataSource driving.DataSourceService
	Setup      driving.SetupService
	Settings   driving.SettingsService
	History    driving.HistoryService
}

// serviceFactory builds the real services once flags are known.
// Left nil in tests, which assign the service variables directly.
var serviceFactory func(opts ServiceOptions) (*ServiceSet, error)

var rootCmd = &cobra.Command{
	Use:   "byods",
	Short: "Manage Webex service-app tokens and data sources",
	Long: `byods manages the credentials of a Webex Bring Your Own Data Source
integration: it mints short-lived service-app tokens, registers and
renews data sources, and keeps the long-lived OAuth credentials fresh.

Credentials live in a local JSON file by default. Point --credentials at
a .env file to manage key-value credentials instead, or --secret-name at
an AWS Secrets Manager secret for shared deployments.

Examples:
  # First-time OAuth authorization
  byods setup

  # Fetch a service-app token for the configured org
  byods token get

  # Renew a data source token for twelve hours
  byods extend ds-1234 --lifetime 720

  # Browse data sources interactively
  byods manage`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if serviceFactory == nil {
			return nil
		}
		services, err := serviceFactory(ServiceOptions{
			ConfigPath:      flagConfigPath,
			CredentialsPath: flagCredentialsPath,
			SecretName:      flagSecretName,
			BaseURL:         flagBaseURL,
		})
		if err != nil {
			return err
		}
		applyServices(services)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&flagConfigPath, "config", "", "Settings file (default ~/.config/byods/config.toml)")
	rootCmd.PersistentFlags().StringVar(
		&flagCredentialsPath, "credentials", "", "Credential file, JSON or .env (default ~/.config/byods/credentials.json)")
	rootCmd.PersistentFlags().StringVar(
		&flagSecretName, "secret-name", "", "AWS Secrets Manager secret holding the credentials")
	rootCmd.PersistentFlags().StringVar(
		&flagBaseURL, "base-url", "", "Override the Webex API base URL")
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Print token pipeline diagnostics to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory registers the constructor invoked after global flag
// parsing. cmd/byods wires the real factory here.
func SetServiceFactory(factory func(ServiceOptions) (*ServiceSet, error)) {
	serviceFactory = factory
}

// SetTokenService sets the token service used by the commands.
func SetTokenService(s driving.TokenService) {
	tokenService = s
}

// SetDataSourceService sets the data source service used by the commands.
func SetDataSourceService(s driving.DataSourceService) {
	dataSourceService = s
}

// SetSetupService sets the OAuth setup service used by the commands.
func SetSetupService(s driving.SetupService) {
	setupService = s
}

// SetSettingsService sets the settings service used by the commands.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetHistoryService sets the history service used by the commands.
func SetHistoryService(s driving.HistoryService) {
	historyService = s
}

func applyServices(services *ServiceSet) {
	if services == nil {
		return
	}
	SetTokenService(services.Token)
	SetDataSourceService(services.DataSource)
	SetSetupService(services.Setup)
	SetSettingsService(services.Settings)
	SetHistoryService(services.History)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which cancels
// in-flight API calls when the process receives an interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
