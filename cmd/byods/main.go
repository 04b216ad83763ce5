package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/byods-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/byods-cli/internal/adapters/driven/credstore"
	"github.com/custodia-labs/byods-cli/internal/adapters/driven/history"
	"github.com/custodia-labs/byods-cli/internal/adapters/driven/jws"
	"github.com/custodia-labs/byods-cli/internal/adapters/driven/oplog"
	"github.com/custodia-labs/byods-cli/internal/adapters/driven/webex"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/byods-cli/internal/core/services"
)

// version is overridden at link time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	cli.SetVersion(version)
	cli.SetServiceFactory(func(opts cli.ServiceOptions) (*cli.ServiceSet, error) {
		return buildServices(ctx, opts)
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildServices assembles the real adapters behind the service ports.
// Global flags win over stored settings, settings over built-in
// defaults.
func buildServices(ctx context.Context, opts cli.ServiceOptions) (*cli.ServiceSet, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = os.Getenv("BYODS_CONFIG")
	}

	var (
		configStore *file.ConfigStore
		err         error
	)
	if configPath != "" {
		configStore, err = file.NewConfigStoreAtPath(configPath)
	} else {
		configStore, err = file.NewConfigStore("")
	}
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	settings := services.NewSettingsService(configStore)

	credentialsPath := opts.CredentialsPath
	if credentialsPath == "" {
		credentialsPath = settings.CredentialsPath()
	}
	secretName := opts.SecretName
	if secretName == "" {
		secretName = settings.SecretName()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = settings.BaseURL()
	}

	store, err := credstore.Select(ctx, credstore.Options{
		Path:       credentialsPath,
		SecretName: secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("selecting credential store: %w", err)
	}

	var clientOpts []webex.Option
	if baseURL != "" {
		clientOpts = append(clientOpts, webex.WithBaseURL(baseURL))
	}
	client := webex.NewClient(clientOpts...)

	historyStore, err := history.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	tokens := services.NewTokenOrchestrator(store, client)
	dataSources := services.NewDataSourceService(
		tokens,
		client,
		jws.NewDecoder(),
		historyStore,
		oplog.NewWriter(settings.RecordsDir()),
	)

	return &cli.ServiceSet{
		Token:      tokens,
		DataSource: dataSources,
		Setup:      services.NewSetupService(store, client),
		Settings:   settings,
		History:    services.NewHistoryService(historyStore),
	}, nil
}
