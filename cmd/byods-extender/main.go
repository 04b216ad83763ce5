// The byods-extender binary runs the token extension as a scheduled
// AWS Lambda function. Credentials come from Secrets Manager, the
// target data source and lifetime from the function environment.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/custodia-labs/byods-cli/internal/adapters/driven/credstore"
	"github.com/custodia-labs/byods-cli/internal/adapters/driven/jws"
	"github.com/custodia-labs/byods-cli/internal/adapters/driven/webex"
	"github.com/custodia-labs/byods-cli/internal/adapters/driving/extender"
	"github.com/custodia-labs/byods-cli/internal/core/services"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

func main() {
	// Stderr goes to CloudWatch; the pipeline diagnostics are the only
	// trace of an unattended run.
	logger.SetVerbose(true)

	cfg, err := extender.ConfigFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	handler, err := buildHandler(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	lambda.Start(handler.Handle)
}

// buildHandler wires the extension pipeline against Secrets Manager.
// History and record files are skipped: the Lambda filesystem does not
// outlive the invocation.
func buildHandler(ctx context.Context, cfg extender.Config) (*extender.Handler, error) {
	store, err := credstore.Select(ctx, credstore.Options{SecretName: cfg.SecretName})
	if err != nil {
		return nil, fmt.Errorf("selecting credential store: %w", err)
	}

	client := webex.NewClient()
	tokens := services.NewTokenOrchestrator(store, client)
	dataSources := services.NewDataSourceService(tokens, client, jws.NewDecoder(), nil, nil)

	return extender.NewHandler(cfg, dataSources), nil
}
