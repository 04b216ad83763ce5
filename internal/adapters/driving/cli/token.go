package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage service-app access tokens",
	Long: `Fetch, rotate, and validate the tokens behind the data source calls.

'token get' runs the orchestrated fetch: it mints a short-lived service
app token, refreshing the personal access token once if the vendor
rejects it. 'token refresh' performs a manual rotation and persists the
new tokens. 'token validate' probes the stored personal access token.`,
}

var tokenGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a service-app access token",
	Long: `Fetch a short-lived service-app access token for the target org.

The token is printed masked; pass --show to print the full value for
piping into other tools.`,
	RunE: runTokenGet,
}

var tokenRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rotate the service-app tokens and persist them",
	Long: `Rotate the service-app access token and store the result.

The stored service-app refresh token is tried first; when it is absent
or rejected, a fresh token is minted through the personal-token path.
Both resulting tokens are written back to the credential store.`,
	RunE: runTokenRefresh,
}

var tokenValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether the stored personal access token works",
	RunE:  runTokenValidate,
}

// Flags for token subcommands.
var (
	tokenShowFull   bool
	tokenRefreshYes bool
)

func init() {
	tokenGetCmd.Flags().BoolVar(
		&tokenShowFull, "show", false, "Print the full token instead of a masked form")
	tokenRefreshCmd.Flags().BoolVar(
		&tokenRefreshYes, "yes", false, "Skip the confirmation prompt")

	tokenCmd.AddCommand(tokenGetCmd)
	tokenCmd.AddCommand(tokenRefreshCmd)
	tokenCmd.AddCommand(tokenValidateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenGet(cmd *cobra.Command, _ []string) error {
	if tokenService == nil {
		return errors.New("token service not configured")
	}

	ctx := cmd.Context()
	token, err := tokenService.ServiceAppToken(ctx)
	if err != nil {
		return tokenGuidance(err)
	}

	if tokenShowFull {
		cmd.Println(token)
		return nil
	}
	cmd.Printf("Service app token: %s\n", logger.MaskToken(token))
	cmd.Println("Re-run with --show to print the full token.")
	return nil
}

//nolint:errcheck // CLI interactive flow
func runTokenRefresh(cmd *cobra.Command, _ []string) error {
	if tokenService == nil {
		return errors.New("token service not configured")
	}

	if !tokenRefreshYes {
		cmd.Print("Rotate the service app token and overwrite the stored one? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		input := readLine(reader)
		if input != "y" && input != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx := cmd.Context()
	token, err := tokenService.RefreshServiceToken(ctx)
	if err != nil {
		return tokenGuidance(err)
	}

	cmd.Printf("Service app token rotated: %s\n", logger.MaskToken(token.AccessToken))
	if token.RefreshToken != "" {
		cmd.Println("A new refresh token was stored for the next rotation.")
	}
	return nil
}

func runTokenValidate(cmd *cobra.Command, _ []string) error {
	if tokenService == nil {
		return errors.New("token service not configured")
	}

	ctx := cmd.Context()
	valid, err := tokenService.ValidatePersonalToken(ctx)
	if err != nil {
		return tokenGuidance(err)
	}

	if !valid {
		cmd.Println("Personal access token is invalid or expired.")
		cmd.Println("Run 'byods setup' to authorize again, or store a fresh token.")
		return errors.New("personal access token rejected")
	}
	cmd.Println("Personal access token is valid.")
	return nil
}

// tokenGuidance augments token pipeline failures with the next step the
// user should take.
func tokenGuidance(err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthExpired):
		return fmt.Errorf("%w\nThe stored OAuth refresh token no longer works. Run 'byods setup' to re-authorize", err)
	case errors.Is(err, domain.ErrConfig):
		return fmt.Errorf("%w\nCheck the credential store, or run 'byods setup' to create one", err)
	default:
		return err
	}
}
