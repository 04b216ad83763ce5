package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
)

// callbackTimeout bounds the wait for the authorization redirect.
const callbackTimeout = 5 * time.Minute

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Authorize the OAuth integration that refreshes tokens",
	Long: `Run the one-time OAuth authorization for the token manager integration.

The wizard collects the integration's client id and secret, opens your
browser at the Webex authorization page, and receives the redirect on a
local callback server. The resulting refresh token and personal access
token are written to the credential store, enabling automatic token
refresh from then on.

The integration must list http://localhost:3000/callback (or the port
you pass via --port) among its redirect URIs.`,
	RunE: runSetup,
}

// setupPort is the --port flag value for the callback server.
var setupPort int

func init() {
	setupCmd.Flags().IntVar(&setupPort, "port", 3000, "Local port for the authorization callback")
	rootCmd.AddCommand(setupCmd)
}

//nolint:errcheck // CLI interactive flow
func runSetup(cmd *cobra.Command, _ []string) error {
	if setupService == nil {
		return errors.New("setup service not configured")
	}

	cmd.Println("OAuth setup for the token manager integration")
	cmd.Println("---------------------------------------------")
	cmd.Println("Enter the credentials of your OAuth integration.")
	cmd.Println("(These are different from the service app credentials.)")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Print("OAuth client ID: ")
	clientID := readLine(reader)
	if clientID == "" {
		return errors.New("client id is required")
	}

	cmd.Print("OAuth client secret: ")
	clientSecret := readPassword()
	cmd.Println()
	if clientSecret == "" {
		return errors.New("client secret is required")
	}

	redirectURI := fmt.Sprintf("http://localhost:%d/callback", setupPort)
	authURL, state, err := setupService.BeginAuthorization(clientID, redirectURI)
	if err != nil {
		return fmt.Errorf("starting authorization: %w", err)
	}

	server := NewCallbackServer(setupPort, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop()

	cmd.Println()
	cmd.Println("Opening your browser for authorization. If it does not open,")
	cmd.Println("visit this URL:")
	cmd.Printf("\n  %s\n\n", authURL)
	if err := OpenBrowser(authURL); err != nil {
		cmd.Printf("Could not open a browser: %v\n", err)
	}

	cmd.Println("Waiting for the authorization redirect...")
	ctx := cmd.Context()
	code, err := server.WaitForCode(ctx, callbackTimeout)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	cmd.Println("Exchanging the authorization code for tokens...")
	input := driving.SetupInput{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Code:         code,
		RedirectURI:  server.RedirectURI(),
	}
	if err := setupService.Complete(ctx, input); err != nil {
		return err
	}

	cmd.Println()
	cmd.Println("OAuth credentials stored. Automatic refresh of the personal")
	cmd.Println("access token is now enabled.")
	cmd.Println("Verify with: byods token validate")
	return nil
}
