package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startCallbackServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	port, err := FindAvailablePort(38000, 38100)
	require.NoError(t, err)

	server := NewCallbackServer(port, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() {
		_ = server.Stop()
	})
	return server
}

func get(t *testing.T, rawURL string) string {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCallbackServer_DeliversCode(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	body := get(t, fmt.Sprintf("http://127.0.0.1:%d/callback?code=auth-code-1&state=state-1", server.Port()))
	assert.Contains(t, body, "Authorization complete")

	code, err := server.WaitForCode(context.Background(), time.Second)
	assert.NoError(t, err)
	assert.Equal(t, "auth-code-1", code)
}

func TestCallbackServer_RejectsStateMismatch(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	body := get(t, fmt.Sprintf("http://127.0.0.1:%d/callback?code=auth-code-1&state=other", server.Port()))
	assert.Contains(t, body, "Authorization failed")

	_, err := server.WaitForCode(context.Background(), time.Second)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_ReportsProviderError(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	detail := url.QueryEscape("user denied access")
	get(t, fmt.Sprintf("http://127.0.0.1:%d/callback?error=access_denied&error_description=%s", server.Port(), detail))

	_, err := server.WaitForCode(context.Background(), time.Second)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
	assert.Contains(t, err.Error(), "user denied access")
}

func TestCallbackServer_RejectsMissingCode(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	get(t, fmt.Sprintf("http://127.0.0.1:%d/callback?state=state-1", server.Port()))

	_, err := server.WaitForCode(context.Background(), time.Second)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no code")
}

func TestCallbackServer_FirstRedirectWins(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	base := fmt.Sprintf("http://127.0.0.1:%d/callback", server.Port())
	get(t, base+"?code=first&state=state-1")
	get(t, base+"?code=second&state=state-1")

	code, err := server.WaitForCode(context.Background(), time.Second)
	assert.NoError(t, err)
	assert.Equal(t, "first", code)
}

func TestCallbackServer_WaitTimesOut(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	_, err := server.WaitForCode(context.Background(), 20*time.Millisecond)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestCallbackServer_WaitHonoursCancellation(t *testing.T) {
	server := startCallbackServer(t, "state-1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := server.WaitForCode(ctx, time.Second)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallbackServer_RedirectURI(t *testing.T) {
	server := NewCallbackServer(3000, "state-1")

	assert.Equal(t, "http://localhost:3000/callback", server.RedirectURI())
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(38200, 38210)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 38200)
	assert.LessOrEqual(t, port, 38210)
}
