package cli

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// callbackResult is what the authorization redirect delivered: either an
// authorization code or a terminal failure.
type callbackResult struct {
	code string
	err  error
}

// CallbackServer receives the OAuth authorization redirect on localhost.
// It serves exactly one authorization attempt.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	results       chan callbackResult
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server. The expectedState must
// match the state parameter embedded in the authorization URL.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		results:       make(chan callbackResult, 1),
	}
}

// Start begins listening on 127.0.0.1 at the configured port.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.deliver(callbackResult{err: err})
		}
	}()

	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		detail := r.URL.Query().Get("error_description")
		s.deliver(callbackResult{err: fmt.Errorf("authorization refused: %s (%s)", errParam, detail)})
		fmt.Fprint(w, callbackHTML("Authorization failed", detail))
		return
	}

	// The state must round-trip untouched; anything else is another
	// party's redirect.
	if state := r.URL.Query().Get("state"); state != s.expectedState {
		s.deliver(callbackResult{err: fmt.Errorf("state mismatch in authorization callback")})
		fmt.Fprint(w, callbackHTML("Authorization failed", "State parameter did not match."))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.deliver(callbackResult{err: fmt.Errorf("authorization callback carried no code")})
		fmt.Fprint(w, callbackHTML("Authorization failed", "No authorization code received."))
		return
	}

	s.deliver(callbackResult{code: code})
	fmt.Fprint(w, callbackHTML("Authorization complete", "You can close this window and return to the terminal."))
}

// deliver hands the first result to the waiter; later redirects are
// dropped.
func (s *CallbackServer) deliver(result callbackResult) {
	select {
	case s.results <- result:
	default:
	}
}

// WaitForCode blocks until the redirect arrives, the timeout lapses, or
// the context is cancelled.
func (s *CallbackServer) WaitForCode(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-s.results:
		return result.code, result.err
	case <-timer.C:
		return "", fmt.Errorf("timed out waiting for the authorization redirect")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop shuts the callback server down.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the port the server listens on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect URI to register with the vendor.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.port)
}

func callbackHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>byods</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #1d2433;
        }
        .card {
            text-align: center;
            background: white;
            padding: 40px 60px;
            border-radius: 12px;
        }
        h1 { color: #333; margin-bottom: 10px; }
        p { color: #666; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser at the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// FindAvailablePort returns the first free port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
