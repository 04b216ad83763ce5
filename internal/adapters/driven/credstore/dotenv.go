package credstore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// Environment keys the dotenv backend maps onto the credential record.
const (
	envServiceAppID           = "WEBEX_SERVICE_APP_ID"
	envClientID               = "WEBEX_CLIENT_ID"
	envClientSecret           = "WEBEX_CLIENT_SECRET"
	envTargetOrgID            = "WEBEX_TARGET_ORG_ID"
	envServiceAppAccessToken  = "WEBEX_SERVICE_APP_ACCESS_TOKEN"
	envServiceAppRefreshToken = "WEBEX_SERVICE_APP_REFRESH_TOKEN"
	envPersonalAccessToken    = "WEBEX_PERSONAL_ACCESS_TOKEN"
	envOAuthClientID          = "WEBEX_OAUTH_CLIENT_ID"
	envOAuthClientSecret      = "WEBEX_OAUTH_CLIENT_SECRET"
	envOAuthRefreshToken      = "WEBEX_OAUTH_REFRESH_TOKEN"
)

// Ensure EnvFileStore implements the interface.
var _ driven.CredentialStore = (*EnvFileStore)(nil)

// EnvFileStore keeps the credential record in a dotenv file. Saves
// rewrite only the lines defining managed keys; every other line,
// comments included, is preserved byte for byte.
type EnvFileStore struct {
	path string
}

// NewEnvFileStore creates a dotenv store at path.
func NewEnvFileStore(path string) *EnvFileStore {
	return &EnvFileStore{path: path}
}

// Load parses the dotenv file into a credential record.
func (s *EnvFileStore) Load(_ context.Context) (*domain.CredentialRecord, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: credential file %s does not exist", domain.ErrConfig, s.path)
		}
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfig, s.path, err)
	}

	return &domain.CredentialRecord{
		ServiceApp: domain.ServiceAppConfig{
			AppID:        values[envServiceAppID],
			ClientID:     values[envClientID],
			ClientSecret: values[envClientSecret],
			TargetOrgID:  values[envTargetOrgID],
			AccessToken:  values[envServiceAppAccessToken],
			RefreshToken: values[envServiceAppRefreshToken],
		},
		TokenManager: domain.TokenManagerConfig{
			PersonalAccessToken: values[envPersonalAccessToken],
			OAuthClientID:       values[envOAuthClientID],
			OAuthClientSecret:   values[envOAuthClientSecret],
			OAuthRefreshToken:   values[envOAuthRefreshToken],
		},
	}, nil
}

// Save rewrites the lines for the keys the update carries and appends
// keys the file does not define yet. The rewrite is atomic.
func (s *EnvFileStore) Save(_ context.Context, update domain.CredentialUpdate) error {
	if update.Empty() {
		return nil
	}

	var lines []string
	hadTrailingNewline := true
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		content := string(data)
		hadTrailingNewline = strings.HasSuffix(content, "\n")
		lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		if len(lines) == 1 && lines[0] == "" {
			lines = nil
		}
	case os.IsNotExist(err):
		// Seeding a new file.
	default:
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	for _, change := range updatePairs(update) {
		lines = setEnvLine(lines, change.key, change.value)
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	if err := writeFileAtomic(s.path, []byte(out), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Source returns the file path for guidance messages.
func (s *EnvFileStore) Source() string {
	return s.path
}

type envPair struct {
	key   string
	value string
}

// updatePairs maps the update's non-nil fields to env pairs in a fixed
// order, so repeated saves produce identical files.
func updatePairs(update domain.CredentialUpdate) []envPair {
	var pairs []envPair
	if update.PersonalAccessToken != nil {
		pairs = append(pairs, envPair{envPersonalAccessToken, *update.PersonalAccessToken})
	}
	if update.OAuthClientID != nil {
		pairs = append(pairs, envPair{envOAuthClientID, *update.OAuthClientID})
	}
	if update.OAuthClientSecret != nil {
		pairs = append(pairs, envPair{envOAuthClientSecret, *update.OAuthClientSecret})
	}
	if update.OAuthRefreshToken != nil {
		pairs = append(pairs, envPair{envOAuthRefreshToken, *update.OAuthRefreshToken})
	}
	if update.ServiceAppAccessToken != nil {
		pairs = append(pairs, envPair{envServiceAppAccessToken, *update.ServiceAppAccessToken})
	}
	if update.ServiceAppRefreshToken != nil {
		pairs = append(pairs, envPair{envServiceAppRefreshToken, *update.ServiceAppRefreshToken})
	}
	return pairs
}

// setEnvLine replaces the line defining key, or appends one when the
// file does not define it. All other lines pass through untouched.
func setEnvLine(lines []string, key, value string) []string {
	rendered := key + "=" + formatEnvValue(value)
	for i, line := range lines {
		if envLineKey(line) == key {
			lines[i] = rendered
			return lines
		}
	}
	return append(lines, rendered)
}

// envLineKey extracts the key a dotenv line defines, or "" for
// comments, blanks and malformed lines.
func envLineKey(line string) string {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return ""
	}
	s = strings.TrimPrefix(s, "export ")
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return ""
	}
	return strings.TrimSpace(s[:eq])
}

// formatEnvValue quotes values that a dotenv parser would otherwise
// mangle; plain tokens stay unquoted.
func formatEnvValue(v string) string {
	if strings.ContainsAny(v, " \t#\"'\n") {
		return strconv.Quote(v)
	}
	return v
}
