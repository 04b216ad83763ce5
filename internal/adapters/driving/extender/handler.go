// Package extender adapts the data source service to an AWS Lambda
// handler so token renewals can run on an EventBridge schedule.
package extender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driving"
	"github.com/custodia-labs/byods-cli/internal/logger"
)

const (
	defaultSecretName      = "webex-byods-credentials"
	defaultLifetimeMinutes = 1440
)

// Config is the handler configuration, read from the environment.
type Config struct {
	// DataSourceID is the data source whose token gets renewed.
	DataSourceID string

	// SecretName is the Secrets Manager secret holding the credentials.
	SecretName string

	// LifetimeMinutes is the requested token lifetime.
	LifetimeMinutes int
}

// ConfigFromEnv reads DATA_SOURCE_ID, SECRET_NAME and
// TOKEN_LIFETIME_MINUTES. A missing DATA_SOURCE_ID is reported by the
// handler as a 400 rather than here, so a misconfigured function still
// answers its schedule instead of crashing at startup.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		DataSourceID:    os.Getenv("DATA_SOURCE_ID"),
		SecretName:      os.Getenv("SECRET_NAME"),
		LifetimeMinutes: defaultLifetimeMinutes,
	}
	if cfg.SecretName == "" {
		cfg.SecretName = defaultSecretName
	}
	if v := os.Getenv("TOKEN_LIFETIME_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing TOKEN_LIFETIME_MINUTES: %w", err)
		}
		cfg.LifetimeMinutes = n
	}
	return cfg, nil
}

// Response is the Lambda response shape consumed by the schedule's
// monitoring.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// payload is the JSON body carried inside a Response.
type payload struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	Error           string `json:"error,omitempty"`
	DataSourceID    string `json:"data_source_id,omitempty"`
	NonceUpdated    string `json:"nonce_updated,omitempty"`
	TokenExpiry     string `json:"token_expiry,omitempty"`
	LifetimeMinutes int    `json:"token_lifetime_minutes,omitempty"`
	Timestamp       string `json:"timestamp"`
}

// Handler runs one token extension per invocation.
type Handler struct {
	cfg         Config
	dataSources driving.DataSourceService
}

// NewHandler creates a Lambda handler for the given configuration.
func NewHandler(cfg Config, dataSources driving.DataSourceService) *Handler {
	return &Handler{
		cfg:         cfg,
		dataSources: dataSources,
	}
}

// Handle extends the configured data source token. Failures are
// reported through the response status, never as a handler error, so
// the schedule does not retry an extension that already consumed its
// nonce.
func (h *Handler) Handle(ctx context.Context) (Response, error) {
	logger.Info("Starting scheduled token extension")

	if h.cfg.DataSourceID == "" {
		return respond(http.StatusBadRequest, payload{
			Error: "DATA_SOURCE_ID environment variable is required",
		}), nil
	}

	result, err := h.dataSources.Extend(ctx, h.cfg.DataSourceID, h.cfg.LifetimeMinutes)
	if err != nil {
		logger.Warn("Token extension failed: %v", err)
		return respond(statusForError(err), payload{
			Error:        err.Error(),
			DataSourceID: h.cfg.DataSourceID,
		}), nil
	}

	if !result.Success {
		logger.Warn("Token extension rejected (status %d): %s", result.Status, result.Detail)
		status := result.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return respond(status, payload{
			Error:        result.Detail,
			DataSourceID: h.cfg.DataSourceID,
		}), nil
	}

	logger.Info("Token extended for %s, expires %s", result.DataSourceID, result.ExpiryTime)
	return respond(http.StatusOK, payload{
		Success:         true,
		Message:         "Data source token extended successfully",
		DataSourceID:    result.DataSourceID,
		NonceUpdated:    result.Nonce,
		TokenExpiry:     result.ExpiryTime,
		LifetimeMinutes: result.LifetimeMinutes,
	}), nil
}

// statusForError maps service errors onto response statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuth), errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respond(status int, p payload) Response {
	p.Timestamp = time.Now().Format(time.RFC3339)
	data, err := json.Marshal(p)
	if err != nil {
		return Response{StatusCode: http.StatusInternalServerError, Body: `{"success":false}`}
	}
	return Response{StatusCode: status, Body: string(data)}
}
