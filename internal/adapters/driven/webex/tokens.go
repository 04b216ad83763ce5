package webex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
	"github.com/custodia-labs/byods-cli/internal/core/ports/driven"
)

// Ensure Client implements the token port.
var _ driven.TokenAPI = (*Client)(nil)

// oauthScope is requested during interactive setup. It is the one scope
// that lets the resulting personal token mint service-app tokens.
const oauthScope = "spark:applications_token"

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type serviceTokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	TargetOrgID  string `json:"targetOrgId"`
}

// FetchServiceAppToken exchanges a personal access token for a
// service-app token scoped to the target org.
func (c *Client) FetchServiceAppToken(ctx context.Context, personalToken string, app domain.ServiceAppConfig) (*domain.ServiceAppToken, error) {
	path := "/applications/" + url.PathEscape(app.AppID) + "/token"
	req := serviceTokenRequest{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		TargetOrgID:  app.TargetOrgID,
	}

	var resp tokenResponse
	status, body, err := c.doJSON(ctx, http.MethodPost, path, personalToken, req, &resp)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: service token endpoint rejected the personal access token", domain.ErrAuth)
	case !is2xx(status):
		return nil, apiError(status, body)
	}

	return &domain.ServiceAppToken{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// oauthConfig describes the grant endpoints for one OAuth integration.
// Webex wants the client credentials in the form body, not a Basic
// auth header.
func (c *Client) oauthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{oauthScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.baseURL + "/authorize",
			TokenURL:  c.baseURL + "/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// oauthContext routes grant calls through the client's own HTTP
// client so timeouts and test servers apply to them too.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// refreshGrant runs a refresh_token grant and returns the raw pair.
// Failures come back as *oauth2.RetrieveError when the server
// answered at all.
func (c *Client) refreshGrant(ctx context.Context, clientID, clientSecret, refreshToken string) (*domain.TokenPair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	cfg := c.oauthConfig(clientID, clientSecret, "")
	src := cfg.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, err
	}
	return pairFromToken(tok), nil
}

func pairFromToken(tok *oauth2.Token) *domain.TokenPair {
	pair := &domain.TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if v, ok := tok.Extra("expires_in").(float64); ok {
		pair.ExpiresIn = int(v)
	}
	return pair
}

// RefreshPersonalToken performs a refresh_token grant with the token
// manager's OAuth integration credentials.
func (c *Client) RefreshPersonalToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*domain.TokenPair, error) {
	pair, err := c.refreshGrant(ctx, clientID, clientSecret, refreshToken)
	if err == nil {
		return pair, nil
	}
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		if rErr.Response.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: refresh token was rejected", domain.ErrAuthExpired)
		}
		return nil, fmt.Errorf("%w: status %d: %s",
			domain.ErrRefresh, rErr.Response.StatusCode, strings.TrimSpace(string(rErr.Body)))
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrRefresh, err)
}

// RefreshServiceAppToken rotates a service-app token with the service
// app's own refresh token.
func (c *Client) RefreshServiceAppToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*domain.ServiceAppToken, error) {
	pair, err := c.refreshGrant(ctx, clientID, clientSecret, refreshToken)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			return nil, fmt.Errorf("%w: status %d: %s",
				domain.ErrRefresh, rErr.Response.StatusCode, strings.TrimSpace(string(rErr.Body)))
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRefresh, err)
	}
	return &domain.ServiceAppToken{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// ExchangeAuthCode performs the authorization_code grant that finishes
// interactive setup.
func (c *Client) ExchangeAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*domain.TokenPair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	cfg := c.oauthConfig(clientID, clientSecret, redirectURI)
	tok, err := cfg.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			return nil, apiError(rErr.Response.StatusCode, rErr.Body)
		}
		return nil, err
	}
	return pairFromToken(tok), nil
}

// AuthorizeURL builds the browser URL that starts the
// authorization_code flow.
func (c *Client) AuthorizeURL(clientID, redirectURI, state string) string {
	return c.oauthConfig(clientID, "", redirectURI).AuthCodeURL(state)
}

// ProbeToken checks a personal token with the identity endpoint. Any
// HTTP response settles the probe; only transport failures error.
func (c *Client) ProbeToken(ctx context.Context, token string) (bool, error) {
	status, _, err := c.doJSON(ctx, http.MethodGet, "/people/me", token, nil, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}
