// Package auth mints and caches OAuth client-credentials access tokens for
// user objects attached to outgoing requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/henry781/typefetch/internal/authheader"
	"github.com/henry781/typefetch/internal/httpx"
)

const defaultLeeway = 30 * time.Second

// Config defines the inputs required to mint tokens using the OAuth client
// credentials grant.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
	Audience     []string
	HTTPClient   httpx.Doer
	Leeway       time.Duration
}

// Manager mints and caches client-credentials access tokens, refreshing them
// proactively before expiry.
type Manager struct {
	tokenURL string
	clientID string
	secret   string
	scope    string
	audience []string
	http     httpx.Doer
	leeway   time.Duration

	mu     sync.Mutex
	cached *cachedToken
}

type cachedToken struct {
	value  string
	expiry time.Time
}

// tokenResponse represents the JSON body returned by the token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// NewManager builds a Manager that caches access tokens and refreshes them
// proactively before expiry.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.HTTPClient == nil {
		return nil, errors.New("HTTPClient is required")
	}
	if strings.TrimSpace(cfg.TokenURL) == "" {
		return nil, errors.New("TokenURL is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, errors.New("ClientID is required")
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("ClientSecret is required")
	}

	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}

	return &Manager{
		tokenURL: strings.TrimRight(cfg.TokenURL, "/"),
		clientID: cfg.ClientID,
		secret:   cfg.ClientSecret,
		scope:    strings.TrimSpace(cfg.Scope),
		audience: cfg.Audience,
		http:     cfg.HTTPClient,
		leeway:   leeway,
	}, nil
}

// Token returns a cached access token, refreshing it as needed using the
// configured OAuth credentials.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.cached != nil && time.Until(m.cached.expiry) > m.leeway {
		token := m.cached.value
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	fresh, err := m.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.cached = fresh
	m.mu.Unlock()
	return fresh.value, nil
}

func (m *Manager) fetchToken(ctx context.Context) (*cachedToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if m.scope != "" {
		form.Set("scope", m.scope)
	}
	for _, aud := range m.audience {
		if trimmed := strings.TrimSpace(aud); trimmed != "" {
			form.Add("audience", trimmed)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", authheader.Basic(m.clientID, m.secret))

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload tokenResponse
	if err := httpx.DecodeJSON(resp, &payload); err != nil {
		return nil, fmt.Errorf("token response: %w", err)
	}

	accessToken := strings.TrimSpace(payload.AccessToken)
	if accessToken == "" {
		return nil, errors.New("token response missing access_token")
	}

	expiresIn := time.Duration(payload.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = time.Minute
	}

	return &cachedToken{
		value:  accessToken,
		expiry: time.Now().Add(expiresIn),
	}, nil
}
