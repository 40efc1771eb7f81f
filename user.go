package typefetch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/henry781/typefetch/internal/auth"
)

// ClientCredentialsConfig configures a User backed by the OAuth client
// credentials grant.
type ClientCredentialsConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
	Audience     []string

	// Headers are returned as the user's client headers on every request.
	Headers map[string]string

	// HTTPClient executes token requests. Defaults to an http.Client with
	// DefaultHTTPTimeout.
	HTTPClient Doer

	// TokenLeeway subtracts from expires_in so tokens refresh proactively.
	TokenLeeway time.Duration

	// Logger receives token refresh failures. Defaults to a no-op.
	Logger *zap.Logger
}

type clientCredentialsUser struct {
	manager *auth.Manager
	headers map[string]string
	log     *zap.Logger
}

// NewClientCredentialsUser returns a User that mints and caches access
// tokens with the client credentials grant. Token returns an empty string
// when minting fails, which leaves the request without an Authorization
// header; the failure is logged at error level.
func NewClientCredentialsUser(cfg ClientCredentialsConfig) (User, error) {
	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	manager, err := auth.NewManager(auth.Config{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scope:        cfg.Scope,
		Audience:     cfg.Audience,
		HTTPClient:   doer,
		Leeway:       cfg.TokenLeeway,
	})
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &clientCredentialsUser{
		manager: manager,
		headers: cfg.Headers,
		log:     logger.Named("auth"),
	}, nil
}

func (u *clientCredentialsUser) Token(ctx context.Context) string {
	token, err := u.manager.Token(ctx)
	if err != nil {
		u.log.Error("failed to obtain access token", zap.Error(err))
		return ""
	}
	return token
}

func (u *clientCredentialsUser) ClientHeaders() map[string]string {
	return u.headers
}
