// Package efe talks to the EFE content API: token lifecycle, the
// NewsML content fetch, and the download primitive used for images.
// Every HTTP outcome is classified into the pipeline's error kinds.
package efe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"efewire/notices"
	"efewire/settings"
	"efewire/types"
)

// DefaultAPIBase is the production endpoint of the provider.
const DefaultAPIBase = "https://apinews.efeservicios.com"

const requestTimeout = 60 * time.Second

// Source fetches wire content from the provider. Credentials and the
// cached token live in the settings store so they survive restarts.
type Source struct {
	apiBase  string
	store    settings.Store
	log      *notices.Log
	client   *http.Client // provider transport, cipher-pinned
	fallback *http.Client // any other host
	now      func() time.Time
}

// NewSource builds a Source against the given API base URL.
func NewSource(apiBase string, store settings.Store, log *notices.Log) *Source {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Source{
		apiBase:  strings.TrimRight(apiBase, "/"),
		store:    store,
		log:      log,
		client:   newClient(requestTimeout),
		fallback: &http.Client{Timeout: requestTimeout},
		now:      time.Now,
	}
}

// FetchFeed retrieves the raw NewsML payload for the configured
// product. Classification: missing credentials ErrConfig, transport
// failure ErrNetwork, 401 ErrAuthExpired (and the cached token is
// dropped so the next call refreshes), other non-200 ServerError, and
// an empty 200 body ErrNoData.
func (s *Source) FetchFeed(ctx context.Context) ([]byte, error) {
	_, _, productID, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/content/items_ByProductId?product_id=%s&format=newsml",
		s.apiBase, url.QueryEscape(productID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building content request: %w", err)
	}
	req.Header.Set("accept", "text/plain; version=1.0")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: content fetch: %v", types.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The provider stopped honoring the token mid-session. Drop it
		// so the next call is forced through a refresh.
		s.invalidateToken(ctx)
		return nil, fmt.Errorf("%w: content endpoint returned 401", types.ErrAuthExpired)
	case resp.StatusCode != http.StatusOK:
		return nil, &types.ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading content body: %v", types.ErrNetwork, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, types.ErrNoData
	}
	return body, nil
}

// Token returns the cached token while it is still inside its 23 hour
// window, refreshing it otherwise.
func (s *Source) Token(ctx context.Context) (string, error) {
	if tok := s.cachedToken(ctx); tok.Usable(s.now()) {
		return tok.Value, nil
	}
	return s.refreshToken(ctx)
}

func (s *Source) cachedToken(ctx context.Context) types.AccessToken {
	value, err := s.store.Get(ctx, settings.KeyToken)
	if err != nil || value == "" {
		return types.AccessToken{}
	}
	raw, err := s.store.Get(ctx, settings.KeyTokenExpiry)
	if err != nil {
		return types.AccessToken{}
	}
	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return types.AccessToken{}
	}
	return types.AccessToken{Value: value, ExpiresAt: expiry}
}

func (s *Source) refreshToken(ctx context.Context) (string, error) {
	clientID, clientSecret, _, err := s.credentials(ctx)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/account/token?clientId=%s&clientSecret=%s",
		s.apiBase, url.QueryEscape(clientID), url.QueryEscape(clientSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token fetch: %v", types.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return "", fmt.Errorf("%w: token endpoint returned 400", types.ErrAuthConfig)
	case resp.StatusCode != http.StatusOK:
		return "", &types.ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading token body: %v", types.ErrNetwork, err)
	}

	// The account endpoint returns the bare token as a quoted JSON string.
	token := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if token == "" {
		return "", types.ErrNoData
	}

	expiry := s.now().Add(types.TokenLifetime)
	if err := s.store.Set(ctx, settings.KeyToken, token); err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, settings.KeyTokenExpiry, expiry.Format(time.RFC3339)); err != nil {
		return "", err
	}
	s.log.Infof("efe: refreshed access token, valid until %s", expiry.Format(time.RFC3339))
	return token, nil
}

func (s *Source) invalidateToken(ctx context.Context) {
	if err := s.store.Delete(ctx, settings.KeyToken); err != nil {
		s.log.Errorf("efe: dropping cached token: %v", err)
	}
	if err := s.store.Delete(ctx, settings.KeyTokenExpiry); err != nil {
		s.log.Errorf("efe: dropping cached token expiry: %v", err)
	}
}

func (s *Source) credentials(ctx context.Context) (clientID, clientSecret, productID string, err error) {
	clientID, _ = s.store.Get(ctx, settings.KeyClientID)
	clientSecret, _ = s.store.Get(ctx, settings.KeyClientSecret)
	productID, _ = s.store.Get(ctx, settings.KeyProductID)
	if clientID == "" || clientSecret == "" || productID == "" {
		return "", "", "", fmt.Errorf("%w: client id, client secret and product id must all be set", types.ErrConfig)
	}
	return clientID, clientSecret, productID, nil
}

// Download fetches arbitrary bytes, routing requests tagged with
// SourceTag through the provider transport (cipher pin plus bearer
// token); anything else goes through a plain client.
func (s *Source) Download(ctx context.Context, rawURL, sourceTag string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	client := s.fallback
	if sourceTag == SourceTag {
		client = s.client
		token, err := s.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", types.ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized && sourceTag == SourceTag:
		// Same stale-token handling as the content fetch: drop the
		// cached token so the next provider call refreshes instead of
		// failing the rest of the batch.
		s.invalidateToken(ctx)
		return nil, fmt.Errorf("%w: download %s returned 401", types.ErrAuthExpired, rawURL)
	case resp.StatusCode != http.StatusOK:
		return nil, &types.ServerError{StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
