package zohocalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenSource выдает access token по refresh token, кэшируя его до expires_in - 60s
type tokenSource struct {
	settings   Settings
	httpClient *http.Client
	cache      TokenCache
	clock      Clock
	log        Logger

	// обновления внутри процесса выполняются по одному
	mu sync.Mutex
}

func newTokenSource(settings Settings, httpClient *http.Client, cache TokenCache, clock Clock, log Logger) *tokenSource {
	return &tokenSource{
		settings:   settings,
		httpClient: httpClient,
		cache:      cache,
		clock:      clock,
		log:        log,
	}
}

// Token возвращает действующий access token
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := s.cached(ctx); ok {
		return token, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// другой вызов мог обновить токен, пока мы ждали блокировку
	if token, ok := s.cached(ctx); ok {
		return token, nil
	}

	return s.refresh(ctx)
}

// Invalidate сбрасывает кэшированный токен (например, после 401)
func (s *tokenSource) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, tokenCacheKey); err != nil {
		s.log.Warn("ZohoCalendar: failed to invalidate access token: %v", err)
	}
}

func (s *tokenSource) cached(ctx context.Context) (string, bool) {
	token, ok, err := s.cache.Get(ctx, tokenCacheKey)
	if err != nil {
		s.log.Warn("ZohoCalendar: token cache read failed, refreshing: %v", err)
		return "", false
	}
	return token, ok && token != ""
}

func (s *tokenSource) refresh(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("refresh_token", s.settings.RefreshToken)
	form.Set("client_id", s.settings.ClientID)
	form.Set("client_secret", s.settings.ClientSecret)
	form.Set("grant_type", "refresh_token")
	if s.settings.RedirectURI != "" {
		form.Set("redirect_uri", s.settings.RedirectURI)
	}

	endpoint := strings.TrimRight(s.settings.AccountsURL, "/") + "/oauth/v2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create token request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	issuedAt := s.clock.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to refresh access token: %v", ErrUnauthorized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: token endpoint returned %d: %s", ErrUnauthorized, resp.StatusCode, string(body))
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: failed to decode token response: %v", ErrInvalidResponse, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned no access token (%s)", ErrUnauthorized, payload.Error)
	}

	ttl := defaultTokenTTL
	if payload.ExpiresIn > 0 {
		ttl = time.Duration(payload.ExpiresIn) * time.Second
	}
	expiresAt := issuedAt.Add(ttl - tokenExpiryReserve)

	if err := s.cache.Set(ctx, tokenCacheKey, payload.AccessToken, expiresAt); err != nil {
		s.log.Warn("ZohoCalendar: failed to cache access token: %v", err)
	}

	s.log.Info("ZohoCalendar: access token refreshed, expires at %s", expiresAt.Format(time.RFC3339))
	return payload.AccessToken, nil
}
