// Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package auth acquires, caches, and renews the NERIS API tokens. A
// TokenManager owns the full credential lifecycle: grant flows against the
// token endpoint, MFA challenges, proactive expiry checks, refresh with
// fallback to re-authentication, and persistence across process restarts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"

	"github.com/wso2/neris-api-client-go/config"
	"github.com/wso2/neris-api-client-go/requests"
)

// TokenManager hands out valid access tokens, running whatever grant or
// refresh flow is needed to produce one. It is safe for concurrent use;
// concurrent callers that miss the cached token coalesce onto a single
// token exchange.
type TokenManager struct {
	config           *config.Config
	store            TokenStore
	challengeHandler ChallengeHandler
	httpClient       requests.HttpClient
	identityKey      string

	mu     sync.RWMutex
	state  State
	tokens *TokenSet
}

// NewTokenManager builds a manager for the given configuration. Nil
// collaborators fall back to the defaults: a file token store honoring
// cfg.UseCache, an interactive challenge handler on stdin, and a retrying
// HTTP client for the token endpoint.
func NewTokenManager(
	cfg *config.Config, store TokenStore, challengeHandler ChallengeHandler, httpClient requests.HttpClient,
) *TokenManager {
	if store == nil {
		store = NewFileTokenStore(DefaultTokenStorageDir, cfg.UseCache)
	}
	if challengeHandler == nil {
		challengeHandler = NewPromptChallengeHandler()
	}
	if httpClient == nil {
		httpClient = newTokenEndpointClient()
	}
	return &TokenManager{
		config:           cfg,
		store:            store,
		challengeHandler: challengeHandler,
		httpClient:       httpClient,
		identityKey:      identityKey(cfg),
		state:            StateUnauthenticated,
	}
}

// GetToken returns an access token that is valid for at least the expiry
// buffer. The fast path is a read lock over the in-memory set; otherwise the
// manager consults the persistent store, then refreshes, then runs the full
// grant flow, persisting whatever it obtains.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	if m.tokens.Valid() {
		token := m.tokens.AccessToken
		m.mu.RUnlock()
		return token, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// A caller queued behind a flow that just finished reuses its result.
	if m.tokens.Valid() {
		return m.tokens.AccessToken, nil
	}

	if m.tokens == nil {
		if cached, ok := m.store.Load(m.identityKey); ok {
			m.tokens = cached
			if cached.Valid() {
				m.setState(StateAuthenticated)
				return cached.AccessToken, nil
			}
		}
	}

	tokens, err := m.authenticate(ctx)
	if err != nil {
		m.setState(StateFailed)
		if errors.Is(err, ErrAuthenticationFailed) {
			m.tokens = nil
			m.store.Invalidate(m.identityKey)
		}
		return "", err
	}

	m.tokens = tokens
	m.setState(StateAuthenticated)
	m.store.Store(m.identityKey, tokens)
	return tokens.AccessToken, nil
}

// authenticate obtains a fresh token set, trying the refresh token before
// falling back to the configured grant flow. Callers hold m.mu.
func (m *TokenManager) authenticate(ctx context.Context) (*TokenSet, error) {
	if m.tokens != nil && m.tokens.RefreshToken != "" {
		m.setState(StateRefreshing)
		tokens, err := m.refreshFlow(ctx, m.tokens.RefreshToken)
		if err == nil {
			return tokens, nil
		}
		slog.Warn("Token refresh failed, falling back to full authentication", "error", err)
	}

	m.setState(StateRequesting)
	switch m.config.GrantType {
	case config.GrantTypePassword:
		return m.passwordFlow(ctx)
	case config.GrantTypeClientCredentials:
		return m.clientCredentialsFlow(ctx)
	default:
		return nil, &AuthenticationError{
			Reason: fmt.Sprintf("unsupported grant type %q", m.config.GrantType),
		}
	}
}

// InvalidateToken discards the current access token, keeping the refresh
// token in memory so the next acquisition can try the cheap path first. The
// persisted entry is removed so no other client picks the dead token up.
func (m *TokenManager) InvalidateToken() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Invalidate(m.identityKey)
	if m.tokens != nil {
		m.tokens = &TokenSet{RefreshToken: m.tokens.RefreshToken}
	}
	m.setState(StateUnauthenticated)
}

// State reports the current authentication lifecycle state.
func (m *TokenManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// TokenSource exposes the manager as an oauth2.TokenSource for callers that
// integrate with libraries built around one.
func (m *TokenManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, manager: m}
}

func (m *TokenManager) currentTokenSet() *TokenSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens
}

// setState records a lifecycle transition. Callers hold m.mu.
func (m *TokenManager) setState(next State) {
	if m.state == next {
		return
	}
	slog.Debug("Authentication state changed", "from", m.state.String(), "to", next.String())
	m.state = next
}

// identityKey names the credential identity a token set belongs to, so one
// storage directory can serve several environments and accounts.
func identityKey(cfg *config.Config) string {
	subject := cfg.Username
	if cfg.GrantType == config.GrantTypeClientCredentials {
		subject = cfg.ClientID
	}
	return fmt.Sprintf("%s|%s|%s", cfg.BaseURL, cfg.GrantType, subject)
}
