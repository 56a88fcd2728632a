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

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// expiryBuffer is the margin before the actual expiry at which a token is
// already treated as expired, so that in-flight requests do not race the
// provider's clock.
const expiryBuffer = 30 * time.Second

// TokenSet holds the credentials issued by one token exchange.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the access token can still be attached to requests.
func (t *TokenSet) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return time.Now().Before(t.ExpiresAt.Add(-expiryBuffer))
}

// OAuth2Token converts the set to the x/oauth2 representation.
func (t *TokenSet) OAuth2Token() *oauth2.Token {
	if t == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.ExpiresAt,
	}
}

// TokenSetFromOAuth2 converts an x/oauth2 token to a TokenSet.
func TokenSetFromOAuth2(token *oauth2.Token) *TokenSet {
	if token == nil {
		return nil
	}
	return &TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
	}
}

// newTokenSet builds a TokenSet from a token endpoint response. When the
// response omits expires_in, the expiry is recovered from the access token's
// exp claim without verifying the signature; verification is the resource
// server's job, the client only needs the lifetime.
func newTokenSet(resp tokenResponse) (*TokenSet, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("token response is missing an access token")
	}

	tokenType := resp.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	var expiresAt time.Time
	if resp.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	} else {
		exp, ok := expiryFromAccessToken(resp.AccessToken)
		if !ok {
			return nil, fmt.Errorf("token response carries neither expires_in nor a readable exp claim")
		}
		expiresAt = exp
	}

	return &TokenSet{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    tokenType,
		ExpiresAt:    expiresAt,
	}, nil
}

func expiryFromAccessToken(accessToken string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// managerTokenSource adapts a TokenManager to oauth2.TokenSource so the
// client can be plugged into libraries that expect one.
type managerTokenSource struct {
	ctx     context.Context
	manager *TokenManager
}

func (s *managerTokenSource) Token() (*oauth2.Token, error) {
	if _, err := s.manager.GetToken(s.ctx); err != nil {
		return nil, err
	}
	return s.manager.currentTokenSet().OAuth2Token(), nil
}
