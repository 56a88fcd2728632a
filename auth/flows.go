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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/wso2/neris-api-client-go/config"
	"github.com/wso2/neris-api-client-go/requests"
)

const (
	tokenEndpointTimeout = 30 * time.Second

	// maxChallengeRounds bounds how many consecutive challenges one password
	// grant will answer before giving up.
	maxChallengeRounds = 3
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type challengeResponse struct {
	ChallengeName string `json:"challenge_name"`
	Session       string `json:"session"`
}

// newTokenEndpointClient builds the HTTP client used for token exchanges.
// The transport retries transient network and server failures; any response
// the identity provider actually produces is interpreted by the flows.
func newTokenEndpointClient() requests.HttpClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = slog.Default()
	retryClient.HTTPClient.Timeout = tokenEndpointTimeout
	return retryClient.StandardClient()
}

// passwordFlow runs the password grant, answering any challenges the
// identity provider interposes before it issues tokens.
func (m *TokenManager) passwordFlow(ctx context.Context) (*TokenSet, error) {
	form := map[string]string{
		"grant_type": string(config.GrantTypePassword),
		"username":   m.config.Username,
		"password":   m.config.Password,
	}
	tokens, challenge, err := m.exchangeToken(ctx, "Password grant", form, false)
	if err != nil {
		return nil, fmt.Errorf("password grant failed: %w", err)
	}

	for round := 0; challenge != nil; round++ {
		if round == maxChallengeRounds {
			return nil, &AuthenticationError{
				Reason: fmt.Sprintf("no token issued after %d challenge rounds", maxChallengeRounds),
			}
		}

		m.setState(StateMFARequired)
		answer, err := m.challengeHandler.Resolve(ctx, *challenge)
		if err != nil {
			return nil, fmt.Errorf("challenge %s failed: %w", challenge.Name, err)
		}
		if answer == "" {
			return nil, fmt.Errorf("challenge %s failed: %w", challenge.Name, ErrChallengeAborted)
		}

		answerForm := map[string]string{
			"grant_type":   challenge.Name,
			"username":     m.config.Username,
			"session":      challenge.Session,
			challenge.Name: answer,
		}
		m.setState(StateRequesting)
		tokens, challenge, err = m.exchangeToken(ctx, "Challenge answer", answerForm, false)
		if err != nil {
			return nil, fmt.Errorf("challenge answer was rejected: %w", err)
		}
	}
	return tokens, nil
}

// clientCredentialsFlow runs the client credentials grant. The credentials
// travel in the Authorization header, not the form.
func (m *TokenManager) clientCredentialsFlow(ctx context.Context) (*TokenSet, error) {
	form := map[string]string{
		"grant_type": string(config.GrantTypeClientCredentials),
	}
	tokens, challenge, err := m.exchangeToken(ctx, "Client credentials grant", form, true)
	if err != nil {
		return nil, fmt.Errorf("client credentials grant failed: %w", err)
	}
	if challenge != nil {
		return nil, &AuthenticationError{
			Reason: fmt.Sprintf("unexpected %s challenge for a client credentials grant", challenge.Name),
		}
	}
	return tokens, nil
}

// refreshFlow exchanges a refresh token for a fresh token set. Providers may
// omit the refresh token from the response, in which case the previous one
// stays in use.
func (m *TokenManager) refreshFlow(ctx context.Context, refreshToken string) (*TokenSet, error) {
	form := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}
	useBasicAuth := m.config.GrantType == config.GrantTypeClientCredentials
	tokens, challenge, err := m.exchangeToken(ctx, "Refresh token grant", form, useBasicAuth)
	if err != nil {
		return nil, fmt.Errorf("refresh token grant failed: %w", err)
	}
	if challenge != nil {
		return nil, &AuthenticationError{Reason: "unexpected challenge for a refresh token grant"}
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

// exchangeToken posts one form to the token endpoint and interprets the
// three outcomes: tokens issued, challenge interposed, or rejection.
func (m *TokenManager) exchangeToken(
	ctx context.Context, name string, form map[string]string, useBasicAuth bool,
) (*TokenSet, *Challenge, error) {
	request := requests.HttpRequest{
		Name:   name,
		URL:    m.config.BaseURL + "/token",
		Method: http.MethodPost,
	}
	request.SetFormData(form)
	if useBasicAuth {
		request.SetHeader("Authorization", basicAuthHeader(m.config.ClientID, m.config.ClientSecret))
	}

	result := requests.SendRequest(ctx, m.httpClient, &request)
	if err := result.Err(); err != nil {
		return nil, nil, fmt.Errorf("token request failed: %w", err)
	}
	if m.config.Debug {
		slog.Debug("Token endpoint response",
			"request", name, "status", result.StatusCode(), "body", string(result.Body()))
	}

	switch result.StatusCode() {
	case http.StatusOK:
		var resp tokenResponse
		if err := json.Unmarshal(result.Body(), &resp); err != nil {
			return nil, nil, fmt.Errorf("failed to decode token response: %w", err)
		}
		tokens, err := newTokenSet(resp)
		if err != nil {
			return nil, nil, err
		}
		return tokens, nil, nil

	case http.StatusAccepted:
		var resp challengeResponse
		if err := json.Unmarshal(result.Body(), &resp); err != nil {
			return nil, nil, fmt.Errorf("failed to decode challenge response: %w", err)
		}
		if resp.ChallengeName == "" || resp.Session == "" {
			return nil, nil, &AuthenticationError{
				Reason:     "challenge response is missing challenge_name or session",
				StatusCode: http.StatusAccepted,
				Body:       string(result.Body()),
			}
		}
		return nil, &Challenge{
			Name:    resp.ChallengeName,
			Session: resp.Session,
			Prompt:  fmt.Sprintf("Enter the %s code", resp.ChallengeName),
		}, nil

	default:
		return nil, nil, &AuthenticationError{
			Reason:     parseTokenErrorMessage(result.Body()),
			StatusCode: result.StatusCode(),
			Body:       string(result.Body()),
		}
	}
}

func basicAuthHeader(clientID, clientSecret string) string {
	credentials := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
	return "Basic " + credentials
}

// parseTokenErrorMessage pulls a readable reason out of a token endpoint
// error body, falling back to the truncated raw body.
func parseTokenErrorMessage(body []byte) string {
	payload := struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
		Detail           string `json:"detail"`
	}{}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "" && payload.ErrorDescription != "":
			return payload.Error + ": " + payload.ErrorDescription
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		case payload.Detail != "":
			return payload.Detail
		}
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		return "token endpoint returned no error detail"
	}
	if len(message) > 200 {
		message = message[:200] + "..."
	}
	return message
}
