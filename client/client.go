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

// Package client is the high-level NERIS API surface. A NerisApiClient wires
// configuration, token management, payload validation, and a retrying HTTP
// transport into typed operations over entities, users, incidents, and API
// integrations.
package client

import (
	"net/http"

	"github.com/wso2/neris-api-client-go/auth"
	"github.com/wso2/neris-api-client-go/config"
	"github.com/wso2/neris-api-client-go/requests"
	"github.com/wso2/neris-api-client-go/schema"
)

// NerisApiClient exposes the NERIS API operations. It is safe for concurrent
// use; all operations share one token manager and one HTTP transport.
type NerisApiClient struct {
	config           *config.Config
	authProvider     AuthProvider
	httpClient       requests.HttpClient
	validator        schema.Validator
	tokenStore       auth.TokenStore
	challengeHandler auth.ChallengeHandler
}

// ClientOption overrides one of the client's collaborators.
type ClientOption func(*NerisApiClient)

// WithAuthProvider replaces the default token manager.
func WithAuthProvider(provider AuthProvider) ClientOption {
	return func(c *NerisApiClient) { c.authProvider = provider }
}

// WithHTTPClient replaces the transport used for API calls.
func WithHTTPClient(httpClient requests.HttpClient) ClientOption {
	return func(c *NerisApiClient) { c.httpClient = httpClient }
}

// WithTokenStore replaces the persistent token store used by the default
// token manager.
func WithTokenStore(store auth.TokenStore) ClientOption {
	return func(c *NerisApiClient) { c.tokenStore = store }
}

// WithChallengeHandler replaces the interactive MFA prompt used by the
// default token manager.
func WithChallengeHandler(handler auth.ChallengeHandler) ClientOption {
	return func(c *NerisApiClient) { c.challengeHandler = handler }
}

// WithValidator replaces the payload validator.
func WithValidator(validator schema.Validator) ClientOption {
	return func(c *NerisApiClient) { c.validator = validator }
}

// NewNerisApiClient builds a client for the given configuration. A nil cfg
// loads the configuration from the environment. Collaborators not overridden
// by options get their defaults: a retrying HTTP transport, a file-backed
// token store honoring cfg.UseCache, and an interactive challenge handler.
func NewNerisApiClient(cfg *config.Config, opts ...ClientOption) (*NerisApiClient, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	c := &NerisApiClient{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = requests.NewRetryableHTTPClient(&http.Client{})
	}
	if c.validator == nil {
		c.validator = schema.NewValidator()
	}
	if c.authProvider == nil {
		if c.tokenStore == nil {
			c.tokenStore = auth.NewFileTokenStore(auth.DefaultTokenStorageDir, cfg.UseCache)
		}
		c.authProvider = auth.NewTokenManager(cfg, c.tokenStore, c.challengeHandler, nil)
	}
	return c, nil
}

// Config returns the configuration the client was built with.
func (c *NerisApiClient) Config() *config.Config {
	return c.config
}

func userAgent() string {
	return "neris-api-client-go/" + config.Version
}
