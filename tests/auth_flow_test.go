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

package tests

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/neris-api-client-go/auth"
	"github.com/wso2/neris-api-client-go/client"
	"github.com/wso2/neris-api-client-go/config"
	"github.com/wso2/neris-api-client-go/tests/apitestutils"
)

func austinFD() apitestutils.Entity {
	return apitestutils.Entity{
		NerisID: "FD24027240",
		Name:    "Austin Fire Department",
		FDID:    "24027",
		State:   "TX",
	}
}

func passwordConfig(fake *apitestutils.FakeNeris) *config.Config {
	return &config.Config{
		BaseURL:     fake.URL(),
		Environment: config.EnvironmentTest,
		GrantType:   config.GrantTypePassword,
		Username:    "chief@example.com",
		Password:    "hunter2",
		UseCache:    true,
	}
}

func clientCredentialsConfig(fake *apitestutils.FakeNeris) *config.Config {
	return &config.Config{
		BaseURL:      fake.URL(),
		Environment:  config.EnvironmentTest,
		GrantType:    config.GrantTypeClientCredentials,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		UseCache:     true,
	}
}

func newTestClient(
	t *testing.T, cfg *config.Config, fake *apitestutils.FakeNeris, tokenDir string, answers map[string]string,
) *client.NerisApiClient {
	t.Helper()
	c, err := client.NewNerisApiClient(cfg,
		client.WithHTTPClient(fake.Server.Client()),
		client.WithTokenStore(auth.NewFileTokenStore(tokenDir, true)),
		client.WithChallengeHandler(&auth.StaticChallengeHandler{Answers: answers}),
	)
	require.NoError(t, err)
	return c
}

func TestPasswordGrantWithMFAChallengeFlow(t *testing.T) {
	fake := apitestutils.NewFakeNeris()
	defer fake.Close()
	fake.MFACode = "123456"
	fake.AddEntity(austinFD())

	c := newTestClient(t, passwordConfig(fake), fake, t.TempDir(),
		map[string]string{"email_otp": "123456"})

	entity, err := c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, "Austin Fire Department", entity.Name)
	assert.Equal(t, []string{"password", "email_otp"}, fake.GrantTypes())

	// The session survives for the next operation.
	_, err = c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.TokenCalls())
}

func TestWrongMFACodeFailsAndCachesNothing(t *testing.T) {
	fake := apitestutils.NewFakeNeris()
	defer fake.Close()
	fake.MFACode = "123456"
	fake.AddEntity(austinFD())

	tokenDir := t.TempDir()
	c := newTestClient(t, passwordConfig(fake), fake, tokenDir,
		map[string]string{"email_otp": "999999"})

	_, err := c.GetEntity(context.Background(), "FD24027240")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAuthenticationFailed)

	var authErr *auth.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Reason, "incorrect verification code")

	entries, readErr := os.ReadDir(tokenDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a failed authentication must leave no tokens behind")
}

func TestClientCredentialsFlowEndToEnd(t *testing.T) {
	fake := apitestutils.NewFakeNeris()
	defer fake.Close()
	fake.AddEntity(austinFD())

	c := newTestClient(t, clientCredentialsConfig(fake), fake, t.TempDir(), nil)

	entity, err := c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, "FD24027240", entity.NerisID)
	assert.Equal(t, []string{"client_credentials"}, fake.GrantTypes())

	_, err = c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.TokenCalls(), "a valid token must be reused without a new grant")
}

func TestPersistedTokensSharedAcrossClients(t *testing.T) {
	fake := apitestutils.NewFakeNeris()
	defer fake.Close()
	fake.AddEntity(austinFD())

	tokenDir := t.TempDir()
	cfg := passwordConfig(fake)

	first := newTestClient(t, cfg, fake, tokenDir, nil)
	_, err := first.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.TokenCalls())

	second := newTestClient(t, cfg, fake, tokenDir, nil)
	_, err = second.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.TokenCalls(), "a second client must reuse the persisted token")
}

func TestRevokedAccessTokenRecoveredViaRefresh(t *testing.T) {
	fake := apitestutils.NewFakeNeris()
	defer fake.Close()
	fake.AddEntity(austinFD())

	c := newTestClient(t, passwordConfig(fake), fake, t.TempDir(), nil)

	_, err := c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)

	fake.RevokeAccessTokens()

	entity, err := c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err, "a revoked token must be replaced transparently")
	assert.Equal(t, "Austin Fire Department", entity.Name)
	assert.Equal(t, []string{"password", "refresh_token"}, fake.GrantTypes())
}
