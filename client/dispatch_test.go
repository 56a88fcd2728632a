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

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/neris-api-client-go/auth"
	"github.com/wso2/neris-api-client-go/config"
	"github.com/wso2/neris-api-client-go/requests"
	"github.com/wso2/neris-api-client-go/schema"
	"github.com/wso2/neris-api-client-go/utils"
)

type mockAuthProvider struct {
	getTokenFunc    func(ctx context.Context) (string, error)
	getTokenCalls   int
	invalidateCalls int
}

func (m *mockAuthProvider) GetToken(ctx context.Context) (string, error) {
	m.getTokenCalls++
	if m.getTokenFunc != nil {
		return m.getTokenFunc(ctx)
	}
	return "test-token", nil
}

func (m *mockAuthProvider) InvalidateToken() {
	m.invalidateCalls++
}

type mockHTTPClient struct {
	calls  int
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.calls++
	return m.doFunc(req)
}

func newTestClient(t *testing.T, baseURL string, provider AuthProvider, httpClient requests.HttpClient) *NerisApiClient {
	t.Helper()
	cfg := &config.Config{
		BaseURL:     baseURL,
		Environment: config.EnvironmentTest,
		GrantType:   config.GrantTypePassword,
		Username:    "chief@example.com",
		Password:    "hunter2",
	}
	c, err := NewNerisApiClient(cfg, WithAuthProvider(provider), WithHTTPClient(httpClient))
	require.NoError(t, err)
	return c
}

func TestCallAttachesAuthAndTracingHeaders(t *testing.T) {
	var gotAuth, gotUserAgent, gotCorrelation string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUserAgent = r.Header.Get("User-Agent")
		gotCorrelation = r.Header.Get("X-Correlation-ID")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"neris_id": "FD24027240", "name": "Austin Fire Department"}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, &mockAuthProvider{}, server.Client())

	entity, err := c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, "Austin Fire Department", entity.Name)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.True(t, strings.HasPrefix(gotUserAgent, "neris-api-client-go/"))
	_, err = uuid.Parse(gotCorrelation)
	assert.NoError(t, err, "every request carries a correlation ID")
}

func TestCallValidatesPayloadBeforeSending(t *testing.T) {
	provider := &mockAuthProvider{}
	transport := &mockHTTPClient{doFunc: func(*http.Request) (*http.Response, error) {
		t.Error("nothing may reach the transport for an invalid payload")
		return nil, errors.New("unreachable")
	}}
	c := newTestClient(t, "http://api.invalid", provider, transport)

	_, err := c.CreateEntity(context.Background(), &schema.CreateDepartmentPayload{})

	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidPayload)
	var validationErr *schema.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Problems)
	assert.Zero(t, transport.calls)
	assert.Zero(t, provider.getTokenCalls, "no token is acquired for a payload that cannot be sent")
}

func TestCallReauthenticatesOnceAfterUnauthorized(t *testing.T) {
	var serverCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch serverCalls.Add(1) {
		case 1:
			assert.Equal(t, "Bearer stale-token", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
		default:
			assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"neris_id": "FD24027240"}`)
		}
	}))
	defer server.Close()

	provider := &mockAuthProvider{}
	provider.getTokenFunc = func(context.Context) (string, error) {
		if provider.getTokenCalls == 1 {
			return "stale-token", nil
		}
		return "fresh-token", nil
	}
	c := newTestClient(t, server.URL, provider, server.Client())

	entity, err := c.GetEntity(context.Background(), "FD24027240")
	require.NoError(t, err)
	assert.Equal(t, "FD24027240", entity.NerisID)
	assert.Equal(t, 1, provider.invalidateCalls)
	assert.Equal(t, int32(2), serverCalls.Load())
}

func TestCallSecondUnauthorizedIsAuthenticationError(t *testing.T) {
	var serverCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail": "token revoked"}`)
	}))
	defer server.Close()

	provider := &mockAuthProvider{}
	c := newTestClient(t, server.URL, provider, server.Client())

	_, err := c.GetEntity(context.Background(), "FD24027240")

	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAuthenticationFailed)
	var authErr *auth.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, 1, provider.invalidateCalls, "re-authentication happens exactly once")
	assert.Equal(t, int32(2), serverCalls.Load())
}

func TestCallMapsErrorStatusToSentinel(t *testing.T) {
	testCases := []struct {
		status   int
		sentinel error
	}{
		{http.StatusBadRequest, utils.ErrBadRequest},
		{http.StatusForbidden, utils.ErrForbidden},
		{http.StatusNotFound, utils.ErrEntityNotFound},
		{http.StatusConflict, utils.ErrResourceConflict},
		{http.StatusUnprocessableEntity, utils.ErrUnprocessableEntity},
		{http.StatusTooManyRequests, utils.ErrTooManyRequests},
		{http.StatusInternalServerError, utils.ErrInternalServer},
		{http.StatusServiceUnavailable, utils.ErrServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"detail": "something went wrong"}`)
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, &mockAuthProvider{}, server.Client())

			_, err := c.GetEntity(context.Background(), "FD24027240")

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, "something went wrong", apiErr.Message)
		})
	}
}

func TestCallSkipsDecodeForEmptyResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, &mockAuthProvider{}, server.Client())

	err := c.DeleteUser(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestHealthSkipsAuthentication(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "ok"}`)
	}))
	defer server.Close()

	provider := &mockAuthProvider{getTokenFunc: func(context.Context) (string, error) {
		return "", errors.New("the health check must not acquire a token")
	}}
	c := newTestClient(t, server.URL, provider, server.Client())

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Zero(t, provider.getTokenCalls)
}

func TestCallSurfacesTokenAcquisitionFailure(t *testing.T) {
	provider := &mockAuthProvider{getTokenFunc: func(context.Context) (string, error) {
		return "", &auth.AuthenticationError{Reason: "invalid_grant: wrong password", StatusCode: http.StatusBadRequest}
	}}
	transport := &mockHTTPClient{doFunc: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("unreachable")
	}}
	c := newTestClient(t, "http://api.invalid", provider, transport)

	_, err := c.GetEntity(context.Background(), "FD24027240")

	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAuthenticationFailed)
	assert.Zero(t, transport.calls)
}

func TestCallWrapsTransportErrors(t *testing.T) {
	transport := &mockHTTPClient{doFunc: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}
	c := newTestClient(t, "http://api.invalid", &mockAuthProvider{}, transport)

	_, err := c.GetEntity(context.Background(), "FD24027240")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, transport.calls)
}
