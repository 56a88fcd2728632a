// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
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
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/wso2/neris-api-client-go/schema"
	"github.com/wso2/neris-api-client-go/utils"
)

// CreateAPIIntegration registers a machine client for a department and
// returns its assigned client ID.
func (c *NerisApiClient) CreateAPIIntegration(
	ctx context.Context, nerisIDEntity string, payload *schema.CreateAPIIntegrationPayload,
) (*schema.APIIntegration, error) {
	integration := &schema.APIIntegration{}
	err := c.call(ctx, callOptions{
		name:     "Create API integration",
		method:   http.MethodPost,
		path:     "/account/integration/" + url.PathEscape(nerisIDEntity),
		body:     payload,
		out:      integration,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API integration for entity %s: %w", nerisIDEntity, err)
	}
	return integration, nil
}

// GenerateAPISecret issues a fresh client secret for an integration. The
// secret is only ever returned by this call; store it securely.
func (c *NerisApiClient) GenerateAPISecret(ctx context.Context, clientID uuid.UUID) (*schema.APIIntegrationCredentials, error) {
	credentials := &schema.APIIntegrationCredentials{}
	err := c.call(ctx, callOptions{
		name:     "Generate API secret",
		method:   http.MethodPost,
		path:     "/account/credential/" + clientID.String(),
		out:      credentials,
		notFound: utils.ErrIntegrationNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret for client %s: %w", clientID, err)
	}
	return credentials, nil
}

// ListIntegrations lists the machine clients registered for a department.
func (c *NerisApiClient) ListIntegrations(ctx context.Context, nerisIDEntity string) ([]schema.APIIntegration, error) {
	integrations := []schema.APIIntegration{}
	err := c.call(ctx, callOptions{
		name:     "List API integrations",
		method:   http.MethodGet,
		path:     "/account/integration/" + url.PathEscape(nerisIDEntity) + "/list",
		out:      &integrations,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list API integrations of entity %s: %w", nerisIDEntity, err)
	}
	return integrations, nil
}

// EnrollIntegration authorizes an existing integration to act for a
// department.
func (c *NerisApiClient) EnrollIntegration(ctx context.Context, nerisIDEntity string, clientID uuid.UUID) error {
	err := c.call(ctx, callOptions{
		name:   "Enroll API integration",
		method: http.MethodPost,
		path: "/account/enrollment/" + url.PathEscape(nerisIDEntity) +
			"/" + clientID.String(),
		notFound: utils.ErrIntegrationNotFound,
	})
	if err != nil {
		return fmt.Errorf("failed to enroll client %s with entity %s: %w", clientID, nerisIDEntity, err)
	}
	return nil
}
