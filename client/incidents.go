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
	"fmt"
	"net/http"
	"net/url"

	"github.com/wso2/neris-api-client-go/schema"
	"github.com/wso2/neris-api-client-go/utils"
)

// CreateIncident submits a new incident record for a department.
func (c *NerisApiClient) CreateIncident(
	ctx context.Context, nerisIDEntity string, payload *schema.IncidentPayload,
) (*schema.Incident, error) {
	incident := &schema.Incident{}
	err := c.call(ctx, callOptions{
		name:     "Create incident",
		method:   http.MethodPost,
		path:     "/incident/" + url.PathEscape(nerisIDEntity),
		body:     payload,
		out:      incident,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create incident for entity %s: %w", nerisIDEntity, err)
	}
	return incident, nil
}

// ValidateIncident checks an incident payload against the server-side rules
// without persisting anything.
func (c *NerisApiClient) ValidateIncident(
	ctx context.Context, nerisIDEntity string, payload *schema.IncidentPayload,
) (*schema.IncidentValidationResult, error) {
	result := &schema.IncidentValidationResult{}
	err := c.call(ctx, callOptions{
		name:     "Validate incident",
		method:   http.MethodPost,
		path:     "/incident/" + url.PathEscape(nerisIDEntity) + "/validate",
		body:     payload,
		out:      result,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate incident for entity %s: %w", nerisIDEntity, err)
	}
	return result, nil
}

// PatchIncident applies one modification to an existing incident.
func (c *NerisApiClient) PatchIncident(
	ctx context.Context, nerisIDEntity, nerisIDIncident string, action *schema.PatchIncidentAction,
) (*schema.Incident, error) {
	incident := &schema.Incident{}
	err := c.call(ctx, callOptions{
		name:   "Patch incident",
		method: http.MethodPatch,
		path: "/incident/" + url.PathEscape(nerisIDEntity) +
			"/" + url.PathEscape(nerisIDIncident),
		body:     action,
		out:      incident,
		notFound: utils.ErrIncidentNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to patch incident %s: %w", nerisIDIncident, err)
	}
	return incident, nil
}

// UpdateIncidentStatus moves an incident through its review workflow.
func (c *NerisApiClient) UpdateIncidentStatus(
	ctx context.Context, nerisIDEntity, nerisIDIncident string, payload *schema.UpdateIncidentStatusPayload,
) (*schema.Incident, error) {
	incident := &schema.Incident{}
	err := c.call(ctx, callOptions{
		name:   "Update incident status",
		method: http.MethodPut,
		path: "/incident/" + url.PathEscape(nerisIDEntity) +
			"/" + url.PathEscape(nerisIDIncident) + "/status",
		body:     payload,
		out:      incident,
		notFound: utils.ErrIncidentNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update status of incident %s: %w", nerisIDIncident, err)
	}
	return incident, nil
}

// ListIncidents lists the incident records of a department.
func (c *NerisApiClient) ListIncidents(ctx context.Context, nerisIDEntity string) ([]schema.Incident, error) {
	incidents := []schema.Incident{}
	err := c.call(ctx, callOptions{
		name:     "List incidents",
		method:   http.MethodGet,
		path:     "/incident/" + url.PathEscape(nerisIDEntity) + "/list",
		out:      &incidents,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents of entity %s: %w", nerisIDEntity, err)
	}
	return incidents, nil
}
