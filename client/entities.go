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

// Health checks API availability. It does not require authentication.
func (c *NerisApiClient) Health(ctx context.Context) (*schema.HealthStatus, error) {
	status := &schema.HealthStatus{}
	err := c.call(ctx, callOptions{
		name:   "Health check",
		method: http.MethodGet,
		path:   "/health",
		out:    status,
		noAuth: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check API health: %w", err)
	}
	return status, nil
}

// GetEntity fetches a fire department entity by its NERIS ID.
func (c *NerisApiClient) GetEntity(ctx context.Context, nerisID string) (*schema.Entity, error) {
	entity := &schema.Entity{}
	err := c.call(ctx, callOptions{
		name:     "Get entity",
		method:   http.MethodGet,
		path:     "/entity/" + url.PathEscape(nerisID),
		out:      entity,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get entity %s: %w", nerisID, err)
	}
	return entity, nil
}

// CreateEntity registers a new fire department.
func (c *NerisApiClient) CreateEntity(ctx context.Context, payload *schema.CreateDepartmentPayload) (*schema.Entity, error) {
	entity := &schema.Entity{}
	err := c.call(ctx, callOptions{
		name:   "Create entity",
		method: http.MethodPost,
		path:   "/entity/",
		body:   payload,
		out:    entity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}
	return entity, nil
}

// UpdateEntity replaces a department's profile.
func (c *NerisApiClient) UpdateEntity(ctx context.Context, nerisID string, payload *schema.DepartmentPayload) (*schema.Entity, error) {
	entity := &schema.Entity{}
	err := c.call(ctx, callOptions{
		name:     "Update entity",
		method:   http.MethodPut,
		path:     "/entity/" + url.PathEscape(nerisID),
		body:     payload,
		out:      entity,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update entity %s: %w", nerisID, err)
	}
	return entity, nil
}

// PatchEntity applies a partial update to a department's profile.
func (c *NerisApiClient) PatchEntity(ctx context.Context, nerisID string, payload *schema.PatchDepartmentPayload) (*schema.Entity, error) {
	entity := &schema.Entity{}
	err := c.call(ctx, callOptions{
		name:     "Patch entity",
		method:   http.MethodPatch,
		path:     "/entity/" + url.PathEscape(nerisID),
		body:     payload,
		out:      entity,
		notFound: utils.ErrEntityNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to patch entity %s: %w", nerisID, err)
	}
	return entity, nil
}

// PatchStation applies a partial update to one station of a department.
func (c *NerisApiClient) PatchStation(
	ctx context.Context, nerisIDEntity, nerisIDStation string, payload *schema.PatchStationPayload,
) (*schema.Station, error) {
	station := &schema.Station{}
	err := c.call(ctx, callOptions{
		name:   "Patch station",
		method: http.MethodPatch,
		path: "/entity/" + url.PathEscape(nerisIDEntity) +
			"/station/" + url.PathEscape(nerisIDStation),
		body: payload,
		out:  station,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to patch station %s: %w", nerisIDStation, err)
	}
	return station, nil
}

// PatchUnit applies a partial update to one unit of a station.
func (c *NerisApiClient) PatchUnit(
	ctx context.Context, nerisIDEntity, nerisIDStation, nerisIDUnit string, payload *schema.PatchUnitPayload,
) (*schema.Unit, error) {
	unit := &schema.Unit{}
	err := c.call(ctx, callOptions{
		name:   "Patch unit",
		method: http.MethodPatch,
		path: "/entity/" + url.PathEscape(nerisIDEntity) +
			"/station/" + url.PathEscape(nerisIDStation) +
			"/unit/" + url.PathEscape(nerisIDUnit),
		body: payload,
		out:  unit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to patch unit %s: %w", nerisIDUnit, err)
	}
	return unit, nil
}
