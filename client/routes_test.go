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
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/neris-api-client-go/schema"
)

// TestOperationRoutes pins every operation to the method and path the NERIS
// API expects.
func TestOperationRoutes(t *testing.T) {
	sub := uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	clientID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	dispatchTime := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

	incidentPayload := &schema.IncidentPayload{
		IncidentNumber: "24-0001234",
		TypeIncident:   "FIRE_STRUCTURE",
		DispatchTime:   dispatchTime,
	}

	testCases := []struct {
		name       string
		invoke     func(c *NerisApiClient) error
		wantMethod string
		wantPath   string
		wantQuery  map[string]string
		response   string
	}{
		{
			name: "get entity",
			invoke: func(c *NerisApiClient) error {
				_, err := c.GetEntity(context.Background(), "FD24027240")
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/entity/FD24027240",
			response:   `{}`,
		},
		{
			name: "create entity",
			invoke: func(c *NerisApiClient) error {
				_, err := c.CreateEntity(context.Background(), &schema.CreateDepartmentPayload{
					Name: "Austin Fire Department", FDID: "24027", State: "TX",
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/entity/",
			response:   `{}`,
		},
		{
			name: "update entity",
			invoke: func(c *NerisApiClient) error {
				_, err := c.UpdateEntity(context.Background(), "FD24027240", &schema.DepartmentPayload{
					Name: "Austin Fire Department", FDID: "24027", State: "TX",
				})
				return err
			},
			wantMethod: http.MethodPut,
			wantPath:   "/entity/FD24027240",
			response:   `{}`,
		},
		{
			name: "patch entity",
			invoke: func(c *NerisApiClient) error {
				_, err := c.PatchEntity(context.Background(), "FD24027240", &schema.PatchDepartmentPayload{})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/entity/FD24027240",
			response:   `{}`,
		},
		{
			name: "patch station",
			invoke: func(c *NerisApiClient) error {
				_, err := c.PatchStation(context.Background(), "FD24027240", "ST01", &schema.PatchStationPayload{})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/entity/FD24027240/station/ST01",
			response:   `{}`,
		},
		{
			name: "patch unit",
			invoke: func(c *NerisApiClient) error {
				_, err := c.PatchUnit(context.Background(), "FD24027240", "ST01", "E11", &schema.PatchUnitPayload{})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/entity/FD24027240/station/ST01/unit/E11",
			response:   `{}`,
		},
		{
			name: "get user",
			invoke: func(c *NerisApiClient) error {
				_, err := c.GetUser(context.Background(), sub)
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/user/" + sub.String(),
			response:   `{}`,
		},
		{
			name: "create user",
			invoke: func(c *NerisApiClient) error {
				_, err := c.CreateUser(context.Background(), &schema.CreateUserPayload{
					Email: "chief@example.com", FirstName: "Robin", LastName: "Alvarez",
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/user",
			response:   `{}`,
		},
		{
			name: "update user",
			invoke: func(c *NerisApiClient) error {
				_, err := c.UpdateUser(context.Background(), sub, &schema.UpdateUserPayload{
					Email: "chief@example.com", FirstName: "Robin", LastName: "Alvarez",
				})
				return err
			},
			wantMethod: http.MethodPut,
			wantPath:   "/user/" + sub.String(),
			response:   `{}`,
		},
		{
			name: "delete user",
			invoke: func(c *NerisApiClient) error {
				return c.DeleteUser(context.Background(), sub)
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/user/" + sub.String(),
			response:   `{}`,
		},
		{
			name: "create user role attachment",
			invoke: func(c *NerisApiClient) error {
				return c.CreateUserRoleEntitySetAttachment(context.Background(), sub, "role-admin", "set-tx")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/auth/user_role_entity_set_attachment",
			wantQuery: map[string]string{
				"sub_user":        sub.String(),
				"nuid_role":       "role-admin",
				"nuid_entity_set": "set-tx",
			},
			response: `{}`,
		},
		{
			name: "create user entity membership",
			invoke: func(c *NerisApiClient) error {
				_, err := c.CreateUserEntityMembership(context.Background(), sub, "FD24027240")
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/user/" + sub.String() + "/user_entity_membership/FD24027240",
			response:   `{}`,
		},
		{
			name: "delete user entity membership",
			invoke: func(c *NerisApiClient) error {
				return c.DeleteUserEntityMembership(context.Background(), sub, "FD24027240")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/user/" + sub.String() + "/user_entity_membership/FD24027240",
			response:   `{}`,
		},
		{
			name: "update user entity activation",
			invoke: func(c *NerisApiClient) error {
				return c.UpdateUserEntityActivation(context.Background(), sub, "FD24027240",
					&schema.UserEntityActivationPayload{Active: true})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/user/" + sub.String() + "/user_entity_activation/FD24027240",
			response:   `{}`,
		},
		{
			name: "list user entity memberships",
			invoke: func(c *NerisApiClient) error {
				_, err := c.ListUserEntityMemberships(context.Background(), sub)
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/user/" + sub.String() + "/user_entity_membership",
			response:   `[]`,
		},
		{
			name: "create incident",
			invoke: func(c *NerisApiClient) error {
				_, err := c.CreateIncident(context.Background(), "FD24027240", incidentPayload)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/incident/FD24027240",
			response:   `{}`,
		},
		{
			name: "validate incident",
			invoke: func(c *NerisApiClient) error {
				_, err := c.ValidateIncident(context.Background(), "FD24027240", incidentPayload)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/incident/FD24027240/validate",
			response:   `{}`,
		},
		{
			name: "patch incident",
			invoke: func(c *NerisApiClient) error {
				_, err := c.PatchIncident(context.Background(), "FD24027240", "24-0001234",
					&schema.PatchIncidentAction{Op: "replace", Path: "/narrative", Value: "Fire out on arrival"})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/incident/FD24027240/24-0001234",
			response:   `{}`,
		},
		{
			name: "update incident status",
			invoke: func(c *NerisApiClient) error {
				_, err := c.UpdateIncidentStatus(context.Background(), "FD24027240", "24-0001234",
					&schema.UpdateIncidentStatusPayload{Status: schema.IncidentStatusAuthorized})
				return err
			},
			wantMethod: http.MethodPut,
			wantPath:   "/incident/FD24027240/24-0001234/status",
			response:   `{}`,
		},
		{
			name: "list incidents",
			invoke: func(c *NerisApiClient) error {
				_, err := c.ListIncidents(context.Background(), "FD24027240")
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/incident/FD24027240/list",
			response:   `[]`,
		},
		{
			name: "create api integration",
			invoke: func(c *NerisApiClient) error {
				_, err := c.CreateAPIIntegration(context.Background(), "FD24027240",
					&schema.CreateAPIIntegrationPayload{Title: "CAD export"})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/account/integration/FD24027240",
			response:   `{}`,
		},
		{
			name: "generate api secret",
			invoke: func(c *NerisApiClient) error {
				_, err := c.GenerateAPISecret(context.Background(), clientID)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/account/credential/" + clientID.String(),
			response:   `{}`,
		},
		{
			name: "list api integrations",
			invoke: func(c *NerisApiClient) error {
				_, err := c.ListIntegrations(context.Background(), "FD24027240")
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/account/integration/FD24027240/list",
			response:   `[]`,
		},
		{
			name: "enroll api integration",
			invoke: func(c *NerisApiClient) error {
				return c.EnrollIntegration(context.Background(), "FD24027240", clientID)
			},
			wantMethod: http.MethodPost,
			wantPath:   "/account/enrollment/FD24027240/" + clientID.String(),
			response:   `{}`,
		},
	}

	var gotMethod, gotPath, response string
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, &mockAuthProvider{}, server.Client())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			response = tc.response

			require.NoError(t, tc.invoke(c))
			assert.Equal(t, tc.wantMethod, gotMethod)
			assert.Equal(t, tc.wantPath, gotPath)
			for key, want := range tc.wantQuery {
				assert.Equal(t, want, gotQuery.Get(key), "query parameter %s", key)
			}
		})
	}
}
