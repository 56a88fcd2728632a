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

// Package schema holds the NERIS payload and response models, trimmed to the
// attributes this client touches, together with the Validator that enforces
// their constraints.
package schema

import (
	"time"

	"github.com/google/uuid"
)

// HealthStatus is the response of the API health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
}

// Entity is a fire-department record.
type Entity struct {
	NerisID     string    `json:"neris_id"`
	Name        string    `json:"name"`
	FDID        string    `json:"fdid"`
	State       string    `json:"state"`
	County      string    `json:"county,omitempty"`
	Departments int       `json:"departments,omitempty"`
	Stations    []Station `json:"stations,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// Station is a physical station belonging to an entity.
type Station struct {
	NerisID string `json:"neris_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Units   []Unit `json:"units,omitempty"`
}

// Unit is an apparatus assigned to a station.
type Unit struct {
	NerisID  string `json:"neris_id"`
	Name     string `json:"name"`
	TypeUnit string `json:"type_unit,omitempty"`
}

// CreateDepartmentPayload creates a new department entity.
type CreateDepartmentPayload struct {
	Name   string `json:"name" validate:"required"`
	FDID   string `json:"fdid" validate:"required"`
	State  string `json:"state" validate:"required,len=2"`
	County string `json:"county,omitempty"`
}

// DepartmentPayload replaces a department entity.
type DepartmentPayload struct {
	Name   string `json:"name" validate:"required"`
	FDID   string `json:"fdid" validate:"required"`
	State  string `json:"state" validate:"required,len=2"`
	County string `json:"county,omitempty"`
	Active bool   `json:"active"`
}

// PatchDepartmentPayload applies a partial update to a department entity.
// Nil fields are left untouched.
type PatchDepartmentPayload struct {
	Name   *string `json:"name,omitempty"`
	County *string `json:"county,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// PatchStationPayload applies a partial update to a station.
type PatchStationPayload struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

// PatchUnitPayload applies a partial update to a unit.
type PatchUnitPayload struct {
	Name     *string `json:"name,omitempty"`
	TypeUnit *string `json:"type_unit,omitempty"`
}

// User is a NERIS account holder.
type User struct {
	Sub       uuid.UUID `json:"sub"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Active    bool      `json:"active"`
}

// CreateUserPayload creates a new user.
type CreateUserPayload struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// UpdateUserPayload replaces a user's profile.
type UpdateUserPayload struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Active    bool   `json:"active"`
}

// UserEntityMembership links a user to an entity.
type UserEntityMembership struct {
	NerisIDEntity string `json:"neris_id_entity"`
	EntityName    string `json:"entity_name,omitempty"`
	Active        bool   `json:"active"`
}

// UserEntityActivationPayload toggles a user's membership in an entity.
type UserEntityActivationPayload struct {
	Active bool `json:"active"`
}

// TypeIncidentStatusValue enumerates the incident lifecycle states.
type TypeIncidentStatusValue string

const (
	IncidentStatusDraft      TypeIncidentStatusValue = "draft"
	IncidentStatusInReview   TypeIncidentStatusValue = "in_review"
	IncidentStatusAuthorized TypeIncidentStatusValue = "authorized"
	IncidentStatusReleased   TypeIncidentStatusValue = "released"
)

// IncidentPayload submits a fire incident record.
type IncidentPayload struct {
	IncidentNumber string    `json:"incident_number" validate:"required"`
	TypeIncident   string    `json:"type_incident" validate:"required"`
	DispatchTime   time.Time `json:"dispatch_time" validate:"required"`
	ArrivalTime    time.Time `json:"arrival_time,omitzero"`
	Address        string    `json:"address,omitempty"`
	Narrative      string    `json:"narrative,omitempty"`
	Units          []string  `json:"units,omitempty"`
}

// Incident is a stored incident record.
type Incident struct {
	NerisIDIncident string                  `json:"neris_id_incident"`
	NerisIDEntity   string                  `json:"neris_id_entity"`
	IncidentNumber  string                  `json:"incident_number"`
	TypeIncident    string                  `json:"type_incident,omitempty"`
	Status          TypeIncidentStatusValue `json:"status"`
	DispatchTime    time.Time               `json:"dispatch_time,omitzero"`
	CreatedAt       time.Time               `json:"created_at,omitzero"`
}

// IncidentValidationResult reports schema and business-rule findings for a
// submitted incident without persisting it.
type IncidentValidationResult struct {
	Valid    bool     `json:"valid"`
	Findings []string `json:"findings,omitempty"`
}

// PatchIncidentAction applies one partial change to an incident record.
type PatchIncidentAction struct {
	Op    string `json:"op" validate:"required,oneof=add remove replace"`
	Path  string `json:"path" validate:"required"`
	Value any    `json:"value,omitempty"`
}

// UpdateIncidentStatusPayload moves an incident to a new lifecycle state.
type UpdateIncidentStatusPayload struct {
	Status TypeIncidentStatusValue `json:"status" validate:"required,oneof=draft in_review authorized released"`
}

// CreateAPIIntegrationPayload registers a new API integration for an entity.
type CreateAPIIntegrationPayload struct {
	Title string `json:"title" validate:"required"`
}

// APIIntegration describes a registered API integration.
type APIIntegration struct {
	ClientID      uuid.UUID `json:"client_id"`
	Title         string    `json:"title"`
	NerisIDEntity string    `json:"neris_id_entity,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

// APIIntegrationCredentials carries a freshly generated client secret. The
// secret is only ever returned once.
type APIIntegrationCredentials struct {
	ClientID     uuid.UUID `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
}
