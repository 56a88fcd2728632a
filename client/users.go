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

	"github.com/google/uuid"

	"github.com/wso2/neris-api-client-go/schema"
	"github.com/wso2/neris-api-client-go/utils"
)

// GetUser fetches a user by their subject identifier.
func (c *NerisApiClient) GetUser(ctx context.Context, sub uuid.UUID) (*schema.User, error) {
	user := &schema.User{}
	err := c.call(ctx, callOptions{
		name:     "Get user",
		method:   http.MethodGet,
		path:     "/user/" + sub.String(),
		out:      user,
		notFound: utils.ErrUserNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", sub, err)
	}
	return user, nil
}

// CreateUser provisions a new user account.
func (c *NerisApiClient) CreateUser(ctx context.Context, payload *schema.CreateUserPayload) (*schema.User, error) {
	user := &schema.User{}
	err := c.call(ctx, callOptions{
		name:   "Create user",
		method: http.MethodPost,
		path:   "/user",
		body:   payload,
		out:    user,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser replaces a user's profile.
func (c *NerisApiClient) UpdateUser(ctx context.Context, sub uuid.UUID, payload *schema.UpdateUserPayload) (*schema.User, error) {
	user := &schema.User{}
	err := c.call(ctx, callOptions{
		name:     "Update user",
		method:   http.MethodPut,
		path:     "/user/" + sub.String(),
		body:     payload,
		out:      user,
		notFound: utils.ErrUserNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", sub, err)
	}
	return user, nil
}

// DeleteUser removes a user account.
func (c *NerisApiClient) DeleteUser(ctx context.Context, sub uuid.UUID) error {
	err := c.call(ctx, callOptions{
		name:     "Delete user",
		method:   http.MethodDelete,
		path:     "/user/" + sub.String(),
		notFound: utils.ErrUserNotFound,
	})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", sub, err)
	}
	return nil
}

// CreateUserRoleEntitySetAttachment grants a user a role over an entity set.
func (c *NerisApiClient) CreateUserRoleEntitySetAttachment(
	ctx context.Context, sub uuid.UUID, nuidRole, nuidEntitySet string,
) error {
	err := c.call(ctx, callOptions{
		name:   "Create user role attachment",
		method: http.MethodPost,
		path:   "/auth/user_role_entity_set_attachment",
		query: map[string]string{
			"sub_user":        sub.String(),
			"nuid_role":       nuidRole,
			"nuid_entity_set": nuidEntitySet,
		},
		notFound: utils.ErrUserNotFound,
	})
	if err != nil {
		return fmt.Errorf("failed to attach role to user %s: %w", sub, err)
	}
	return nil
}

// CreateUserEntityMembership adds a user to a department.
func (c *NerisApiClient) CreateUserEntityMembership(
	ctx context.Context, sub uuid.UUID, nerisIDEntity string,
) (*schema.UserEntityMembership, error) {
	membership := &schema.UserEntityMembership{}
	err := c.call(ctx, callOptions{
		name:   "Create user entity membership",
		method: http.MethodPost,
		path:   "/user/" + sub.String() + "/user_entity_membership/" + url.PathEscape(nerisIDEntity),
		out:    membership,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add user %s to entity %s: %w", sub, nerisIDEntity, err)
	}
	return membership, nil
}

// DeleteUserEntityMembership removes a user from a department.
func (c *NerisApiClient) DeleteUserEntityMembership(ctx context.Context, sub uuid.UUID, nerisIDEntity string) error {
	err := c.call(ctx, callOptions{
		name:   "Delete user entity membership",
		method: http.MethodDelete,
		path:   "/user/" + sub.String() + "/user_entity_membership/" + url.PathEscape(nerisIDEntity),
	})
	if err != nil {
		return fmt.Errorf("failed to remove user %s from entity %s: %w", sub, nerisIDEntity, err)
	}
	return nil
}

// UpdateUserEntityActivation activates or deactivates a user within a
// department without removing the membership.
func (c *NerisApiClient) UpdateUserEntityActivation(
	ctx context.Context, sub uuid.UUID, nerisIDEntity string, payload *schema.UserEntityActivationPayload,
) error {
	err := c.call(ctx, callOptions{
		name:   "Update user entity activation",
		method: http.MethodPut,
		path:   "/user/" + sub.String() + "/user_entity_activation/" + url.PathEscape(nerisIDEntity),
		body:   payload,
	})
	if err != nil {
		return fmt.Errorf("failed to update activation of user %s in entity %s: %w", sub, nerisIDEntity, err)
	}
	return nil
}

// ListUserEntityMemberships lists the departments a user belongs to.
func (c *NerisApiClient) ListUserEntityMemberships(ctx context.Context, sub uuid.UUID) ([]schema.UserEntityMembership, error) {
	memberships := []schema.UserEntityMembership{}
	err := c.call(ctx, callOptions{
		name:     "List user entity memberships",
		method:   http.MethodGet,
		path:     "/user/" + sub.String() + "/user_entity_membership",
		out:      &memberships,
		notFound: utils.ErrUserNotFound,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships of user %s: %w", sub, err)
	}
	return memberships, nil
}
