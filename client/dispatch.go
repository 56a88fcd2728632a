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
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/wso2/neris-api-client-go/auth"
	"github.com/wso2/neris-api-client-go/requests"
)

// callOptions describes one API operation for the dispatcher.
type callOptions struct {
	name   string
	method string
	path   string
	query  map[string]string
	// body is validated before anything goes on the wire.
	body any
	// out receives the decoded success response; nil skips decoding.
	out any
	// notFound is the sentinel a 404 maps to for this resource.
	notFound error
	// noAuth skips the bearer token, for unauthenticated endpoints.
	noAuth bool
}

// call runs one API operation: validate the payload, attach a token, send,
// and decode. A 401 invalidates the token and retries exactly once with a
// fresh one; a second 401 is an authentication failure, not an API error.
func (c *NerisApiClient) call(ctx context.Context, opts callOptions) error {
	if opts.body != nil {
		if err := c.validator.Validate(opts.body); err != nil {
			return fmt.Errorf("payload validation failed: %w", err)
		}
	}

	request := &requests.HttpRequest{
		Name:   opts.name,
		URL:    c.config.BaseURL + opts.path,
		Method: opts.method,
	}
	request.SetHeader("User-Agent", userAgent())
	request.SetHeader("X-Correlation-ID", uuid.NewString())
	for key, value := range opts.query {
		request.SetQuery(key, value)
	}
	if opts.body != nil {
		request.SetJson(opts.body)
	}

	reauthenticated := false
	for {
		if !opts.noAuth {
			token, err := c.authProvider.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to obtain access token: %w", err)
			}
			request.SetHeader("Authorization", "Bearer "+token)
		}

		result := requests.SendRequest(ctx, c.httpClient, request)
		if err := result.Err(); err != nil {
			return err
		}

		statusCode := result.StatusCode()
		if c.config.Debug {
			slog.Debug("NERIS API response",
				"request", opts.name, "status", statusCode, "body", string(result.Body()))
		}

		if statusCode == http.StatusUnauthorized && !opts.noAuth {
			if !reauthenticated {
				reauthenticated = true
				slog.Debug("Access token rejected, re-authenticating once", "request", opts.name)
				c.authProvider.InvalidateToken()
				continue
			}
			return &auth.AuthenticationError{
				Reason:     "the API rejected a freshly issued token",
				StatusCode: statusCode,
				Body:       string(result.Body()),
			}
		}
		if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
			return newAPIError(statusCode, result.Body(), opts.notFound)
		}

		if opts.out == nil || statusCode == http.StatusNoContent || len(result.Body()) == 0 {
			return nil
		}
		if err := c.validator.Decode(result.Body(), opts.out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
}
