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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/wso2/neris-api-client-go/utils"
)

// APIError reports a non-success response from the NERIS API. It matches the
// sentinel in utils that corresponds to its status code under errors.Is, so
// callers can branch without inspecting status codes themselves.
type APIError struct {
	StatusCode int
	Message    string
	Body       string

	sentinel error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("neris api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.sentinel
}

// newAPIError builds an APIError from an error response. notFound overrides
// the generic not-found sentinel with a resource-specific one.
func newAPIError(statusCode int, body []byte, notFound error) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    parseErrorMessage(body),
		Body:       string(body),
		sentinel:   sentinelForStatus(statusCode, notFound),
	}
}

func sentinelForStatus(statusCode int, notFound error) error {
	switch statusCode {
	case http.StatusBadRequest:
		return utils.ErrBadRequest
	case http.StatusUnauthorized:
		return utils.ErrUnauthorized
	case http.StatusForbidden:
		return utils.ErrForbidden
	case http.StatusNotFound:
		if notFound != nil {
			return notFound
		}
		return utils.ErrResourceNotFound
	case http.StatusConflict:
		return utils.ErrResourceConflict
	case http.StatusUnprocessableEntity:
		return utils.ErrUnprocessableEntity
	case http.StatusTooManyRequests:
		return utils.ErrTooManyRequests
	case http.StatusServiceUnavailable:
		return utils.ErrServiceUnavailable
	default:
		if statusCode >= http.StatusInternalServerError {
			return utils.ErrInternalServer
		}
		return nil
	}
}

// parseErrorMessage extracts a readable message from an API error body. The
// NERIS API reports errors under "detail", either as a string or as a list
// of field findings; anything unrecognized falls back to the truncated body.
func parseErrorMessage(body []byte) string {
	payload := struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}{}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if len(payload.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(payload.Detail, &detail); err == nil {
				return detail
			}
			return truncateMessage(string(payload.Detail))
		}
	}
	return truncateMessage(string(body))
}

func truncateMessage(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return "response carried no error detail"
	}
	if len(message) > 200 {
		message = message[:200] + "..."
	}
	return message
}
