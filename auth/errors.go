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

package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed marks any credential rejection by the identity provider.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrChallengeAborted marks an MFA challenge that was abandoned without an answer.
	ErrChallengeAborted = errors.New("authentication challenge aborted")
)

// AuthenticationError reports a rejected token exchange. It carries the
// provider's HTTP status and response body when the rejection came over the
// wire, and matches ErrAuthenticationFailed under errors.Is.
type AuthenticationError struct {
	Reason     string
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed: %s (status %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return ErrAuthenticationFailed
}
