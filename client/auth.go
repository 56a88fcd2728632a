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

	"github.com/wso2/neris-api-client-go/auth"
)

// AuthProvider supplies bearer tokens for API requests. GetToken must return
// a token valid for at least the near future; InvalidateToken discards the
// current one after the API has rejected it.
type AuthProvider interface {
	GetToken(ctx context.Context) (string, error)
	InvalidateToken()
}

var _ AuthProvider = (*auth.TokenManager)(nil)
