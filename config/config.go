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

package config

// GrantType selects the OAuth2 flow used against the NERIS token endpoint.
type GrantType string

const (
	GrantTypePassword          GrantType = "password"
	GrantTypeClientCredentials GrantType = "client_credentials"
)

// Known NERIS environments and their API base URLs.
const (
	EnvironmentProd = "prod"
	EnvironmentTest = "test"
)

var environmentBaseURLs = map[string]string{
	EnvironmentProd: "https://api.neris.fsri.org/v1",
	EnvironmentTest: "https://api-test.neris.fsri.org/v1",
}

// Config holds the resolved client configuration. It is produced once by
// Load and treated as read-only afterwards.
type Config struct {
	// BaseURL is the NERIS API base URL, including the version prefix.
	BaseURL string

	// Environment selects the default BaseURL when none is given ("prod" or "test").
	Environment string

	GrantType GrantType

	// Password grant credentials
	Username string
	Password string `json:"-"`

	// Client-credentials grant credentials
	ClientID     string
	ClientSecret string `json:"-"`

	// UseCache enables the on-disk token cache.
	UseCache bool

	// Debug enables request/response dumps at debug log level.
	Debug bool
}
