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

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ConfigurationError reports every missing or invalid configuration value
// found during Load.
type ConfigurationError struct {
	Problems []error
}

func (e *ConfigurationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func (e *ConfigurationError) Unwrap() []error {
	return e.Problems
}

// Option overrides a single configuration field. Explicit options take
// precedence over environment variables, which take precedence over defaults.
type Option func(*Config)

func WithBaseURL(baseURL string) Option {
	return func(c *Config) { c.BaseURL = baseURL }
}

func WithEnvironment(environment string) Option {
	return func(c *Config) { c.Environment = environment }
}

func WithGrantType(grantType GrantType) Option {
	return func(c *Config) { c.GrantType = grantType }
}

func WithUsername(username string) Option {
	return func(c *Config) { c.Username = username }
}

func WithPassword(password string) Option {
	return func(c *Config) { c.Password = password }
}

func WithClientID(clientID string) Option {
	return func(c *Config) { c.ClientID = clientID }
}

func WithClientSecret(clientSecret string) Option {
	return func(c *Config) { c.ClientSecret = clientSecret }
}

func WithUseCache(useCache bool) Option {
	return func(c *Config) { c.UseCache = useCache }
}

func WithDebug(debug bool) Option {
	return func(c *Config) { c.Debug = debug }
}

// Load resolves the client configuration in one step: defaults, then
// NERIS_* environment variables, then explicit options. When ENV_FILE_PATH
// names a dotenv file it is loaded into the environment first. Load returns
// a *ConfigurationError naming every missing or invalid field.
func Load(opts ...Option) (*Config, error) {
	r := &configReader{}

	if envFilePath := os.Getenv("ENV_FILE_PATH"); envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			r.errors = append(r.errors, fmt.Errorf("failed to load env file %q: %w", envFilePath, err))
		}
	}

	cfg := &Config{
		BaseURL:      r.readOptionalString("NERIS_BASE_URL", ""),
		Environment:  r.readOptionalString("NERIS_ENVIRONMENT", EnvironmentProd),
		GrantType:    GrantType(r.readOptionalString("NERIS_GRANT_TYPE", "")),
		Username:     r.readOptionalString("NERIS_USERNAME", ""),
		Password:     r.readOptionalString("NERIS_PASSWORD", ""),
		ClientID:     r.readOptionalString("NERIS_CLIENT_ID", ""),
		ClientSecret: r.readOptionalString("NERIS_CLIENT_SECRET", ""),
		UseCache:     r.readOptionalBool("NERIS_USE_CACHE", true),
		Debug:        r.readOptionalBool("NERIS_DEBUG", false),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.BaseURL == "" {
		baseURL, known := environmentBaseURLs[cfg.Environment]
		if !known {
			r.errors = append(r.errors, fmt.Errorf("unknown NERIS environment %q, must be %q or %q",
				cfg.Environment, EnvironmentProd, EnvironmentTest))
		}
		cfg.BaseURL = baseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	validateGrantConfig(cfg, r)

	if len(r.errors) > 0 {
		return nil, &ConfigurationError{Problems: r.errors}
	}

	slog.Debug("Resolved client configuration",
		"baseUrl", cfg.BaseURL, "grantType", string(cfg.GrantType), "useCache", cfg.UseCache)
	return cfg, nil
}

func validateGrantConfig(cfg *Config, r *configReader) {
	switch cfg.GrantType {
	case GrantTypePassword:
		if cfg.Username == "" {
			r.errors = append(r.errors, errors.New("NERIS_USERNAME is required for the password grant"))
		}
		if cfg.Password == "" {
			r.errors = append(r.errors, errors.New("NERIS_PASSWORD is required for the password grant"))
		}
	case GrantTypeClientCredentials:
		if cfg.ClientID == "" {
			r.errors = append(r.errors, errors.New("NERIS_CLIENT_ID is required for the client_credentials grant"))
		}
		if cfg.ClientSecret == "" {
			r.errors = append(r.errors, errors.New("NERIS_CLIENT_SECRET is required for the client_credentials grant"))
		}
	case "":
		r.errors = append(r.errors, errors.New("NERIS_GRANT_TYPE is required, must be \"password\" or \"client_credentials\""))
	default:
		r.errors = append(r.errors, fmt.Errorf("bad grant type %q, must be \"password\" or \"client_credentials\"", cfg.GrantType))
	}
}
