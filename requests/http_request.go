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

package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HttpRequest describes an outbound request before it is built into an
// *http.Request. Name identifies the request in logs only.
type HttpRequest struct {
	Name   string
	URL    string
	Method string

	headers  map[string]string
	query    url.Values
	jsonBody any
	formData url.Values
}

// SetHeader sets a request header, replacing any previous value.
func (r *HttpRequest) SetHeader(key, value string) *HttpRequest {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// SetQuery sets a query parameter, replacing any previous value.
func (r *HttpRequest) SetQuery(key, value string) *HttpRequest {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Set(key, value)
	return r
}

// SetJson sets a JSON request body. Encoding happens when the request is
// built, so encoding failures surface from SendRequest.
func (r *HttpRequest) SetJson(body any) *HttpRequest {
	r.jsonBody = body
	return r.SetHeader("Content-Type", "application/json")
}

// SetFormData sets a form-encoded request body.
func (r *HttpRequest) SetFormData(form map[string]string) *HttpRequest {
	values := url.Values{}
	for key, value := range form {
		values.Set(key, value)
	}
	r.formData = values
	return r.SetHeader("Content-Type", "application/x-www-form-urlencoded")
}

func (r *HttpRequest) buildHttpRequest(ctx context.Context) (*http.Request, error) {
	requestURL := r.URL
	if len(r.query) > 0 {
		parsed, err := url.Parse(r.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid request URL %q: %w", r.URL, err)
		}
		q := parsed.Query()
		for key, values := range r.query {
			for _, value := range values {
				q.Add(key, value)
			}
		}
		parsed.RawQuery = q.Encode()
		requestURL = parsed.String()
	}

	var body io.Reader
	switch {
	case r.jsonBody != nil:
		encoded, err := json.Marshal(r.jsonBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	case r.formData != nil:
		body = strings.NewReader(r.formData.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, requestURL, body)
	if err != nil {
		return nil, err
	}
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}
