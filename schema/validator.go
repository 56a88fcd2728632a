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

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPayload is wrapped by every ValidationError.
var ErrInvalidPayload = errors.New("invalid payload")

// ValidationError reports every model constraint a payload violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payload validation failed: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPayload
}

// Validator checks outbound payloads against the model constraints and
// decodes API responses into typed models. The client core depends only on
// this interface, so regenerated models never change its contract.
type Validator interface {
	Validate(v any) error
	Decode(data []byte, into any) error
}

type modelValidator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator backed by the model struct tags.
func NewValidator() Validator {
	return &modelValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (m *modelValidator) Validate(v any) error {
	if v == nil {
		return nil
	}
	// Only structs carry constraints; raw maps and slices pass through.
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := m.validate.Struct(rv.Interface())
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("failed to validate payload: %w", err)
	}
	problems := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		problems = append(problems, fmt.Sprintf("%s failed on the %q rule", fieldError.Namespace(), fieldError.Tag()))
	}
	return &ValidationError{Problems: problems}
}

func (m *modelValidator) Decode(data []byte, into any) error {
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return m.Validate(into)
}
