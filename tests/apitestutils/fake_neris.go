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

// Package apitestutils provides an in-process NERIS API double for
// end-to-end tests: a token endpoint implementing the password, MFA
// challenge, client credentials, and refresh grants, plus a small set of
// bearer-protected API routes.
package apitestutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Entity is the department record served by the fake API.
type Entity struct {
	NerisID string `json:"neris_id"`
	Name    string `json:"name"`
	FDID    string `json:"fdid,omitempty"`
	State   string `json:"state,omitempty"`
}

// Incident is the incident record served by the fake API.
type Incident struct {
	NerisIDIncident string `json:"neris_id_incident"`
	NerisIDEntity   string `json:"neris_id_entity"`
	IncidentNumber  string `json:"incident_number"`
	TypeIncident    string `json:"type_incident,omitempty"`
	Status          string `json:"status"`
}

// FakeNeris is an httptest-backed NERIS API double. Configure credentials
// and fixtures before the first request; inspect calls afterwards.
type FakeNeris struct {
	Server *httptest.Server

	// Accepted credentials.
	Username     string
	Password     string
	ClientID     string
	ClientSecret string

	// MFACode, when set, makes the password grant answer with an email_otp
	// challenge that must be solved with this code.
	MFACode string

	// TokenTTLSeconds is the expires_in of issued tokens.
	TokenTTLSeconds int

	mu           sync.Mutex
	counter      int
	tokenCalls   int
	grantTypes   []string
	sessions     map[string]bool
	validAccess  map[string]bool
	validRefresh map[string]bool
	entities     map[string]Entity
	incidents    map[string][]Incident
}

// NewFakeNeris starts the double with default credentials.
func NewFakeNeris() *FakeNeris {
	f := &FakeNeris{
		Username:        "chief@example.com",
		Password:        "hunter2",
		ClientID:        "client-id",
		ClientSecret:    "client-secret",
		TokenTTLSeconds: 3600,
		sessions:        make(map[string]bool),
		validAccess:     make(map[string]bool),
		validRefresh:    make(map[string]bool),
		entities:        make(map[string]Entity),
		incidents:       make(map[string][]Incident),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", f.handleToken)
	mux.HandleFunc("GET /health", f.handleHealth)
	mux.HandleFunc("GET /entity/{nerisID}", f.handleGetEntity)
	mux.HandleFunc("GET /incident/{nerisID}/list", f.handleListIncidents)
	f.Server = httptest.NewServer(mux)
	return f
}

func (f *FakeNeris) Close() {
	f.Server.Close()
}

// URL is the base URL clients should be configured with.
func (f *FakeNeris) URL() string {
	return f.Server.URL
}

// TokenCalls counts requests the token endpoint has received.
func (f *FakeNeris) TokenCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls
}

// GrantTypes lists the grant_type of every token request, in order.
func (f *FakeNeris) GrantTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.grantTypes...)
}

// RevokeAccessTokens invalidates every issued access token, simulating a
// server-side revocation. Refresh tokens stay valid.
func (f *FakeNeris) RevokeAccessTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validAccess = make(map[string]bool)
}

// AddEntity seeds a department record.
func (f *FakeNeris) AddEntity(entity Entity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entities[entity.NerisID] = entity
}

// AddIncident seeds an incident record for a department.
func (f *FakeNeris) AddIncident(incident Incident) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incidents[incident.NerisIDEntity] = append(f.incidents[incident.NerisIDEntity], incident)
}

func (f *FakeNeris) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls++
	grantType := r.PostForm.Get("grant_type")
	f.grantTypes = append(f.grantTypes, grantType)

	switch grantType {
	case "password":
		if r.PostForm.Get("username") != f.Username || r.PostForm.Get("password") != f.Password {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "invalid_grant", "error_description": "incorrect username or password",
			})
			return
		}
		if f.MFACode != "" {
			f.counter++
			session := fmt.Sprintf("session-%d", f.counter)
			f.sessions[session] = true
			writeJSON(w, http.StatusAccepted, map[string]any{
				"challenge_name": "email_otp", "session": session,
			})
			return
		}
		f.issueLocked(w)

	case "email_otp":
		session := r.PostForm.Get("session")
		if !f.sessions[session] {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "invalid_grant", "error_description": "unknown or expired session",
			})
			return
		}
		delete(f.sessions, session)
		if r.PostForm.Get("email_otp") != f.MFACode {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "invalid_grant", "error_description": "incorrect verification code",
			})
			return
		}
		f.issueLocked(w)

	case "client_credentials":
		id, secret, ok := r.BasicAuth()
		if !ok || id != f.ClientID || secret != f.ClientSecret {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "invalid_client", "error_description": "bad client credentials",
			})
			return
		}
		f.issueLocked(w)

	case "refresh_token":
		if !f.validRefresh[r.PostForm.Get("refresh_token")] {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "invalid_grant", "error_description": "refresh token not recognized",
			})
			return
		}
		f.issueLocked(w)

	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
	}
}

// issueLocked mints a token pair. Callers hold f.mu.
func (f *FakeNeris) issueLocked(w http.ResponseWriter) {
	f.counter++
	access := fmt.Sprintf("access-%d", f.counter)
	refresh := fmt.Sprintf("refresh-%d", f.counter)
	f.validAccess[access] = true
	f.validRefresh[refresh] = true
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    f.TokenTTLSeconds,
	})
}

func (f *FakeNeris) authorized(r *http.Request) bool {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	defer f.mu.Unlock()
	return token != "" && f.validAccess[token]
}

func (f *FakeNeris) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (f *FakeNeris) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid or expired token"})
		return
	}

	f.mu.Lock()
	entity, ok := f.entities[r.PathValue("nerisID")]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "entity not found"})
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (f *FakeNeris) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid or expired token"})
		return
	}

	f.mu.Lock()
	records := append([]Incident(nil), f.incidents[r.PathValue("nerisID")]...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
