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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultTokenStorageDir is where token sets are cached between runs.
const DefaultTokenStorageDir = ".neris/tokens"

// TokenStore persists token sets across client instances. Storage failures
// must degrade to a cache miss, never fail the authentication flow.
type TokenStore interface {
	Load(key string) (*TokenSet, bool)
	Store(key string, tokens *TokenSet)
	Invalidate(key string)
}

// FileTokenStore keeps token sets as JSON files under a directory, with an
// in-memory layer in front of the disk. Filenames are derived from a hash of
// the identity key so credentials never leak into the directory listing.
type FileTokenStore struct {
	dir     string
	enabled bool

	mu    sync.RWMutex
	cache map[string]*TokenSet
}

var _ TokenStore = (*FileTokenStore)(nil)

// NewFileTokenStore returns a store rooted at dir. A disabled store loads
// nothing and stores nothing, which is how NERIS_USE_CACHE=false is honored.
func NewFileTokenStore(dir string, enabled bool) *FileTokenStore {
	if dir == "" {
		dir = DefaultTokenStorageDir
	}
	return &FileTokenStore{
		dir:     dir,
		enabled: enabled,
		cache:   make(map[string]*TokenSet),
	}
}

func (s *FileTokenStore) Load(key string) (*TokenSet, bool) {
	if !s.enabled {
		return nil, false
	}

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, true
	}

	data, err := os.ReadFile(s.tokenPath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read cached tokens", "path", s.tokenPath(key), "error", err)
		}
		return nil, false
	}

	tokens := &TokenSet{}
	if err := json.Unmarshal(data, tokens); err != nil {
		slog.Warn("Discarding unreadable token cache entry", "path", s.tokenPath(key), "error", err)
		return nil, false
	}

	s.mu.Lock()
	s.cache[key] = tokens
	s.mu.Unlock()
	return tokens, true
}

func (s *FileTokenStore) Store(key string, tokens *TokenSet) {
	if !s.enabled || tokens == nil {
		return
	}

	s.mu.Lock()
	s.cache[key] = tokens
	s.mu.Unlock()

	if err := s.writeFile(key, tokens); err != nil {
		slog.Warn("Failed to persist tokens, continuing with in-memory copy", "error", err)
	}
}

func (s *FileTokenStore) Invalidate(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if err := os.Remove(s.tokenPath(key)); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove cached tokens", "path", s.tokenPath(key), "error", err)
	}
}

// writeFile writes atomically: marshal to a temp file in the target
// directory, then rename over the final path, so a crash mid-write never
// leaves a truncated cache entry.
func (s *FileTokenStore) writeFile(key string, tokens *TokenSet) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tokens-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.tokenPath(key))
}

func (s *FileTokenStore) tokenPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:16])+".json")
}
