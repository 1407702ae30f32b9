/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cache stores API responses in memory and, optionally, as JSON
// files below a directory. Entries never expire.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"k8c.io/mchl/pkg/config"

	"github.com/sirupsen/logrus"
)

type Store struct {
	dir string
	log logrus.FieldLogger

	lock    sync.RWMutex
	entries map[string][]byte
}

// New returns a store. An empty dir keeps entries in memory only.
func New(dir string, log logrus.FieldLogger) (*Store, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, config.Errorf("Cannot use cache directory %q: %v", dir, err)
		}
	}

	return &Store{
		dir:     dir,
		log:     log,
		entries: map[string][]byte{},
	}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+".json")
}

// Get decodes the entry for key into dst and reports whether it existed.
// Unreadable or corrupt files are treated as misses.
func (s *Store) Get(key string, dst interface{}) bool {
	s.lock.RLock()
	data, ok := s.entries[key]
	s.lock.RUnlock()

	if !ok && s.dir != "" {
		var err error

		data, err = os.ReadFile(s.path(key))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.log.WithError(err).WithField("key", key).Warn("Failed to read cache entry")
			}
			return false
		}
	}

	if data == nil {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Ignoring corrupt cache entry")
		return false
	}

	if !ok {
		s.lock.Lock()
		s.entries[key] = data
		s.lock.Unlock()
	}

	return true
}

// Set stores value under key. Keys are slash-separated paths like
// "github/issues/42".
func (s *Store) Set(key string, value interface{}) error {
	if strings.Contains(key, "..") {
		return fmt.Errorf("invalid cache key %q", key)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %q: %w", key, err)
	}

	s.lock.Lock()
	s.entries[key] = data
	s.lock.Unlock()

	if s.dir == "" {
		return nil
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry %q: %w", key, err)
	}

	return nil
}
