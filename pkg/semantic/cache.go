// Copyright 2025 The Serpent Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package semantic

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// memo computes a value at most once per key, even when several goroutines
// ask for the same key at the same time.
type memo[V any] struct {
	mu      sync.RWMutex
	entries map[string]V

	group singleflight.Group
}

func newMemo[V any]() *memo[V] {
	return &memo[V]{entries: make(map[string]V)}
}

// get returns the value for key, calling compute on the first request. The
// boolean reports whether the value was computed by another caller.
func (m *memo[V]) get(key string, compute func() V) (V, bool) {
	m.mu.RLock()
	if v, ok := m.entries[key]; ok {
		m.mu.RUnlock()
		return v, true
	}
	m.mu.RUnlock()

	// singleflight ensures only one goroutine computes per key; callers that
	// joined the flight share its result without having computed it
	computed := false
	res, _, _ := m.group.Do(key, func() (interface{}, error) {
		m.mu.RLock()
		// check again inside singleflight
		if v, ok := m.entries[key]; ok {
			m.mu.RUnlock()
			return v, nil
		}
		m.mu.RUnlock()

		v := compute()
		computed = true

		m.mu.Lock()
		m.entries[key] = v
		m.mu.Unlock()

		return v, nil
	})

	return res.(V), !computed
}

// len returns the number of computed keys.
func (m *memo[V]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
