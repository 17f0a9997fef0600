// Package manualdata loads the curated override document: hand-maintained
// facts keyed by EIN that the public registries do not carry, such as the
// Form 990 functional expense split and Charity Navigator ratings.
package manualdata

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store reads the manual data document lazily and exactly once. A missing
// file is an empty store, not an error; a malformed file is reported through
// Err after the first access.
type Store struct {
	path string

	once sync.Once
	data map[string]any
	err  error
}

// NewStore creates a store over the document at path. Nothing is read until
// the first Lookup.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() {
	s.once.Do(func() {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				s.data = map[string]any{}
				return
			}
			s.err = fmt.Errorf("read manual data %s: %w", s.path, err)
			return
		}

		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			s.err = fmt.Errorf("parse manual data %s: %w", s.path, err)
			return
		}
		if doc == nil {
			doc = map[string]any{}
		}
		s.data = doc
	})
}

// Lookup returns the raw value at a dot-path under the given EIN, or nil when
// any path segment is absent. The EIN key must already be normalized.
func (s *Store) Lookup(dotPath, ein string) any {
	s.load()
	if s.err != nil || ein == "" {
		return nil
	}

	node, ok := s.data[ein]
	if !ok {
		return nil
	}

	for _, segment := range strings.Split(dotPath, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return node
}

// Err reports a read or parse failure from the one-time load. Lookups after
// a failed load return nil; callers who care check Err once up front.
func (s *Store) Err() error {
	s.load()
	return s.err
}

// EINs lists the organizations present in the document, sorted.
func (s *Store) EINs() []string {
	s.load()
	if s.err != nil {
		return nil
	}
	out := make([]string, 0, len(s.data))
	for ein := range s.data {
		out = append(out, ein)
	}
	sort.Strings(out)
	return out
}
