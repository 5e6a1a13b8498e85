// Package inmemstore is a map-backed core.DocStore for tests and DEV.
package inmemstore

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/tspagiari/oficinas/core"
)

type Store struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

var _ core.DocStore = (*Store)(nil)

func New() *Store {
	return &Store{docs: make(map[string]json.RawMessage)}
}

func (s *Store) Read(ctx context.Context, path string, dest interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.docs[path]
	if !ok {
		return core.ErrDocAbsent
	}
	return errors.Wrap(json.Unmarshal(raw, dest), "decoding document")
}

func (s *Store) Write(ctx context.Context, path string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = raw
	return nil
}

// Merge overlays fields onto the document at path, creating it when
// absent (upsert, like the real store).
func (s *Store) Merge(ctx context.Context, path string, fields map[string]interface{}) error {
	overlay, err := normalize(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make(map[string]json.RawMessage)
	if raw, ok := s.docs[path]; ok {
		if err = json.Unmarshal(raw, &doc); err != nil {
			return errors.Wrap(err, "decoding document")
		}
	}
	for k, v := range overlay {
		doc[k] = v
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	s.docs[path] = raw
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

func (s *Store) Scan(ctx context.Context, collection string, dest interface{}) error {
	return s.scan(collection, "", "", dest)
}

func (s *Store) ScanWhere(ctx context.Context, collection, field, equals string, dest interface{}) error {
	return s.scan(collection, field, equals, dest)
}

func (s *Store) scan(collection, field, equals string, dest interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := collection + "/"
	matches := make([]json.RawMessage, 0)
	for path, raw := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		if field != "" {
			var doc map[string]interface{}
			if err := json.Unmarshal(raw, &doc); err != nil {
				return errors.Wrap(err, "decoding document")
			}
			if val, _ := doc[field].(string); val != equals {
				continue
			}
		}
		matches = append(matches, raw)
	}
	return decodeList(matches, dest)
}

// decodeList assembles raw documents into a JSON array and decodes it
// into dest (a pointer to a slice).
func decodeList(raws []json.RawMessage, dest interface{}) error {
	var buff bytes.Buffer
	buff.WriteByte('[')
	for i, raw := range raws {
		if i > 0 {
			buff.WriteByte(',')
		}
		buff.Write(raw)
	}
	buff.WriteByte(']')
	return errors.Wrap(json.Unmarshal(buff.Bytes(), dest), "decoding documents")
}

// normalize round-trips merge fields through JSON so overlays store
// the same encoding a full Write would.
func normalize(fields map[string]interface{}) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "encoding merge fields")
	}
	overlay := make(map[string]json.RawMessage, len(fields))
	if err = json.Unmarshal(raw, &overlay); err != nil {
		return nil, errors.Wrap(err, "decoding merge fields")
	}
	return overlay, nil
}
