// Package redisstore is a Redis-backed core.DocStore. Documents are
// stored as JSON strings keyed by their full path, so collection scans
// ride on key patterns.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/tspagiari/oficinas/core"
)

const opTimeout = 5 * time.Second

type Store struct {
	client *redis.Client
}

var _ core.DocStore = (*Store)(nil)

func Open(conf *core.Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         conf.Store.Redis.Addr,
		Password:     conf.Store.Redis.Password,
		DB:           conf.Store.Redis.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, core.NewNetworkError(err, "connecting to redis")
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Read(ctx context.Context, path string, dest interface{}) error {
	raw, err := s.client.Get(ctx, path).Bytes()
	if err == redis.Nil {
		return core.ErrDocAbsent
	} else if err != nil {
		return core.NewNetworkError(err, "reading document")
	}
	return errors.Wrap(json.Unmarshal(raw, dest), "decoding document")
}

func (s *Store) Write(ctx context.Context, path string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	if err = s.client.Set(ctx, path, raw, 0).Err(); err != nil {
		return core.NewNetworkError(err, "writing document")
	}
	return nil
}

// Merge is read-modify-write; last writer wins on concurrent merges of
// the same document, matching the other backends.
func (s *Store) Merge(ctx context.Context, path string, fields map[string]interface{}) error {
	doc := make(map[string]interface{})
	raw, err := s.client.Get(ctx, path).Bytes()
	if err == nil {
		if err = json.Unmarshal(raw, &doc); err != nil {
			return errors.Wrap(err, "decoding document")
		}
	} else if err != redis.Nil {
		return core.NewNetworkError(err, "reading document")
	}

	for k, v := range fields {
		doc[k] = v
	}
	return s.Write(ctx, path, doc)
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, path).Err(); err != nil {
		return core.NewNetworkError(err, "deleting document")
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, collection string, dest interface{}) error {
	raws, err := s.scanRaw(ctx, collection)
	if err != nil {
		return err
	}
	return decodeList(raws, dest)
}

func (s *Store) ScanWhere(ctx context.Context, collection, field, equals string, dest interface{}) error {
	raws, err := s.scanRaw(ctx, collection)
	if err != nil {
		return err
	}

	matches := make([]json.RawMessage, 0, len(raws))
	for _, raw := range raws {
		var doc map[string]interface{}
		if err = json.Unmarshal(raw, &doc); err != nil {
			return errors.Wrap(err, "decoding document")
		}
		if val, _ := doc[field].(string); val == equals {
			matches = append(matches, raw)
		}
	}
	return decodeList(matches, dest)
}

func (s *Store) scanRaw(ctx context.Context, collection string) ([]json.RawMessage, error) {
	keys := make([]string, 0)
	iter := s.client.Scan(ctx, 0, collection+"/*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, core.NewNetworkError(err, "scanning collection")
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, core.NewNetworkError(err, "fetching documents")
	}
	raws := make([]json.RawMessage, 0, len(vals))
	for _, val := range vals {
		if str, ok := val.(string); ok { // skip keys deleted mid-scan
			raws = append(raws, json.RawMessage(str))
		}
	}
	return raws, nil
}

func decodeList(raws []json.RawMessage, dest interface{}) error {
	arr, err := json.Marshal(raws)
	if err != nil {
		return errors.Wrap(err, "encoding documents")
	}
	return errors.Wrap(json.Unmarshal(arr, dest), "decoding documents")
}
