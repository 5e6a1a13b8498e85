// Package pgstore is a PostgreSQL-backed core.DocStore. Every document
// is a row in a single documents table, path as primary key and the
// body as JSONB, so merges happen server side with the || operator.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/tspagiari/oficinas/core"
	appfs "github.com/tspagiari/oficinas/fs"
)

const opTimeout = 5 * time.Second

type Store struct {
	db *sqlx.DB
}

var _ core.DocStore = (*Store)(nil)

func Open(conf *core.Config) (*Store, error) {
	sslMode := "require"
	if conf.Store.Postgres.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Store.Postgres.User, conf.Store.Postgres.Password),
		Host:     conf.Store.Postgres.Address(),
		Path:     conf.Store.Postgres.Name,
		RawQuery: q.Encode(),
	}
	db, err := sqlx.Connect("postgres", u.String())
	if err != nil {
		return nil, core.NewNetworkError(err, "connecting to database")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw handle for migration tooling.
func (s *Store) DB() *sql.DB { return s.db.DB }

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate() error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	return errors.Wrap(goose.Up(s.db.DB, "migrations"), "applying migrations")
}

func (s *Store) Read(ctx context.Context, path string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT doc FROM documents WHERE path = $1`, path)
	if err == sql.ErrNoRows {
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

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, doc) VALUES ($1, $2)
		ON CONFLICT (path) DO UPDATE SET doc = EXCLUDED.doc`,
		path, raw,
	)
	if err != nil {
		return core.NewNetworkError(err, "writing document")
	}
	return nil
}

// Merge upserts: when the document is absent the overlay becomes the
// whole document, otherwise JSONB concatenation overwrites the given
// top-level keys.
func (s *Store) Merge(ctx context.Context, path string, fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "encoding merge fields")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, doc) VALUES ($1, $2)
		ON CONFLICT (path) DO UPDATE SET doc = documents.doc || EXCLUDED.doc`,
		path, raw,
	)
	if err != nil {
		return core.NewNetworkError(err, "merging document")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = $1`, path); err != nil {
		return core.NewNetworkError(err, "deleting document")
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, collection string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var raws [][]byte
	err := s.db.SelectContext(ctx, &raws,
		`SELECT doc FROM documents WHERE path LIKE $1 || '/%'`, collection)
	if err != nil {
		return core.NewNetworkError(err, "scanning collection")
	}
	return decodeList(raws, dest)
}

func (s *Store) ScanWhere(ctx context.Context, collection, field, equals string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var raws [][]byte
	err := s.db.SelectContext(ctx, &raws,
		`SELECT doc FROM documents WHERE path LIKE $1 || '/%' AND doc->>$2 = $3`,
		collection, field, equals)
	if err != nil {
		return core.NewNetworkError(err, "scanning collection")
	}
	return decodeList(raws, dest)
}

func decodeList(raws [][]byte, dest interface{}) error {
	list := make([]json.RawMessage, len(raws))
	for i, raw := range raws {
		list[i] = raw
	}
	arr, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "encoding documents")
	}
	return errors.Wrap(json.Unmarshal(arr, dest), "decoding documents")
}
