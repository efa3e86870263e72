// Package memory provides a SQLite translation memory. It is a cache: locale
// files stay the source of truth, and a remembered value is reused only for
// the exact source text it was translated from.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentstation/lexicon/pkg/coerce"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/translate"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	locale      TEXT NOT NULL,
	label_key   TEXT NOT NULL,
	source_text TEXT NOT NULL,
	value       TEXT NOT NULL,
	provider    TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (locale, label_key, source_text)
)`

// Store implements translate.Memory on SQLite.
type Store struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	closed bool
}

var _ translate.Memory = (*Store)(nil)

// Open opens or creates the memory database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapResource("open", "translation memory", path, err)
	}
	// one writer; locales running in parallel queue on the connection
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.WrapResource("initialize", "translation memory", path, err)
		}
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Lookup implements translate.Memory. A blank stored value is a miss.
func (s *Store) Lookup(ctx context.Context, locale string, item translate.Item) (any, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM translations WHERE locale = ? AND label_key = ? AND source_text = ?`,
		locale, item.Key, item.Text,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapResource("lookup", "translation", locale+"/"+item.Key, err)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, errors.WrapParse("json", s.path, err)
	}
	if coerce.IsBlank(v) {
		return nil, false, nil
	}
	return v, true, nil
}

// Save implements translate.Memory. Existing entries are replaced and blank
// values are not stored.
func (s *Store) Save(ctx context.Context, locale, provider string, entries []translate.Entry) error {
	kept := entries[:0:0]
	for _, e := range entries {
		if !coerce.IsBlank(e.Value) {
			kept = append(kept, e)
		}
	}
	entries = kept
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", s.path, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO translations (locale, label_key, source_text, value, provider, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (locale, label_key, source_text) DO UPDATE SET
			value = excluded.value,
			provider = excluded.provider,
			updated_at = excluded.updated_at`)
	if err != nil {
		return errors.WrapResource("prepare", "statement", "insert translation", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		value, err := json.Marshal(e.Value)
		if err != nil {
			return errors.WrapParse("json", e.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, locale, e.Key, e.Text, string(value), provider, now); err != nil {
			return errors.WrapResource("save", "translation", locale+"/"+e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", s.path, err)
	}
	return nil
}

// Count returns the number of remembered translations for locale, or for all
// locales when locale is empty.
func (s *Store) Count(ctx context.Context, locale string) (int, error) {
	query := `SELECT COUNT(*) FROM translations`
	args := []any{}
	if locale != "" {
		query += ` WHERE locale = ?`
		args = append(args, locale)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.WrapResource("count", "translations", locale, err)
	}
	return n, nil
}

// Forget removes every remembered translation for locale.
func (s *Store) Forget(ctx context.Context, locale string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE locale = ?`, locale)
	if err != nil {
		return 0, errors.WrapResource("delete", "translations", locale, err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
