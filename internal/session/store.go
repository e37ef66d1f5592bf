// Package session persists the per-user client state that outlives a single
// request: the AI chat session id with its sliding expiry. Storage is a local
// sqlite file, the engine's stand-in for the browser's persistent storage.
package session

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ChatSessionTTL is the sliding expiry of a chat session: refreshed on every
// successful send, discarded on the first read after it lapses.
const ChatSessionTTL = 5 * time.Minute

const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
    user_key   TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
`

type Store struct {
	db *sqlx.DB

	// now is swapped in tests to drive expiry.
	now func() time.Time
}

// Open opens (or creates) the state database at path and bootstraps the
// schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap state db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SetNow overrides the store's clock. Test hook.
func (s *Store) SetNow(fn func() time.Time) { s.now = fn }

// UserKey derives the per-user row key from the opaque bearer token. The
// token is never stored, only its digest.
func UserKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// Get returns the stored chat session for userKey. The expiry check runs on
// every read; a lapsed row is deleted and reported as absent so the caller
// silently starts a fresh upstream session.
func (s *Store) Get(userKey string) (sessionID string, ok bool, err error) {
	var row struct {
		SessionID string `db:"session_id"`
		ExpiresAt int64  `db:"expires_at"`
	}
	err = s.db.Get(&row, `SELECT session_id, expires_at FROM chat_sessions WHERE user_key = ?`, userKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read chat session: %w", err)
	}
	if s.now().Unix() > row.ExpiresAt {
		if _, err := s.db.Exec(`DELETE FROM chat_sessions WHERE user_key = ?`, userKey); err != nil {
			return "", false, fmt.Errorf("failed to discard expired chat session: %w", err)
		}
		return "", false, nil
	}
	return row.SessionID, true, nil
}

// Put stores sessionID for userKey and (re)starts the sliding expiry window.
func (s *Store) Put(userKey, sessionID string) error {
	expires := s.now().Add(ChatSessionTTL).Unix()
	_, err := s.db.Exec(`INSERT INTO chat_sessions (user_key, session_id, expires_at) VALUES (?, ?, ?)
	                     ON CONFLICT(user_key) DO UPDATE SET session_id = excluded.session_id, expires_at = excluded.expires_at`,
		userKey, sessionID, expires)
	if err != nil {
		return fmt.Errorf("failed to store chat session: %w", err)
	}
	return nil
}

// Clear drops the stored session for userKey, if any.
func (s *Store) Clear(userKey string) error {
	if _, err := s.db.Exec(`DELETE FROM chat_sessions WHERE user_key = ?`, userKey); err != nil {
		return fmt.Errorf("failed to clear chat session: %w", err)
	}
	return nil
}
