package internal

import (
	"context"
	"database/sql"
	"encoding/json"
)

// sessionIndexKey is the fixed key of the single logical record holding the
// ordered session-id index.
const sessionIndexKey = "sessionIds"

// SessionStore persists the ordered index of known session ids
// (most-recently-added first) in the local database.
//
// Every mutation is a full read-modify-write of the single index record, so
// two concurrent writers can race and the last write wins. That is a known
// limitation, accepted because a single active client is the deployment
// target; the store does not attempt locking.
type SessionStore struct {
	db   *sql.DB
	path string
}

// NewSessionStore creates a SessionStore over an open database.
func NewSessionStore(db *sql.DB, path string) *SessionStore {
	return &SessionStore{db: db, path: path}
}

// SessionIDs returns the session-id index, most recent first. A missing
// record reads as an empty index.
func (s *SessionStore) SessionIDs(ctx context.Context) ([]string, error) {
	value, ok, err := GetKV(ctx, s.db, sessionIndexKey)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	if !ok {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	return ids, nil
}

// AddSessionID prepends id to the index. A no-op when the id is already
// present; the index never holds duplicates.
func (s *SessionStore) AddSessionID(ctx context.Context, id string) error {
	ids, err := s.SessionIDs(ctx)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return s.write(ctx, append([]string{id}, ids...))
}

// RemoveSessionID filters id out of the index, preserving the relative order
// of the remainder. Tolerant of an id that is not present.
func (s *SessionStore) RemoveSessionID(ctx context.Context, id string) error {
	ids, err := s.SessionIDs(ctx)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(ids) {
		return nil
	}
	return s.write(ctx, kept)
}

// Clear resets the index to empty.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.write(ctx, []string{})
}

func (s *SessionStore) write(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	if err := PutKV(ctx, s.db, sessionIndexKey, string(data)); err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}
