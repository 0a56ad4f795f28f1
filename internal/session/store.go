package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/novalabs/nova-backend/internal/store"
)

// StorageKey is the document the whole session list lives under, matching
// the layout the browser prototype used.
const StorageKey = "nova_chat_history"

var ErrNotFound = errors.New("session: not found")

// Store persists the session list as one flat JSON array behind the KV
// port. Read-modify-write per call; single-writer deployments only.
type Store struct {
	kv store.KV
}

func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// List returns all sessions newest-first. Missing or malformed storage
// yields an empty list, never an error.
func (s *Store) List(ctx context.Context) []Session {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil || !ok {
		if err != nil {
			log.Printf("[session] read storage: %v", err)
		}
		return []Session{}
	}

	var sessions []Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		log.Printf("[session] malformed storage, starting fresh: %v", err)
		return []Session{}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions
}

// Get finds one session by id.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	for _, sess := range s.List(ctx) {
		if sess.ID == id {
			return sess, nil
		}
	}
	return Session{}, ErrNotFound
}

// Save upserts by id: replace in place when present, prepend when new.
func (s *Store) Save(ctx context.Context, sess Session) error {
	sessions := s.List(ctx)

	replaced := false
	for i := range sessions {
		if sessions[i].ID == sess.ID {
			sessions[i] = sess
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append([]Session{sess}, sessions...)
	}

	return s.write(ctx, sessions)
}

// Delete removes by id. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	sessions := s.List(ctx)
	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	return s.write(ctx, kept)
}

// CreateEmpty allocates a fresh session; it is not persisted until the
// caller saves it.
func (s *Store) CreateEmpty() (Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
		Preview:   "New Conversation",
		Messages:  []Message{},
	}, nil
}

func (s *Store) write(ctx context.Context, sessions []Session) error {
	b, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StorageKey, string(b))
}
