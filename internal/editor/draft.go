package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

// ErrDraftNotFound is returned by DraftStore.Load when no draft exists.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is the autosaved state of a session. An open dialog is not part of
// it; a restored session starts with the dialog closed.
type Draft struct {
	SessionID   string                    `json:"session_id"`
	OwnerID     string                    `json:"owner_id"`
	ShowID      string                    `json:"show_id,omitempty"`
	Document    json.RawMessage           `json:"document"`
	TicketTypes []seatmap.TicketTypeDraft `json:"ticket_types"`
	Grid        bool                      `json:"grid"`
	SavedAt     time.Time                 `json:"saved_at"`
}

// DraftStore persists drafts outside the process so a session survives a
// restart or a sweep.
type DraftStore interface {
	Save(ctx context.Context, d Draft) error
	Load(ctx context.Context, sessionID string) (Draft, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisDraftStore keeps one JSON value per session under prefix:<id> with
// an expiry.
type RedisDraftStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewDraftStore returns a Redis store, or a NopDraftStore when rdb is nil.
func NewDraftStore(rdb *redis.Client, prefix string, ttl time.Duration) DraftStore {
	if rdb == nil {
		return NopDraftStore{}
	}
	return &RedisDraftStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisDraftStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *RedisDraftStore) Save(ctx context.Context, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.rdb.Set(ctx, s.key(d.SessionID), data, s.ttl).Err()
}

func (s *RedisDraftStore) Load(ctx context.Context, sessionID string) (Draft, error) {
	data, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Draft{}, ErrDraftNotFound
		}
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return d, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, s.key(sessionID)).Err()
}

// NopDraftStore is used when Redis is unavailable. Nothing is persisted.
type NopDraftStore struct{}

func (NopDraftStore) Save(context.Context, Draft) error { return nil }

func (NopDraftStore) Load(context.Context, string) (Draft, error) {
	return Draft{}, ErrDraftNotFound
}

func (NopDraftStore) Delete(context.Context, string) error { return nil }
