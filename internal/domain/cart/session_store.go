// internal/domain/cart/session_store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "cart:session:"
	maxUpdateRetries = 10
)

var ErrSessionConflict = errors.New("cart session was modified concurrently")

// SessionStore persists shopping sessions.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	// Update applies fn to the current session and stores the result atomically.
	Update(ctx context.Context, sessionID string, fn func(*Session) error) (*Session, error)
}

// RedisSessionStore keeps sessions as JSON blobs with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Load returns the stored session, or a fresh empty one when none exists.
func (r *RedisSessionStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	return r.read(ctx, r.client, sessionID)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisSessionStore) read(ctx context.Context, g getter, sessionID string) (*Session, error) {
	data, err := g.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return newSession(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode cart session: %w", err)
	}
	if sess.Items == nil {
		sess.Items = []Item{}
	}
	sess.SessionID = sessionID
	return &sess, nil
}

// Update runs an optimistic WATCH/MULTI transaction, retrying when another
// request touched the same session in between.
func (r *RedisSessionStore) Update(ctx context.Context, sessionID string, fn func(*Session) error) (*Session, error) {
	key := sessionKey(sessionID)
	var result *Session

	txf := func(tx *redis.Tx) error {
		sess, err := r.read(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to encode cart session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = sess
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrSessionConflict
}
