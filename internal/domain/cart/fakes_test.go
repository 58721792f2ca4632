package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeRepo struct {
	mu      sync.Mutex
	rows    map[string][]Item
	err     error
	replays int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string][]Item)}
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]CartItem, 0, len(f.rows[userID]))
	for i, item := range f.rows[userID] {
		out = append(out, CartItem{ID: uint(i + 1), UserID: userID, ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out, nil
}

func (f *fakeRepo) ReplaceForUser(_ context.Context, userID string, items []Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replays++
	if f.err != nil {
		return f.err
	}
	f.rows[userID] = append([]Item{}, items...)
	return nil
}

func (f *fakeRepo) DeleteForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replays++
	if f.err != nil {
		return f.err
	}
	delete(f.rows, userID)
	return nil
}

func (f *fakeRepo) stored(userID string) []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Item{}, f.rows[userID]...)
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func quietLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

func flush(t *testing.T, s *Syncer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("syncer did not drain: %v", err)
	}
}
