// internal/domain/cart/syncer.go
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Observer is notified with the full item list after every cart mutation of a signed-in user.
type Observer interface {
	CartChanged(userID string, items []Item)
}

// Syncer mirrors session carts into the durable Repository off the request path.
// Pending snapshots are coalesced per user so only the newest one is written,
// and users are processed in the order they first became dirty.
type Syncer struct {
	repo    Repository
	log     logrus.FieldLogger
	timeout time.Duration

	mu      sync.Mutex
	pending map[string][]Item
	queue   []string
	idle    chan struct{}
	wake    chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewSyncer(repo Repository, log logrus.FieldLogger) *Syncer {
	idle := make(chan struct{})
	close(idle)
	return &Syncer{
		repo:    repo,
		log:     log,
		timeout: 10 * time.Second,
		pending: make(map[string][]Item),
		idle:    idle,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// CartChanged implements Observer. It never blocks on the database.
func (s *Syncer) CartChanged(userID string, items []Item) {
	if userID == "" {
		return
	}
	snapshot := append([]Item{}, items...)

	s.mu.Lock()
	if _, queued := s.pending[userID]; !queued {
		s.queue = append(s.queue, userID)
	}
	s.pending[userID] = snapshot
	select {
	case <-s.idle:
		s.idle = make(chan struct{})
	default:
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Start launches the worker goroutine.
func (s *Syncer) Start() {
	go s.run()
}

func (s *Syncer) run() {
	defer close(s.done)
	for {
		userID, items, ok := s.next()
		if ok {
			s.apply(userID, items)
			continue
		}
		select {
		case <-s.wake:
		case <-s.stop:
			return
		}
	}
}

func (s *Syncer) next() (string, []Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		select {
		case <-s.idle:
		default:
			close(s.idle)
		}
		return "", nil, false
	}
	userID := s.queue[0]
	s.queue = s.queue[1:]
	items := s.pending[userID]
	delete(s.pending, userID)
	return userID, items, true
}

func (s *Syncer) apply(userID string, items []Item) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var err error
	if len(items) == 0 {
		err = s.repo.DeleteForUser(ctx, userID)
	} else {
		err = s.repo.ReplaceForUser(ctx, userID, items)
	}
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"items":   len(items),
		}).Error("Failed to sync cart to database")
		return
	}
	s.log.WithField("user_id", userID).Debug("Cart synced to database")
}

// Flush blocks until every queued snapshot has been written or ctx ends.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown drains the queue and stops the worker.
func (s *Syncer) Shutdown(ctx context.Context) error {
	err := s.Flush(ctx)
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}
