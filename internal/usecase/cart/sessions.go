package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domcart "example.com/storefront/internal/domain/cart"
)

// UserKey is the session key of a signed-in buyer's cart.
func UserKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// GuestKey is the session key of an anonymous cart.
func GuestKey(sessionID string) string {
	return "guest:" + sessionID
}

type session struct {
	store    *Store
	lastUsed time.Time
}

// Sessions keeps one live Store per session key.
type Sessions struct {
	storage     domcart.Storage
	logger      *zap.Logger
	saveTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	stores    map[string]*session
	hydrating singleflight.Group
}

func NewSessions(storage domcart.Storage, logger *zap.Logger, saveTimeout time.Duration) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{
		storage:     storage,
		logger:      logger,
		saveTimeout: saveTimeout,
		now:         time.Now,
		stores:      make(map[string]*session),
	}
}

// Open returns the live store for key, hydrating it from storage on first
// use. Hydration runs outside the registry lock and once per key, so a slow
// read only holds up callers of the same key.
func (s *Sessions) Open(ctx context.Context, key string) (*Store, error) {
	if store := s.lookup(key); store != nil {
		return store, nil
	}

	v, err, _ := s.hydrating.Do(key, func() (any, error) {
		if store := s.lookup(key); store != nil {
			return store, nil
		}
		bridge := NewBridge(s.storage, key, s.logger, WithSaveTimeout(s.saveTimeout))
		store, err := NewStore(ctx, bridge)
		if err != nil {
			bridge.Close()
			return nil, err
		}

		s.mu.Lock()
		s.stores[key] = &session{store: store, lastUsed: s.now()}
		s.mu.Unlock()
		s.logger.Debug("cart session opened", zap.String("cart_key", key), zap.Int64("count", store.Count()))
		return store, nil
	})
	if err != nil {
		return nil, fmt.Errorf("open cart %s: %w", key, err)
	}
	return v.(*Store), nil
}

// Peek returns the cart for key without opening a session. A key with no
// live store is read straight from storage.
func (s *Sessions) Peek(ctx context.Context, key string) (Snapshot, error) {
	if store := s.lookup(key); store != nil {
		return store.Snapshot(), nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout())
	defer cancel()
	data, err := s.storage.Load(ctx, key)
	if err != nil {
		if errors.Is(err, domcart.ErrSnapshotNotFound) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("peek cart %s: %w: %w", key, ErrUnavailable, err)
	}
	return snapshotOf(decodeSnapshot(data, s.logger.With(zap.String("cart_key", key)))), nil
}

// Merge moves every line of the from cart into the to cart with AddItem
// semantics and empties the from cart. When either cart cannot be opened
// nothing is moved.
func (s *Sessions) Merge(ctx context.Context, from, to string) (Snapshot, error) {
	dst, err := s.Open(ctx, to)
	if err != nil {
		return Snapshot{}, err
	}
	if from == to {
		return dst.Snapshot(), nil
	}
	src, err := s.Open(ctx, from)
	if err != nil {
		return dst.Snapshot(), err
	}
	for _, e := range src.Entries() {
		dst.AddItem(e.Product, e.Quantity)
	}
	src.Clear()
	s.drop(from)
	return dst.Snapshot(), nil
}

// Sweep closes stores idle for longer than maxIdle and reports how many.
// Stores with live subscribers are kept.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var idle []*Store
	for key, sess := range s.stores {
		if sess.lastUsed.Before(cutoff) && sess.store.subscribers() == 0 {
			idle = append(idle, sess.store)
			delete(s.stores, key)
		}
	}
	s.mu.Unlock()

	for _, store := range idle {
		store.Close()
	}
	return len(idle)
}

// Run sweeps idle stores every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval, maxIdle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				s.logger.Info("idle cart sessions closed", zap.Int("closed", n))
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// Close flushes and closes every live store.
func (s *Sessions) Close() {
	s.mu.Lock()
	stores := make([]*Store, 0, len(s.stores))
	for key, sess := range s.stores {
		stores = append(stores, sess.store)
		delete(s.stores, key)
	}
	s.mu.Unlock()

	for _, store := range stores {
		store.Close()
	}
}

func (s *Sessions) lookup(key string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.stores[key]
	if !ok {
		return nil
	}
	sess.lastUsed = s.now()
	return sess.store
}

func (s *Sessions) loadTimeout() time.Duration {
	if s.saveTimeout > 0 {
		return s.saveTimeout
	}
	return defaultSaveTimeout
}

func (s *Sessions) drop(key string) {
	s.mu.Lock()
	sess, ok := s.stores[key]
	delete(s.stores, key)
	s.mu.Unlock()
	if ok {
		sess.store.Close()
	}
}
