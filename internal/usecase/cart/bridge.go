package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	domcart "example.com/storefront/internal/domain/cart"
)

const defaultSaveTimeout = 5 * time.Second

// Bridge mirrors one session's cart into a Storage. Writes happen on a
// background goroutine; only the latest pending state is written.
type Bridge struct {
	storage domcart.Storage
	key     string
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending *domcart.State
	closed  bool

	writeMu sync.Mutex
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
}

type BridgeOption func(*Bridge)

// WithSaveTimeout bounds every storage write.
func WithSaveTimeout(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

func NewBridge(storage domcart.Storage, key string, logger *zap.Logger, opts ...BridgeOption) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		storage: storage,
		key:     key,
		logger:  logger.With(zap.String("cart_key", key)),
		timeout: defaultSaveTimeout,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

// ErrUnavailable means the stored cart could not be read. The session is not
// opened so the stored cart is never overwritten by an empty one.
var ErrUnavailable = errors.New("cart storage unavailable")

// Load returns the stored cart. Missing or corrupt data yields an empty cart;
// any other storage failure is returned wrapped in ErrUnavailable. The read
// is bounded by the save timeout and survives cancellation of ctx.
func (b *Bridge) Load(ctx context.Context) (domcart.State, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	data, err := b.storage.Load(ctx, b.key)
	if err != nil {
		if errors.Is(err, domcart.ErrSnapshotNotFound) {
			return domcart.State{}, nil
		}
		b.logger.Warn("load cart snapshot", zap.Error(err))
		return domcart.State{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return decodeSnapshot(data, b.logger), nil
}

func decodeSnapshot(data []byte, logger *zap.Logger) domcart.State {
	state, err := domcart.Unmarshal(data)
	if err != nil {
		logger.Warn("discarding unreadable cart snapshot", zap.Error(err))
		return domcart.State{}
	}
	return state
}

// Save queues state for writing and returns immediately.
func (b *Bridge) Save(state domcart.State) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debug("save after close ignored")
		return
	}
	b.pending = &state
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Flush writes the pending state, if any, before returning.
func (b *Bridge) Flush() {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.mu.Lock()
	state := b.pending
	b.pending = nil
	b.mu.Unlock()
	if state == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.write(ctx, *state); err != nil {
		b.logger.Error("persist cart snapshot", zap.Error(err))
	}
}

// Close flushes the last queued state and stops the writer.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.quit)
	<-b.done
	b.Flush()
}

func (b *Bridge) run() {
	defer close(b.done)
	for {
		select {
		case <-b.wake:
			b.Flush()
		case <-b.quit:
			return
		}
	}
}

func (b *Bridge) write(ctx context.Context, state domcart.State) error {
	if state.IsEmpty() {
		err := b.storage.Delete(ctx, b.key)
		if errors.Is(err, domcart.ErrSnapshotNotFound) {
			return nil
		}
		return err
	}
	data, err := domcart.Marshal(state)
	if err != nil {
		return err
	}
	return b.storage.Save(ctx, b.key, data)
}
