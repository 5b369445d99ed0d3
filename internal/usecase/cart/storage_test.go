package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/internal/domain/cart"
)

type memStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	deletes int
	loads   int
	loadErr error
	saveErr error
	// per-key load failures
	failKeys map[string]error

	// when set, Load of slowKey signals loading and waits for release
	slowKey string
	loading chan struct{}
	release chan struct{}

	// when set, Save signals entered and waits for gate to close
	gate    chan struct{}
	entered chan struct{}
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (m *memStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	slow, loading, release := m.slowKey, m.loading, m.release
	m.mu.Unlock()
	if slow != "" && key == slow {
		loading <- struct{}{}
		<-release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if err := m.failKeys[key]; err != nil {
		return nil, err
	}
	data, ok := m.data[key]
	if !ok {
		return nil, domcart.ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	gate, entered := m.gate, m.entered
	m.mu.Unlock()
	if gate != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if _, ok := m.data[key]; !ok {
		return domcart.ErrSnapshotNotFound
	}
	delete(m.data, key)
	return nil
}

func (m *memStorage) put(t *testing.T, key string, state domcart.State) {
	t.Helper()
	data, err := domcart.Marshal(state)
	require.NoError(t, err)
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
}

// stored decodes the persisted cart for key. ok is false when nothing
// readable is stored.
func (m *memStorage) stored(key string) (domcart.State, bool) {
	m.mu.Lock()
	data, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return domcart.State{}, false
	}
	state, err := domcart.Unmarshal(data)
	if err != nil {
		return domcart.State{}, false
	}
	return state, true
}

func (m *memStorage) counts() (saves, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves, m.deletes
}

func waitStored(t *testing.T, m *memStorage, key string, count int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		s, ok := m.stored(key)
		return ok && s.Count() == count
	}, time.Second, 5*time.Millisecond)
}

var (
	runner = domcart.Product{ID: 1, Name: "Runner", Price: 500, Stock: 5}
	sandal = domcart.Product{ID: 2, Name: "Sandal", Price: 300, Stock: 10}
)

func newTestStore(t *testing.T, bridge *Bridge) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), bridge)
	require.NoError(t, err)
	return s
}

func openStore(t *testing.T, sessions *Sessions, key string) *Store {
	t.Helper()
	s, err := sessions.Open(context.Background(), key)
	require.NoError(t, err)
	return s
}

func loadState(t *testing.T, b *Bridge) domcart.State {
	t.Helper()
	state, err := b.Load(context.Background())
	require.NoError(t, err)
	return state
}
