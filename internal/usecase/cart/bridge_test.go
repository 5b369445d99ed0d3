package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	domcart "example.com/storefront/internal/domain/cart"
)

func TestBridge_LoadMissingIsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := NewBridge(newMemStorage(), "guest:a", zap.New(core))
	defer b.Close()

	state := loadState(t, b)

	require.True(t, state.IsEmpty())
	require.Zero(t, logs.Len())
}

func TestBridge_LoadCorruptIsEmpty(t *testing.T) {
	tests := map[string][]byte{
		"garbage":   []byte("not json"),
		"duplicate": []byte(`[{"product":{"id":1,"stock":3},"quantity":1},{"product":{"id":1,"stock":3},"quantity":1}]`),
		"zero qty":  []byte(`[{"product":{"id":1,"stock":3},"quantity":0}]`),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			storage := newMemStorage()
			storage.data["guest:a"] = data
			core, logs := observer.New(zapcore.WarnLevel)
			b := NewBridge(storage, "guest:a", zap.New(core))
			defer b.Close()

			state := loadState(t, b)

			require.True(t, state.IsEmpty())
			require.Equal(t, 1, logs.FilterMessage("discarding unreadable cart snapshot").Len())
		})
	}
}

func TestBridge_LoadStorageErrorIsReturned(t *testing.T) {
	storage := newMemStorage()
	storage.loadErr = errors.New("disk on fire")
	core, logs := observer.New(zapcore.WarnLevel)
	b := NewBridge(storage, "user:1", zap.New(core))
	defer b.Close()

	state, err := b.Load(context.Background())

	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorContains(t, err, "disk on fire")
	require.True(t, state.IsEmpty())
	require.Equal(t, 1, logs.FilterMessage("load cart snapshot").Len())
}

func TestBridge_LoadOutlivesCallerContext(t *testing.T) {
	storage := newMemStorage()
	saved, _ := domcart.State{}.Add(runner, 1)
	storage.put(t, "user:1", saved)
	b := NewBridge(storage, "user:1", nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := b.Load(ctx)

	require.NoError(t, err)
	require.Equal(t, int64(1), state.Count())
}

func TestStore_NotCreatedWhenStorageUnreadable(t *testing.T) {
	storage := newMemStorage()
	storage.loadErr = errors.New("read timeout")
	b := NewBridge(storage, "user:1", nil)
	defer b.Close()

	s, err := NewStore(context.Background(), b)

	require.ErrorIs(t, err, ErrUnavailable)
	require.Nil(t, s)
}

func TestBridge_SaveThenLoadRoundTrips(t *testing.T) {
	storage := newMemStorage()
	state, _ := domcart.State{}.Add(runner, 3)
	state, _ = state.Add(sandal, 1)

	b := NewBridge(storage, "user:1", nil)
	b.Save(state)
	b.Close()

	reloaded := NewBridge(storage, "user:1", nil)
	defer reloaded.Close()
	got := loadState(t, reloaded)

	require.Equal(t, state.Entries(), got.Entries())
	require.Equal(t, state.Total(), got.Total())
}

func TestBridge_SaveDoesNotBlockAndLatestWins(t *testing.T) {
	storage := newMemStorage()
	storage.gate = make(chan struct{})
	storage.entered = make(chan struct{}, 1)
	b := NewBridge(storage, "user:1", nil)

	first, _ := domcart.State{}.Add(runner, 1)
	b.Save(first)
	<-storage.entered

	// the writer is stuck in storage; these only replace the pending state
	state := first
	for i := 0; i < 4; i++ {
		state, _ = state.Add(sandal, 1)
		b.Save(state)
	}

	close(storage.gate)
	b.Close()

	saves, _ := storage.counts()
	require.Equal(t, 2, saves)
	got, ok := storage.stored("user:1")
	require.True(t, ok)
	require.Equal(t, state.Entries(), got.Entries())
}

func TestBridge_EmptyStateDeletes(t *testing.T) {
	storage := newMemStorage()
	full, _ := domcart.State{}.Add(runner, 2)
	storage.put(t, "user:1", full)

	b := NewBridge(storage, "user:1", nil)
	b.Save(domcart.State{})
	b.Close()

	_, ok := storage.stored("user:1")
	require.False(t, ok)
	_, deletes := storage.counts()
	require.Equal(t, 1, deletes)
}

func TestBridge_DeleteOfMissingSnapshotIsQuiet(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	b := NewBridge(newMemStorage(), "guest:x", zap.New(core))
	b.Save(domcart.State{})
	b.Close()

	require.Zero(t, logs.Len())
}

func TestBridge_WriteFailureIsLoggedNotReturned(t *testing.T) {
	storage := newMemStorage()
	storage.saveErr = errors.New("connection reset")
	core, logs := observer.New(zapcore.ErrorLevel)
	b := NewBridge(storage, "user:9", zap.New(core))

	state, _ := domcart.State{}.Add(runner, 1)
	b.Save(state)
	b.Close()

	entries := logs.FilterMessage("persist cart snapshot").All()
	require.Len(t, entries, 1)
	require.Equal(t, "user:9", entries[0].ContextMap()["cart_key"])
}

func TestBridge_SaveAfterCloseIsIgnored(t *testing.T) {
	storage := newMemStorage()
	b := NewBridge(storage, "user:1", nil)
	b.Close()

	state, _ := domcart.State{}.Add(runner, 1)
	b.Save(state)
	b.Flush()
	b.Close()

	saves, deletes := storage.counts()
	require.Zero(t, saves)
	require.Zero(t, deletes)
}
