package cart

import (
	"context"
	"sync"

	domcart "example.com/storefront/internal/domain/cart"
)

// Snapshot is an immutable view of the cart handed to readers and listeners.
type Snapshot struct {
	Entries []domcart.Entry
	Total   float64
	Count   int64
}

func snapshotOf(s domcart.State) Snapshot {
	return Snapshot{
		Entries: s.Entries(),
		Total:   s.Total(),
		Count:   s.Count(),
	}
}

// Listener receives the cart after every mutation. It must not mutate the
// store it is subscribed to.
type Listener func(Snapshot)

// Store owns one session's cart. Mutations are serialized; reads always see
// the result of the last completed mutation.
type Store struct {
	mu        sync.Mutex
	state     domcart.State
	listeners map[uint64]Listener
	nextID    uint64
	bridge    *Bridge
	closed    bool

	// held while listeners run so deliveries keep mutation order
	notifyMu sync.Mutex
}

// NewStore creates a store hydrated through bridge. A nil bridge gives an
// in-memory cart. It fails only when the bridge cannot read storage.
func NewStore(ctx context.Context, bridge *Bridge) (*Store, error) {
	s := &Store{
		listeners: make(map[uint64]Listener),
		bridge:    bridge,
	}
	if bridge != nil {
		state, err := bridge.Load(ctx)
		if err != nil {
			return nil, err
		}
		s.state = state
	}
	return s, nil
}

func (s *Store) AddItem(product domcart.Product, quantity int64) domcart.Outcome {
	return s.apply(func(st domcart.State) (domcart.State, domcart.Outcome) {
		return st.Add(product, quantity)
	})
}

func (s *Store) RemoveItem(productID int64) domcart.Outcome {
	return s.apply(func(st domcart.State) (domcart.State, domcart.Outcome) {
		return st.Remove(productID)
	})
}

func (s *Store) SetQuantity(productID, quantity int64) domcart.Outcome {
	return s.apply(func(st domcart.State) (domcart.State, domcart.Outcome) {
		return st.SetQuantity(productID, quantity)
	})
}

func (s *Store) Clear() {
	s.apply(func(st domcart.State) (domcart.State, domcart.Outcome) {
		return st.Clear(), domcart.Outcome{Changed: !st.IsEmpty()}
	})
}

// Settle takes the ordered quantities out of the cart. Lines added or
// increased after the order was read stay in the cart.
func (s *Store) Settle(ordered []domcart.Entry) {
	s.apply(func(st domcart.State) (domcart.State, domcart.Outcome) {
		next := st
		changed := false
		for _, o := range ordered {
			e, ok := next.Find(o.Product.ID)
			if !ok {
				continue
			}
			var out domcart.Outcome
			next, out = next.SetQuantity(o.Product.ID, e.Quantity-o.Quantity)
			changed = changed || out.Changed
		}
		return next, domcart.Outcome{Changed: changed}
	})
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.state)
}

func (s *Store) State() domcart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Entries() []domcart.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Entries()
}

func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Total()
}

func (s *Store) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Count()
}

// Subscribe registers l for every later mutation. The returned func removes
// it and is safe to call more than once.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Close stops persistence after flushing the last state and drops all
// listeners. Later mutations still work in memory.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.listeners = make(map[uint64]Listener)
	bridge := s.bridge
	s.mu.Unlock()

	if bridge != nil {
		bridge.Close()
	}
}

func (s *Store) apply(mutate func(domcart.State) (domcart.State, domcart.Outcome)) domcart.Outcome {
	s.mu.Lock()
	next, out := mutate(s.state)
	if !out.Changed {
		s.mu.Unlock()
		return out
	}
	s.state = next
	if s.bridge != nil && !s.closed {
		s.bridge.Save(next)
	}
	snap := snapshotOf(next)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.notifyMu.Lock()
	s.mu.Unlock()

	defer s.notifyMu.Unlock()
	for _, l := range listeners {
		l(snap)
	}
	return out
}
