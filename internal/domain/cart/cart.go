package cart

import "errors"

// Product is the catalog snapshot captured when an item is added. It is not
// refreshed when the catalog row changes.
type Product struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int64   `json:"stock"`
	Image      string  `json:"image,omitempty"`
	SellerID   int64   `json:"seller_id,omitempty"`
	CategoryID int64   `json:"category_id,omitempty"`
}

type Entry struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// Subtotal is price × quantity for the line.
func (e Entry) Subtotal() float64 {
	return e.Product.Price * float64(e.Quantity)
}

// State is the ordered list of cart lines, at most one per product ID.
type State struct {
	entries []Entry
}

var (
	ErrDuplicateEntry  = errors.New("duplicate cart entry")
	ErrInvalidQuantity = errors.New("invalid cart quantity")
)

// NewState builds a State from decoded entries. The slice is copied.
func NewState(entries []Entry) State {
	s := State{entries: make([]Entry, len(entries))}
	copy(s.entries, entries)
	return s
}

func (s State) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s State) Len() int { return len(s.entries) }

func (s State) IsEmpty() bool { return len(s.entries) == 0 }

func (s State) Total() float64 {
	var total float64
	for _, e := range s.entries {
		total += e.Subtotal()
	}
	return total
}

func (s State) Count() int64 {
	var count int64
	for _, e := range s.entries {
		count += e.Quantity
	}
	return count
}

func (s State) Find(productID int64) (Entry, bool) {
	if i := s.index(productID); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// Validate reports whether the state holds the cart invariants. Loaded state
// that fails it is discarded.
func (s State) Validate() error {
	seen := make(map[int64]struct{}, len(s.entries))
	for _, e := range s.entries {
		if _, ok := seen[e.Product.ID]; ok {
			return ErrDuplicateEntry
		}
		seen[e.Product.ID] = struct{}{}
		if e.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

func (s State) index(productID int64) int {
	for i, e := range s.entries {
		if e.Product.ID == productID {
			return i
		}
	}
	return -1
}
