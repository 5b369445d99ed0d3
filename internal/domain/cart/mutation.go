package cart

import "math"

// Outcome describes what a mutation did. Mutations never fail; out of range
// requests are clamped and Clamped tells the caller it happened.
type Outcome struct {
	ProductID int64
	Requested int64
	Applied   int64
	Clamped   bool
	Removed   bool
	Changed   bool
}

// Add inserts product or increments its existing line. The resulting quantity
// is capped at product.Stock; a cap below 1 drops the line. The stored snapshot
// is replaced by product, so the cap always uses the stock passed in.
func (s State) Add(product Product, quantity int64) (State, Outcome) {
	out := Outcome{ProductID: product.ID, Requested: quantity}
	if quantity < 1 {
		quantity = 1
		out.Clamped = true
	}

	i := s.index(product.ID)
	want := quantity
	if i >= 0 {
		existing := s.entries[i].Quantity
		if quantity > math.MaxInt64-existing {
			want = math.MaxInt64
		} else {
			want = existing + quantity
		}
	}
	applied := min(want, product.Stock)
	if applied < want {
		out.Clamped = true
	}

	if applied < 1 {
		if i < 0 {
			return s, out
		}
		out.Removed = true
		out.Changed = true
		return s.without(i), out
	}

	next := s.clone()
	if i >= 0 {
		out.Changed = next.entries[i].Quantity != applied || next.entries[i].Product != product
		next.entries[i] = Entry{Product: product, Quantity: applied}
	} else {
		out.Changed = true
		next.entries = append(next.entries, Entry{Product: product, Quantity: applied})
	}
	out.Applied = applied
	return next, out
}

// Remove drops the line for productID. Absent IDs are a no-op.
func (s State) Remove(productID int64) (State, Outcome) {
	out := Outcome{ProductID: productID}
	i := s.index(productID)
	if i < 0 {
		return s, out
	}
	out.Removed = true
	out.Changed = true
	return s.without(i), out
}

// SetQuantity replaces the quantity of an existing line, clamped into
// [1, stock]. Zero or less removes the line; absent IDs are a no-op.
func (s State) SetQuantity(productID, quantity int64) (State, Outcome) {
	out := Outcome{ProductID: productID, Requested: quantity}
	i := s.index(productID)
	if i < 0 {
		return s, out
	}
	if quantity <= 0 {
		out.Removed = true
		out.Changed = true
		return s.without(i), out
	}

	entry := s.entries[i]
	applied := min(quantity, entry.Product.Stock)
	if applied < 1 {
		out.Clamped = true
		out.Removed = true
		out.Changed = true
		return s.without(i), out
	}
	out.Clamped = applied != quantity
	out.Applied = applied
	if applied == entry.Quantity {
		return s, out
	}

	next := s.clone()
	next.entries[i].Quantity = applied
	out.Changed = true
	return next, out
}

func (s State) Clear() State {
	return State{}
}

func (s State) clone() State {
	return NewState(s.entries)
}

func (s State) without(i int) State {
	out := make([]Entry, 0, len(s.entries)-1)
	out = append(out, s.entries[:i]...)
	out = append(out, s.entries[i+1:]...)
	return State{entries: out}
}
