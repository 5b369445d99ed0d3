package cart

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes the state as a JSON array of {product, quantity} records.
// The format carries no version.
func Marshal(s State) ([]byte, error) {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// Unmarshal decodes data produced by Marshal and rejects anything that breaks
// the cart invariants.
func Unmarshal(data []byte) (State, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return State{}, fmt.Errorf("decode cart: %w", err)
	}
	s := NewState(entries)
	if err := s.Validate(); err != nil {
		return State{}, fmt.Errorf("decode cart: %w", err)
	}
	return s, nil
}
