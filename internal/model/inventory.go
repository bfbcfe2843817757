package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrInsufficientInventory is returned when a debit would take a count below zero.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// Inventory is a checked pool of block counts keyed by object type.
//
// It behaves as a value: Debit, Credit and Add return a new Inventory and
// never touch the receiver, so a copy handed to a callback or kept as a
// snapshot can not be changed behind its holder's back.
type Inventory struct {
	counts map[ObjectType]int
}

// NewInventory builds an inventory from counts. Negative counts are clamped to zero.
func NewInventory(counts map[ObjectType]int) Inventory {
	inv := Inventory{counts: make(map[ObjectType]int, len(counts))}
	for t, n := range counts {
		if n < 0 {
			n = 0
		}
		inv.counts[t] = n
	}
	return inv
}

// Count returns the number of units held for a type (zero if untracked).
func (inv Inventory) Count(t ObjectType) int {
	return inv.counts[t]
}

// Has reports whether the type is tracked at all, even with a zero count.
func (inv Inventory) Has(t ObjectType) bool {
	_, ok := inv.counts[t]
	return ok
}

// Debit removes one unit of t. The count must be strictly positive.
func (inv Inventory) Debit(t ObjectType) (Inventory, error) {
	if inv.counts[t] <= 0 {
		return inv, fmt.Errorf("%w: no %s left", ErrInsufficientInventory, t)
	}
	out := inv.Clone()
	out.counts[t]--
	return out, nil
}

// Credit returns one unit of t to the pool.
func (inv Inventory) Credit(t ObjectType) Inventory {
	return inv.Add(t, 1)
}

// Add adds n units of t. A negative n that would underflow clamps at zero.
func (inv Inventory) Add(t ObjectType, n int) Inventory {
	out := inv.Clone()
	v := out.counts[t] + n
	if v < 0 {
		v = 0
	}
	out.counts[t] = v
	return out
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := Inventory{counts: make(map[ObjectType]int, len(inv.counts))}
	for t, n := range inv.counts {
		out.counts[t] = n
	}
	return out
}

// Types returns the tracked types sorted by name.
func (inv Inventory) Types() []ObjectType {
	types := make([]ObjectType, 0, len(inv.counts))
	for t := range inv.counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Counts returns a copy of the underlying counts.
func (inv Inventory) Counts() map[ObjectType]int {
	return inv.Clone().counts
}

// Total returns the sum of all counts.
func (inv Inventory) Total() int {
	total := 0
	for _, n := range inv.counts {
		total += n
	}
	return total
}

// Equal reports whether both inventories hold the same counts. An untracked
// type and a zero count compare equal.
func (inv Inventory) Equal(other Inventory) bool {
	for t, n := range inv.counts {
		if other.counts[t] != n {
			return false
		}
	}
	for t, n := range other.counts {
		if inv.counts[t] != n {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the inventory as a {"Type": count} object.
func (inv Inventory) MarshalJSON() ([]byte, error) {
	if inv.counts == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(inv.counts)
}

// UnmarshalJSON decodes a {"Type": count} object.
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var counts map[ObjectType]int
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	*inv = NewInventory(counts)
	return nil
}

// Refund returns inv with every block of the given builds credited back.
func (inv Inventory) Refund(builds ...Build) Inventory {
	for _, b := range builds {
		for t, n := range b.MaterialCounts() {
			inv = inv.Add(t, n)
		}
	}
	return inv
}
