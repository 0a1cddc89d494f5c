// Package cart holds the session cart and the operations that mutate it.
//
// A Cart maps a product id to either a bare quantity or a per-size breakdown.
// Every function here mutates the cart it is handed and never persists it;
// callers load the cart from the session store and save it back afterwards.
package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidQuantity is returned when a quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrItemNotFound is returned when adjusting or removing something the cart does not hold.
	ErrItemNotFound = errors.New("item not found in cart")
	// ErrSizeMismatch is returned when a sized operation targets a sizeless entry or the reverse.
	ErrSizeMismatch = errors.New("size does not match the cart entry")
)

// MaxQuantity caps what a single cart line may hold.
const MaxQuantity = 99

// Entry is the value stored per product. ItemsBySize is nil for sizeless products.
type Entry struct {
	Quantity    int
	ItemsBySize map[string]int
}

// Sized reports whether the entry keeps a per-size breakdown.
func (e Entry) Sized() bool {
	return e.ItemsBySize != nil
}

// Count returns the number of units held by the entry across all sizes.
func (e Entry) Count() int {
	if !e.Sized() {
		return e.Quantity
	}
	n := 0
	for _, q := range e.ItemsBySize {
		n += q
	}
	return n
}

type sizedEntry struct {
	ItemsBySize map[string]int `json:"items_by_size"`
}

// MarshalJSON writes a bare entry as a number and a sized entry as {"items_by_size": {...}}.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Sized() {
		return json.Marshal(sizedEntry{ItemsBySize: e.ItemsBySize})
	}
	return json.Marshal(e.Quantity)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var s sizedEntry
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode sized entry: %w", err)
		}
		if s.ItemsBySize == nil {
			s.ItemsBySize = map[string]int{}
		}
		e.Quantity = 0
		e.ItemsBySize = s.ItemsBySize
		return nil
	}
	var q int
	if err := json.Unmarshal(data, &q); err != nil {
		return fmt.Errorf("decode quantity: %w", err)
	}
	e.Quantity = q
	e.ItemsBySize = nil
	return nil
}

// Cart is keyed by product id.
type Cart map[string]Entry

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// Count returns the number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, e := range c {
		n += e.Count()
	}
	return n
}

// Quantity returns what the cart holds for the product and size, or 0.
func (c Cart) Quantity(productID, size string) int {
	e, ok := c[productID]
	if !ok {
		return 0
	}
	if size == "" {
		if e.Sized() {
			return 0
		}
		return e.Quantity
	}
	if !e.Sized() {
		return 0
	}
	return e.ItemsBySize[size]
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, e := range c {
		if e.Sized() {
			sizes := make(map[string]int, len(e.ItemsBySize))
			for s, q := range e.ItemsBySize {
				sizes[s] = q
			}
			e.ItemsBySize = sizes
		}
		out[id] = e
	}
	return out
}

// ParseQuantity reads a quantity as posted by a form or JSON body. Quoted
// numbers are accepted. Negative, fractional, non-numeric and oversized input
// is rejected with ErrInvalidQuantity; zero is allowed so that adjust can
// remove a line.
func ParseQuantity(raw string) (int, error) {
	return parseQuantity(raw, false)
}

// ParseAdjustQuantity is ParseQuantity with a leading minus sign allowed.
// Any value of zero or less is returned as 0, which removes the line.
func ParseAdjustQuantity(raw string) (int, error) {
	return parseQuantity(raw, true)
}

func parseQuantity(raw string, signed bool) (int, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	negative := false
	if signed && strings.HasPrefix(raw, "-") {
		negative = true
		raw = raw[1:]
	}
	if raw == "" {
		return 0, ErrInvalidQuantity
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, ErrInvalidQuantity
		}
	}
	if negative {
		return 0, nil
	}
	raw = strings.TrimLeft(raw, "0")
	if raw == "" {
		return 0, nil
	}
	if len(raw) > 2 {
		return 0, ErrInvalidQuantity
	}
	q, err := strconv.Atoi(raw)
	if err != nil || q > MaxQuantity {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}

// Add increments the quantity held for the product, or the product's size when
// size is not empty. Missing entries are created. It returns the quantity now
// held for the line. A line may never exceed MaxQuantity; such an add fails
// with ErrInvalidQuantity and leaves the cart untouched.
func Add(c Cart, productID string, quantity int, size string) (int, error) {
	if quantity <= 0 || quantity > MaxQuantity {
		return 0, ErrInvalidQuantity
	}

	e, ok := c[productID]
	if size == "" {
		if ok && e.Sized() {
			return 0, ErrSizeMismatch
		}
		if e.Quantity > MaxQuantity-quantity {
			return 0, ErrInvalidQuantity
		}
		e.Quantity += quantity
		c[productID] = e
		return e.Quantity, nil
	}

	if !ok {
		c[productID] = Entry{ItemsBySize: map[string]int{size: quantity}}
		return quantity, nil
	}
	if !e.Sized() {
		return 0, ErrSizeMismatch
	}
	if e.ItemsBySize[size] > MaxQuantity-quantity {
		return 0, ErrInvalidQuantity
	}
	e.ItemsBySize[size] += quantity
	return e.ItemsBySize[size], nil
}

// Adjust sets the quantity for the product or size. A quantity of zero or less
// removes the line, and the product with it once its last size is gone.
// Quantities above MaxQuantity fail with ErrInvalidQuantity.
func Adjust(c Cart, productID string, quantity int, size string) error {
	if quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	e, ok := c[productID]
	if !ok {
		return ErrItemNotFound
	}

	if size == "" {
		if e.Sized() {
			return ErrSizeMismatch
		}
		if quantity <= 0 {
			delete(c, productID)
			return nil
		}
		e.Quantity = quantity
		c[productID] = e
		return nil
	}

	if !e.Sized() {
		return ErrSizeMismatch
	}
	if _, ok := e.ItemsBySize[size]; !ok {
		return ErrItemNotFound
	}
	if quantity > 0 {
		e.ItemsBySize[size] = quantity
		return nil
	}
	delete(e.ItemsBySize, size)
	if len(e.ItemsBySize) == 0 {
		delete(c, productID)
	}
	return nil
}

// Remove deletes the product, or only the given size of it.
func Remove(c Cart, productID, size string) error {
	e, ok := c[productID]
	if !ok {
		return ErrItemNotFound
	}

	if size == "" {
		delete(c, productID)
		return nil
	}

	if !e.Sized() {
		return ErrSizeMismatch
	}
	if _, ok := e.ItemsBySize[size]; !ok {
		return ErrItemNotFound
	}
	delete(e.ItemsBySize, size)
	if len(e.ItemsBySize) == 0 {
		delete(c, productID)
	}
	return nil
}
