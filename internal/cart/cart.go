// Package cart holds the in-memory selection of menu items for a single
// storefront session. The cart is an explicitly owned state object: the
// session that creates it passes it by reference to the checkout flow,
// there is no package-level shared instance.
package cart

import (
	"sync"

	"storefront-system/internal/models"
)

// Cart maps menu item IDs to cart lines, preserving insertion order for
// display. The subtotal is recomputed from scratch after every mutation,
// so subtotal == sum(price*quantity) holds whenever the mutex is free.
type Cart struct {
	mu       sync.Mutex
	lines    []models.CartLine
	index    map[string]int
	subtotal float64
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{
		index: make(map[string]int),
	}
}

// AddItem adds one unit of the given menu item. If the item is already in
// the cart its quantity is incremented; otherwise a new line with quantity
// 1 is appended. AddItem always succeeds.
func (c *Cart) AddItem(item models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pos, ok := c.index[item.ID]; ok {
		c.lines[pos].Quantity++
	} else {
		c.index[item.ID] = len(c.lines)
		c.lines = append(c.lines, models.CartLine{MenuItem: item, Quantity: 1})
	}

	c.recompute()
}

// UpdateQuantity sets the quantity of the line with the given item ID.
// A quantity of zero or less removes the line. Unknown IDs are a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.index[id]
	if !ok {
		return
	}

	if quantity <= 0 {
		c.removeAt(pos)
	} else {
		c.lines[pos].Quantity = quantity
	}

	c.recompute()
}

// RemoveItem deletes the line with the given item ID if present.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.index[id]
	if !ok {
		return
	}

	c.removeAt(pos)
	c.recompute()
}

// Clear empties the cart. Called after a successful order submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.index = make(map[string]int)
	c.subtotal = 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Subtotal returns the sum of price*quantity over all lines, excluding
// the delivery fee.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subtotal
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// removeAt deletes the line at pos and reindexes the lines after it.
// Caller must hold the mutex.
func (c *Cart) removeAt(pos int) {
	id := c.lines[pos].ID
	c.lines = append(c.lines[:pos], c.lines[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.lines); i++ {
		c.index[c.lines[i].ID] = i
	}
}

// recompute derives the subtotal from the current lines. Caller must hold
// the mutex.
func (c *Cart) recompute() {
	total := 0.0
	for _, line := range c.lines {
		total += line.LineTotal()
	}
	c.subtotal = total
}
