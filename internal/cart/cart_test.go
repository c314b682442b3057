package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-system/internal/models"
)

var (
	pizza  = models.MenuItem{ID: "1", Name: "Margherita Pizza", Price: 12.99, Category: "Pizza"}
	burger = models.MenuItem{ID: "2", Name: "Chicken Burger", Price: 9.99, Category: "Burgers"}
	salad  = models.MenuItem{ID: "3", Name: "Caesar Salad", Price: 8.99, Category: "Salads"}
)

// expectedSubtotal recomputes the invariant independently of the cart.
func expectedSubtotal(lines []models.CartLine) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func TestAddItem_NewLines(t *testing.T) {
	c := New()

	c.AddItem(pizza)
	c.AddItem(burger)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ID)
	assert.Equal(t, "2", lines[1].ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.InDelta(t, 22.98, c.Subtotal(), 0.0001)
}

func TestAddItem_SameItemTwiceIncrements(t *testing.T) {
	c := New()

	c.AddItem(pizza)
	c.AddItem(pizza)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.InDelta(t, 25.98, c.Subtotal(), 0.0001)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	c.AddItem(pizza)
	c.AddItem(burger)

	c.UpdateQuantity("1", 5)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.InDelta(t, 5*12.99+9.99, c.Subtotal(), 0.0001)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	c := New()
	c.AddItem(pizza)
	c.AddItem(burger)

	c.UpdateQuantity("1", 0)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].ID)
	assert.InDelta(t, 9.99, c.Subtotal(), 0.0001)
}

func TestUpdateQuantity_NegativeRemovesLine(t *testing.T) {
	c := New()
	c.AddItem(pizza)

	c.UpdateQuantity("1", -1)

	assert.Empty(t, c.Lines())
	assert.Zero(t, c.Subtotal())
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	c := New()
	c.AddItem(pizza)

	c.UpdateQuantity("missing", 3)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.InDelta(t, 12.99, c.Subtotal(), 0.0001)
}

func TestRemoveItem(t *testing.T) {
	c := New()
	c.AddItem(pizza)
	c.AddItem(burger)
	c.AddItem(salad)

	c.RemoveItem("2")

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ID)
	assert.Equal(t, "3", lines[1].ID)

	// Removing again is a no-op.
	c.RemoveItem("2")
	assert.Len(t, c.Lines(), 2)
}

func TestRemoveItem_ReindexesRemainingLines(t *testing.T) {
	c := New()
	c.AddItem(pizza)
	c.AddItem(burger)
	c.AddItem(salad)

	c.RemoveItem("1")
	c.UpdateQuantity("3", 4)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 4, lines[1].Quantity)
	assert.InDelta(t, 9.99+4*8.99, c.Subtotal(), 0.0001)
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(pizza)
	c.AddItem(burger)
	c.UpdateQuantity("2", 3)

	c.Clear()

	assert.Empty(t, c.Lines())
	assert.Zero(t, c.Subtotal())
	assert.Zero(t, c.ItemCount())

	// The cart is reusable after clearing.
	c.AddItem(salad)
	assert.InDelta(t, 8.99, c.Subtotal(), 0.0001)
}

func TestItemCount(t *testing.T) {
	c := New()
	c.AddItem(pizza)
	c.AddItem(pizza)
	c.AddItem(burger)

	assert.Equal(t, 3, c.ItemCount())
}

// TestSubtotalInvariant drives the cart through a mixed operation
// sequence and checks the derived subtotal after every step.
func TestSubtotalInvariant(t *testing.T) {
	c := New()

	steps := []func(){
		func() { c.AddItem(pizza) },
		func() { c.AddItem(burger) },
		func() { c.AddItem(pizza) },
		func() { c.UpdateQuantity("2", 7) },
		func() { c.AddItem(salad) },
		func() { c.UpdateQuantity("1", 1) },
		func() { c.RemoveItem("2") },
		func() { c.UpdateQuantity("3", 0) },
		func() { c.AddItem(burger) },
		func() { c.UpdateQuantity("nope", 9) },
	}

	for i, step := range steps {
		step()
		assert.InDelta(t, expectedSubtotal(c.Lines()), c.Subtotal(), 0.0001, "after step %d", i)
	}
}
