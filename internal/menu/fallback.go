package menu

import "storefront-system/internal/models"

// fallbackItems is the fixed demo catalog served while the database is
// unavailable, and seeded into an empty menu_items table on startup.
var fallbackItems = []models.MenuItem{
	{
		ID:          "1",
		Name:        "Margherita Pizza",
		Price:       12.99,
		ImageURL:    "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=400&h=300&fit=crop",
		Category:    "Pizza",
		Description: "Classic margherita with fresh mozzarella and basil",
	},
	{
		ID:          "2",
		Name:        "Chicken Burger",
		Price:       9.99,
		ImageURL:    "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&h=300&fit=crop",
		Category:    "Burgers",
		Description: "Grilled chicken breast with lettuce and tomato",
	},
	{
		ID:          "3",
		Name:        "Caesar Salad",
		Price:       8.99,
		ImageURL:    "https://images.unsplash.com/photo-1546793665-c74683f339c1?w=400&h=300&fit=crop",
		Category:    "Salads",
		Description: "Crisp romaine lettuce with parmesan and croutons",
	},
	{
		ID:          "4",
		Name:        "Pepperoni Pizza",
		Price:       14.99,
		ImageURL:    "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=400&h=300&fit=crop",
		Category:    "Pizza",
		Description: "Classic pepperoni with mozzarella cheese",
	},
	{
		ID:          "5",
		Name:        "Beef Burger",
		Price:       11.99,
		ImageURL:    "https://images.unsplash.com/photo-1550547660-d9450f859349?w=400&h=300&fit=crop",
		Category:    "Burgers",
		Description: "Juicy beef patty with cheese and special sauce",
	},
	{
		ID:          "6",
		Name:        "Greek Salad",
		Price:       10.99,
		ImageURL:    "https://images.unsplash.com/photo-1540420773420-3366772f4999?w=400&h=300&fit=crop",
		Category:    "Salads",
		Description: "Fresh vegetables with feta cheese and olives",
	},
}

// FallbackItems returns a copy of the demo catalog.
func FallbackItems() []models.MenuItem {
	items := make([]models.MenuItem, len(fallbackItems))
	copy(items, fallbackItems)
	return items
}
