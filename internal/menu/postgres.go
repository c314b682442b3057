package menu

import (
	"context"
	"fmt"
	"strconv"

	"storefront-system/internal/database"
	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// PostgresStore reads the menu catalog from the menu_items table.
type PostgresStore struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPostgresStore creates a database-backed menu store.
func NewPostgresStore(db *database.DB, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log,
	}
}

// ListMenuItems returns all catalog items ordered by ID.
func (s *PostgresStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		var id int
		err := rows.Scan(
			&id,
			&item.Name,
			&item.Price,
			&item.ImageURL,
			&item.Category,
			&item.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		item.ID = strconv.Itoa(id)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}

	return items, nil
}

// SeedIfEmpty populates the menu_items table with the demo catalog when
// no items exist yet.
func (s *PostgresStore) SeedIfEmpty(ctx context.Context) error {
	var count int
	err := s.db.QueryRow(ctx, database.CountMenuItemsSQL).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count menu items: %w", err)
	}

	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range fallbackItems {
		_, err = tx.Exec(ctx, database.InsertMenuItemSQL,
			item.Name, item.Price, item.ImageURL, item.Category, item.Description)
		if err != nil {
			return fmt.Errorf("failed to insert menu item %q: %w", item.Name, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit menu seed: %w", err)
	}

	s.logger.Info("menu_seeded", fmt.Sprintf("Seeded %d demo menu items", len(fallbackItems)), "startup", nil)
	return nil
}
