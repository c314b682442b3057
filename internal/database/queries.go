package database

// Menu queries
const (
	ListMenuItemsSQL = `
		SELECT id, name, price, image_url, category, description
		FROM menu_items
		ORDER BY id ASC`

	CountMenuItemsSQL = `
		SELECT COUNT(*) FROM menu_items`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, price, image_url, category, description)
		VALUES ($1, $2, $3, $4, $5)`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (number, customer_name, customer_phone, delivery_address, subtotal, delivery_fee, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, item_id, name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE number = $2 AND status = $3`

	UpdateOrderDeliveredSQL = `
		UPDATE orders SET status = $1, completed_at = NOW(), updated_at = NOW()
		WHERE number = $2 AND status = $3`

	GetOrderByNumberSQL = `
		SELECT id, number, customer_name, customer_phone, delivery_address,
			   subtotal, delivery_fee, total_amount, status, created_at, updated_at, completed_at
		FROM orders WHERE number = $1`

	GetOrderItemsSQL = `
		SELECT item_id, name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`

	GetOrderStatusHistorySQL = `
		SELECT status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = (SELECT id FROM orders WHERE number = $1)
		ORDER BY changed_at ASC`

	GetNextOrderNumberSQL = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM 'ORD_[0-9]{8}_([0-9]{3})') AS INTEGER)), 0) + 1
		FROM orders
		WHERE number LIKE $1`
)

// Worker queries
const (
	InsertWorkerSQL = `
		INSERT INTO workers (name, status)
		VALUES ($1, 'online')
		ON CONFLICT (name) DO UPDATE SET
			status = 'online',
			last_seen = NOW()
		RETURNING id`

	UpdateWorkerStatusSQL = `
		UPDATE workers SET status = $1, last_seen = NOW()
		WHERE name = $2`

	UpdateWorkerProcessedSQL = `
		UPDATE workers SET last_seen = NOW(), orders_processed = orders_processed + $1
		WHERE name = $2`

	GetAllWorkersSQL = `
		SELECT name, status, orders_processed, last_seen, created_at
		FROM workers
		ORDER BY created_at ASC`

	CheckWorkerOnlineSQL = `
		SELECT COUNT(*) FROM workers WHERE name = $1 AND status = 'online'`
)
