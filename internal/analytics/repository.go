package analytics

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/el-asil/restaurant-api/internal/domain"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// OrdersBetween returns the orders created in [from, to) with their items and
// live menu prices, ready for the growth calculator.
func (r *AnalyticsRepository) OrdersBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, phone, table_num, status, created_at
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.Email, &order.Phone, &order.TableNum,
			&order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.menu_item_id, m.name, m.price, oi.quantity
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.MenuItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

// CompletedStats aggregates over COMPLETED and DELIVERED orders only.
func (r *AnalyticsRepository) CompletedStats(ctx context.Context) (count int, revenue float64, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT o.id), COALESCE(SUM(oi.quantity * m.price), 0)
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE o.status IN ($1, $2)
	`, domain.OrderStatusCompleted, domain.OrderStatusDelivered).Scan(&count, &revenue)
	return count, revenue, err
}

type TopItem struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// TopItems ranks menu items by units ordered.
func (r *AnalyticsRepository) TopItems(ctx context.Context, limit int) ([]TopItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name,
		       COALESCE(SUM(oi.quantity), 0) AS units,
		       COALESCE(SUM(oi.quantity * m.price), 0) AS revenue
		FROM menu_items m
		LEFT JOIN order_items oi ON oi.menu_item_id = m.id
		GROUP BY m.id, m.name
		ORDER BY units DESC, m.name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []TopItem{}
	for rows.Next() {
		var item TopItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Count, &item.Revenue); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// RevenueTrend returns revenue per day (YYYY-MM-DD) for orders created at or
// after since.
func (r *AnalyticsRepository) RevenueTrend(ctx context.Context, since time.Time) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(o.created_at, 'YYYY-MM-DD') AS day,
		       COALESCE(SUM(oi.quantity * m.price), 0)
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE o.created_at >= $1
		GROUP BY day
	`, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	trend := map[string]float64{}
	for rows.Next() {
		var day string
		var revenue float64
		if err := rows.Scan(&day, &revenue); err != nil {
			return nil, err
		}
		trend[day] = revenue
	}

	return trend, rows.Err()
}

func (r *AnalyticsRepository) MenuItemCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count)
	return count, err
}
