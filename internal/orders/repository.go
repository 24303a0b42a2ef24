package orders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/el-asil/restaurant-api/internal/domain"
)

// ErrUnknownMenuItem is returned when an order references a menu item id that
// does not exist.
var ErrUnknownMenuItem = errors.New("unknown menu item")

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its line items in one transaction. Item names
// and prices are resolved from the menu and filled into order.Items.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItemInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, email, phone, table_num, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, order.ID, order.Email, order.Phone, order.TableNum, order.Status).Scan(&order.CreatedAt)
	if err != nil {
		return err
	}

	order.Items = make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		var name string
		var price float64
		err := tx.QueryRowContext(ctx, `
			SELECT name, price FROM menu_items WHERE id = $1
		`, item.MenuItemID).Scan(&name, &price)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrUnknownMenuItem
			}
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, uuid.New().String(), order.ID, item.MenuItemID, item.Quantity)
		if err != nil {
			return err
		}

		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID: item.MenuItemID,
			Name:       name,
			Price:      price,
			Quantity:   item.Quantity,
		})
	}

	return tx.Commit()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, phone, table_num, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.Email, &order.Phone, &order.TableNum, &order.Status, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	order.Items = []domain.OrderItem{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.menu_item_id, m.name, m.price, oi.quantity
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, phone, table_num, status, created_at
		FROM orders
		ORDER BY created_at DESC
	`)
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

// GetStatus reads just the current status. The read and the later update are
// two statements, so concurrent transitions race and the last write wins.
func (r *OrderRepository) GetStatus(ctx context.Context, id string) (domain.OrderStatus, bool, error) {
	var status domain.OrderStatus
	err := r.db.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = $1
	`, id).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return status, true, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM orders WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
