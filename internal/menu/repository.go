package menu

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/el-asil/restaurant-api/internal/domain"
)

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, arabic_name, description, price, category, available, created_at
		FROM menu_items
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	itemMap := make(map[string]*domain.MenuItem)
	var itemIDs []string

	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.ArabicName, &item.Description,
			&item.Price, &item.Category, &item.Available, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Specials = []domain.ItemSpecial{}
		itemMap[item.ID] = &item
		itemIDs = append(itemIDs, item.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(itemIDs) == 0 {
		return []domain.MenuItem{}, nil
	}

	specialRows, err := r.db.QueryContext(ctx, `
		SELECT id, menu_item_id, type
		FROM item_specials
		WHERE menu_item_id = ANY($1)
	`, pq.Array(itemIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = specialRows.Close() }()

	for specialRows.Next() {
		var special domain.ItemSpecial
		if err := specialRows.Scan(&special.ID, &special.MenuItemID, &special.Type); err != nil {
			return nil, err
		}
		item := itemMap[special.MenuItemID]
		item.Specials = append(item.Specials, special)
	}

	if err := specialRows.Err(); err != nil {
		return nil, err
	}

	items := make([]domain.MenuItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		items = append(items, *itemMap[id])
	}

	return items, nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	item := &domain.MenuItem{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, arabic_name, description, price, category, available, created_at
		FROM menu_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.ArabicName, &item.Description,
		&item.Price, &item.Category, &item.Available, &item.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	item.Specials = []domain.ItemSpecial{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, menu_item_id, type
		FROM item_specials
		WHERE menu_item_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var special domain.ItemSpecial
		if err := rows.Scan(&special.ID, &special.MenuItemID, &special.Type); err != nil {
			return nil, err
		}
		item.Specials = append(item.Specials, special)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	item.ID = uuid.New().String()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO menu_items (id, name, arabic_name, description, price, category, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, item.ID, item.Name, item.ArabicName, item.Description,
		item.Price, item.Category, item.Available).Scan(&item.CreatedAt)
	if err != nil {
		return err
	}

	for i := range item.Specials {
		item.Specials[i].ID = uuid.New().String()
		item.Specials[i].MenuItemID = item.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item_specials (id, menu_item_id, type)
			VALUES ($1, $2, $3)
		`, item.Specials[i].ID, item.ID, item.Specials[i].Type)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Update replaces the item's fields and its full set of specials.
func (r *MenuRepository) Update(ctx context.Context, item *domain.MenuItem) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $1, arabic_name = $2, description = $3, price = $4, category = $5, available = $6
		WHERE id = $7
	`, item.Name, item.ArabicName, item.Description, item.Price,
		item.Category, item.Available, item.ID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM item_specials WHERE menu_item_id = $1
	`, item.ID); err != nil {
		return false, err
	}

	for i := range item.Specials {
		item.Specials[i].ID = uuid.New().String()
		item.Specials[i].MenuItemID = item.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO item_specials (id, menu_item_id, type)
			VALUES ($1, $2, $3)
		`, item.Specials[i].ID, item.ID, item.Specials[i].Type)
		if err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}

func (r *MenuRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM menu_items WHERE id = $1
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

func (r *MenuRepository) ToggleAvailability(ctx context.Context, id string) (*domain.MenuItem, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE menu_items SET available = NOT available WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}
