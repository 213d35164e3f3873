package dbhelper

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/ray-remotestate/smartcafe/database"
	"github.com/ray-remotestate/smartcafe/models"
)

func ListCategories() ([]models.Category, error) {
	rows, err := database.Cafe.Query(`
		SELECT id, name, description, image_url, display_order, is_active, created_at, updated_at
		FROM categories
		ORDER BY display_order, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL,
			&c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func GetCategoryByID(id uuid.UUID) (*models.Category, error) {
	c := &models.Category{}
	err := database.Cafe.QueryRow(`
		SELECT id, name, description, image_url, display_order, is_active, created_at, updated_at
		FROM categories
		WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func CreateCategory(c *models.Category) error {
	return database.Cafe.QueryRow(`
		INSERT INTO categories (name, description, image_url, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.ImageURL, c.DisplayOrder, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func UpdateCategory(c *models.Category) error {
	res, err := database.Cafe.Exec(`
		UPDATE categories
		SET name = $2, description = $3, image_url = $4, display_order = $5, is_active = $6, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Name, c.Description, c.ImageURL, c.DisplayOrder, c.IsActive)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteCategory refuses to remove a category that still has menu items; the
// restrict FK backs this up if two requests race.
func DeleteCategory(id uuid.UUID) error {
	res, err := database.Cafe.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return ErrRestricted
		}
		return err
	}
	return requireRow(res)
}

func CountItemsInCategory(id uuid.UUID) (int, error) {
	var count int
	err := database.Cafe.QueryRow(`SELECT COUNT(*) FROM menu_items WHERE category_id = $1`, id).Scan(&count)
	return count, err
}

func ListMenuItems(categoryID *uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	query := `
		SELECT id, category_id, name, description, price, image_url, is_available, order_count, created_at, updated_at
		FROM menu_items
		WHERE ($1::uuid IS NULL OR category_id = $1)
		  AND (NOT $2 OR is_available)
		ORDER BY created_at DESC`

	rows, err := database.Cafe.Query(query, categoryID, availableOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Description, &m.Price,
			&m.ImageURL, &m.IsAvailable, &m.OrderCount, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func GetMenuItemByID(id uuid.UUID) (*models.MenuItem, error) {
	m := &models.MenuItem{}
	err := database.Cafe.QueryRow(`
		SELECT id, category_id, name, description, price, image_url, is_available, order_count, created_at, updated_at
		FROM menu_items
		WHERE id = $1`, id).
		Scan(&m.ID, &m.CategoryID, &m.Name, &m.Description, &m.Price,
			&m.ImageURL, &m.IsAvailable, &m.OrderCount, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func CreateMenuItem(m *models.MenuItem) error {
	return database.Cafe.QueryRow(`
		INSERT INTO menu_items (category_id, name, description, price, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, order_count, created_at, updated_at`,
		m.CategoryID, m.Name, m.Description, m.Price, m.ImageURL, m.IsAvailable).
		Scan(&m.ID, &m.OrderCount, &m.CreatedAt, &m.UpdatedAt)
}

func UpdateMenuItem(m *models.MenuItem) error {
	res, err := database.Cafe.Exec(`
		UPDATE menu_items
		SET category_id = $2, name = $3, description = $4, price = $5, image_url = $6, is_available = $7, updated_at = now()
		WHERE id = $1`,
		m.ID, m.CategoryID, m.Name, m.Description, m.Price, m.ImageURL, m.IsAvailable)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func DeleteMenuItem(id uuid.UUID) error {
	res, err := database.Cafe.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return ErrRestricted
		}
		return err
	}
	return requireRow(res)
}

// GetMenuItemForOrder reads the fields order creation needs inside its own
// transaction, locking the row so a concurrent delete cannot slip between the
// lookup and the insert.
func GetMenuItemForOrder(tx *sql.Tx, id uuid.UUID) (*models.MenuItem, error) {
	m := &models.MenuItem{}
	err := tx.QueryRow(`
		SELECT id, category_id, name, price, is_available
		FROM menu_items
		WHERE id = $1
		FOR UPDATE`, id).
		Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.IsAvailable)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// IncrementOrderCount bumps the cumulative sold counter atomically.
func IncrementOrderCount(tx *sql.Tx, id uuid.UUID, by int) error {
	_, err := tx.Exec(`
		UPDATE menu_items
		SET order_count = order_count + $2, updated_at = now()
		WHERE id = $1`, id, by)
	return err
}
