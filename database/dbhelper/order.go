package dbhelper

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/ray-remotestate/smartcafe/database"
	"github.com/ray-remotestate/smartcafe/models"
)

func InsertOrder(tx *sql.Tx, o *models.Order) error {
	return tx.QueryRow(`
		INSERT INTO orders (user_id, order_number, total_amount, order_type, delivery_location, order_date, scheduled_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, payment_status, created_at, updated_at`,
		o.UserID, o.OrderNumber, o.TotalAmount, o.OrderType, o.DeliveryLocation, o.OrderDate, o.ScheduledTime).
		Scan(&o.ID, &o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
}

func InsertOrderItem(tx *sql.Tx, item *models.OrderItem) error {
	return tx.QueryRow(`
		INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, subtotal, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice, item.SubTotal, item.SpecialInstructions).
		Scan(&item.ID, &item.CreatedAt)
}

func GetOrderByID(id uuid.UUID) (*models.Order, error) {
	o := &models.Order{}
	err := database.Cafe.QueryRow(`
		SELECT id, user_id, order_number, total_amount, order_type, delivery_location, payment_intent_id,
		       status, payment_status, order_date, scheduled_time, created_at, updated_at
		FROM orders
		WHERE id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.OrderType, &o.DeliveryLocation,
			&o.PaymentIntentID, &o.Status, &o.PaymentStatus, &o.OrderDate, &o.ScheduledTime,
			&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.Items, err = getOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func GetOrderByPaymentIntent(intentID string) (*models.Order, error) {
	o := &models.Order{}
	err := database.Cafe.QueryRow(`
		SELECT id, user_id, order_number, total_amount, order_type, delivery_location, payment_intent_id,
		       status, payment_status, order_date, scheduled_time, created_at, updated_at
		FROM orders
		WHERE payment_intent_id = $1`, intentID).
		Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.OrderType, &o.DeliveryLocation,
			&o.PaymentIntentID, &o.Status, &o.PaymentStatus, &o.OrderDate, &o.ScheduledTime,
			&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func ListOrdersForUser(userID uuid.UUID) ([]models.Order, error) {
	rows, err := database.Cafe.Query(`
		SELECT id, user_id, order_number, total_amount, order_type, delivery_location, payment_intent_id,
		       status, payment_status, order_date, scheduled_time, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.OrderType,
			&o.DeliveryLocation, &o.PaymentIntentID, &o.Status, &o.PaymentStatus,
			&o.OrderDate, &o.ScheduledTime, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = getOrderItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func getOrderItems(orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := database.Cafe.Query(`
		SELECT id, order_id, menu_item_id, quantity, unit_price, subtotal, special_instructions, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity,
			&item.UnitPrice, &item.SubTotal, &item.SpecialInstructions, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkOrderCompleted applies the completion gate as a single conditional
// UPDATE: only a pending, paid order matches. sql.ErrNoRows means the order
// exists in some other state and the caller should report a conflict.
func MarkOrderCompleted(id uuid.UUID) error {
	res, err := database.Cafe.Exec(`
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3 AND payment_status = $4`,
		id, models.OrderStatusCompleted, models.OrderStatusPending, models.PaymentStatusSucceeded)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func SetPaymentIntent(orderID uuid.UUID, intentID string) error {
	res, err := database.Cafe.Exec(`
		UPDATE orders
		SET payment_intent_id = $2, updated_at = now()
		WHERE id = $1`, orderID, intentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetPaymentOutcome records the result of an external confirmation. Only a
// pending, unpaid order matches; sql.ErrNoRows means the outcome was already
// decided by another path while the confirmation was in flight.
func SetPaymentOutcome(orderID uuid.UUID, status models.OrderStatus, payment models.PaymentStatus) error {
	res, err := database.Cafe.Exec(`
		UPDATE orders
		SET status = $2, payment_status = $3, updated_at = now()
		WHERE id = $1 AND status = $4 AND payment_status = $5`,
		orderID, status, payment, models.OrderStatusPending, models.PaymentStatusUnpaid)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SettleWithBalance flips the payment status inside the same transaction that
// debits the stored balance.
func SettleWithBalance(tx *sql.Tx, orderID uuid.UUID) error {
	res, err := tx.Exec(`
		UPDATE orders
		SET payment_status = $2, updated_at = now()
		WHERE id = $1 AND status = $3 AND payment_status = $4`,
		orderID, models.PaymentStatusSucceeded, models.OrderStatusPending, models.PaymentStatusUnpaid)
	if err != nil {
		return err
	}
	return requireRow(res)
}
