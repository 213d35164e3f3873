package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypePickup   OrderType = "Pickup"
	OrderTypeDelivery OrderType = "Delivery"
)

func (t OrderType) IsValid() bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) IsValid() bool {
	return s == OrderStatusPending || s == OrderStatusCompleted || s == OrderStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "Unpaid"
	PaymentStatusSucceeded PaymentStatus = "Succeeded"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusSucceeded || s == PaymentStatusFailed
}

type Order struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	UserID           uuid.UUID       `db:"user_id" json:"user_id"`
	OrderNumber      string          `db:"order_number" json:"order_number"`
	TotalAmount      decimal.Decimal `db:"total_amount" json:"total_amount"`
	OrderType        OrderType       `db:"order_type" json:"order_type"`
	DeliveryLocation *string         `db:"delivery_location" json:"delivery_location,omitempty"`
	PaymentIntentID  *string         `db:"payment_intent_id" json:"payment_intent_id,omitempty"`
	Status           OrderStatus     `db:"status" json:"status"`
	PaymentStatus    PaymentStatus   `db:"payment_status" json:"payment_status"`
	OrderDate        time.Time       `db:"order_date" json:"order_date"`
	ScheduledTime    time.Time       `db:"scheduled_time" json:"scheduled_time"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
	Items            []OrderItem     `db:"-" json:"items"`
}

type OrderItem struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	OrderID             uuid.UUID       `db:"order_id" json:"order_id"`
	MenuItemID          uuid.UUID       `db:"menu_item_id" json:"menu_item_id"`
	Quantity            int             `db:"quantity" json:"quantity"`
	UnitPrice           decimal.Decimal `db:"unit_price" json:"unit_price"`
	SubTotal            decimal.Decimal `db:"subtotal" json:"subtotal"`
	SpecialInstructions string          `db:"special_instructions" json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
}

// OrderTotal sums line subtotals. Prices are already frozen on the items,
// so the result never changes when the menu does.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.SubTotal)
	}
	return total
}

// CanComplete reports whether an order may transition to Completed: it must
// still be pending and already paid.
func CanComplete(status OrderStatus, payment PaymentStatus) bool {
	return status == OrderStatusPending && payment == PaymentStatusSucceeded
}

// AwaitsPayment reports whether an order can still be settled. Succeeded and
// Failed are terminal; once either is recorded no settlement path may run.
func AwaitsPayment(status OrderStatus, payment PaymentStatus) bool {
	return status == OrderStatusPending && payment == PaymentStatusUnpaid
}

// ScheduledTimeSlack is how far in the past a requested scheduled time may be
// before the order is rejected, to absorb client clock skew.
const ScheduledTimeSlack = time.Minute

type CreateOrderItemRequest struct {
	MenuItemID          uuid.UUID `json:"menu_item_id"`
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"special_instructions"`
}

type CreateOrderRequest struct {
	OrderType        OrderType                `json:"order_type"`
	DeliveryLocation string                   `json:"delivery_location"`
	ScheduledTime    *time.Time               `json:"scheduled_time"`
	Items            []CreateOrderItemRequest `json:"items"`
}

// Validate checks everything that does not need the database. Field errors
// are accumulated so the caller sees all of them at once.
func (req *CreateOrderRequest) Validate(now time.Time) error {
	var errs *multierror.Error

	if !req.OrderType.IsValid() {
		errs = multierror.Append(errs, fmt.Errorf("invalid order type %q", req.OrderType))
	}
	if req.OrderType == OrderTypeDelivery && strings.TrimSpace(req.DeliveryLocation) == "" {
		errs = multierror.Append(errs, fmt.Errorf("delivery orders require a delivery location"))
	}
	if req.ScheduledTime != nil && req.ScheduledTime.Before(now.Add(-ScheduledTimeSlack)) {
		errs = multierror.Append(errs, fmt.Errorf("scheduled time must not be in the past"))
	}
	if len(req.Items) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("order must have at least one item"))
	}
	for i, item := range req.Items {
		if item.MenuItemID == uuid.Nil {
			errs = multierror.Append(errs, fmt.Errorf("item %d: menu item id is required", i+1))
		}
		if item.Quantity <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("item %d: quantity must be positive", i+1))
		}
		if len(item.SpecialInstructions) > MaxInstructionsLength {
			errs = multierror.Append(errs, fmt.Errorf("item %d: special instructions exceed %d characters", i+1, MaxInstructionsLength))
		}
	}

	return errs.ErrorOrNil()
}

// NormalizedSchedule returns the effective scheduled time, defaulting to now
// when the request left it unset.
func (req *CreateOrderRequest) NormalizedSchedule(now time.Time) time.Time {
	if req.ScheduledTime == nil {
		return now
	}
	return *req.ScheduledTime
}
