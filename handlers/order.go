package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/smartcafe/database"
	"github.com/ray-remotestate/smartcafe/database/dbhelper"
	"github.com/ray-remotestate/smartcafe/models"
	"github.com/ray-remotestate/smartcafe/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// errBadOrderLine classifies per-line failures (unknown or unavailable menu
// item) that reject the whole order with no state change.
var errBadOrderLine = errors.New("bad order line")

const orderNumberAttempts = 5

func CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	if err := req.Validate(now); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var deliveryLocation *string
	if req.OrderType == models.OrderTypeDelivery {
		loc := req.DeliveryLocation
		deliveryLocation = &loc
	}

	var order *models.Order
	var txErr error
	// the order number carries a unique constraint; on the rare collision the
	// whole transaction is retried with a fresh token
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order = &models.Order{
			UserID:           claims.UserID,
			OrderNumber:      utils.NewOrderNumber(),
			OrderType:        req.OrderType,
			DeliveryLocation: deliveryLocation,
			OrderDate:        now,
			ScheduledTime:    req.NormalizedSchedule(now),
		}

		txErr = database.Tx(func(tx *sql.Tx) error {
			return createOrderTx(tx, order, req.Items)
		})
		if txErr != nil && dbhelper.IsUniqueViolation(txErr) {
			continue
		}
		break
	}

	if txErr != nil {
		if errors.Is(txErr, errBadOrderLine) {
			http.Error(w, txErr.Error(), http.StatusBadRequest)
			return
		}
		logrus.Printf("failed to create order, error: %v", txErr)
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// sortLinesByMenuItem puts order lines in menu item id order. Row locks are
// then always taken in the same sequence, so two concurrent orders naming the
// same items cannot deadlock.
func sortLinesByMenuItem(lines []models.CreateOrderItemRequest) {
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].MenuItemID[:], lines[j].MenuItemID[:]) < 0
	})
}

// createOrderTx freezes prices, bumps sold counters and persists the order
// with its items as one unit. Any line failure rolls the whole thing back.
func createOrderTx(tx *sql.Tx, order *models.Order, lines []models.CreateOrderItemRequest) error {
	sortLinesByMenuItem(lines)

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		menuItem, err := dbhelper.GetMenuItemForOrder(tx, line.MenuItemID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: menu item %s not found", errBadOrderLine, line.MenuItemID)
		} else if err != nil {
			return err
		}
		if !menuItem.IsAvailable {
			return fmt.Errorf("%w: menu item %s is not available", errBadOrderLine, line.MenuItemID)
		}

		unitPrice := menuItem.Price
		items = append(items, models.OrderItem{
			MenuItemID:          menuItem.ID,
			Quantity:            line.Quantity,
			UnitPrice:           unitPrice,
			SubTotal:            unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			SpecialInstructions: line.SpecialInstructions,
		})

		if err := dbhelper.IncrementOrderCount(tx, menuItem.ID, line.Quantity); err != nil {
			return err
		}
	}

	order.TotalAmount = models.OrderTotal(items)
	if err := dbhelper.InsertOrder(tx, order); err != nil {
		return err
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := dbhelper.InsertOrderItem(tx, &items[i]); err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := dbhelper.GetOrderByID(id)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch order", http.StatusInternalServerError)
		return
	}

	// customers can only see their own orders
	if claims.Role == models.RoleCustomer && order.UserID != claims.UserID {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func ListOrdersForUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	userID, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if claims.Role == models.RoleCustomer && userID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	orders, err := dbhelper.ListOrdersForUser(userID)
	if err != nil {
		logrus.Printf("failed to list orders for user %s, error: %v", userID, err)
		http.Error(w, "failed to query orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

func MarkOrderCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := dbhelper.GetOrderByID(id)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch order", http.StatusInternalServerError)
		return
	}

	if !models.CanComplete(order.Status, order.PaymentStatus) {
		http.Error(w, "only paid, pending orders can be completed", http.StatusConflict)
		return
	}

	// the conditional UPDATE stays authoritative in case the state moved
	// between the read above and here
	err = dbhelper.MarkOrderCompleted(order.ID)
	if err == sql.ErrNoRows {
		// the order exists but is not in a completable state
		http.Error(w, "only paid, pending orders can be completed", http.StatusConflict)
		return
	} else if err != nil {
		logrus.Printf("failed to complete order %s, error: %v", id, err)
		http.Error(w, "failed to complete order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order_id": order.ID,
		"status":   models.OrderStatusCompleted,
	})
}
