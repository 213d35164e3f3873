package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/ray-remotestate/smartcafe/database"
	"github.com/ray-remotestate/smartcafe/database/dbhelper"
	"github.com/ray-remotestate/smartcafe/models"
	"github.com/ray-remotestate/smartcafe/payments"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PaymentProcessor is wired up in main before the server starts.
var PaymentProcessor payments.Processor

const paymentCurrency = "pkr"

func CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	type request struct {
		OrderID uuid.UUID `json:"order_id"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	order, err := dbhelper.GetOrderByID(req.OrderID)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch order", http.StatusInternalServerError)
		return
	}

	if !models.AwaitsPayment(order.Status, order.PaymentStatus) {
		http.Error(w, "order is not awaiting payment", http.StatusConflict)
		return
	}

	intent, err := PaymentProcessor.CreateIntent(r.Context(), payments.MinorUnits(order.TotalAmount), paymentCurrency, order.ID.String())
	if err != nil {
		logrus.Printf("failed to create payment intent for order %s, error: %v", order.ID, err)
		http.Error(w, "payment processor unavailable", http.StatusServiceUnavailable)
		return
	}

	if err := dbhelper.SetPaymentIntent(order.ID, intent.ID); err != nil {
		logrus.Printf("failed to store payment intent for order %s, error: %v", order.ID, err)
		http.Error(w, "failed to store payment intent", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"client_secret":     intent.ClientSecret,
		"payment_intent_id": intent.ID,
	})
}

func ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	type request struct {
		PaymentIntentID string `json:"payment_intent_id"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.PaymentIntentID == "" {
		http.Error(w, "payment intent id is required", http.StatusBadRequest)
		return
	}

	order, err := dbhelper.GetOrderByPaymentIntent(req.PaymentIntentID)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found for this payment", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch order", http.StatusInternalServerError)
		return
	}

	if !models.AwaitsPayment(order.Status, order.PaymentStatus) {
		http.Error(w, "payment already settled", http.StatusConflict)
		return
	}

	// a timeout here leaves the order Pending/Unpaid; the caller can retry
	intent, err := PaymentProcessor.GetIntent(r.Context(), req.PaymentIntentID)
	if err != nil {
		logrus.Printf("failed to look up payment intent %s, error: %v", req.PaymentIntentID, err)
		http.Error(w, "payment processor unavailable", http.StatusServiceUnavailable)
		return
	}

	status := order.Status
	payment := order.PaymentStatus
	if intent.Status == payments.StatusSucceeded {
		// the order stays Pending; fulfilment goes through the gated
		// mark-completed transition
		payment = models.PaymentStatusSucceeded
	} else {
		status = models.OrderStatusCancelled
		payment = models.PaymentStatusFailed
	}

	err = dbhelper.SetPaymentOutcome(order.ID, status, payment)
	if err == sql.ErrNoRows {
		// the order was settled through another path while the confirmation
		// was in flight; that outcome stands
		http.Error(w, "payment already settled", http.StatusConflict)
		return
	} else if err != nil {
		logrus.Printf("failed to record payment outcome for order %s, error: %v", order.ID, err)
		http.Error(w, "failed to record payment outcome", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         status,
		"payment_status": payment,
	})
}

func PayWithBalance(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	type request struct {
		OrderID uuid.UUID `json:"order_id"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	order, err := dbhelper.GetOrderByID(req.OrderID)
	if err == sql.ErrNoRows {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "failed to fetch order", http.StatusInternalServerError)
		return
	}

	if claims.Role == models.RoleCustomer && order.UserID != claims.UserID {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	if !models.AwaitsPayment(order.Status, order.PaymentStatus) {
		http.Error(w, "order is not awaiting payment", http.StatusConflict)
		return
	}

	var balance decimal.Decimal
	txErr := database.Tx(func(tx *sql.Tx) error {
		if err := dbhelper.SettleWithBalance(tx, order.ID); err != nil {
			return err
		}
		balance, err = dbhelper.DebitBalance(tx, order.UserID, order.TotalAmount)
		return err
	})
	if errors.Is(txErr, dbhelper.ErrInsufficientBalance) {
		// deliberately no state change: the order stays Pending/Unpaid so the
		// customer can top up and retry
		http.Error(w, "insufficient balance", http.StatusPaymentRequired)
		return
	} else if errors.Is(txErr, dbhelper.ErrUserArchived) {
		http.Error(w, "user account not found", http.StatusNotFound)
		return
	} else if txErr == sql.ErrNoRows {
		http.Error(w, "order is not awaiting payment", http.StatusConflict)
		return
	} else if txErr != nil {
		logrus.Printf("failed to settle order %s with balance, error: %v", order.ID, txErr)
		http.Error(w, "failed to settle order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         models.OrderStatusPending,
		"payment_status": models.PaymentStatusSucceeded,
		"new_balance":    balance,
	})
}
