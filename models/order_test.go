package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{UnitPrice: decimal.RequireFromString("250.00"), Quantity: 2, SubTotal: decimal.RequireFromString("500.00")},
		{UnitPrice: decimal.RequireFromString("100.00"), Quantity: 1, SubTotal: decimal.RequireFromString("100.00")},
	}

	total := OrderTotal(items)
	if !total.Equal(decimal.RequireFromString("600.00")) {
		t.Errorf("expected total 600.00, got %s", total)
	}
}

func TestOrderTotalEmpty(t *testing.T) {
	if !OrderTotal(nil).Equal(decimal.Zero) {
		t.Error("expected zero total for no items")
	}
}

func TestCanComplete(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		payment PaymentStatus
		want    bool
	}{
		{OrderStatusPending, PaymentStatusSucceeded, true},
		{OrderStatusPending, PaymentStatusUnpaid, false},
		{OrderStatusPending, PaymentStatusFailed, false},
		{OrderStatusCompleted, PaymentStatusSucceeded, false},
		{OrderStatusCancelled, PaymentStatusSucceeded, false},
		{OrderStatusCancelled, PaymentStatusFailed, false},
	}

	for _, tt := range tests {
		if got := CanComplete(tt.status, tt.payment); got != tt.want {
			t.Errorf("CanComplete(%s, %s) = %v, want %v", tt.status, tt.payment, got, tt.want)
		}
	}
}

func TestAwaitsPayment(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		payment PaymentStatus
		want    bool
	}{
		{OrderStatusPending, PaymentStatusUnpaid, true},
		// Succeeded and Failed are terminal: a confirmation racing a balance
		// settlement must not find the order settleable again
		{OrderStatusPending, PaymentStatusSucceeded, false},
		{OrderStatusCancelled, PaymentStatusFailed, false},
		{OrderStatusCompleted, PaymentStatusSucceeded, false},
		{OrderStatusCancelled, PaymentStatusUnpaid, false},
	}

	for _, tt := range tests {
		if got := AwaitsPayment(tt.status, tt.payment); got != tt.want {
			t.Errorf("AwaitsPayment(%s, %s) = %v, want %v", tt.status, tt.payment, got, tt.want)
		}
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	now := time.Date(2025, 4, 12, 12, 0, 0, 0, time.UTC)
	past := now.Add(-5 * time.Minute)
	justPast := now.Add(-30 * time.Second)
	future := now.Add(time.Hour)
	itemID := uuid.New()

	oneItem := []CreateOrderItemRequest{{MenuItemID: itemID, Quantity: 1}}

	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr string
	}{
		{
			name: "valid pickup",
			req:  CreateOrderRequest{OrderType: OrderTypePickup, Items: oneItem},
		},
		{
			name: "valid delivery",
			req:  CreateOrderRequest{OrderType: OrderTypeDelivery, DeliveryLocation: "Block C", Items: oneItem},
		},
		{
			name: "scheduled within slack",
			req:  CreateOrderRequest{OrderType: OrderTypePickup, ScheduledTime: &justPast, Items: oneItem},
		},
		{
			name: "scheduled in future",
			req:  CreateOrderRequest{OrderType: OrderTypePickup, ScheduledTime: &future, Items: oneItem},
		},
		{
			name:    "unknown order type",
			req:     CreateOrderRequest{OrderType: "DineIn", Items: oneItem},
			wantErr: "invalid order type",
		},
		{
			name:    "delivery without location",
			req:     CreateOrderRequest{OrderType: OrderTypeDelivery, Items: oneItem},
			wantErr: "delivery location",
		},
		{
			name:    "delivery with blank location",
			req:     CreateOrderRequest{OrderType: OrderTypeDelivery, DeliveryLocation: "   ", Items: oneItem},
			wantErr: "delivery location",
		},
		{
			name:    "scheduled in the past",
			req:     CreateOrderRequest{OrderType: OrderTypePickup, ScheduledTime: &past, Items: oneItem},
			wantErr: "must not be in the past",
		},
		{
			name:    "no items",
			req:     CreateOrderRequest{OrderType: OrderTypePickup},
			wantErr: "at least one item",
		},
		{
			name: "zero quantity",
			req: CreateOrderRequest{OrderType: OrderTypePickup, Items: []CreateOrderItemRequest{
				{MenuItemID: itemID, Quantity: 0},
			}},
			wantErr: "quantity must be positive",
		},
		{
			name: "missing menu item id",
			req: CreateOrderRequest{OrderType: OrderTypePickup, Items: []CreateOrderItemRequest{
				{Quantity: 1},
			}},
			wantErr: "menu item id is required",
		},
		{
			name: "instructions too long",
			req: CreateOrderRequest{OrderType: OrderTypePickup, Items: []CreateOrderItemRequest{
				{MenuItemID: itemID, Quantity: 1, SpecialInstructions: strings.Repeat("x", 251)},
			}},
			wantErr: "special instructions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(now)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	past := time.Date(2025, 4, 12, 11, 0, 0, 0, time.UTC)
	now := past.Add(time.Hour)

	req := CreateOrderRequest{
		OrderType:     OrderTypeDelivery,
		ScheduledTime: &past,
	}
	err := req.Validate(now)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"delivery location", "must not be in the past", "at least one item"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected combined error to mention %q, got %q", want, err)
		}
	}
}

func TestNormalizedSchedule(t *testing.T) {
	now := time.Date(2025, 4, 12, 12, 0, 0, 0, time.UTC)

	req := CreateOrderRequest{}
	if got := req.NormalizedSchedule(now); !got.Equal(now) {
		t.Errorf("expected default schedule %v, got %v", now, got)
	}

	future := now.Add(2 * time.Hour)
	req.ScheduledTime = &future
	if got := req.NormalizedSchedule(now); !got.Equal(future) {
		t.Errorf("expected schedule %v, got %v", future, got)
	}
}

func TestEnumValidity(t *testing.T) {
	valid := []bool{
		RoleAdmin.IsValid(), RoleStaff.IsValid(), RoleCustomer.IsValid(),
		OrderTypePickup.IsValid(), OrderTypeDelivery.IsValid(),
		OrderStatusPending.IsValid(), OrderStatusCompleted.IsValid(), OrderStatusCancelled.IsValid(),
		PaymentStatusUnpaid.IsValid(), PaymentStatusSucceeded.IsValid(), PaymentStatusFailed.IsValid(),
	}
	for i, ok := range valid {
		if !ok {
			t.Errorf("known constant %d reported invalid", i)
		}
	}

	if Role("root").IsValid() {
		t.Error("unknown role reported valid")
	}
	if OrderType("DineIn").IsValid() {
		t.Error("unknown order type reported valid")
	}
	if OrderStatus("Archived").IsValid() {
		t.Error("unknown order status reported valid")
	}
	if PaymentStatus("Refunded").IsValid() {
		t.Error("unknown payment status reported valid")
	}
}
