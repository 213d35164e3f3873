package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"20.50", 2050},
		{"600.00", 60000},
		{"0.01", 1},
		{"0", 0},
	}
	for _, tt := range tests {
		if got := MinorUnits(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("MinorUnits(%s) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestCreateIntent(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payment_intents" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Intent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			Status:       "requires_payment_method",
			Amount:       60000,
			Currency:     "pkr",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	intent, err := client.CreateIntent(context.Background(), 60000, "pkr", "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if intent.ID != "pi_123" || intent.ClientSecret != "pi_123_secret" {
		t.Errorf("unexpected intent %+v", intent)
	}
	if gotAuth != "Bearer sk_test" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody["amount"].(float64) != 60000 {
		t.Errorf("expected amount 60000, got %v", gotBody["amount"])
	}
	meta, _ := gotBody["metadata"].(map[string]interface{})
	if meta["order_id"] != "order-1" {
		t.Errorf("expected order id metadata, got %v", gotBody["metadata"])
	}
}

func TestGetIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment_intents/pi_42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Intent{ID: "pi_42", Status: StatusSucceeded})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	intent, err := client.GetIntent(context.Background(), "pi_42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Status != StatusSucceeded {
		t.Errorf("expected succeeded, got %q", intent.Status)
	}
}

func TestProcessorErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GetIntent(context.Background(), "pi_1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestProcessorTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	client.http.Timeout = 20 * time.Millisecond

	_, err := client.GetIntent(context.Background(), "pi_1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestProcessorUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "")
	client.http.Timeout = 200 * time.Millisecond

	_, err := client.CreateIntent(context.Background(), 100, "pkr", "order-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
