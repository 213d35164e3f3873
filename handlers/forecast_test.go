package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ray-remotestate/smartcafe/handlers"
)

func TestGetSalesForecast(t *testing.T) {
	const body = `{"item_id":"abc","forecast":[{"date":"2025-04-13","quantity":12}]}`

	var gotQuery string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer backend.Close()

	orig := handlers.ForecastBaseURL
	handlers.ForecastBaseURL = func() string { return backend.URL }
	defer func() { handlers.ForecastBaseURL = orig }()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/forecast/sales?item_id=abc&days=14", nil)
	rec := httptest.NewRecorder()

	handlers.GetSalesForecast(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if rec.Body.String() != body {
		t.Errorf("response body was not passed through: %s", rec.Body)
	}
	if gotQuery != "item_id=abc&days=14" {
		t.Errorf("unexpected forecast query %q", gotQuery)
	}
}

func TestGetSalesForecastDefaultsDays(t *testing.T) {
	var gotQuery string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	orig := handlers.ForecastBaseURL
	handlers.ForecastBaseURL = func() string { return backend.URL }
	defer func() { handlers.ForecastBaseURL = orig }()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/forecast/sales?item_id=abc", nil)
	rec := httptest.NewRecorder()

	handlers.GetSalesForecast(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotQuery != "item_id=abc&days=7" {
		t.Errorf("expected default of 7 days, got query %q", gotQuery)
	}
}

func TestGetSalesForecastBadInput(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing item id", "/api/admin/forecast/sales"},
		{"non-numeric days", "/api/admin/forecast/sales?item_id=abc&days=soon"},
		{"negative days", "/api/admin/forecast/sales?item_id=abc&days=-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			handlers.GetSalesForecast(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestGetSalesForecastBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not trained", http.StatusInternalServerError)
	}))
	defer backend.Close()

	orig := handlers.ForecastBaseURL
	handlers.ForecastBaseURL = func() string { return backend.URL }
	defer func() { handlers.ForecastBaseURL = orig }()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/forecast/sales?item_id=abc", nil)
	rec := httptest.NewRecorder()

	handlers.GetSalesForecast(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when the forecast service errors, got %d", rec.Code)
	}
}

func TestGetSalesForecastUnreachable(t *testing.T) {
	orig := handlers.ForecastBaseURL
	handlers.ForecastBaseURL = func() string { return "http://127.0.0.1:1/forecast" }
	defer func() { handlers.ForecastBaseURL = orig }()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/forecast/sales?item_id=abc", nil)
	rec := httptest.NewRecorder()

	handlers.GetSalesForecast(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when the forecast service is unreachable, got %d", rec.Code)
	}
}
