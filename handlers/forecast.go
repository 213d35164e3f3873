package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ray-remotestate/smartcafe/config"
	"github.com/sirupsen/logrus"
)

// ForecastBaseURL points at the external forecast service; overridable for
// tests.
var ForecastBaseURL = func() string { return config.ForecastURL }

var forecastClient = &http.Client{Timeout: 15 * time.Second}

// GetSalesForecast proxies the forecast service. The model is opaque to this
// backend; the response body is passed through untouched.
func GetSalesForecast(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("item_id")
	if itemID == "" {
		http.Error(w, "item_id is required", http.StatusBadRequest)
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	requestURL := fmt.Sprintf("%s?item_id=%s&days=%d", ForecastBaseURL(), url.QueryEscape(itemID), days)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, requestURL, nil)
	if err != nil {
		http.Error(w, "failed to build forecast request", http.StatusInternalServerError)
		return
	}

	resp, err := forecastClient.Do(req)
	if err != nil {
		logrus.Printf("forecast service unreachable, error: %v", err)
		http.Error(w, "forecast service unavailable", http.StatusServiceUnavailable)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logrus.Printf("forecast service returned status %d", resp.StatusCode)
		http.Error(w, "forecast service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	io.Copy(w, resp.Body)
}
