package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ray-remotestate/smartcafe/cache"
	"github.com/ray-remotestate/smartcafe/database/dbhelper"
	"github.com/sirupsen/logrus"
)

// AnalyticsCache is wired up in main; nil disables caching.
var AnalyticsCache *cache.Cache

const (
	popularItemsLimit    = 6
	popularItemsCacheKey = "analytics:popular-items"
	popularItemsCacheTTL = time.Minute
)

func GetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := dbhelper.GetTotals()
	if err != nil {
		logrus.Printf("failed to compute totals, error: %v", err)
		http.Error(w, "failed to compute totals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(totals)
}

func GetPopularItems(w http.ResponseWriter, r *http.Request) {
	var items []dbhelper.PopularItem
	if AnalyticsCache.Get(r.Context(), popularItemsCacheKey, &items) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
		return
	}

	items, err := dbhelper.GetPopularItems(popularItemsLimit)
	if err != nil {
		logrus.Printf("failed to query popular items, error: %v", err)
		http.Error(w, "failed to query popular items", http.StatusInternalServerError)
		return
	}

	AnalyticsCache.Set(r.Context(), popularItemsCacheKey, items, popularItemsCacheTTL)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func GetOrdersPerWeek(w http.ResponseWriter, r *http.Request) {
	counts, err := dbhelper.GetOrdersPerWeek(time.Now())
	if err != nil {
		logrus.Printf("failed to query orders per week, error: %v", err)
		http.Error(w, "failed to query orders per week", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}

func GetOrderTypeRatio(w http.ResponseWriter, r *http.Request) {
	counts, err := dbhelper.GetOrderTypeCounts()
	if err != nil {
		logrus.Printf("failed to query order type ratio, error: %v", err)
		http.Error(w, "failed to query order type ratio", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}

func GetSalesHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := dbhelper.GetSalesHistory()
	if err != nil {
		logrus.Printf("failed to query sales history, error: %v", err)
		http.Error(w, "failed to query sales history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []dbhelper.SalesHistoryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
