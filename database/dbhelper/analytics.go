package dbhelper

import (
	"time"

	"github.com/google/uuid"
	"github.com/ray-remotestate/smartcafe/database"
	"github.com/ray-remotestate/smartcafe/models"
	"github.com/shopspring/decimal"
)

type Totals struct {
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

func GetTotals() (*Totals, error) {
	t := &Totals{}
	err := database.Cafe.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount) FILTER (WHERE status = $1), 0)
		FROM orders`, models.OrderStatusCompleted).
		Scan(&t.TotalOrders, &t.TotalRevenue)
	if err != nil {
		return nil, err
	}
	return t, nil
}

type PopularItem struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	OrderCount int       `json:"order_count"`
}

func GetPopularItems(limit int) ([]PopularItem, error) {
	rows, err := database.Cafe.Query(`
		SELECT id, name, order_count
		FROM menu_items
		ORDER BY order_count DESC, id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PopularItem
	for rows.Next() {
		var p PopularItem
		if err := rows.Scan(&p.MenuItemID, &p.Name, &p.OrderCount); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WeekWindow returns the trailing 7-day window of UTC calendar days ending
// with (and including) the day of now.
func WeekWindow(now time.Time) (start, end time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -6), day.AddDate(0, 0, 1)
}

// FillMissingDays expands sparse per-day counts into exactly one bucket per
// UTC day of the window, zero where nothing was counted.
func FillMissingDays(counts map[string]int, start time.Time, days int) []DayCount {
	out := make([]DayCount, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, DayCount{Date: date, Count: counts[date]})
	}
	return out
}

func GetOrdersPerWeek(now time.Time) ([]DayCount, error) {
	start, end := WeekWindow(now)

	rows, err := database.Cafe.Query(`
		SELECT to_char(order_date AT TIME ZONE 'UTC', 'YYYY-MM-DD'), COUNT(*)
		FROM orders
		WHERE order_date >= $1 AND order_date < $2
		GROUP BY 1`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, err
		}
		counts[date] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return FillMissingDays(counts, start, 7), nil
}

type OrderTypeCounts struct {
	Pickup   int `json:"pickup"`
	Delivery int `json:"delivery"`
}

func GetOrderTypeCounts() (*OrderTypeCounts, error) {
	c := &OrderTypeCounts{}
	err := database.Cafe.QueryRow(`
		SELECT COUNT(*) FILTER (WHERE order_type = $1),
		       COUNT(*) FILTER (WHERE order_type = $2)
		FROM orders`, models.OrderTypePickup, models.OrderTypeDelivery).
		Scan(&c.Pickup, &c.Delivery)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type SalesHistoryEntry struct {
	MenuItemID uuid.UUID `json:"menuItemId"`
	Date       string    `json:"date"`
	Quantity   int       `json:"quantity"`
}

// GetSalesHistory sums sold quantities per item per UTC day. The forecast
// service consumes this endpoint, so the JSON field names match what it
// expects.
func GetSalesHistory() ([]SalesHistoryEntry, error) {
	rows, err := database.Cafe.Query(`
		SELECT oi.menu_item_id,
		       to_char(o.order_date AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		GROUP BY oi.menu_item_id, day
		ORDER BY oi.menu_item_id, day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SalesHistoryEntry
	for rows.Next() {
		var e SalesHistoryEntry
		if err := rows.Scan(&e.MenuItemID, &e.Date, &e.Quantity); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
