package dbhelper_test

import (
	"testing"
	"time"

	"github.com/ray-remotestate/smartcafe/database/dbhelper"
)

func TestWeekWindow(t *testing.T) {
	now := time.Date(2025, 4, 12, 18, 30, 45, 0, time.UTC)

	start, end := dbhelper.WeekWindow(now)

	if want := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("expected window start %v, got %v", want, start)
	}
	if want := time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("expected window end %v, got %v", want, end)
	}
}

func TestWeekWindowCrossesMonth(t *testing.T) {
	now := time.Date(2025, 5, 2, 3, 0, 0, 0, time.UTC)

	start, end := dbhelper.WeekWindow(now)

	if want := time.Date(2025, 4, 26, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("expected window start %v, got %v", want, start)
	}
	if want := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("expected window end %v, got %v", want, end)
	}
}

func TestFillMissingDays(t *testing.T) {
	start := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)
	counts := map[string]int{
		"2025-04-06": 3,
		"2025-04-09": 1,
	}

	got := dbhelper.FillMissingDays(counts, start, 7)

	if len(got) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(got))
	}

	want := []dbhelper.DayCount{
		{Date: "2025-04-06", Count: 3},
		{Date: "2025-04-07", Count: 0},
		{Date: "2025-04-08", Count: 0},
		{Date: "2025-04-09", Count: 1},
		{Date: "2025-04-10", Count: 0},
		{Date: "2025-04-11", Count: 0},
		{Date: "2025-04-12", Count: 0},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestFillMissingDaysEmpty(t *testing.T) {
	start := time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)

	got := dbhelper.FillMissingDays(nil, start, 7)

	if len(got) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(got))
	}
	for _, bucket := range got {
		if bucket.Count != 0 {
			t.Errorf("expected zero count for %s, got %d", bucket.Date, bucket.Count)
		}
	}
}
