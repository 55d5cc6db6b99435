package engine

import (
	"testing"
	"time"
)

func TestBuildMonthGridAlwaysReturns42Cells(t *testing.T) {
	today := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

	for year := 2020; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			days := BuildMonthGrid(year, month, today)
			if len(days) != GridSize {
				t.Errorf("BuildMonthGrid(%d, %s) returned %d cells, want %d", year, month, len(days), GridSize)
			}
		}
	}
}

func TestBuildMonthGridStartsOnSunday(t *testing.T) {
	today := time.Now()

	for year := 2024; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			days := BuildMonthGrid(year, month, today)
			if days[0].Date.Weekday() != time.Sunday {
				t.Errorf("BuildMonthGrid(%d, %s) starts on %s, want Sunday", year, month, days[0].Date.Weekday())
			}
		}
	}
}

func TestBuildMonthGridDatesAreConsecutive(t *testing.T) {
	today := time.Now()

	cases := []struct {
		name  string
		year  int
		month time.Month
	}{
		{name: "february leap year", year: 2024, month: time.February},
		{name: "february non-leap year", year: 2025, month: time.February},
		// 31-day months covering all seven starting weekdays.
		{name: "march 2025 starts saturday", year: 2025, month: time.March},
		{name: "may 2025 starts thursday", year: 2025, month: time.May},
		{name: "july 2025 starts tuesday", year: 2025, month: time.July},
		{name: "august 2025 starts friday", year: 2025, month: time.August},
		{name: "october 2025 starts wednesday", year: 2025, month: time.October},
		{name: "december 2025 starts monday", year: 2025, month: time.December},
		{name: "june 2025 starts sunday", year: 2025, month: time.June},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := BuildMonthGrid(tc.year, tc.month, today)
			for i := 1; i < len(days); i++ {
				want := days[i-1].Date.AddDate(0, 0, 1)
				if !days[i].Date.Equal(want) {
					t.Fatalf("cell %d: date %s does not follow %s", i, days[i].DateKey, days[i-1].DateKey)
				}
			}
		})
	}
}

func TestBuildMonthGridCurrentMonthFlag(t *testing.T) {
	today := time.Now()
	days := BuildMonthGrid(2025, time.June, today)

	// June 1 2025 is a Sunday, so the grid opens directly on the month.
	if !days[0].IsCurrentMonthView || days[0].DateKey != "2025-06-01" {
		t.Errorf("first cell = %s (current=%v), want 2025-06-01 in current month", days[0].DateKey, days[0].IsCurrentMonthView)
	}

	inMonth := 0
	for _, d := range days {
		if d.IsCurrentMonthView {
			inMonth++
			if d.Date.Month() != time.June || d.Date.Year() != 2025 {
				t.Errorf("cell %s flagged in-month but is not in June 2025", d.DateKey)
			}
		}
	}
	if inMonth != 30 {
		t.Errorf("got %d in-month cells, want 30", inMonth)
	}

	// Trailing cells belong to July.
	last := days[GridSize-1]
	if last.IsCurrentMonthView {
		t.Errorf("last cell %s should be padding from the next month", last.DateKey)
	}
}

func TestBuildMonthGridPaddingFromPreviousMonth(t *testing.T) {
	today := time.Now()
	// July 1 2025 is a Tuesday: two leading cells from June.
	days := BuildMonthGrid(2025, time.July, today)

	if days[0].DateKey != "2025-06-29" {
		t.Errorf("first cell = %s, want 2025-06-29", days[0].DateKey)
	}
	if days[0].IsCurrentMonthView || days[1].IsCurrentMonthView {
		t.Error("leading padding cells must not be flagged as current month")
	}
	if days[2].DateKey != "2025-07-01" || !days[2].IsCurrentMonthView {
		t.Errorf("third cell = %s (current=%v), want 2025-07-01 in current month", days[2].DateKey, days[2].IsCurrentMonthView)
	}
}

func TestBuildMonthGridMarksToday(t *testing.T) {
	today := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	days := BuildMonthGrid(2025, time.June, today)

	found := 0
	for _, d := range days {
		if d.IsToday {
			found++
			if d.DateKey != "2025-06-15" {
				t.Errorf("IsToday set on %s, want 2025-06-15", d.DateKey)
			}
		}
	}
	if found != 1 {
		t.Errorf("IsToday set on %d cells, want 1", found)
	}

	// Another month should carry no today marker.
	for _, d := range BuildMonthGrid(2025, time.August, today) {
		if d.IsToday {
			t.Errorf("IsToday set on %s in a month not containing today", d.DateKey)
		}
	}
}

func TestBuildMonthGridYearBoundary(t *testing.T) {
	today := time.Now()
	days := BuildMonthGrid(2025, time.January, today)

	// January 1 2025 is a Wednesday: three leading cells from December 2024.
	if days[0].DateKey != "2024-12-29" {
		t.Errorf("first cell = %s, want 2024-12-29", days[0].DateKey)
	}
	if days[3].DateKey != "2025-01-01" || !days[3].IsCurrentMonthView {
		t.Errorf("fourth cell = %s, want 2025-01-01 in current month", days[3].DateKey)
	}
}
