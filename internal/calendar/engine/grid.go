// Package engine implements the host calendar: a fixed 42-cell month grid,
// overlay resolution of blocked dates, custom prices, and bookings onto that
// grid, and a per-property editing session with batch mutations.
package engine

import (
	"time"

	"gojo/pkg/model"
)

const (
	// GridSize is the number of cells in a month view: 6 full weeks. The
	// grid always spans 6 weeks even when the month fits in 5, so the
	// view height never changes.
	GridSize = 42

	DateLayout = "2006-01-02"
)

// BookingSummary is the read-only booking info attached to a booked day.
type BookingSummary struct {
	BookingID string    `json:"booking_id"`
	GuestName string    `json:"guest_name"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Status    string    `json:"status"`
}

// CalendarDay is a derived, non-persisted projection of one calendar date
// for one property. IsBooked and IsBlocked are not mutually exclusive:
// blocking a booked date is not prevented. CustomPrice is populated
// whenever an override exists; ShowPrice reports whether it should be
// rendered (suppressed on booked or blocked days).
type CalendarDay struct {
	Date               time.Time       `json:"-"`
	DateKey            string          `json:"date"`
	IsToday            bool            `json:"is_today"`
	IsCurrentMonthView bool            `json:"is_current_month_view"`
	IsBlocked          bool            `json:"is_blocked"`
	IsBooked           bool            `json:"is_booked"`
	Booking            *BookingSummary `json:"booking,omitempty"`
	CustomPrice        *float64        `json:"custom_price,omitempty"`
	IsSelected         bool            `json:"is_selected"`
}

// ShowPrice reports whether the custom price badge should be displayed.
func (d *CalendarDay) ShowPrice() bool {
	return d.CustomPrice != nil && !d.IsBooked && !d.IsBlocked
}

// BuildMonthGrid produces exactly 42 day placeholders for the given month
// in row-major, week-major order starting on Sunday. Leading cells come
// from the tail of the previous month, trailing cells from the start of
// the next, so the 42 dates are consecutive.
func BuildMonthGrid(year int, month time.Month, today time.Time) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	startPadding := int(first.Weekday())
	start := first.AddDate(0, 0, -startPadding)
	todayKey := model.Midnight(today)

	days := make([]CalendarDay, GridSize)
	for i := range days {
		d := start.AddDate(0, 0, i)
		days[i] = CalendarDay{
			Date:               d,
			DateKey:            d.Format(DateLayout),
			IsToday:            d.Equal(todayKey),
			IsCurrentMonthView: d.Year() == year && d.Month() == month,
		}
	}
	return days
}
