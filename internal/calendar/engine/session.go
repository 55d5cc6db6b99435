package engine

import (
	"sort"
	"time"

	"gojo/pkg/model"
)

// Session is one host's editing session for one property's calendar. It
// tracks the visible month, the loaded overlays, and the transient date
// selection. The selection survives month navigation and is reset only by
// an explicit clear, a property switch, or a confirmed mutation.
//
// A Session is not safe for concurrent use; callers serialize access.
type Session struct {
	ListingID     string
	HostID        string
	Year          int
	Month         time.Month
	PricePerNight float64
	Currency      string

	overlays  *Overlays
	selection map[string]struct{}
	now       func() time.Time
}

// NewSession opens a session positioned on the month containing today.
func NewSession(listing *model.Listing, bookings []*model.Booking, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	today := now()
	return &Session{
		ListingID:     listing.ID,
		HostID:        listing.HostID,
		Year:          today.Year(),
		Month:         today.Month(),
		PricePerNight: listing.PricePerNight,
		Currency:      listing.Currency,
		overlays:      NewOverlays(listing.BlockedDates, listing.CustomPricing, bookings),
		selection:     make(map[string]struct{}),
		now:           now,
	}
}

// Grid returns the 42-cell view of the current month with overlays and
// selection applied.
func (s *Session) Grid() []CalendarDay {
	days := BuildMonthGrid(s.Year, s.Month, s.now())
	s.overlays.Apply(days)
	for i := range days {
		_, days[i].IsSelected = s.selection[days[i].DateKey]
	}
	return days
}

// Toggle flips a date's membership in the selection set. A date outside the
// visible month or strictly before today is a no-op. A booked date is never
// toggled; its booking summary is returned instead. The boolean reports
// whether the selection changed.
func (s *Session) Toggle(dateKey string) (*BookingSummary, bool) {
	d, err := time.Parse(DateLayout, dateKey)
	if err != nil {
		return nil, false
	}

	if d.Year() != s.Year || d.Month() != s.Month {
		return nil, false
	}

	today := model.Midnight(s.now())
	if d.Before(today) {
		return nil, false
	}

	if b := s.overlays.BookingFor(d); b != nil {
		return &BookingSummary{
			BookingID: b.ID,
			GuestName: b.GuestName,
			CheckIn:   b.CheckIn,
			CheckOut:  b.CheckOut,
			Status:    b.Status,
		}, false
	}

	if _, ok := s.selection[dateKey]; ok {
		delete(s.selection, dateKey)
	} else {
		s.selection[dateKey] = struct{}{}
	}
	return nil, true
}

// ClearSelection empties the selection unconditionally.
func (s *Session) ClearSelection() {
	s.selection = make(map[string]struct{})
}

func (s *Session) SelectionCount() int {
	return len(s.selection)
}

// SelectedDates returns the selection as a sorted slice.
func (s *Session) SelectedDates() []string {
	out := make([]string, 0, len(s.selection))
	for d := range s.selection {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// SelectionSet returns a copy of the selection set.
func (s *Session) SelectionSet() map[string]struct{} {
	out := make(map[string]struct{}, len(s.selection))
	for d := range s.selection {
		out[d] = struct{}{}
	}
	return out
}

// Overlays exposes the current overlays for building mutation candidates.
func (s *Session) Overlays() *Overlays {
	return s.overlays
}

// Commit installs overlays after a confirmed remote write and clears the
// selection. It is never called on a failed write, so a failure leaves both
// the overlays and the selection exactly as they were.
func (s *Session) Commit(overlays *Overlays) {
	s.overlays = overlays
	s.ClearSelection()
}

// Reload replaces the overlays from a fresh fetch. The selection is kept;
// only an explicit clear, a mutation success, or a property switch drops it.
func (s *Session) Reload(listing *model.Listing, bookings []*model.Booking) {
	s.PricePerNight = listing.PricePerNight
	s.Currency = listing.Currency
	s.overlays = NewOverlays(listing.BlockedDates, listing.CustomPricing, bookings)
}

// NextMonth advances the visible month by one. The selection is preserved.
func (s *Session) NextMonth() {
	s.setMonth(time.Date(s.Year, s.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

// PrevMonth retreats the visible month by one. The selection is preserved.
func (s *Session) PrevMonth() {
	s.setMonth(time.Date(s.Year, s.Month-1, 1, 0, 0, 0, 0, time.UTC))
}

// GoToToday jumps to the month containing today. The selection is preserved.
func (s *Session) GoToToday() {
	s.setMonth(s.now())
}

// SetMonth jumps to an arbitrary month. The selection is preserved.
func (s *Session) SetMonth(year int, month time.Month) {
	s.setMonth(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

func (s *Session) setMonth(t time.Time) {
	s.Year = t.Year()
	s.Month = t.Month()
}
