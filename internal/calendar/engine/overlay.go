package engine

import (
	"sort"
	"time"

	"gojo/pkg/model"
)

// Overlays holds the three independently-stored availability layers for one
// property: the blocked-date set, the custom-price map, and the loaded
// booking list. Mutating methods return a modified copy; the originals are
// never touched, so a failed write can discard the candidate without
// corrupting session state.
type Overlays struct {
	blocked  map[string]struct{}
	pricing  map[string]float64
	bookings []*model.Booking
}

func NewOverlays(blockedDates []string, customPricing []model.PriceOverride, bookings []*model.Booking) *Overlays {
	o := &Overlays{
		blocked:  make(map[string]struct{}, len(blockedDates)),
		pricing:  make(map[string]float64, len(customPricing)),
		bookings: bookings,
	}
	for _, d := range blockedDates {
		o.blocked[d] = struct{}{}
	}
	for _, p := range customPricing {
		o.pricing[p.Date] = p.Price
	}
	return o
}

// Apply resolves the blocked, booked, and price fields of every day in the
// grid against the overlays.
func (o *Overlays) Apply(days []CalendarDay) {
	for i := range days {
		o.resolve(&days[i])
	}
}

func (o *Overlays) resolve(day *CalendarDay) {
	_, day.IsBlocked = o.blocked[day.DateKey]

	if b := o.BookingFor(day.Date); b != nil {
		day.IsBooked = true
		day.Booking = &BookingSummary{
			BookingID: b.ID,
			GuestName: b.GuestName,
			CheckIn:   b.CheckIn,
			CheckOut:  b.CheckOut,
			Status:    b.Status,
		}
	}

	if price, ok := o.pricing[day.DateKey]; ok {
		p := price
		day.CustomPrice = &p
	}
}

// BookingFor returns the first loaded booking whose half-open
// [checkIn, checkOut) interval contains the date. The list is scanned in
// load order; no sorting is applied, so overlapping bookings tie-break by
// load order.
func (o *Overlays) BookingFor(date time.Time) *model.Booking {
	for _, b := range o.bookings {
		if b.Occupies() && b.CoversDate(date) {
			return b
		}
	}
	return nil
}

// IsBlocked reports whether the date key is in the blocked set.
func (o *Overlays) IsBlocked(dateKey string) bool {
	_, ok := o.blocked[dateKey]
	return ok
}

// CustomPrice returns the override for a date key, if any.
func (o *Overlays) CustomPrice(dateKey string) (float64, bool) {
	price, ok := o.pricing[dateKey]
	return price, ok
}

// WithBlocked returns a copy whose blocked set is the union of the existing
// set and the given dates.
func (o *Overlays) WithBlocked(dates map[string]struct{}) *Overlays {
	c := o.clone()
	for d := range dates {
		c.blocked[d] = struct{}{}
	}
	return c
}

// WithUnblocked returns a copy whose blocked set excludes the given dates.
func (o *Overlays) WithUnblocked(dates map[string]struct{}) *Overlays {
	c := o.clone()
	for d := range dates {
		delete(c.blocked, d)
	}
	return c
}

// WithPrice returns a copy where every given date maps to price, replacing
// existing entries for those dates and keeping all others.
func (o *Overlays) WithPrice(dates map[string]struct{}, price float64) *Overlays {
	c := o.clone()
	for d := range dates {
		c.pricing[d] = price
	}
	return c
}

// WithoutPrice returns a copy with the given dates' price entries removed.
func (o *Overlays) WithoutPrice(dates map[string]struct{}) *Overlays {
	c := o.clone()
	for d := range dates {
		delete(c.pricing, d)
	}
	return c
}

func (o *Overlays) clone() *Overlays {
	c := &Overlays{
		blocked:  make(map[string]struct{}, len(o.blocked)),
		pricing:  make(map[string]float64, len(o.pricing)),
		bookings: o.bookings,
	}
	for d := range o.blocked {
		c.blocked[d] = struct{}{}
	}
	for d, p := range o.pricing {
		c.pricing[d] = p
	}
	return c
}

// BlockedDates returns the blocked set as a sorted slice for persistence.
func (o *Overlays) BlockedDates() []string {
	out := make([]string, 0, len(o.blocked))
	for d := range o.blocked {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// CustomPricing returns the price map as a date-sorted slice for persistence.
func (o *Overlays) CustomPricing() []model.PriceOverride {
	out := make([]model.PriceOverride, 0, len(o.pricing))
	for d, p := range o.pricing {
		out = append(out, model.PriceOverride{Date: d, Price: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
