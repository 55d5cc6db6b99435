package model

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	HostID    string    `json:"host_id" bson:"host_id" validate:"required,mongodb"`
	GuestID   string    `json:"guest_id" bson:"guest_id" validate:"required,mongodb"`
	GuestName string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	CheckIn   time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut  time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Guests    int       `json:"guests" bson:"guests" validate:"required,min=1,max=50"`

	Nights     int     `json:"nights" bson:"nights" validate:"omitempty,min=1"`
	TotalPrice float64 `json:"total_price" bson:"total_price" validate:"omitempty,gt=0"`
	Currency   string  `json:"currency" bson:"currency" validate:"omitempty,oneof=USD ETB"`

	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// CoversDate reports whether the booking occupies the given calendar date.
// The stay interval is half-open: the check-out day itself is free for a new
// check-in.
func (b *Booking) CoversDate(date time.Time) bool {
	d := Midnight(date)
	return !d.Before(Midnight(b.CheckIn)) && d.Before(Midnight(b.CheckOut))
}

// OverlapsRange reports whether the booking's [CheckIn, CheckOut) interval
// overlaps the given half-open [checkIn, checkOut) interval.
func (b *Booking) OverlapsRange(checkIn, checkOut time.Time) bool {
	return Midnight(b.CheckIn).Before(Midnight(checkOut)) &&
		Midnight(checkIn).Before(Midnight(b.CheckOut))
}

// Occupies reports whether the booking should count against availability.
// Cancelled and completed stays release their dates.
func (b *Booking) Occupies() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusPending
}

// Midnight truncates an instant to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
