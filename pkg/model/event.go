package model

import "time"

// Event types published on the booking events topic.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventListingModerated     = "listing.moderated"
)

// BookingEvent is the payload carried on the booking events topic. The
// notifications consumer turns these into per-user notification documents.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title,omitempty"`
	HostID       string    `json:"host_id"`
	GuestID      string    `json:"guest_id"`
	GuestName    string    `json:"guest_name"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ListingModerationEvent is published when an admin approves or rejects a
// pending listing.
type ListingModerationEvent struct {
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title,omitempty"`
	HostID       string    `json:"host_id"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
