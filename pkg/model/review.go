package model

import "time"

type Review struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	BookingID string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	GuestID   string    `json:"guest_id" bson:"guest_id" validate:"required,mongodb"`
	GuestName string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	Rating    int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Title     string    `json:"title,omitempty" bson:"title" validate:"omitempty,max=120"`
	Body      string    `json:"body" bson:"body" validate:"required,min=2,max=3000"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ListingRating struct {
	ListingID string  `json:"listing_id"`
	Average   float64 `json:"average"`
	Count     int64   `json:"count"`
}
