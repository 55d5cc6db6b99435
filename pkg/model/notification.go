package model

import "time"

const (
	NotificationBookingRequested = "booking_requested"
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationBookingCompleted = "booking_completed"
	NotificationListingApproved  = "listing_approved"
	NotificationListingRejected  = "listing_rejected"
)

type Notification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Type      string    `json:"type" bson:"type" validate:"required"`
	Title     string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Body      string    `json:"body,omitempty" bson:"body" validate:"omitempty,max=1000"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
