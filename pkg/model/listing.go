package model

import "time"

const (
	ListingStatusDraft     = "draft"
	ListingStatusPending   = "pending"
	ListingStatusActive    = "active"
	ListingStatusRejected  = "rejected"
	ListingStatusSuspended = "suspended"
)

// PriceOverride is a per-date nightly price that replaces the listing's base
// rate for that date only. Dates use the canonical YYYY-MM-DD form.
type PriceOverride struct {
	Date  string  `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Price float64 `json:"price" bson:"price" validate:"required,gt=0"`
}

type Listing struct {
	ID           string  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HostID       string  `json:"host_id" bson:"host_id" validate:"required,mongodb"`
	Title        string  `json:"title" bson:"title" validate:"required,min=2,max=120"`
	Description  string  `json:"description,omitempty" bson:"description" validate:"omitempty,max=5000"`
	PropertyType string  `json:"property_type" bson:"property_type" validate:"required,oneof=entire_place private_room shared_room"`
	City         string  `json:"city" bson:"city" validate:"required,min=2,max=50"`
	Country      string  `json:"country" bson:"country" validate:"required,iso3166_1_alpha2"`
	Lat          float64 `json:"lat,omitempty" bson:"lat" validate:"omitempty,latitude"`
	Lng          float64 `json:"lng,omitempty" bson:"lng" validate:"omitempty,longitude"`

	Capacity  int     `json:"capacity" bson:"capacity" validate:"required,min=1,max=50"`
	Bedrooms  int     `json:"bedrooms,omitempty" bson:"bedrooms" validate:"omitempty,min=0,max=50"`
	Beds      int     `json:"beds,omitempty" bson:"beds" validate:"omitempty,min=0,max=100"`
	Bathrooms float64 `json:"bathrooms,omitempty" bson:"bathrooms" validate:"omitempty,min=0,max=50"`

	PricePerNight float64  `json:"price_per_night" bson:"price_per_night" validate:"required,gt=0"`
	Currency      string   `json:"currency" bson:"currency" validate:"required,oneof=USD ETB"`
	Amenities     []string `json:"amenities,omitempty" bson:"amenities" validate:"omitempty,max=50,dive,min=1,max=60"`
	Photos        []string `json:"photos,omitempty" bson:"photos" validate:"omitempty,max=30,dive,url"`
	HouseRules    string   `json:"house_rules,omitempty" bson:"house_rules" validate:"omitempty,max=2000"`

	Status      string `json:"status" bson:"status" validate:"required,oneof=draft pending active rejected suspended"`
	ReviewNotes string `json:"review_notes,omitempty" bson:"review_notes" validate:"omitempty,max=2000"`
	Flagged     bool   `json:"flagged,omitempty" bson:"flagged"`
	FlagReason  string `json:"flag_reason,omitempty" bson:"flag_reason" validate:"omitempty,max=500"`

	// Host availability overlays. Persisted wholesale on every mutation;
	// there is no per-date partial write.
	BlockedDates  []string        `json:"blocked_dates" bson:"blocked_dates" validate:"omitempty,dive,datetime=2006-01-02"`
	CustomPricing []PriceOverride `json:"custom_pricing" bson:"custom_pricing" validate:"omitempty,dive"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type ListingUpdate struct {
	Title        string   `json:"title,omitempty" validate:"omitempty,min=2,max=120"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	PropertyType string   `json:"property_type,omitempty" validate:"omitempty,oneof=entire_place private_room shared_room"`
	City         string   `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	Country      string   `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	Lat          *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng          *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`

	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=50"`
	Bedrooms  *int     `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Beds      *int     `json:"beds,omitempty" validate:"omitempty,min=0,max=100"`
	Bathrooms *float64 `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=50"`

	PricePerNight *float64  `json:"price_per_night,omitempty" validate:"omitempty,gt=0"`
	Currency      string    `json:"currency,omitempty" validate:"omitempty,oneof=USD ETB"`
	Amenities     *[]string `json:"amenities,omitempty" validate:"omitempty,max=50,dive,min=1,max=60"`
	Photos        *[]string `json:"photos,omitempty" validate:"omitempty,max=30,dive,url"`
	HouseRules    string    `json:"house_rules,omitempty" validate:"omitempty,max=2000"`
}
