package testutil

import (
	"testing"
	"time"

	"gojo/pkg/middleware"
	"gojo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHeaders returns the Authorization header for a signed token. The
// secret must match what the service under test was started with.
func AuthHeaders(t *testing.T, secret, userID, role string) map[string]string {
	t.Helper()

	token, err := middleware.IssueToken(secret, userID, role, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// NewObjectID returns a fresh Mongo ID as a hex string.
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}

// ValidListingRequest is a create payload that passes validation.
func ValidListingRequest() map[string]interface{} {
	return map[string]interface{}{
		"title":           "Bole Guesthouse",
		"description":     "Quiet two bedroom close to the airport.",
		"property_type":   "entire_place",
		"city":            "Addis Ababa",
		"country":         "ET",
		"capacity":        4,
		"bedrooms":        2,
		"beds":            3,
		"bathrooms":       1.5,
		"price_per_night": 85.0,
		"currency":        "ETB",
		"amenities":       []string{"wifi", "kitchen"},
		"photos":          []string{"https://cdn.example.com/photos/bole-1.jpg"},
	}
}

// SeedActiveListing inserts an approved listing directly and returns its ID.
func SeedActiveListing(t *testing.T, mongo *MongoHelper, hostID string, blockedDates []string, customPricing []model.PriceOverride) string {
	t.Helper()

	if blockedDates == nil {
		blockedDates = []string{}
	}
	if customPricing == nil {
		customPricing = []model.PriceOverride{}
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := bson.M{
		"host_id":         hostID,
		"title":           "Bole Guesthouse",
		"description":     "Quiet two bedroom close to the airport.",
		"property_type":   "entire_place",
		"city":            "Addis Ababa",
		"country":         "ET",
		"capacity":        4,
		"price_per_night": 85.0,
		"currency":        "ETB",
		"photos":          []string{"https://cdn.example.com/photos/bole-1.jpg"},
		"status":          model.ListingStatusActive,
		"blocked_dates":   blockedDates,
		"custom_pricing":  customPricing,
		"created_at":      now,
		"updated_at":      now,
	}

	return mongo.InsertDocument(t, ListingsCollection, doc)
}
