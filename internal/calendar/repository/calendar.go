package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	calerrors "gojo/internal/calendar/errors"
	"gojo/pkg/config"
	"gojo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ListingsCollection = "Listings"
	BookingsCollection = "Bookings"
)

type mongoCalendarRepository struct {
	cfg      *config.Config
	db       *mongo.Database
	listings *mongo.Collection
	bookings *mongo.Collection
}

// CalendarRepository loads a property's availability overlays and persists
// them back as whole collections.
type CalendarRepository interface {
	FindListing(ctx context.Context, id string) (*model.Listing, error)
	FindActiveBookings(ctx context.Context, listingID string) ([]*model.Booking, error)
	SaveOverlays(ctx context.Context, listingID string, blockedDates []string, customPricing []model.PriceOverride) error
}

func NewMongoCalendarRepository(cfg *config.Config) CalendarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCalendarRepository{
		cfg:      cfg,
		db:       db,
		listings: db.Collection(ListingsCollection),
		bookings: db.Collection(BookingsCollection),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
func (r *mongoCalendarRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCalendarRepository) FindListing(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", calerrors.ErrInvalidID, id)
	}

	var listing model.Listing
	err = r.listings.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, calerrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}

	return &listing, nil
}

// FindActiveBookings returns the property's confirmed and pending bookings
// in query order. No sorting is applied; the calendar resolves overlapping
// bookings by load order.
func (r *mongoCalendarRepository) FindActiveBookings(ctx context.Context, listingID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": []string{model.BookingStatusConfirmed, model.BookingStatusPending}},
	}

	cursor, err := r.bookings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// SaveOverlays replaces the listing's blocked_dates and custom_pricing
// arrays in one update. Only those fields and updated_at are touched; the
// last successful write wins in its entirety.
func (r *mongoCalendarRepository) SaveOverlays(ctx context.Context, listingID string, blockedDates []string, customPricing []model.PriceOverride) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return fmt.Errorf("%w: %s", calerrors.ErrInvalidID, listingID)
	}

	update := bson.M{
		"$set": bson.M{
			"blocked_dates":  blockedDates,
			"custom_pricing": customPricing,
			"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.listings.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to save calendar overlays: %w", err)
	}

	if result.MatchedCount == 0 {
		return calerrors.ErrListingNotFound
	}

	return nil
}
