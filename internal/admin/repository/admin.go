package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	listingserrors "gojo/internal/listings/errors"
	"gojo/pkg/config"
	"gojo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ListingsCollection = "Listings"
	BookingsCollection = "Bookings"
	UsersCollection    = "Users"
	ReviewsCollection  = "Reviews"
)

// DashboardCounts is the raw material for the admin dashboard.
type DashboardCounts struct {
	ListingsByStatus map[string]int64 `json:"listings_by_status"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	UsersByRole      map[string]int64 `json:"users_by_role"`
	FlaggedListings  int64            `json:"flagged_listings"`
	SuspendedUsers   int64            `json:"suspended_users"`
	TotalReviews     int64            `json:"total_reviews"`
}

type AdminRepository interface {
	FindPendingListings(ctx context.Context, limit int, offset int64) ([]*model.Listing, error)
	CountPendingListings(ctx context.Context) (int64, error)
	FindListing(ctx context.Context, id string) (*model.Listing, error)
	SetListingStatus(ctx context.Context, id string, status string, reviewNotes string) error
	SetListingFlag(ctx context.Context, id string, flagged bool, reason string) error
	CollectDashboardCounts(ctx context.Context) (*DashboardCounts, error)
}

type mongoAdminRepository struct {
	cfg      *config.Config
	listings *mongo.Collection
	bookings *mongo.Collection
	users    *mongo.Collection
	reviews  *mongo.Collection
}

func NewMongoAdminRepository(cfg *config.Config) AdminRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAdminRepository{
		cfg:      cfg,
		listings: db.Collection(ListingsCollection),
		bookings: db.Collection(BookingsCollection),
		users:    db.Collection(UsersCollection),
		reviews:  db.Collection(ReviewsCollection),
	}
}

func (r *mongoAdminRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoAdminRepository) FindPendingListings(ctx context.Context, limit int, offset int64) ([]*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Oldest submissions first so the moderation queue is fair.
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.listings.Find(ctx, bson.M{"status": model.ListingStatusPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []*model.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode pending listings: %w", err)
	}

	return listings, nil
}

func (r *mongoAdminRepository) CountPendingListings(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.listings.CountDocuments(ctx, bson.M{"status": model.ListingStatusPending})
	if err != nil {
		return 0, fmt.Errorf("failed to count pending listings: %w", err)
	}
	return count, nil
}

func (r *mongoAdminRepository) FindListing(ctx context.Context, id string) (*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	var listing model.Listing
	err = r.listings.FindOne(ctx, bson.M{"_id": objectID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}

	return &listing, nil
}

func (r *mongoAdminRepository) SetListingStatus(ctx context.Context, id string, status string, reviewNotes string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"status":       status,
			"review_notes": reviewNotes,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.listings.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	if result.MatchedCount == 0 {
		return listingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoAdminRepository) SetListingFlag(ctx context.Context, id string, flagged bool, reason string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", listingserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"flagged":     flagged,
			"flag_reason": reason,
			"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.listings.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return listingserrors.ErrNotFound
	}
	return nil
}

// CollectDashboardCounts walks the grouped counts with cursors rather than
// loading documents; the collections can be large.
func (r *mongoAdminRepository) CollectDashboardCounts(ctx context.Context) (*DashboardCounts, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	counts := &DashboardCounts{
		ListingsByStatus: map[string]int64{},
		BookingsByStatus: map[string]int64{},
		UsersByRole:      map[string]int64{},
	}

	if err := r.groupCounts(ctx, r.listings, "$status", counts.ListingsByStatus); err != nil {
		return nil, err
	}
	if err := r.groupCounts(ctx, r.bookings, "$status", counts.BookingsByStatus); err != nil {
		return nil, err
	}
	if err := r.groupCounts(ctx, r.users, "$role", counts.UsersByRole); err != nil {
		return nil, err
	}

	flagged, err := r.listings.CountDocuments(ctx, bson.M{"flagged": true})
	if err != nil {
		return nil, fmt.Errorf("failed to count flagged listings: %w", err)
	}
	counts.FlaggedListings = flagged

	suspended, err := r.users.CountDocuments(ctx, bson.M{"suspended": true})
	if err != nil {
		return nil, fmt.Errorf("failed to count suspended users: %w", err)
	}
	counts.SuspendedUsers = suspended

	reviews, err := r.reviews.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	counts.TotalReviews = reviews

	return counts, nil
}

func (r *mongoAdminRepository) groupCounts(ctx context.Context, collection *mongo.Collection, field string, out map[string]int64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   field,
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate %s counts: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return fmt.Errorf("failed to decode %s counts: %w", collection.Name(), err)
		}
		out[row.ID] = row.Count
	}
	return cursor.Err()
}
