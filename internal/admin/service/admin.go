package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gojo/internal/admin/repository"
	listingserrors "gojo/internal/listings/errors"
	userserrors "gojo/internal/users/errors"
	usersrepository "gojo/internal/users/repository"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/kafka"
	"gojo/pkg/logger"
	"gojo/pkg/model"
	"gojo/pkg/sanitizer"
)

const (
	dashboardCacheKey = "gojo:admin:dashboard"
	publishTimeout    = 5 * time.Second
	maxNotesLength    = 500

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ErrCacheMiss is returned by a Cache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the slice of redis the dashboard needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher publishes moderation events to the listing events topic.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// PendingPage is one page of the moderation queue.
type PendingPage struct {
	Listings []*model.Listing `json:"listings"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int64            `json:"offset"`
}

// Dashboard is the cached admin overview.
type Dashboard struct {
	Counts      *repository.DashboardCounts `json:"counts"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

type AdminService interface {
	PendingListings(ctx context.Context, limit int, offset int64) (*PendingPage, error)
	ApproveListing(ctx context.Context, listingID string) error
	RejectListing(ctx context.Context, listingID string, notes string) error
	FlagListing(ctx context.Context, listingID string, reason string) error
	UnflagListing(ctx context.Context, listingID string) error
	SetUserSuspended(ctx context.Context, userID string, suspended bool) error
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type adminService struct {
	repo      repository.AdminRepository
	users     usersrepository.UserRepository
	publisher EventPublisher
	cache     Cache
	cfg       *config.Config
	log       *logger.Logger
	now       func() time.Time
}

func NewAdminService(repo repository.AdminRepository, users usersrepository.UserRepository, publisher EventPublisher, cache Cache, cfg *config.Config) AdminService {
	return &adminService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		cache:     cache,
		cfg:       cfg,
		log:       cfg.Log,
		now:       time.Now,
	}
}

func (s *adminService) PendingListings(ctx context.Context, limit int, offset int64) (*PendingPage, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	listings, err := s.repo.FindPendingListings(ctx, limit, offset)
	if err != nil {
		return nil, s.mapRepoError(err, "")
	}

	total, err := s.repo.CountPendingListings(ctx)
	if err != nil {
		return nil, s.mapRepoError(err, "")
	}

	return &PendingPage{Listings: listings, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *adminService) ApproveListing(ctx context.Context, listingID string) error {
	return s.moderate(ctx, listingID, model.ListingStatusActive, "")
}

func (s *adminService) RejectListing(ctx context.Context, listingID string, notes string) error {
	notes = sanitizer.TrimAndNormalize(notes)
	if notes == "" {
		return apperrors.Validation("Rejection notes are required", map[string]any{
			"notes": "notes must explain what the host needs to fix",
		})
	}
	if len(notes) > maxNotesLength {
		return apperrors.Validation("Rejection notes are too long", map[string]any{
			"notes": fmt.Sprintf("notes must be at most %d characters", maxNotesLength),
		})
	}
	return s.moderate(ctx, listingID, model.ListingStatusRejected, notes)
}

// moderate moves a pending listing to its decided status and tells the host.
func (s *adminService) moderate(ctx context.Context, listingID string, status string, notes string) error {
	listing, err := s.repo.FindListing(ctx, listingID)
	if err != nil {
		return s.mapRepoError(err, listingID)
	}

	if listing.Status != model.ListingStatusPending {
		return apperrors.Conflict(fmt.Sprintf("Listing is %s, only pending listings can be moderated", listing.Status))
	}

	if err := s.repo.SetListingStatus(ctx, listingID, status, notes); err != nil {
		return s.mapRepoError(err, listingID)
	}

	s.publishModeration(listing, status, notes)
	return nil
}

func (s *adminService) FlagListing(ctx context.Context, listingID string, reason string) error {
	reason = sanitizer.TrimAndNormalize(reason)
	if reason == "" {
		return apperrors.Validation("Flag reason is required", map[string]any{
			"reason": "reason must not be empty",
		})
	}
	if len(reason) > maxNotesLength {
		return apperrors.Validation("Flag reason is too long", map[string]any{
			"reason": fmt.Sprintf("reason must be at most %d characters", maxNotesLength),
		})
	}

	if err := s.repo.SetListingFlag(ctx, listingID, true, reason); err != nil {
		return s.mapRepoError(err, listingID)
	}
	return nil
}

func (s *adminService) UnflagListing(ctx context.Context, listingID string) error {
	if err := s.repo.SetListingFlag(ctx, listingID, false, ""); err != nil {
		return s.mapRepoError(err, listingID)
	}
	return nil
}

func (s *adminService) SetUserSuspended(ctx context.Context, userID string, suspended bool) error {
	if err := s.users.SetSuspended(ctx, userID, suspended); err != nil {
		switch {
		case errors.Is(err, userserrors.ErrNotFound):
			return apperrors.NotFoundWithID("User", userID)
		case errors.Is(err, userserrors.ErrInvalidID):
			return apperrors.InvalidInput("Invalid user ID format")
		default:
			s.log.Error("failed to update user suspension", "error", err, "userID", userID)
			return apperrors.Internal("Failed to update user", err)
		}
	}
	return nil
}

// GetDashboard serves the overview from cache when it can. The counts scan
// four collections, so a stale-by-TTL answer is the right trade.
func (s *adminService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, dashboardCacheKey)
		if err == nil {
			var dashboard Dashboard
			if err := json.Unmarshal(cached, &dashboard); err == nil {
				return &dashboard, nil
			}
			s.log.Warn("discarding undecodable dashboard cache entry", "error", err)
		} else if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("dashboard cache read failed", "error", err)
		}
	}

	counts, err := s.repo.CollectDashboardCounts(ctx)
	if err != nil {
		s.log.Error("failed to collect dashboard counts", "error", err)
		return nil, apperrors.Internal("Failed to build dashboard", err)
	}

	dashboard := &Dashboard{Counts: counts, GeneratedAt: s.now().UTC()}

	if s.cache != nil {
		encoded, err := json.Marshal(dashboard)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, encoded, s.cfg.DashboardCacheTTL); err != nil {
				s.log.Warn("dashboard cache write failed", "error", err)
			}
		}
	}

	return dashboard, nil
}

func (s *adminService) publishModeration(listing *model.Listing, status string, notes string) {
	if s.publisher == nil {
		return
	}

	event := model.ListingModerationEvent{
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		HostID:       listing.HostID,
		Status:       status,
		Notes:        notes,
		OccurredAt:   s.now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(listing.ID).
		WithValue(event).
		WithEventType(model.EventListingModerated).
		WithSource("admin-service").
		Build()
	if err != nil {
		s.log.Error("failed to build moderation event", "error", err, "listingID", listing.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	// The status write already landed; a publish failure only delays the
	// host's notification.
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Error("failed to publish moderation event", "error", err, "listingID", listing.ID)
	}
}

func (s *adminService) mapRepoError(err error, listingID string) error {
	switch {
	case errors.Is(err, listingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Listing", listingID)
	case errors.Is(err, listingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid listing ID format")
	default:
		s.log.Error("admin repository operation failed", "error", err)
		return apperrors.Internal("Failed to process request", err)
	}
}
