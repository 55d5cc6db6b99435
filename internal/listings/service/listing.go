package service

import (
	"context"
	"errors"
	"time"

	listingserrors "gojo/internal/listings/errors"
	"gojo/internal/listings/repository"
	"gojo/internal/listings/validator"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/locale"
	"gojo/pkg/model"
	"gojo/pkg/sanitizer"
)

type ListingPage struct {
	Listings []*model.Listing `json:"listings"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int64            `json:"offset"`
}

type ListingService interface {
	Create(ctx context.Context, listing *model.Listing) (*model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	ListByHost(ctx context.Context, hostID string, limit int, offset int64) (*ListingPage, error)
	Search(ctx context.Context, city string, limit int, offset int64) (*ListingPage, error)
	Update(ctx context.Context, id string, hostID string, update *model.ListingUpdate) (*model.Listing, error)
	SubmitForReview(ctx context.Context, id string, hostID string) (*model.Listing, error)
	Delete(ctx context.Context, id string, hostID string) error
}

type listingService struct {
	repo      repository.ListingRepository
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewListingService(repo repository.ListingRepository, cfg *config.Config) ListingService {
	return &listingService{
		repo:      repo,
		validator: validator.NewListingValidator(cfg.Log),
		cfg:       cfg,
	}
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func clampPage(limit int, offset int64) (int, int64) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *listingService) sanitize(listing *model.Listing) {
	listing.Title = sanitizer.NormalizeTitle(listing.Title)
	listing.Description = sanitizer.TrimAndNormalize(listing.Description)
	listing.City = sanitizer.NormalizeCity(listing.City)
	listing.Country = sanitizer.NormalizeCountry(listing.Country)
	listing.Amenities = sanitizer.NormalizeAmenities(listing.Amenities)
	listing.Photos = sanitizer.NormalizePhotoURLs(listing.Photos)
	listing.HouseRules = sanitizer.TrimAndNormalize(listing.HouseRules)
	listing.PricePerNight = sanitizer.ClampPrice(listing.PricePerNight, s.cfg.MinNightlyPrice, s.cfg.MaxNightlyPrice)

	if listing.Currency == "" {
		listing.Currency = locale.InferCurrency(listing.Country)
	}
}

func (s *listingService) Create(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	listing.ID = ""
	listing.Status = model.ListingStatusDraft
	listing.ReviewNotes = ""
	listing.Flagged = false
	listing.FlagReason = ""
	if listing.BlockedDates == nil {
		listing.BlockedDates = []string{}
	}
	if listing.CustomPricing == nil {
		listing.CustomPricing = []model.PriceOverride{}
	}

	s.sanitize(listing)

	if err := s.validator.ValidateListing(listing); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, apperrors.Internal("Failed to create listing", err)
	}

	s.cfg.Log.Info("listing created",
		"listing_id", listing.ID,
		"host_id", listing.HostID,
		"city", listing.City,
	)
	return listing, nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return listing, nil
}

func (s *listingService) ListByHost(ctx context.Context, hostID string, limit int, offset int64) (*ListingPage, error) {
	limit, offset = clampPage(limit, offset)

	listings, err := s.repo.FindByHost(ctx, hostID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list listings", err)
	}
	total, err := s.repo.CountByHost(ctx, hostID)
	if err != nil {
		return nil, apperrors.Internal("Failed to count listings", err)
	}

	return &ListingPage{Listings: listings, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *listingService) Search(ctx context.Context, city string, limit int, offset int64) (*ListingPage, error) {
	limit, offset = clampPage(limit, offset)
	city = sanitizer.NormalizeCity(city)

	// Public search only ever surfaces approved listings.
	listings, err := s.repo.Search(ctx, city, model.ListingStatusActive, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to search listings", err)
	}
	total, err := s.repo.CountSearch(ctx, city, model.ListingStatusActive)
	if err != nil {
		return nil, apperrors.Internal("Failed to count listings", err)
	}

	return &ListingPage{Listings: listings, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *listingService) Update(ctx context.Context, id string, hostID string, update *model.ListingUpdate) (*model.Listing, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, validationError(err)
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	if listing.HostID != hostID {
		return nil, apperrors.Forbidden("Listings can only be edited by their host")
	}

	applyUpdate(listing, update)
	s.sanitize(listing)

	if err := s.validator.ValidateListing(listing); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Update(ctx, id, listing); err != nil {
		return nil, mapRepoError(err, id)
	}

	listing.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return listing, nil
}

func (s *listingService) SubmitForReview(ctx context.Context, id string, hostID string) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	if listing.HostID != hostID {
		return nil, apperrors.Forbidden("Listings can only be submitted by their host")
	}
	if listing.Status != model.ListingStatusDraft && listing.Status != model.ListingStatusRejected {
		return nil, apperrors.Conflict("Only draft or rejected listings can be submitted for review")
	}
	if len(listing.Photos) == 0 {
		return nil, apperrors.Validation("At least one photo is required before submitting", nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.ListingStatusPending, ""); err != nil {
		return nil, mapRepoError(err, id)
	}

	listing.Status = model.ListingStatusPending
	listing.ReviewNotes = ""
	s.cfg.Log.Info("listing submitted for review", "listing_id", id, "host_id", hostID)
	return listing, nil
}

func (s *listingService) Delete(ctx context.Context, id string, hostID string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}
	if listing.HostID != hostID {
		return apperrors.Forbidden("Listings can only be deleted by their host")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}

	s.cfg.Log.Info("listing deleted", "listing_id", id, "host_id", hostID)
	return nil
}

func applyUpdate(listing *model.Listing, update *model.ListingUpdate) {
	if update.Title != "" {
		listing.Title = update.Title
	}
	if update.Description != "" {
		listing.Description = update.Description
	}
	if update.PropertyType != "" {
		listing.PropertyType = update.PropertyType
	}
	if update.City != "" {
		listing.City = update.City
	}
	if update.Country != "" {
		listing.Country = update.Country
	}
	if update.Lat != nil {
		listing.Lat = *update.Lat
	}
	if update.Lng != nil {
		listing.Lng = *update.Lng
	}
	if update.Capacity != nil {
		listing.Capacity = *update.Capacity
	}
	if update.Bedrooms != nil {
		listing.Bedrooms = *update.Bedrooms
	}
	if update.Beds != nil {
		listing.Beds = *update.Beds
	}
	if update.Bathrooms != nil {
		listing.Bathrooms = *update.Bathrooms
	}
	if update.PricePerNight != nil {
		listing.PricePerNight = *update.PricePerNight
	}
	if update.Currency != "" {
		listing.Currency = update.Currency
	}
	if update.Amenities != nil {
		listing.Amenities = *update.Amenities
	}
	if update.Photos != nil {
		listing.Photos = *update.Photos
	}
	if update.HouseRules != "" {
		listing.HouseRules = update.HouseRules
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Listing validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}

func mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, listingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Listing", id)
	case errors.Is(err, listingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid listing id")
	default:
		return apperrors.Internal("Listing storage operation failed", err)
	}
}
