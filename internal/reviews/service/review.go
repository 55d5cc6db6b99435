package service

import (
	"context"
	"errors"

	reviewserrors "gojo/internal/reviews/errors"
	"gojo/internal/reviews/repository"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/model"
	"gojo/pkg/sanitizer"
	"gojo/pkg/sealer"

	"github.com/go-playground/validator/v10"
)

type ReviewPage struct {
	Reviews []*model.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int64           `json:"offset"`
}

type SubmitRequest struct {
	Token  string `json:"token" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Title  string `json:"title,omitempty" validate:"omitempty,max=120"`
	Body   string `json:"body" validate:"required,min=2,max=3000"`
}

type ReviewService interface {
	InviteForBooking(ctx context.Context, bookingID string, guestID string) (string, error)
	Submit(ctx context.Context, guestID string, req *SubmitRequest) (*model.Review, error)
	ListByListing(ctx context.Context, listingID string, limit int, offset int64) (*ReviewPage, error)
	RatingForListing(ctx context.Context, listingID string) (*model.ListingRating, error)
}

type reviewService struct {
	repo     repository.ReviewRepository
	sealer   *sealer.Sealer
	validate *validator.Validate
	cfg      *config.Config
}

func NewReviewService(repo repository.ReviewRepository, s *sealer.Sealer, cfg *config.Config) ReviewService {
	return &reviewService{
		repo:     repo,
		sealer:   s,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cfg:      cfg,
	}
}

// InviteForBooking issues a sealed review token for a completed stay. The
// token is the only way to open the review form, so eligibility is checked
// here and again on submit.
func (s *reviewService) InviteForBooking(ctx context.Context, bookingID string, guestID string) (string, error) {
	booking, err := s.repo.FindBooking(ctx, bookingID)
	if err != nil {
		return "", apperrors.NotFoundWithID("Booking", bookingID)
	}
	if booking.GuestID != guestID {
		return "", apperrors.Forbidden("Only the guest of the stay can review it")
	}
	if booking.Status != model.BookingStatusCompleted {
		return "", apperrors.Conflict("Reviews open after the stay completes")
	}

	reviewed, err := s.repo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return "", apperrors.Internal("Failed to check existing review", err)
	}
	if reviewed {
		return "", apperrors.Conflict("Stay has already been reviewed")
	}

	token, err := s.sealer.CreateInviteToken(booking.ID, booking.ListingID)
	if err != nil {
		return "", apperrors.Internal("Failed to create review invite", err)
	}
	return token, nil
}

func (s *reviewService) Submit(ctx context.Context, guestID string, req *SubmitRequest) (*model.Review, error) {
	req.Title = sanitizer.NormalizeTitle(req.Title)
	req.Body = sanitizer.TrimAndNormalize(req.Body)

	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Review is invalid", nil)
	}

	bookingID, listingID, err := s.sealer.ParseInviteToken(req.Token)
	if err != nil {
		return nil, apperrors.Unauthorized("Review invite is invalid or expired")
	}

	booking, err := s.repo.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}
	if booking.GuestID != guestID {
		return nil, apperrors.Forbidden("Only the guest of the stay can review it")
	}
	if booking.ListingID != listingID {
		return nil, apperrors.Unauthorized("Review invite does not match the booking")
	}
	if booking.Status != model.BookingStatusCompleted {
		return nil, apperrors.Conflict("Reviews open after the stay completes")
	}

	reviewed, err := s.repo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing review", err)
	}
	if reviewed {
		return nil, apperrors.Conflict("Stay has already been reviewed")
	}

	review := &model.Review{
		ListingID: listingID,
		BookingID: bookingID,
		GuestID:   guestID,
		GuestName: booking.GuestName,
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrAlreadyReviewed) {
			return nil, apperrors.Conflict("Stay has already been reviewed")
		}
		return nil, apperrors.Internal("Failed to create review", err)
	}

	s.cfg.Log.Info("review created",
		"review_id", review.ID,
		"listing_id", listingID,
		"rating", review.Rating,
	)
	return review, nil
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func (s *reviewService) ListByListing(ctx context.Context, listingID string, limit int, offset int64) (*ReviewPage, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.repo.FindByListing(ctx, listingID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list reviews", err)
	}
	total, err := s.repo.CountByListing(ctx, listingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to count reviews", err)
	}

	return &ReviewPage{Reviews: reviews, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *reviewService) RatingForListing(ctx context.Context, listingID string) (*model.ListingRating, error) {
	rating, err := s.repo.RatingForListing(ctx, listingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute rating", err)
	}
	return rating, nil
}
