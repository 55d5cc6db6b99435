package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bookingserrors "gojo/internal/bookings/errors"
	"gojo/internal/bookings/repository"
	"gojo/internal/bookings/validator"
	"gojo/pkg/client"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/kafka"
	"gojo/pkg/model"
	"gojo/pkg/sanitizer"
)

const publishTimeout = 5 * time.Second

type BookingPage struct {
	Bookings []*model.Booking `json:"bookings"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int64            `json:"offset"`
}

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// ListingFetcher resolves a listing from the listings service.
type ListingFetcher interface {
	FetchListing(ctx context.Context, id string) (*model.Listing, error)
}

type httpListingFetcher struct {
	client *client.ListingClient
}

func NewListingFetcher(c *client.ListingClient) ListingFetcher {
	return &httpListingFetcher{client: c}
}

func (f *httpListingFetcher) FetchListing(ctx context.Context, id string) (*model.Listing, error) {
	resp, err := f.client.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listings service unreachable: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundWithID("Listing", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listings service returned %d", resp.StatusCode)
	}
	return f.client.DecodeListing(resp)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string, userID string) (*model.Booking, error)
	ListByGuest(ctx context.Context, guestID string, limit int, offset int64) (*BookingPage, error)
	ListByHost(ctx context.Context, hostID string, limit int, offset int64) (*BookingPage, error)
	Confirm(ctx context.Context, id string, hostID string) (*model.Booking, error)
	Cancel(ctx context.Context, id string, userID string) (*model.Booking, error)
	Complete(ctx context.Context, id string, hostID string) (*model.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	listings  ListingFetcher
	publisher EventPublisher
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(repo repository.BookingRepository, listings ListingFetcher, publisher EventPublisher, cfg *config.Config) BookingService {
	return &bookingService{
		repo:      repo,
		listings:  listings,
		publisher: publisher,
		validator: validator.NewBookingValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}
}

// NewBookingServiceWithClock pins the clock for deterministic tests.
func NewBookingServiceWithClock(repo repository.BookingRepository, listings ListingFetcher, publisher EventPublisher, cfg *config.Config, now func() time.Time) BookingService {
	svc := NewBookingService(repo, listings, publisher, cfg).(*bookingService)
	svc.now = now
	return svc
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	booking.ID = ""
	booking.Status = model.BookingStatusPending
	booking.GuestName = sanitizer.NormalizeName(booking.GuestName)
	booking.CheckIn = model.Midnight(booking.CheckIn)
	booking.CheckOut = model.Midnight(booking.CheckOut)

	if !booking.CheckOut.After(booking.CheckIn) {
		return nil, apperrors.Validation("Check-out must be after check-in", nil)
	}
	today := model.Midnight(s.now())
	if booking.CheckIn.Before(today) {
		return nil, apperrors.Validation("Check-in cannot be in the past", nil)
	}

	listing, err := s.listings.FetchListing(ctx, booking.ListingID)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Unavailable("listings")
	}
	if listing.Status != model.ListingStatusActive {
		return nil, apperrors.Conflict("Listing is not accepting bookings")
	}
	if listing.HostID == booking.GuestID {
		return nil, apperrors.Validation("Hosts cannot book their own listing", nil)
	}
	if booking.Guests > listing.Capacity {
		return nil, apperrors.Validation(fmt.Sprintf("Listing sleeps at most %d guests", listing.Capacity), nil)
	}

	booking.HostID = listing.HostID
	booking.Currency = listing.Currency
	booking.Nights = int(booking.CheckOut.Sub(booking.CheckIn).Hours() / 24)
	booking.TotalPrice = stayTotal(listing, booking.CheckIn, booking.CheckOut)

	if err := s.validator.ValidateBooking(booking); err != nil {
		return nil, validationError(err)
	}

	if err := s.ensureAvailable(ctx, listing, booking); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publishEvent(booking, listing.Title, model.EventBookingCreated)
	s.cfg.Log.Info("booking created",
		"booking_id", booking.ID,
		"listing_id", booking.ListingID,
		"check_in", booking.CheckIn.Format(time.DateOnly),
		"nights", booking.Nights,
	)
	return booking, nil
}

// ensureAvailable rejects stays that touch a blocked date or an existing
// active booking. The check races with concurrent writers; the calendar is
// the source of truth and last write wins.
func (s *bookingService) ensureAvailable(ctx context.Context, listing *model.Listing, booking *model.Booking) error {
	blocked := make(map[string]struct{}, len(listing.BlockedDates))
	for _, d := range listing.BlockedDates {
		blocked[d] = struct{}{}
	}
	for d := booking.CheckIn; d.Before(booking.CheckOut); d = d.AddDate(0, 0, 1) {
		if _, ok := blocked[d.Format(time.DateOnly)]; ok {
			return apperrors.Conflict(fmt.Sprintf("Date %s is blocked by the host", d.Format(time.DateOnly)))
		}
	}

	existing, err := s.repo.FindActiveByListing(ctx, booking.ListingID)
	if err != nil {
		return apperrors.Internal("Failed to check availability", err)
	}
	for _, b := range existing {
		if b.OverlapsRange(booking.CheckIn, booking.CheckOut) {
			return apperrors.Conflict("Requested dates overlap an existing booking")
		}
	}
	return nil
}

// stayTotal sums the nightly rate for [checkIn, checkOut), applying the
// host's per-date price overrides over the base rate.
func stayTotal(listing *model.Listing, checkIn, checkOut time.Time) float64 {
	overrides := make(map[string]float64, len(listing.CustomPricing))
	for _, po := range listing.CustomPricing {
		overrides[po.Date] = po.Price
	}

	total := 0.0
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		if price, ok := overrides[d.Format(time.DateOnly)]; ok {
			total += price
			continue
		}
		total += listing.PricePerNight
	}
	return total
}

func (s *bookingService) GetByID(ctx context.Context, id string, userID string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	if booking.GuestID != userID && booking.HostID != userID {
		return nil, apperrors.Forbidden("Bookings are only visible to their guest and host")
	}
	return booking, nil
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

func (s *bookingService) ListByGuest(ctx context.Context, guestID string, limit int, offset int64) (*BookingPage, error) {
	limit, offset = clampPage(limit, offset)

	bookings, err := s.repo.FindByGuest(ctx, guestID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	total, err := s.repo.CountByGuest(ctx, guestID)
	if err != nil {
		return nil, apperrors.Internal("Failed to count bookings", err)
	}
	return &BookingPage{Bookings: bookings, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *bookingService) ListByHost(ctx context.Context, hostID string, limit int, offset int64) (*BookingPage, error) {
	limit, offset = clampPage(limit, offset)

	bookings, err := s.repo.FindByHost(ctx, hostID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	total, err := s.repo.CountByHost(ctx, hostID)
	if err != nil {
		return nil, apperrors.Internal("Failed to count bookings", err)
	}
	return &BookingPage{Bookings: bookings, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *bookingService) Confirm(ctx context.Context, id string, hostID string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusConfirmed, func(b *model.Booking) error {
		if b.HostID != hostID {
			return apperrors.Forbidden("Only the host can confirm a booking")
		}
		if b.Status != model.BookingStatusPending {
			return apperrors.Conflict("Only pending bookings can be confirmed")
		}
		return nil
	})
}

func (s *bookingService) Cancel(ctx context.Context, id string, userID string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusCancelled, func(b *model.Booking) error {
		if b.GuestID != userID && b.HostID != userID {
			return apperrors.Forbidden("Only the guest or host can cancel a booking")
		}
		if b.Status != model.BookingStatusPending && b.Status != model.BookingStatusConfirmed {
			return apperrors.Conflict("Booking can no longer be cancelled")
		}
		return nil
	})
}

func (s *bookingService) Complete(ctx context.Context, id string, hostID string) (*model.Booking, error) {
	return s.transition(ctx, id, model.BookingStatusCompleted, func(b *model.Booking) error {
		if b.HostID != hostID {
			return apperrors.Forbidden("Only the host can complete a booking")
		}
		if b.Status != model.BookingStatusConfirmed {
			return apperrors.Conflict("Only confirmed bookings can be completed")
		}
		if model.Midnight(s.now()).Before(model.Midnight(b.CheckOut)) {
			return apperrors.Conflict("Booking cannot be completed before check-out")
		}
		return nil
	})
}

// ConfirmPayment is the payment webhook path; the caller is the payment
// provider, not a user, so there is no ownership check.
func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID string) (*model.Booking, error) {
	return s.transition(ctx, bookingID, model.BookingStatusConfirmed, func(b *model.Booking) error {
		if b.Status == model.BookingStatusConfirmed {
			// Providers redeliver webhooks; a repeat confirmation is fine.
			return nil
		}
		if b.Status != model.BookingStatusPending {
			return apperrors.Conflict("Booking can no longer be confirmed")
		}
		return nil
	})
}

func (s *bookingService) transition(ctx context.Context, id string, target string, check func(*model.Booking) error) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	if err := check(booking); err != nil {
		return nil, err
	}
	if booking.Status == target {
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, mapRepoError(err, id)
	}

	booking.Status = target
	s.publishEvent(booking, "", model.EventBookingStatusChanged)
	s.cfg.Log.Info("booking status changed", "booking_id", id, "status", target)
	return booking, nil
}

// publishEvent fires the booking event without failing the request. A lost
// event means a missed notification, not a lost booking.
func (s *bookingService) publishEvent(booking *model.Booking, listingTitle string, eventType string) {
	if s.publisher == nil {
		return
	}

	event := model.BookingEvent{
		BookingID:    booking.ID,
		ListingID:    booking.ListingID,
		ListingTitle: listingTitle,
		HostID:       booking.HostID,
		GuestID:      booking.GuestID,
		GuestName:    booking.GuestName,
		CheckIn:      booking.CheckIn,
		CheckOut:     booking.CheckOut,
		Status:       booking.Status,
		OccurredAt:   s.now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.ListingID).
		WithValue(event).
		WithEventType(eventType).
		WithSource("bookings").
		Build()
	if err != nil {
		s.cfg.Log.Error("failed to build booking event", "booking_id", booking.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("failed to publish booking event", "booking_id", booking.ID, "error", err)
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = ve.Message
		}
		return apperrors.Validation("Booking validation failed", details)
	}
	return apperrors.Validation(err.Error(), nil)
}

func mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking id")
	default:
		return apperrors.Internal("Booking storage operation failed", err)
	}
}
