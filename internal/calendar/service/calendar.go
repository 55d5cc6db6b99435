package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"gojo/internal/calendar/engine"
	calerrors "gojo/internal/calendar/errors"
	"gojo/internal/calendar/repository"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
)

// MonthView is the response shape for calendar reads and mutations.
type MonthView struct {
	ListingID     string               `json:"listing_id"`
	Year          int                  `json:"year"`
	Month         int                  `json:"month"`
	PricePerNight float64              `json:"price_per_night"`
	Currency      string               `json:"currency"`
	Days          []engine.CalendarDay `json:"days"`
	SelectedDates []string             `json:"selected_dates"`
	SelectedCount int                  `json:"selected_count"`
}

// ToggleResult reports the outcome of a selection toggle. When a booked
// date was tapped, Booking carries its summary and the selection is
// unchanged.
type ToggleResult struct {
	Changed bool                   `json:"changed"`
	Booking *engine.BookingSummary `json:"booking,omitempty"`
	View    *MonthView             `json:"view"`
}

type CalendarService interface {
	MonthView(ctx context.Context, listingID, hostID string, year int, month time.Month) (*MonthView, error)
	Refresh(ctx context.Context, listingID, hostID string) (*MonthView, error)
	ToggleDate(ctx context.Context, listingID, hostID, date string) (*ToggleResult, error)
	ClearSelection(ctx context.Context, listingID, hostID string) (*MonthView, error)
	BlockSelected(ctx context.Context, listingID, hostID string) (*MonthView, error)
	UnblockSelected(ctx context.Context, listingID, hostID string) (*MonthView, error)
	SetPriceForSelected(ctx context.Context, listingID, hostID string, price float64) (*MonthView, error)
	ClearPriceForSelected(ctx context.Context, listingID, hostID string) (*MonthView, error)
	CloseSession(listingID, hostID string)
}

type sessionEntry struct {
	mu      sync.Mutex
	session *engine.Session
}

type calendarService struct {
	repo repository.CalendarRepository
	cfg  *config.Config
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewCalendarService(repo repository.CalendarRepository, cfg *config.Config) CalendarService {
	return &calendarService{
		repo:     repo,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// NewCalendarServiceWithClock is used by tests to pin "today".
func NewCalendarServiceWithClock(repo repository.CalendarRepository, cfg *config.Config, now func() time.Time) CalendarService {
	return &calendarService{
		repo:     repo,
		cfg:      cfg,
		now:      now,
		sessions: make(map[string]*sessionEntry),
	}
}

func sessionKey(listingID, hostID string) string {
	return listingID + "/" + hostID
}

// entry returns the host's session for a listing, loading the overlays on
// first access. Overlays are not refreshed until an explicit Refresh or a
// successful mutation.
func (s *calendarService) entry(ctx context.Context, listingID, hostID string) (*sessionEntry, error) {
	if listingID == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}
	if hostID == "" {
		return nil, apperrors.Unauthorized("Missing host identity")
	}

	key := sessionKey(listingID, hostID)

	s.mu.Lock()
	e, ok := s.sessions[key]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	sess, err := s.loadSession(ctx, listingID, hostID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[key]; ok {
		return existing, nil
	}
	e = &sessionEntry{session: sess}
	s.sessions[key] = e
	return e, nil
}

func (s *calendarService) loadSession(ctx context.Context, listingID, hostID string) (*engine.Session, error) {
	listing, err := s.repo.FindListing(ctx, listingID)
	if err != nil {
		return nil, s.mapListingError(listingID, err)
	}

	if listing.HostID != hostID {
		return nil, apperrors.Forbidden("Calendar can only be managed by the listing's host")
	}

	bookings, err := s.repo.FindActiveBookings(ctx, listingID)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for calendar", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to load calendar", err)
	}

	return engine.NewSession(listing, bookings, s.now), nil
}

func (s *calendarService) mapListingError(listingID string, err error) error {
	if errors.Is(err, calerrors.ErrListingNotFound) {
		return apperrors.NotFoundWithID("Listing", listingID)
	}
	if errors.Is(err, calerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid listing ID format")
	}
	s.cfg.Log.Error("Failed to load listing for calendar", "listing_id", listingID, "error", err)
	return apperrors.Internal("Failed to load calendar", err)
}

func (s *calendarService) view(sess *engine.Session) *MonthView {
	return &MonthView{
		ListingID:     sess.ListingID,
		Year:          sess.Year,
		Month:         int(sess.Month),
		PricePerNight: sess.PricePerNight,
		Currency:      sess.Currency,
		Days:          sess.Grid(),
		SelectedDates: sess.SelectedDates(),
		SelectedCount: sess.SelectionCount(),
	}
}

func (s *calendarService) MonthView(ctx context.Context, listingID, hostID string, year int, month time.Month) (*MonthView, error) {
	e, err := s.entry(ctx, listingID, hostID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if year != 0 && month != 0 {
		if month < time.January || month > time.December {
			return nil, apperrors.InvalidInput("Month must be between 1 and 12")
		}
		e.session.SetMonth(year, month)
	}

	return s.view(e.session), nil
}

// Refresh refetches the overlays, modeling a screen refocus. The visible
// month and the selection are kept.
func (s *calendarService) Refresh(ctx context.Context, listingID, hostID string) (*MonthView, error) {
	e, err := s.entry(ctx, listingID, hostID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	listing, err := s.repo.FindListing(ctx, listingID)
	if err != nil {
		return nil, s.mapListingError(listingID, err)
	}
	bookings, err := s.repo.FindActiveBookings(ctx, listingID)
	if err != nil {
		s.cfg.Log.Error("Failed to reload bookings for calendar", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to refresh calendar", err)
	}

	e.session.Reload(listing, bookings)
	return s.view(e.session), nil
}

func (s *calendarService) ToggleDate(ctx context.Context, listingID, hostID, date string) (*ToggleResult, error) {
	if date == "" {
		return nil, apperrors.InvalidInput("Date cannot be empty")
	}
	if _, err := time.Parse(engine.DateLayout, date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	e, err := s.entry(ctx, listingID, hostID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	booking, changed := e.session.Toggle(date)
	return &ToggleResult{
		Changed: changed,
		Booking: booking,
		View:    s.view(e.session),
	}, nil
}

func (s *calendarService) ClearSelection(ctx context.Context, listingID, hostID string) (*MonthView, error) {
	e, err := s.entry(ctx, listingID, hostID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.ClearSelection()
	return s.view(e.session), nil
}

func (s *calendarService) BlockSelected(ctx context.Context, listingID, hostID string) (*MonthView, error) {
	return s.mutate(ctx, listingID, hostID, "block dates", func(sess *engine.Session) *engine.Overlays {
		return sess.Overlays().WithBlocked(sess.SelectionSet())
	})
}

func (s *calendarService) UnblockSelected(ctx context.Context, listingID, hostID string) (*MonthView, error) {
	return s.mutate(ctx, listingID, hostID, "unblock dates", func(sess *engine.Session) *engine.Overlays {
		return sess.Overlays().WithUnblocked(sess.SelectionSet())
	})
}

func (s *calendarService) SetPriceForSelected(ctx context.Context, listingID, hostID string, price float64) (*MonthView, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, apperrors.Validation("Custom price must be a positive number", nil)
	}

	return s.mutate(ctx, listingID, hostID, "set custom price", func(sess *engine.Session) *engine.Overlays {
		return sess.Overlays().WithPrice(sess.SelectionSet(), price)
	})
}

func (s *calendarService) ClearPriceForSelected(ctx context.Context, listingID, hostID string) (*MonthView, error) {
	return s.mutate(ctx, listingID, hostID, "clear custom price", func(sess *engine.Session) *engine.Overlays {
		return sess.Overlays().WithoutPrice(sess.SelectionSet())
	})
}

// mutate runs one batch mutation: build the candidate overlays from the
// selection, persist the whole collections, and only on confirmed success
// install the candidate and clear the selection. A failed write leaves the
// session untouched so the host can retry.
func (s *calendarService) mutate(ctx context.Context, listingID, hostID, operation string, build func(*engine.Session) *engine.Overlays) (*MonthView, error) {
	e, err := s.entry(ctx, listingID, hostID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.session
	if sess.SelectionCount() == 0 {
		return nil, apperrors.Validation("No dates selected", nil)
	}

	candidate := build(sess)

	err = s.repo.SaveOverlays(ctx, listingID, candidate.BlockedDates(), candidate.CustomPricing())
	if err != nil {
		if errors.Is(err, calerrors.ErrListingNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", listingID)
		}
		s.cfg.Log.Error("Calendar mutation failed",
			"operation", operation,
			"listing_id", listingID,
			"selected", sess.SelectionCount(),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to save calendar changes", err)
	}

	sess.Commit(candidate)

	s.cfg.Log.Info("Calendar updated",
		"operation", operation,
		"listing_id", listingID,
		"blocked_dates", len(candidate.BlockedDates()),
		"custom_prices", len(candidate.CustomPricing()),
	)
	return s.view(sess), nil
}

// CloseSession drops a host's session, modeling a property switch. The next
// access reloads overlays and starts with an empty selection.
func (s *calendarService) CloseSession(listingID, hostID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(listingID, hostID))
}
