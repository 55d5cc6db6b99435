package service

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	calerrors "gojo/internal/calendar/errors"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/logger"
	"gojo/pkg/model"
)

type mockCalendarRepository struct {
	findListingFn        func(ctx context.Context, id string) (*model.Listing, error)
	findActiveBookingsFn func(ctx context.Context, listingID string) ([]*model.Booking, error)
	saveOverlaysFn       func(ctx context.Context, listingID string, blockedDates []string, customPricing []model.PriceOverride) error

	savedBlocked []string
	savedPricing []model.PriceOverride
	saveCalls    int
}

func (m *mockCalendarRepository) FindListing(ctx context.Context, id string) (*model.Listing, error) {
	return m.findListingFn(ctx, id)
}

func (m *mockCalendarRepository) FindActiveBookings(ctx context.Context, listingID string) ([]*model.Booking, error) {
	if m.findActiveBookingsFn != nil {
		return m.findActiveBookingsFn(ctx, listingID)
	}
	return nil, nil
}

func (m *mockCalendarRepository) SaveOverlays(ctx context.Context, listingID string, blockedDates []string, customPricing []model.PriceOverride) error {
	m.saveCalls++
	if m.saveOverlaysFn != nil {
		if err := m.saveOverlaysFn(ctx, listingID, blockedDates, customPricing); err != nil {
			return err
		}
	}
	m.savedBlocked = blockedDates
	m.savedPricing = customPricing
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Output: io.Discard}),
	}
}

func fixedJune() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	}
}

func newServiceWithListing(listing *model.Listing, bookings []*model.Booking) (CalendarService, *mockCalendarRepository) {
	repo := &mockCalendarRepository{
		findListingFn: func(ctx context.Context, id string) (*model.Listing, error) {
			if id != listing.ID {
				return nil, calerrors.ErrListingNotFound
			}
			copied := *listing
			return &copied, nil
		},
		findActiveBookingsFn: func(ctx context.Context, listingID string) ([]*model.Booking, error) {
			return bookings, nil
		},
	}
	svc := NewCalendarServiceWithClock(repo, testConfig(), fixedJune())
	return svc, repo
}

func baseListing() *model.Listing {
	return &model.Listing{
		ID:            "listing1",
		HostID:        "host1",
		PricePerNight: 100,
		Currency:      "USD",
		BlockedDates:  []string{},
		CustomPricing: []model.PriceOverride{},
	}
}

func selectDates(t *testing.T, svc CalendarService, dates ...string) {
	t.Helper()
	for _, d := range dates {
		result, err := svc.ToggleDate(context.Background(), "listing1", "host1", d)
		if err != nil {
			t.Fatalf("ToggleDate(%s) error = %v", d, err)
		}
		if !result.Changed {
			t.Fatalf("ToggleDate(%s) did not change the selection", d)
		}
	}
}

func TestMonthViewReturns42Days(t *testing.T) {
	svc, _ := newServiceWithListing(baseListing(), nil)

	view, err := svc.MonthView(context.Background(), "listing1", "host1", 0, 0)
	if err != nil {
		t.Fatalf("MonthView() error = %v", err)
	}
	if len(view.Days) != 42 {
		t.Errorf("got %d days, want 42", len(view.Days))
	}
	if view.Year != 2025 || view.Month != 6 {
		t.Errorf("view opened on %d-%d, want 2025-6", view.Year, view.Month)
	}
	if view.PricePerNight != 100 || view.Currency != "USD" {
		t.Errorf("view price = %v %s, want 100 USD", view.PricePerNight, view.Currency)
	}
}

func TestMonthViewRejectsUnknownListing(t *testing.T) {
	svc, _ := newServiceWithListing(baseListing(), nil)

	_, err := svc.MonthView(context.Background(), "missing", "host1", 0, 0)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestMonthViewRejectsNonOwner(t *testing.T) {
	svc, _ := newServiceWithListing(baseListing(), nil)

	_, err := svc.MonthView(context.Background(), "listing1", "intruder", 0, 0)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeForbidden {
		t.Errorf("error = %v, want FORBIDDEN", err)
	}
}

func TestBlockThenUnblockRoundTrip(t *testing.T) {
	svc, repo := newServiceWithListing(baseListing(), nil)

	selectDates(t, svc, "2025-06-20", "2025-06-21", "2025-06-22")

	view, err := svc.BlockSelected(context.Background(), "listing1", "host1")
	if err != nil {
		t.Fatalf("BlockSelected() error = %v", err)
	}

	wantBlocked := []string{"2025-06-20", "2025-06-21", "2025-06-22"}
	if !reflect.DeepEqual(repo.savedBlocked, wantBlocked) {
		t.Errorf("persisted blocked dates = %v, want %v", repo.savedBlocked, wantBlocked)
	}
	if view.SelectedCount != 0 {
		t.Errorf("selection count after success = %d, want 0", view.SelectedCount)
	}

	// Unblocking the same three dates empties the set again.
	selectDates(t, svc, "2025-06-20", "2025-06-21", "2025-06-22")
	view, err = svc.UnblockSelected(context.Background(), "listing1", "host1")
	if err != nil {
		t.Fatalf("UnblockSelected() error = %v", err)
	}
	if len(repo.savedBlocked) != 0 {
		t.Errorf("persisted blocked dates = %v, want empty", repo.savedBlocked)
	}
	if view.SelectedCount != 0 {
		t.Errorf("selection count after success = %d, want 0", view.SelectedCount)
	}
}

func TestSetPriceReplacesEntry(t *testing.T) {
	svc, repo := newServiceWithListing(baseListing(), nil)

	selectDates(t, svc, "2025-06-25")
	if _, err := svc.SetPriceForSelected(context.Background(), "listing1", "host1", 150); err != nil {
		t.Fatalf("SetPriceForSelected(150) error = %v", err)
	}

	want := []model.PriceOverride{{Date: "2025-06-25", Price: 150}}
	if !reflect.DeepEqual(repo.savedPricing, want) {
		t.Errorf("persisted pricing = %v, want %v", repo.savedPricing, want)
	}

	// A later selection setting a new price replaces the entry.
	selectDates(t, svc, "2025-06-25")
	if _, err := svc.SetPriceForSelected(context.Background(), "listing1", "host1", 175); err != nil {
		t.Fatalf("SetPriceForSelected(175) error = %v", err)
	}

	want = []model.PriceOverride{{Date: "2025-06-25", Price: 175}}
	if !reflect.DeepEqual(repo.savedPricing, want) {
		t.Errorf("persisted pricing = %v, want %v (replace, not append)", repo.savedPricing, want)
	}
}

func TestClearPriceKeepsUntouchedEntries(t *testing.T) {
	listing := baseListing()
	listing.CustomPricing = []model.PriceOverride{
		{Date: "2025-06-05", Price: 80},
		{Date: "2025-06-25", Price: 150},
	}
	svc, repo := newServiceWithListing(listing, nil)

	selectDates(t, svc, "2025-06-25")
	if _, err := svc.ClearPriceForSelected(context.Background(), "listing1", "host1"); err != nil {
		t.Fatalf("ClearPriceForSelected() error = %v", err)
	}

	want := []model.PriceOverride{{Date: "2025-06-05", Price: 80}}
	if !reflect.DeepEqual(repo.savedPricing, want) {
		t.Errorf("persisted pricing = %v, want %v", repo.savedPricing, want)
	}
}

func TestWriteFailurePreservesSelectionAndState(t *testing.T) {
	svc, repo := newServiceWithListing(baseListing(), nil)
	repo.saveOverlaysFn = func(ctx context.Context, listingID string, blockedDates []string, customPricing []model.PriceOverride) error {
		return errors.New("network unreachable")
	}

	selectDates(t, svc, "2025-06-20", "2025-06-21")

	_, err := svc.BlockSelected(context.Background(), "listing1", "host1")
	if err == nil {
		t.Fatal("BlockSelected() should fail when the write fails")
	}

	view, err := svc.MonthView(context.Background(), "listing1", "host1", 2025, time.June)
	if err != nil {
		t.Fatalf("MonthView() error = %v", err)
	}
	if view.SelectedCount != 2 {
		t.Errorf("selection count after failed write = %d, want 2 (retry possible)", view.SelectedCount)
	}
	for _, d := range view.Days {
		if d.IsBlocked {
			t.Errorf("date %s blocked locally despite failed write", d.DateKey)
		}
	}

	// Retry with the write restored succeeds and clears the selection.
	repo.saveOverlaysFn = nil
	view, err = svc.BlockSelected(context.Background(), "listing1", "host1")
	if err != nil {
		t.Fatalf("retry BlockSelected() error = %v", err)
	}
	if view.SelectedCount != 0 {
		t.Errorf("selection count after retry success = %d, want 0", view.SelectedCount)
	}
}

func TestSuccessClearsSelectionForAllMutations(t *testing.T) {
	mutations := []struct {
		name string
		run  func(svc CalendarService) error
	}{
		{name: "block", run: func(svc CalendarService) error {
			_, err := svc.BlockSelected(context.Background(), "listing1", "host1")
			return err
		}},
		{name: "unblock", run: func(svc CalendarService) error {
			_, err := svc.UnblockSelected(context.Background(), "listing1", "host1")
			return err
		}},
		{name: "set price", run: func(svc CalendarService) error {
			_, err := svc.SetPriceForSelected(context.Background(), "listing1", "host1", 99)
			return err
		}},
		{name: "clear price", run: func(svc CalendarService) error {
			_, err := svc.ClearPriceForSelected(context.Background(), "listing1", "host1")
			return err
		}},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			svc, _ := newServiceWithListing(baseListing(), nil)
			selectDates(t, svc, "2025-06-20")

			if err := m.run(svc); err != nil {
				t.Fatalf("%s error = %v", m.name, err)
			}

			view, err := svc.MonthView(context.Background(), "listing1", "host1", 2025, time.June)
			if err != nil {
				t.Fatalf("MonthView() error = %v", err)
			}
			if view.SelectedCount != 0 {
				t.Errorf("selection count = %d after %s, want 0", view.SelectedCount, m.name)
			}
		})
	}
}

func TestMutationsRejectEmptySelection(t *testing.T) {
	svc, repo := newServiceWithListing(baseListing(), nil)

	_, err := svc.BlockSelected(context.Background(), "listing1", "host1")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Errorf("error = %v, want VALIDATION_ERROR", err)
	}
	if repo.saveCalls != 0 {
		t.Error("no write should be attempted for an empty selection")
	}
}

func TestSetPriceRejectsInvalidPrices(t *testing.T) {
	svc, repo := newServiceWithListing(baseListing(), nil)
	selectDates(t, svc, "2025-06-20")

	for _, price := range []float64{0, -10} {
		_, err := svc.SetPriceForSelected(context.Background(), "listing1", "host1", price)
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
			t.Errorf("SetPriceForSelected(%v) error = %v, want VALIDATION_ERROR", price, err)
		}
	}
	if repo.saveCalls != 0 {
		t.Error("no write should be attempted for an invalid price")
	}
}

func TestToggleBookedDateSurfacesSummary(t *testing.T) {
	booking := &model.Booking{
		ID:        "bk1",
		GuestName: "Meron",
		CheckIn:   time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC),
		Status:    model.BookingStatusConfirmed,
	}
	svc, _ := newServiceWithListing(baseListing(), []*model.Booking{booking})

	result, err := svc.ToggleDate(context.Background(), "listing1", "host1", "2025-06-11")
	if err != nil {
		t.Fatalf("ToggleDate() error = %v", err)
	}
	if result.Changed {
		t.Error("toggling a booked date must not change the selection")
	}
	if result.Booking == nil || result.Booking.GuestName != "Meron" {
		t.Error("toggling a booked date should return the booking summary")
	}
	if result.View.SelectedCount != 0 {
		t.Errorf("selection count = %d, want 0", result.View.SelectedCount)
	}
}

func TestSelectionPersistsAcrossMonthViews(t *testing.T) {
	svc, _ := newServiceWithListing(baseListing(), nil)
	selectDates(t, svc, "2025-06-20")

	view, err := svc.MonthView(context.Background(), "listing1", "host1", 2025, time.July)
	if err != nil {
		t.Fatalf("MonthView(July) error = %v", err)
	}
	if view.SelectedCount != 1 {
		t.Errorf("selection count = %d after navigating to July, want 1", view.SelectedCount)
	}
}

func TestCloseSessionDropsSelection(t *testing.T) {
	svc, _ := newServiceWithListing(baseListing(), nil)
	selectDates(t, svc, "2025-06-20")

	svc.CloseSession("listing1", "host1")

	view, err := svc.MonthView(context.Background(), "listing1", "host1", 0, 0)
	if err != nil {
		t.Fatalf("MonthView() error = %v", err)
	}
	if view.SelectedCount != 0 {
		t.Errorf("selection count = %d after property switch, want 0", view.SelectedCount)
	}
}

func TestRefreshKeepsSelection(t *testing.T) {
	listing := baseListing()
	svc, repo := newServiceWithListing(listing, nil)
	selectDates(t, svc, "2025-06-20")

	repo.findListingFn = func(ctx context.Context, id string) (*model.Listing, error) {
		updated := *listing
		updated.BlockedDates = []string{"2025-06-05"}
		return &updated, nil
	}

	view, err := svc.Refresh(context.Background(), "listing1", "host1")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if view.SelectedCount != 1 {
		t.Errorf("selection count = %d after refresh, want 1", view.SelectedCount)
	}

	found := false
	for _, d := range view.Days {
		if d.DateKey == "2025-06-05" && d.IsBlocked {
			found = true
		}
	}
	if !found {
		t.Error("refresh should pick up remotely-changed blocked dates")
	}
}
