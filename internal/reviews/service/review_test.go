package service

import (
	"context"
	"io"
	"testing"

	bookingserrors "gojo/internal/bookings/errors"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/logger"
	"gojo/pkg/model"
	"gojo/pkg/sealer"
)

const (
	listingID = "64a1f0c2e1b2c3d4e5f60111"
	bookingID = "64a1f0c2e1b2c3d4e5f60333"
	guestID   = "64a1f0c2e1b2c3d4e5f60222"
	otherID   = "64a1f0c2e1b2c3d4e5f60999"

	testKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="
)

type mockReviewRepository struct {
	findBookingFn func(ctx context.Context, bookingID string) (*model.Booking, error)
	existsFn      func(ctx context.Context, bookingID string) (bool, error)
	createFn      func(ctx context.Context, review *model.Review) error

	created []*model.Review
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	m.created = append(m.created, review)
	if m.createFn != nil {
		return m.createFn(ctx, review)
	}
	review.ID = "64a1f0c2e1b2c3d4e5f60444"
	return nil
}

func (m *mockReviewRepository) FindByListing(ctx context.Context, listingID string, limit int, offset int64) ([]*model.Review, error) {
	return []*model.Review{}, nil
}

func (m *mockReviewRepository) CountByListing(ctx context.Context, listingID string) (int64, error) {
	return 0, nil
}

func (m *mockReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, bookingID)
	}
	return false, nil
}

func (m *mockReviewRepository) RatingForListing(ctx context.Context, listingID string) (*model.ListingRating, error) {
	return &model.ListingRating{ListingID: listingID}, nil
}

func (m *mockReviewRepository) FindBooking(ctx context.Context, id string) (*model.Booking, error) {
	if m.findBookingFn != nil {
		return m.findBookingFn(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Output: io.Discard}),
	}
}

func testSealer(t *testing.T) *sealer.Sealer {
	t.Helper()
	s, err := sealer.New(testKey)
	if err != nil {
		t.Fatalf("sealer setup failed: %v", err)
	}
	return s
}

func completedBooking() *model.Booking {
	return &model.Booking{
		ID:        bookingID,
		ListingID: listingID,
		GuestID:   guestID,
		GuestName: "Meron Tadesse",
		Status:    model.BookingStatusCompleted,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, appErr)
	}
}

func newService(repo *mockReviewRepository, t *testing.T) ReviewService {
	return NewReviewService(repo, testSealer(t), testConfig())
}

func TestInviteThenSubmitRoundTrip(t *testing.T) {
	repo := &mockReviewRepository{
		findBookingFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return completedBooking(), nil
		},
	}
	svc := newService(repo, t)

	token, err := svc.InviteForBooking(context.Background(), bookingID, guestID)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	review, err := svc.Submit(context.Background(), guestID, &SubmitRequest{
		Token:  token,
		Rating: 5,
		Title:  "Wonderful stay",
		Body:   "Clean, quiet, and close to everything in Bole.",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if review.ListingID != listingID || review.BookingID != bookingID {
		t.Errorf("review not bound to the invited stay: %+v", review)
	}
	if review.GuestName != "Meron Tadesse" {
		t.Errorf("guest name should come from the booking, got %q", review.GuestName)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one created review, got %d", len(repo.created))
	}
}

func TestInviteRequiresCompletedStay(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantCode string
	}{
		{"pending stay", model.BookingStatusPending, apperrors.CodeConflict},
		{"confirmed stay", model.BookingStatusConfirmed, apperrors.CodeConflict},
		{"cancelled stay", model.BookingStatusCancelled, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockReviewRepository{
				findBookingFn: func(ctx context.Context, id string) (*model.Booking, error) {
					b := completedBooking()
					b.Status = tt.status
					return b, nil
				},
			}
			svc := newService(repo, t)

			_, err := svc.InviteForBooking(context.Background(), bookingID, guestID)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestInviteRejectsNonGuest(t *testing.T) {
	repo := &mockReviewRepository{
		findBookingFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return completedBooking(), nil
		},
	}
	svc := newService(repo, t)

	_, err := svc.InviteForBooking(context.Background(), bookingID, otherID)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestInviteRejectsAlreadyReviewed(t *testing.T) {
	repo := &mockReviewRepository{
		findBookingFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return completedBooking(), nil
		},
		existsFn: func(ctx context.Context, bookingID string) (bool, error) {
			return true, nil
		},
	}
	svc := newService(repo, t)

	_, err := svc.InviteForBooking(context.Background(), bookingID, guestID)
	assertCode(t, err, apperrors.CodeConflict)
}

func TestSubmitRejectsTamperedToken(t *testing.T) {
	repo := &mockReviewRepository{
		findBookingFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return completedBooking(), nil
		},
	}
	svc := newService(repo, t)

	token, err := svc.InviteForBooking(context.Background(), bookingID, guestID)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Submit(context.Background(), guestID, &SubmitRequest{
		Token:  tampered,
		Rating: 5,
		Body:   "Great place to stay.",
	})
	assertCode(t, err, apperrors.CodeUnauthorized)
}

func TestSubmitRejectsWrongGuest(t *testing.T) {
	repo := &mockReviewRepository{
		findBookingFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return completedBooking(), nil
		},
	}
	svc := newService(repo, t)

	token, err := svc.InviteForBooking(context.Background(), bookingID, guestID)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	_, err = svc.Submit(context.Background(), otherID, &SubmitRequest{
		Token:  token,
		Rating: 4,
		Body:   "Great place to stay.",
	})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestSubmitValidatesRating(t *testing.T) {
	repo := &mockReviewRepository{
		findBookingFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return completedBooking(), nil
		},
	}
	svc := newService(repo, t)

	token, err := svc.InviteForBooking(context.Background(), bookingID, guestID)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), guestID, &SubmitRequest{
			Token:  token,
			Rating: rating,
			Body:   "Great place to stay.",
		})
		assertCode(t, err, apperrors.CodeValidation)
	}
	if len(repo.created) != 0 {
		t.Error("invalid review must not be persisted")
	}
}
