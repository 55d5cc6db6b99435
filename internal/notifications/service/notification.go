package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gojo/internal/notifications/repository"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/kafka"
	"gojo/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationPage struct {
	Notifications []*model.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Limit         int                   `json:"limit"`
	Offset        int64                 `json:"offset"`
}

type NotificationService interface {
	ListForUser(ctx context.Context, userID string, limit int, offset int64) (*NotificationPage, error)
	MarkRead(ctx context.Context, id string, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	HandleBookingEvent(ctx context.Context, msg kafka.Message) error
	HandleListingEvent(ctx context.Context, msg kafka.Message) error
}

type notificationService struct {
	repo repository.NotificationRepository
	cfg  *config.Config
}

func NewNotificationService(repo repository.NotificationRepository, cfg *config.Config) NotificationService {
	return &notificationService{repo: repo, cfg: cfg}
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func (s *notificationService) ListForUser(ctx context.Context, userID string, limit int, offset int64) (*NotificationPage, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list notifications", err)
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to count notifications", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to count notifications", err)
	}

	return &NotificationPage{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFoundWithID("Notification", id)
		}
		return apperrors.Internal("Failed to mark notification read", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("Failed to mark notifications read", err)
	}
	return count, nil
}

// HandleBookingEvent consumes booking events and fans them out into
// per-user notifications. Offsets commit after this returns, so a transient
// storage failure surfaces as an error for the retry loop.
func (s *notificationService) HandleBookingEvent(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		// Undecodable payloads never improve on retry.
		return kafka.NewPermanentError("invalid booking event payload", err)
	}

	notifications := s.bookingNotifications(msg.GetEventType(), &event)
	for _, n := range notifications {
		if err := s.repo.Create(ctx, n); err != nil {
			return kafka.NewTransientError("failed to store notification", err)
		}
	}

	s.cfg.Log.Info("booking event processed",
		"event_id", msg.GetEventID(),
		"event_type", msg.GetEventType(),
		"booking_id", event.BookingID,
		"notifications", len(notifications),
	)
	return nil
}

func (s *notificationService) bookingNotifications(eventType string, event *model.BookingEvent) []*model.Notification {
	stay := fmt.Sprintf("%s to %s",
		event.CheckIn.Format(time.DateOnly), event.CheckOut.Format(time.DateOnly))
	place := event.ListingTitle
	if place == "" {
		place = "your listing"
	}

	switch eventType {
	case model.EventBookingCreated:
		return []*model.Notification{{
			UserID: event.HostID,
			Type:   model.NotificationBookingRequested,
			Title:  fmt.Sprintf("%s requested %s", event.GuestName, place),
			Body:   fmt.Sprintf("Requested stay: %s.", stay),
		}}
	case model.EventBookingStatusChanged:
		switch event.Status {
		case model.BookingStatusConfirmed:
			return []*model.Notification{{
				UserID: event.GuestID,
				Type:   model.NotificationBookingConfirmed,
				Title:  "Your booking is confirmed",
				Body:   fmt.Sprintf("Your stay %s is confirmed.", stay),
			}}
		case model.BookingStatusCancelled:
			return []*model.Notification{
				{
					UserID: event.GuestID,
					Type:   model.NotificationBookingCancelled,
					Title:  "Booking cancelled",
					Body:   fmt.Sprintf("The stay %s was cancelled.", stay),
				},
				{
					UserID: event.HostID,
					Type:   model.NotificationBookingCancelled,
					Title:  "Booking cancelled",
					Body:   fmt.Sprintf("The stay %s was cancelled.", stay),
				},
			}
		case model.BookingStatusCompleted:
			return []*model.Notification{{
				UserID: event.GuestID,
				Type:   model.NotificationBookingCompleted,
				Title:  "How was your stay?",
				Body:   "Your stay is complete. Leave a review to help other travelers.",
			}}
		}
	}
	return nil
}

// HandleListingEvent consumes moderation decisions and notifies the host.
func (s *notificationService) HandleListingEvent(ctx context.Context, msg kafka.Message) error {
	var event model.ListingModerationEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid listing event payload", err)
	}

	notification := s.moderationNotification(&event)
	if notification == nil {
		return nil
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return kafka.NewTransientError("failed to store notification", err)
	}

	s.cfg.Log.Info("listing event processed",
		"event_id", msg.GetEventID(),
		"listing_id", event.ListingID,
		"status", event.Status,
	)
	return nil
}

func (s *notificationService) moderationNotification(event *model.ListingModerationEvent) *model.Notification {
	place := event.ListingTitle
	if place == "" {
		place = "Your listing"
	}

	switch event.Status {
	case model.ListingStatusActive:
		return &model.Notification{
			UserID: event.HostID,
			Type:   model.NotificationListingApproved,
			Title:  fmt.Sprintf("%s is now live", place),
			Body:   "Guests can now find and book your listing.",
		}
	case model.ListingStatusRejected:
		body := "Review the feedback and resubmit."
		if event.Notes != "" {
			body = event.Notes
		}
		return &model.Notification{
			UserID: event.HostID,
			Type:   model.NotificationListingRejected,
			Title:  fmt.Sprintf("%s needs changes", place),
			Body:   body,
		}
	}
	return nil
}
