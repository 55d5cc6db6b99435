// Package consumer wires the notification service to the Kafka topics it
// listens on.
package consumer

import (
	"context"

	"gojo/internal/notifications/service"
	"gojo/pkg/kafka"
	kafka_config "gojo/pkg/kafka/config"
	kafka_middleware "gojo/pkg/kafka/middleware"
	"gojo/pkg/logger"
)

type Consumers struct {
	booking *kafka.Consumer
	listing *kafka.Consumer
	log     *logger.Logger
}

func New(cfg *kafka_config.Config, svc service.NotificationService, log *logger.Logger) (*Consumers, error) {
	booking, err := kafka.NewConsumer(cfg, kafka.TopicBookingEvents, kafka.GroupNotifications, kafka.TopicBookingDLQ, svc.HandleBookingEvent)
	if err != nil {
		return nil, err
	}
	booking.Use(kafka_middleware.LoggingConsumerMiddleware(log))

	listing, err := kafka.NewConsumer(cfg, kafka.TopicListingEvents, kafka.GroupNotifications, kafka.TopicListingDLQ, svc.HandleListingEvent)
	if err != nil {
		booking.Close()
		return nil, err
	}
	listing.Use(kafka_middleware.LoggingConsumerMiddleware(log))

	return &Consumers{booking: booking, listing: listing, log: log}, nil
}

// Start runs both consumers until the context is cancelled.
func (c *Consumers) Start(ctx context.Context) {
	go func() {
		if err := c.booking.Start(ctx); err != nil {
			c.log.Error("booking events consumer stopped", "error", err)
		}
	}()
	go func() {
		if err := c.listing.Start(ctx); err != nil {
			c.log.Error("listing events consumer stopped", "error", err)
		}
	}()
	c.log.Info("notification consumers started",
		"topics", []string{kafka.TopicBookingEvents, kafka.TopicListingEvents},
		"group", kafka.GroupNotifications,
	)
}

func (c *Consumers) Close() {
	if err := c.booking.Close(); err != nil {
		c.log.Error("failed to close booking events consumer", "error", err)
	}
	if err := c.listing.Close(); err != nil {
		c.log.Error("failed to close listing events consumer", "error", err)
	}
}
