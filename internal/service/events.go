package service

import (
	"context"

	"github.com/Ma1k10/Airplanes-Repository/internal/queue"
)

// Publisher delivers reservation events after a transaction commits.
// *queue.Publisher implements it over RabbitMQ.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// NopPublisher drops every event.  It is used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ReservationEvent) error { return nil }
