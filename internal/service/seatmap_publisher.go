// Package service publishes seatmap domain events to RabbitMQ. Publishing
// is best effort: errors are logged and returned, and callers are expected
// to carry on with the request.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/seatmap-console/internal/queue"
	"github.com/iliyamo/seatmap-console/internal/seatmap"
)

// SeatmapPublisher is what handlers depend on.
type SeatmapPublisher interface {
	PublishSeatmapSubmitted(ctx context.Context, ev queue.SeatmapSubmittedEvent) error
}

// RabbitPublisher dials the broker for each event. Seatmap submissions are
// rare enough that a long-lived channel is not worth its reconnect logic.
type RabbitPublisher struct {
	URL string
}

// NewRabbitPublisher returns a publisher for the broker at url.
func NewRabbitPublisher(url string) *RabbitPublisher {
	return &RabbitPublisher{URL: url}
}

// PublishSeatmapSubmitted sends ev as a persistent JSON message to the
// seatmap.submitted queue, declaring the queue if needed.
func (p *RabbitPublisher) PublishSeatmapSubmitted(ctx context.Context, ev queue.SeatmapSubmittedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("[rabbitmq] dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("[rabbitmq] channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.SeatmapSubmittedQueue, // name
		true,                        // durable
		false,                       // autoDelete
		false,                       // exclusive
		false,                       // noWait
		nil,                         // args
	); err != nil {
		log.Printf("[rabbitmq] queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[rabbitmq] marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.SeatmapSubmittedQueue, false, false, pub); err != nil {
		log.Printf("[rabbitmq] publish failed: %v", err)
		return err
	}
	return nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSeatmapSubmitted(context.Context, queue.SeatmapSubmittedEvent) error {
	return nil
}

// NewSeatmapEvent summarises doc for the event payload.
func NewSeatmapEvent(showID, eventID, ownerID, showName, source string, doc *seatmap.Document, at time.Time) queue.SeatmapSubmittedEvent {
	ev := queue.SeatmapSubmittedEvent{
		ShowID:      showID,
		EventID:     eventID,
		OwnerID:     ownerID,
		ShowName:    showName,
		Source:      source,
		SubmittedAt: at.UTC().Format("2006-01-02 15:04:05"),
	}
	if doc != nil {
		ev.ZoneCount = len(doc.Objects)
		ev.TicketTypeIDs = doc.TicketTypeIDs()
		ev.TicketZoneCount = len(ev.TicketTypeIDs)
	}
	return ev
}
