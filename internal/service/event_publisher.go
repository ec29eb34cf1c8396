package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/kafka"
)

// BookingEventType identifies the kind of booking event
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent is the message sent to the notification pipeline after a
// booking commit. It carries a full snapshot plus the principal's contact
// address so downstream consumers need no further lookups.
type BookingEvent struct {
	EventID   string           `json:"event_id"`
	EventType BookingEventType `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`

	BookingID string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Contact   string    `json:"contact"`
	DateFrom  time.Time `json:"date_from"`
	DateTo    time.Time `json:"date_to"`
	Price     int       `json:"price"`
	TotalDays int       `json:"total_days"`
	TotalCost int       `json:"total_cost"`
}

// EventPublisher is the outbound notification capability the reservation
// workflow depends on. Dispatch happens only after a successful commit and a
// failure never affects the committed booking.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking *domain.Booking, contact string) error
	PublishBookingCancelled(ctx context.Context, booking *domain.Booking, contact string) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher on a Kafka topic.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// NewKafkaEventPublisher creates a Kafka event publisher.
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "booking-events"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      cfg.ClientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		Linger:        10 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{producer: producer, topic: topic}, nil
}

// PublishBookingCreated publishes a booking created event
func (p *KafkaEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking, contact string) error {
	return p.publish(ctx, BookingEventCreated, booking, contact)
}

// PublishBookingCancelled publishes a booking cancelled event
func (p *KafkaEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking, contact string) error {
	return p.publish(ctx, BookingEventCancelled, booking, contact)
}

// Close closes the underlying producer
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

func (p *KafkaEventPublisher) publish(ctx context.Context, eventType BookingEventType, booking *domain.Booking, contact string) error {
	event := BookingEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		UserID:    booking.UserID,
		Contact:   contact,
		DateFrom:  booking.DateFrom,
		DateTo:    booking.DateTo,
		Price:     booking.Price,
		TotalDays: booking.TotalDays(),
		TotalCost: booking.TotalCost(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	headers := map[string]string{
		"event_type": string(eventType),
		"event_id":   event.EventID,
	}
	return p.producer.Publish(ctx, p.topic, booking.ID, payload, headers)
}

// NoOpEventPublisher discards events. Used when Kafka is unavailable and in
// tests.
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a no-op publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

func (p *NoOpEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking, contact string) error {
	return nil
}

func (p *NoOpEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking, contact string) error {
	return nil
}

func (p *NoOpEventPublisher) Close() error { return nil }
