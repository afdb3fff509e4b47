package event

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"swap-service/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishSwapEvent(event *models.SwapEvent) error
	PublishBadgeEvent(event *models.BadgeEvent) error
	Close() error
}

type EventPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
}

func NewEventPublisher(rabbitURI string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{
			exchange: SwapExchange,
			enabled:  false,
		}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		SwapExchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("Event publisher initialized with exchange: %s", SwapExchange)

	return &EventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: SwapExchange,
		enabled:  true,
	}, nil
}

func (p *EventPublisher) PublishSwapEvent(event *models.SwapEvent) error {
	headers := amqp091.Table{
		"event_type": string(event.EventType),
		"swap_id":    event.SwapID,
	}
	return p.publish(string(event.EventType), event, headers)
}

func (p *EventPublisher) PublishBadgeEvent(event *models.BadgeEvent) error {
	headers := amqp091.Table{
		"event_type": string(event.EventType),
		"user_id":    event.UserID,
		"badge_id":   event.BadgeID,
	}
	return p.publish(string(event.EventType), event, headers)
}

func (p *EventPublisher) publish(routingKey string, payload any, headers amqp091.Table) error {
	if !p.enabled {
		log.Printf("Event publishing disabled, skipping event: %s", routingKey)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.Publish(
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers:      headers,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("Published event: %s", routingKey)
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}

// MockPublisher records events for tests.
type MockPublisher struct {
	SwapEvents  []models.SwapEvent
	BadgeEvents []models.BadgeEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishSwapEvent(event *models.SwapEvent) error {
	m.SwapEvents = append(m.SwapEvents, *event)
	return nil
}

func (m *MockPublisher) PublishBadgeEvent(event *models.BadgeEvent) error {
	m.BadgeEvents = append(m.BadgeEvents, *event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
