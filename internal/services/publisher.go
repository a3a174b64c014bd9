package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"alfredoptarigan/resume-matcher/internal/models"
)

const matchCompletedRoutingKey = "match.completed"

// MatchPublisher announces served match results.
type MatchPublisher interface {
	PublishMatch(event models.MatchEvent) error
	Close() error
}

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	exchange string
}

func NewMatchPublisher(url, exchange string) (MatchPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("✅ Match events exchange '%s' ready\n", exchange)

	return &amqpPublisher{
		conn:     conn,
		exchange: exchange,
	}, nil
}

func (p *amqpPublisher) PublishMatch(event models.MatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return ch.Publish(
		p.exchange,
		matchCompletedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   event.MatchID,
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() MatchPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishMatch(models.MatchEvent) error { return nil }

func (noopPublisher) Close() error { return nil }

// NewMatchEvent summarizes served results for publication.
func NewMatchEvent(kind models.MatchKind, matchID, jdName string, results []models.ComparisonResult) models.MatchEvent {
	event := models.MatchEvent{
		MatchID:            matchID,
		Kind:               kind,
		JobDescriptionName: jdName,
		Results:            make([]models.MatchEventResume, 0, len(results)),
		OccurredAt:         time.Now().UTC().Format(time.RFC3339),
	}
	for _, r := range results {
		event.Results = append(event.Results, models.MatchEventResume{ResumeName: r.ResumeName, Score: r.Score})
	}
	return event
}
