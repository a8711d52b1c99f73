// Package events publishes change notifications for game records so other
// systems can follow the table without polling it.
package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gamevault/config"
	"gamevault/models"

	"github.com/goccy/go-json"
)

const (
	GameCreated = "game.created"
	GameUpdated = "game.updated"
	GameDeleted = "game.deleted"
)

// Event describes one committed change. Game is nil for deletions.
type Event struct {
	Type       string       `json:"type"`
	GameID     uint         `json:"game_id"`
	Game       *models.Game `json:"game,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType string, id uint, game *models.Game) Event {
	return Event{Type: eventType, GameID: id, Game: game, OccurredAt: time.Now().UTC()}
}

func (e Event) key() []byte { return []byte(strconv.FormatUint(uint64(e.GameID), 10)) }

func (e Event) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// Decode parses an encoded event.
func Decode(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New builds the publisher selected by cfg.Backend.
func New(cfg config.EventsConfig) (Publisher, error) {
	switch cfg.Backend {
	case "", "none":
		return NoopPublisher{}, nil
	case "redis":
		return NewRedisPublisher(RedisConfig{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			Channel:  cfg.RedisChannel,
		})
	case "kafka":
		return NewKafkaPublisher(KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic}), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
