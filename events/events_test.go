package events

import (
	"context"
	"testing"
	"time"

	"gamevault/config"
	"gamevault/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEncoding(t *testing.T) {
	game := &models.Game{ID: 3, Title: "Chrono Trigger", ReleaseYear: "1995"}
	e := NewEvent(GameUpdated, game.ID, game)

	data, err := e.encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"game.updated"`)
	assert.Contains(t, string(data), `"release":"1995"`)
	assert.Equal(t, []byte("3"), e.key())

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, GameUpdated, decoded.Type)
	assert.Equal(t, uint(3), decoded.GameID)
	require.NotNil(t, decoded.Game)
	assert.Equal(t, "Chrono Trigger", decoded.Game.Title)
}

func TestDeleteEventOmitsGame(t *testing.T) {
	data, err := NewEvent(GameDeleted, 9, nil).encode()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"game":`)
}

func TestNewSelectsBackend(t *testing.T) {
	p, err := New(config.EventsConfig{})
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), NewEvent(GameCreated, 1, nil)))

	p, err = New(config.EventsConfig{Backend: "kafka", KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "games.events"})
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())

	_, err = New(config.EventsConfig{Backend: "nats"})
	assert.Error(t, err)
}

func TestRedisPublisher(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	sub := client.Subscribe(ctx, "games:events")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	p, err := New(config.EventsConfig{Backend: "redis", RedisURL: mr.Addr(), RedisChannel: "games:events"})
	require.NoError(t, err)
	defer p.Close()

	game := &models.Game{ID: 1, Title: "Chrono Trigger"}
	require.NoError(t, p.Publish(ctx, NewEvent(GameCreated, game.ID, game)))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "games:events", msg.Channel)

	e, err := Decode([]byte(msg.Payload))
	require.NoError(t, err)
	assert.Equal(t, GameCreated, e.Type)
	assert.Equal(t, uint(1), e.GameID)
}

func TestRedisPublisherUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisPublisher(RedisConfig{Addr: addr, Channel: "games:events"})
	assert.Error(t, err)
}
