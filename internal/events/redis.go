package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Connect opens a Redis client and checks it answers.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisBridge fans session events out to every API instance. Publish sends
// to the channel; Listen feeds what arrives on it into the local hub.
type RedisBridge struct {
	client  redis.UniversalClient
	channel string
	hub     *Hub
}

func NewRedisBridge(client redis.UniversalClient, channel string, hub *Hub) *RedisBridge {
	return &RedisBridge{client: client, channel: channel, hub: hub}
}

func (b *RedisBridge) Publish(ctx context.Context, event dto.SessionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode session event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}
	return nil
}

// Listen blocks until ctx is cancelled or the subscription fails.
func (b *RedisBridge) Listen(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	log.Info().Str("channel", b.channel).Msg("listening for session events")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.dispatch(ctx, msg.Payload)
		}
	}
}

func (b *RedisBridge) dispatch(ctx context.Context, payload string) {
	var event dto.SessionEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Warn().Err(err).Msg("ignoring malformed session event")
		return
	}
	if err := b.hub.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("type", event.Type).Msg("failed to hand session event to hub")
	}
}
