package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	redisclient "github.com/Devyalamaddi/CareConnect/internal/infrastructure/clients/redis"
)

// RedisMessageBus implements the MessageBus interface using Redis Pub/Sub.
// It carries page→worker messages, sync triggers, push payloads, and
// worker→page broadcasts.
type RedisMessageBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string]map[chan *entities.WorkerMessage]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisMessageBus creates a new Redis-based message bus
func NewRedisMessageBus(client *redisclient.Client) providers.MessageBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisMessageBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.WorkerMessage]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes a message to all subscribers of a channel
func (b *RedisMessageBus) Publish(ctx context.Context, channel string, msg *entities.WorkerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Debug().Str("channel", channel).Str("type", string(msg.Type)).Msg("published message")
	return nil
}

// Subscribe subscribes to messages on a channel until ctx is done
func (b *RedisMessageBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WorkerMessage, error) {
	b.mu.Lock()

	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.WorkerMessage]struct{})
	}

	msgChan := make(chan *entities.WorkerMessage, 100)
	b.subscribers[channel][msgChan] = struct{}{}
	subscriberCount := len(b.subscribers[channel])
	b.mu.Unlock()

	log.Debug().Str("channel", channel).Int("subscribers", subscriberCount).Msg("subscribed")

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, msgChan)
	}()

	return msgChan, nil
}

// receiveMessages receives messages from Redis and fans them out to subscribers
func (b *RedisMessageBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	defer func() {
		if err := b.cleanupChannel(channel); err != nil {
			log.Warn().Str("channel", channel).Err(err).Msg("failed to clean up channel")
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case raw, ok := <-ch:
			if !ok {
				return
			}

			var msg entities.WorkerMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				log.Warn().Str("channel", channel).Err(err).Msg("failed to unmarshal message")
				continue
			}

			b.mu.RLock()
			for subscriber := range b.subscribers[channel] {
				select {
				case subscriber <- &msg:
				default:
					// Subscriber channel full, drop the message
					log.Warn().Str("channel", channel).Str("id", msg.ID).Msg("subscriber full, dropping message")
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *RedisMessageBus) removeSubscriber(channel string, msgChan chan *entities.WorkerMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[msgChan]; !ok {
		return
	}

	delete(subscribers, msgChan)
	close(msgChan)

	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
		if pubsub, ok := b.subscriptions[channel]; ok {
			_ = pubsub.Close()
			delete(b.subscriptions, channel)
			log.Debug().Str("channel", channel).Msg("closed subscription")
		}
	}
}

func (b *RedisMessageBus) cleanupChannel(channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, exists := b.subscribers[channel]; exists {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}

	if pubsub, ok := b.subscriptions[channel]; ok {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close subscription %s: %w", channel, err)
		}
		delete(b.subscriptions, channel)
	}

	return nil
}

// Unsubscribe tears down a channel subscription
func (b *RedisMessageBus) Unsubscribe(ctx context.Context, channel string) error {
	return b.cleanupChannel(channel)
}

// Close closes the bus and all subscriptions
func (b *RedisMessageBus) Close() error {
	b.cancel()

	b.mu.RLock()
	channels := make([]string, 0, len(b.subscriptions))
	for channel := range b.subscriptions {
		channels = append(channels, channel)
	}
	b.mu.RUnlock()

	var errs []error
	for _, channel := range channels {
		if err := b.cleanupChannel(channel); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing message bus: %v", errs)
	}

	log.Debug().Msg("message bus closed")
	return nil
}
