//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devyalamaddi/CareConnect/internal/adapters/events"
	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
)

func waitForMessage(t *testing.T, ch <-chan *entities.WorkerMessage) *entities.WorkerMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestRedisMessageBusFanoutIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	bus := events.NewRedisMessageBus(redisClient)
	defer bus.Close()

	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := bus.Subscribe(ctx1, providers.ChannelBroadcast)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx2, providers.ChannelBroadcast)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	sent := entities.NewWorkerMessage(entities.MessageTilesCached)
	sent.Count = 9
	require.NoError(t, bus.Publish(context.Background(), providers.ChannelBroadcast, sent))

	received1 := waitForMessage(t, sub1)
	received2 := waitForMessage(t, sub2)

	assert.Equal(t, sent.ID, received1.ID)
	assert.Equal(t, sent.ID, received2.ID)
	assert.Equal(t, 9, received1.Count)
}

func TestRedisMessageBusSyncChannelIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	bus := events.NewRedisMessageBus(redisClient)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := providers.SyncChannel(string(entities.TaskKindHospitalSync))
	sub, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	trigger := entities.NewWorkerMessage(entities.MessageSyncTrigger)
	trigger.Tag = string(entities.TaskKindHospitalSync)
	require.NoError(t, bus.Publish(context.Background(), channel, trigger))

	received := waitForMessage(t, sub)
	assert.Equal(t, entities.MessageSyncTrigger, received.Type)
	assert.Equal(t, string(entities.TaskKindHospitalSync), received.Tag)
}
