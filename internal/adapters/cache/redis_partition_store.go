package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	redisclient "github.com/Devyalamaddi/CareConnect/internal/infrastructure/clients/redis"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

// registryKey is the set of all existing partition names, used by
// generation reconciliation to enumerate and delete stale partitions.
const registryKey = "partitions"

// RedisPartitionStore implements PartitionStore on Redis. Each partition is
// one hash keyed by request key, giving per-entry atomicity via HSET/HGET.
type RedisPartitionStore struct {
	client *redisclient.Client
}

// NewRedisPartitionStore creates a new Redis partition store
func NewRedisPartitionStore(client *redisclient.Client) providers.PartitionStore {
	return &RedisPartitionStore{client: client}
}

// Open returns a handle to the named partition, registering it if absent
func (s *RedisPartitionStore) Open(ctx context.Context, name string) (providers.Partition, error) {
	if err := s.client.Client().SAdd(ctx, registryKey, name).Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to open partition "+name, err)
	}
	return &redisPartition{name: name, client: s.client}, nil
}

// Names enumerates all existing partitions
func (s *RedisPartitionStore) Names(ctx context.Context) ([]string, error) {
	names, err := s.client.Client().SMembers(ctx, registryKey).Result()
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to enumerate partitions", err)
	}
	return names, nil
}

// Delete destroys a partition and all its entries
func (s *RedisPartitionStore) Delete(ctx context.Context, name string) error {
	pipe := s.client.Client().TxPipeline()
	pipe.SRem(ctx, registryKey, name)
	pipe.Del(ctx, partitionKey(name))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailableError("failed to delete partition "+name, err)
	}
	return nil
}

func partitionKey(name string) string {
	return "partition:" + name
}

type redisPartition struct {
	name   string
	client *redisclient.Client
}

func (p *redisPartition) Name() string {
	return p.name
}

func (p *redisPartition) Get(ctx context.Context, key string) (*entities.FetchResponse, error) {
	data, err := p.client.Client().HGet(ctx, partitionKey(p.name), key).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NewNotFoundError("no entry for " + key + " in " + p.name)
	}
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to read entry "+key, err)
	}

	var resp entities.FetchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal cached entry "+key, err)
	}
	resp.Source = entities.SourceCache
	return &resp, nil
}

func (p *redisPartition) Put(ctx context.Context, key string, resp *entities.FetchResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal entry "+key, err)
	}
	if err := p.client.Client().HSet(ctx, partitionKey(p.name), key, data).Err(); err != nil {
		return apperrors.NewStorageUnavailableError("failed to store entry "+key, err)
	}
	return nil
}

func (p *redisPartition) Has(ctx context.Context, key string) (bool, error) {
	ok, err := p.client.Client().HExists(ctx, partitionKey(p.name), key).Result()
	if err != nil {
		return false, apperrors.NewStorageUnavailableError("failed to check entry "+key, err)
	}
	return ok, nil
}

func (p *redisPartition) Keys(ctx context.Context) ([]string, error) {
	keys, err := p.client.Client().HKeys(ctx, partitionKey(p.name)).Result()
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to enumerate keys", err)
	}
	return keys, nil
}

func (p *redisPartition) Len(ctx context.Context) (int, error) {
	n, err := p.client.Client().HLen(ctx, partitionKey(p.name)).Result()
	if err != nil {
		return 0, apperrors.NewStorageUnavailableError("failed to count entries", err)
	}
	return int(n), nil
}
