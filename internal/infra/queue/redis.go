package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
)

// RedisAnnounceQueue is an announce job queue on a Redis list.
type RedisAnnounceQueue struct {
	client *redis.Client
	key    string
}

var _ domain.AnnounceQueue = (*RedisAnnounceQueue)(nil)

// NewRedisAnnounceQueue creates a queue stored under key.
func NewRedisAnnounceQueue(client *redis.Client, key string) *RedisAnnounceQueue {
	return &RedisAnnounceQueue{client: client, key: key}
}

// Enqueue publishes a job.
func (q *RedisAnnounceQueue) Enqueue(ctx context.Context, job domain.AnnounceJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	start := time.Now()
	err = q.client.LPush(ctx, q.key, payload).Err()
	metrics.ObserveNetworkRequest("redis", "lpush", q.key, start, err)
	if err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Receive blocks until a job is available. A negative ack pushes the job back.
func (q *RedisAnnounceQueue) Receive(ctx context.Context) (domain.AnnounceJob, domain.AckFunc, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.AnnounceJob{}, nil, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.AnnounceJob{}, nil, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.AnnounceJob{}, nil, err
		}
		if len(res) != 2 {
			return domain.AnnounceJob{}, nil, errors.New("redis queue: unexpected response")
		}
		raw := res[1]
		var job domain.AnnounceJob
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return domain.AnnounceJob{}, nil, fmt.Errorf("decode job: %w", err)
		}
		ack := func(success bool) error {
			if success {
				return nil
			}
			return q.client.RPush(context.Background(), q.key, raw).Err()
		}
		return job, ack, nil
	}
}
