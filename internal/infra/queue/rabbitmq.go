package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
)

// RabbitAnnounceQueue is an announce job queue on a durable RabbitMQ queue with manual acks.
type RabbitAnnounceQueue struct {
	conn  *amqp.Connection
	queue string

	mu         sync.Mutex
	publishCh  *amqp.Channel
	consumeCh  *amqp.Channel
	deliveries <-chan amqp.Delivery
}

var _ domain.AnnounceQueue = (*RabbitAnnounceQueue)(nil)

// NewRabbitAnnounceQueue dials amqpURL and declares queue.
func NewRabbitAnnounceQueue(amqpURL, queue string) (*RabbitAnnounceQueue, error) {
	if amqpURL == "" {
		return nil, errors.New("amqp url is empty")
	}
	if queue == "" {
		return nil, errors.New("queue name is empty")
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return &RabbitAnnounceQueue{conn: conn, queue: queue, publishCh: ch}, nil
}

// Enqueue publishes a persistent message on the default exchange.
func (q *RabbitAnnounceQueue) Enqueue(ctx context.Context, job domain.AnnounceJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	start := time.Now()
	err = q.publishCh.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID,
		Timestamp:    job.RequestedAt,
		Body:         payload,
	})
	metrics.ObserveNetworkRequest("rabbitmq", "publish", q.queue, start, err)
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

// Receive waits for the next delivery. The returned ack either acks or requeues it.
func (q *RabbitAnnounceQueue) Receive(ctx context.Context) (domain.AnnounceJob, domain.AckFunc, error) {
	deliveries, err := q.consume()
	if err != nil {
		return domain.AnnounceJob{}, nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return domain.AnnounceJob{}, nil, ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				q.resetConsumer()
				return domain.AnnounceJob{}, nil, errors.New("rabbitmq: delivery channel closed")
			}
			var job domain.AnnounceJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				// Undecodable payloads are dropped without requeue.
				_ = d.Nack(false, false)
				return domain.AnnounceJob{}, nil, fmt.Errorf("decode job: %w", err)
			}
			ack := func(success bool) error {
				if success {
					return d.Ack(false)
				}
				return d.Nack(false, true)
			}
			return job, ack, nil
		}
	}
}

// Close shuts the connection.
func (q *RabbitAnnounceQueue) Close() error {
	return q.conn.Close()
}

func (q *RabbitAnnounceQueue) consume() (<-chan amqp.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.deliveries != nil {
		return q.deliveries, nil
	}
	ch, err := q.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}
	q.consumeCh = ch
	q.deliveries = deliveries
	return deliveries, nil
}

func (q *RabbitAnnounceQueue) resetConsumer() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.consumeCh != nil {
		_ = q.consumeCh.Close()
	}
	q.consumeCh = nil
	q.deliveries = nil
}
