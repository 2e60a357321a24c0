package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue implements Queue as a reliable Redis list: received messages move
// to a processing list until deleted.
type RedisQueue struct {
	client        *redis.Client
	key           string
	processingKey string
}

// NewRedisQueue creates a queue on key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if client == nil {
		panic("notify: redis client cannot be nil")
	}
	if key == "" {
		key = "leads:outbox"
	}
	return &RedisQueue{
		client:        client,
		key:           key,
		processingKey: key + ":processing",
	}
}

func (q *RedisQueue) Send(ctx context.Context, body string) error {
	if err := q.client.LPush(ctx, q.key, body).Err(); err != nil {
		return fmt.Errorf("notify: failed to push redis message: %w", err)
	}
	return nil
}

// Receive moves up to maxMessages into the processing list. Only the first
// move blocks, for at most waitSeconds.
func (q *RedisQueue) Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]QueueMessage, error) {
	if maxMessages <= 0 {
		maxMessages = 1
	}

	var messages []QueueMessage
	for len(messages) < maxMessages {
		var (
			body string
			err  error
		)
		if len(messages) == 0 && waitSeconds > 0 {
			body, err = q.client.BLMove(ctx, q.key, q.processingKey, "RIGHT", "LEFT", time.Duration(waitSeconds)*time.Second).Result()
		} else {
			body, err = q.client.LMove(ctx, q.key, q.processingKey, "RIGHT", "LEFT").Result()
		}
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			if len(messages) > 0 {
				return messages, nil
			}
			return nil, fmt.Errorf("notify: failed to receive redis message: %w", err)
		}
		messages = append(messages, QueueMessage{Body: body, ReceiptHandle: body})
	}
	return messages, nil
}

// Delete drops a message from the processing list.
func (q *RedisQueue) Delete(ctx context.Context, receiptHandle string) error {
	if err := q.client.LRem(ctx, q.processingKey, 1, receiptHandle).Err(); err != nil {
		return fmt.Errorf("notify: failed to delete redis message: %w", err)
	}
	return nil
}

// Recover moves messages stranded in the processing list back onto the queue.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.LMove(ctx, q.processingKey, q.key, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("notify: failed to recover redis messages: %w", err)
		}
		moved++
	}
}

var _ Queue = (*RedisQueue)(nil)
