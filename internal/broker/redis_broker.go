package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const channel = "calendar:events"

// RedisBroker implements Broker over redis pub/sub.
type RedisBroker struct {
	client *redis.Client
	pubsub *redis.PubSub
	ctx    context.Context
}

func NewRedisBroker(redisURL string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisBroker{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisBroker) Publish(notice EventNotice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, channel, data).Err()
}

func (r *RedisBroker) Subscribe() (<-chan EventNotice, error) {
	r.pubsub = r.client.Subscribe(r.ctx, channel)

	// Wait for the SUBSCRIBE ack so notices published immediately
	// after Subscribe returns are not lost.
	if _, err := r.pubsub.Receive(r.ctx); err != nil {
		r.pubsub.Close()
		return nil, err
	}

	noticeChan := make(chan EventNotice, 100)

	go func() {
		defer close(noticeChan)

		for redisMsg := range r.pubsub.Channel() {
			var notice EventNotice

			if err := json.Unmarshal([]byte(redisMsg.Payload), &notice); err != nil {
				continue
			}

			noticeChan <- notice
		}
	}()

	return noticeChan, nil
}

func (r *RedisBroker) Close() error {
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	return r.client.Close()
}
