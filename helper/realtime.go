package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisClient *redis.Client
)

// Redis returns the shared client for realtime pub/sub and slot holds.
func Redis() *redis.Client {
	redisOnce.Do(func() {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	})
	return redisClient
}

func orderChannel(orderId uint) string {
	return fmt.Sprintf("order:%d", orderId)
}

// PublishOrderUpdate pushes a change notification to the order's channel.
// Best-effort: a publish failure is logged and dropped.
func PublishOrderUpdate(orderId uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("order %d: marshal realtime payload: %v", orderId, err)
		return
	}
	if err := Redis().Publish(context.Background(), orderChannel(orderId), data).Err(); err != nil {
		log.Printf("order %d: realtime publish failed: %v", orderId, err)
	}
}

// SubscribeOrder opens a subscription on the order's channel. The caller owns
// the returned pubsub and must Close it to unregister.
func SubscribeOrder(ctx context.Context, orderId uint) *redis.PubSub {
	return Redis().Subscribe(ctx, orderChannel(orderId))
}
