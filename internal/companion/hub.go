package companion

import (
	"context"
	"fmt"
	"sync"

	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/ksclock/internal/message"
)

const inboxKeyPrefix = "ksclock:inbox:"

// subscriberBuffer is how many messages a slow subscriber may lag behind
// before new ones are dropped for it.
const subscriberBuffer = 16

// Hub fans inbound messages out to every clock subscribed for a device.
type Hub interface {
	Publish(ctx context.Context, deviceID string, in message.Inbound) error

	// Subscribe returns a channel of messages for deviceID. The returned
	// function must be called to unsubscribe.
	Subscribe(ctx context.Context, deviceID string) (<-chan message.Inbound, func(), error)
}

var (
	_ Hub = (*MemoryHub)(nil)
	_ Hub = (*RedisHub)(nil)
)

type MemoryHub struct {
	mu   sync.Mutex
	subs map[string]map[chan message.Inbound]struct{}
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{subs: make(map[string]map[chan message.Inbound]struct{})}
}

func (h *MemoryHub) Publish(_ context.Context, deviceID string, in message.Inbound) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[deviceID] {
		select {
		case ch <- in:
		default:
		}
	}
	return nil
}

func (h *MemoryHub) Subscribe(_ context.Context, deviceID string) (<-chan message.Inbound, func(), error) {
	ch := make(chan message.Inbound, subscriberBuffer)

	h.mu.Lock()
	if h.subs[deviceID] == nil {
		h.subs[deviceID] = make(map[chan message.Inbound]struct{})
	}
	h.subs[deviceID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[deviceID], ch)
			if len(h.subs[deviceID]) == 0 {
				delete(h.subs, deviceID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe, nil
}

// RedisHub relays messages over redis pub/sub so several companion
// instances can serve the same device.
type RedisHub struct {
	client *redis.Client
}

func NewRedisHub(client *redis.Client) *RedisHub {
	return &RedisHub{client: client}
}

func (h *RedisHub) channel(deviceID string) string {
	return inboxKeyPrefix + deviceID
}

func (h *RedisHub) Publish(ctx context.Context, deviceID string, in message.Inbound) error {
	data, err := go_json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal inbound message: %w", err)
	}
	if err := h.client.Publish(ctx, h.channel(deviceID), string(data)).Err(); err != nil {
		return fmt.Errorf("failed to publish inbound message: %w", err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, deviceID string) (<-chan message.Inbound, func(), error) {
	pubsub := h.client.Subscribe(ctx, h.channel(deviceID))

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan message.Inbound)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			in, err := message.DecodeInbound([]byte(msg.Payload))
			if err != nil {
				continue
			}
			select {
			case out <- in:
			case <-ctx.Done():
				return
			}
		}
	}()

	unsubscribe := func() {
		_ = pubsub.Close()
	}
	return out, unsubscribe, nil
}
