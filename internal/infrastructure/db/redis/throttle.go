package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const throttlePrefix = "throttle:"

// MailThrottle rate limits outgoing mail per key. The first Allow inside a
// window wins; later calls report false until the key expires.
type MailThrottle struct {
	client *redis.Client
	window time.Duration
}

// NewMailThrottle creates a MailThrottle. A non-positive window disables
// throttling.
func NewMailThrottle(client *redis.Client, window time.Duration) *MailThrottle {
	return &MailThrottle{client: client, window: window}
}

// Allow reports whether a mail for key may go out now and, if so, starts a
// new window for it.
func (t *MailThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t.window <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, throttlePrefix+key, "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("throttle %s: %w", key, err)
	}
	return ok, nil
}
