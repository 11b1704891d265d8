package valkey

import (
	"context"
	"fmt"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/google/uuid"
)

// DailyCounter implements the quota package's fast counter over Valkey.
// Each user's daily consumption lives under
// "<prefix>:tokens:<userID>:daily" and resets naturally via a rolling
// 24-hour expiry set on the first increment of each window.
type DailyCounter struct {
	client *Client
	window time.Duration
}

// NewDailyCounter creates a daily quota counter with a 24-hour rolling window.
func NewDailyCounter(client *Client) *DailyCounter {
	return &DailyCounter{client: client, window: 24 * time.Hour}
}

func (c *DailyCounter) key(userID uuid.UUID) string {
	return c.client.Key("tokens", userID.String(), "daily")
}

// Get returns the user's current daily consumption. A missing key means
// zero consumption; errors indicate the counter store is unavailable.
func (c *DailyCounter) Get(ctx context.Context, userID uuid.UUID) (int64, error) {
	inner := c.client.Inner()
	cmd := inner.B().Get().Key(c.key(userID)).Build()

	value, err := inner.Do(ctx, cmd).AsInt64()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("daily counter get: %w", err)
	}
	return value, nil
}

// Add atomically increments the user's daily counter. The expiry is set
// when the increment opens a new window, so the counter resets on a rolling
// 24-hour basis.
func (c *DailyCounter) Add(ctx context.Context, userID uuid.UUID, tokens int64) error {
	inner := c.client.Inner()
	key := c.key(userID)

	newValue, err := inner.Do(ctx, inner.B().Incrby().Key(key).Increment(tokens).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("daily counter incr: %w", err)
	}

	// First increment of a fresh window: attach the expiry.
	if newValue == tokens {
		expire := inner.B().Expire().Key(key).Seconds(int64(c.window.Seconds())).Build()
		if err := inner.Do(ctx, expire).Error(); err != nil {
			return fmt.Errorf("daily counter expire: %w", err)
		}
	}
	return nil
}
