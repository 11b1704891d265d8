package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/cardwise/cardwise-api/internal/aicache"
)

// FastTier implements aicache.FastTier over a Valkey client. Payloads are
// stored as JSON under "<prefix>:ai:response:<fingerprint>" with a TTL.
type FastTier struct {
	client *Client
}

// NewFastTier creates the fast cache tier over the given client.
func NewFastTier(client *Client) *FastTier {
	return &FastTier{client: client}
}

// Ensure FastTier implements the aicache.FastTier interface
var _ aicache.FastTier = (*FastTier)(nil)

func (t *FastTier) key(fingerprint string) string {
	return t.client.Key("ai", "response", fingerprint)
}

// Get retrieves a cached payload. A missing key is (zero, false, nil);
// errors indicate the tier is unavailable.
func (t *FastTier) Get(ctx context.Context, key string) (aicache.Payload, bool, error) {
	inner := t.client.Inner()
	cmd := inner.B().Get().Key(t.key(key)).Build()

	data, err := inner.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return aicache.Payload{}, false, nil
		}
		return aicache.Payload{}, false, fmt.Errorf("fast tier get: %w", err)
	}

	var payload aicache.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		// A corrupt entry is unusable; report a miss so it gets rewritten.
		return aicache.Payload{}, false, nil
	}

	return payload, true, nil
}

// Set stores a payload with the given TTL.
func (t *FastTier) Set(ctx context.Context, key string, payload aicache.Payload, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("fast tier marshal: %w", err)
	}

	inner := t.client.Inner()
	cmd := inner.B().Set().
		Key(t.key(key)).
		Value(string(data)).
		Ex(ttl).
		Build()

	if err := inner.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("fast tier set: %w", err)
	}
	return nil
}
