package profiledisease

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "profile:disease:"

// CacheKey identifies a description and its condition set. Case, surrounding
// whitespace and condition order do not affect the key.
func CacheKey(description string, conditions []string) string {
	normalized := make([]string, 0, len(conditions))
	for _, c := range conditions {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			normalized = append(normalized, c)
		}
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(description)) + "|" + strings.Join(normalized, ",")))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

type profileCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// get returns the cached profile object. A miss is (nil, nil).
func (c *profileCache) get(ctx context.Context, key string) (map[string]interface{}, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *profileCache) set(ctx context.Context, key string, raw map[string]interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
