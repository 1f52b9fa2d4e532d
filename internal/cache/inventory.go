package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	PostKeyPrefix      = "post:%s"
	PostCountKeyPrefix = "posts:count"
)

const (
	PostTTL      = 5 * time.Minute
	PostCountTTL = 1 * time.Minute
)

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostCountKey() string {
	return PostCountKeyPrefix
}

// GetJSON reads key and unmarshals it into dest. It returns false on a cache
// miss, a missing client, or any Redis/decode error.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON marshals value and stores it under key with the given TTL. Errors
// are dropped; the cache is best effort.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside runs the classic cache-aside pattern: fill dest from the cache when
// key is present, otherwise run load to populate dest and cache the result.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}

	if err := load(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidatePostCount(ctx context.Context) {
	Invalidate(ctx, PostCountKey())
}
