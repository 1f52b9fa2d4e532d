package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var missed cachedPost
	assert.False(t, GetJSON(ctx, PostKey("abc"), &missed))

	SetJSON(ctx, PostKey("abc"), cachedPost{ID: "abc", Text: "hello"}, PostTTL)

	var got cachedPost
	require.True(t, GetJSON(ctx, PostKey("abc"), &got))
	assert.Equal(t, "hello", got.Text)
}

func TestAsideLoadsOnMissAndCachesResult(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	loads := 0
	var got cachedPost
	load := func() error {
		loads++
		got = cachedPost{ID: "p1", Text: "loaded"}
		return nil
	}

	require.NoError(t, Aside(ctx, PostKey("p1"), &got, time.Minute, load))
	assert.Equal(t, "loaded", got.Text)
	assert.Equal(t, 1, loads)

	// Second read is served from cache.
	got = cachedPost{}
	require.NoError(t, Aside(ctx, PostKey("p1"), &got, time.Minute, load))
	assert.Equal(t, "loaded", got.Text)
	assert.Equal(t, 1, loads)
}

func TestInvalidatePost(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	SetJSON(ctx, PostKey("p2"), cachedPost{ID: "p2"}, time.Minute)
	InvalidatePost(ctx, "p2")

	var got cachedPost
	assert.False(t, GetJSON(ctx, PostKey("p2"), &got))
}

func TestHelpersFailOpenWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var got cachedPost
	assert.False(t, GetJSON(ctx, PostKey("x"), &got))
	SetJSON(ctx, PostKey("x"), cachedPost{}, time.Minute)
	Invalidate(ctx, PostKey("x"))

	var loaded cachedPost
	require.NoError(t, Aside(ctx, PostKey("x"), &loaded, time.Minute, func() error {
		loaded = cachedPost{Text: "db"}
		return nil
	}))
	assert.Equal(t, "db", loaded.Text)
}
