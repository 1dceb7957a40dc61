package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

func TestGetOrLoadJSON_NoRedis(t *testing.T) {
	c := Noop()
	var calls int32
	load := func(context.Context) (*payload, error) {
		atomic.AddInt32(&calls, 1)
		return &payload{Items: []string{"a", "b"}, Total: 2}, nil
	}

	got, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, &payload{Items: []string{"a", "b"}, Total: 2}, got)

	// 无 redis 时每次都回源
	_, err = GetOrLoadJSON(c, context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGetOrLoadJSON_NilCache(t *testing.T) {
	var c *Cache
	got, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*payload, error) {
		return &payload{Total: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
	assert.NoError(t, c.Del(context.Background(), "k"))
	assert.NoError(t, c.Ping(context.Background()))
}

func TestGetOrLoadJSON_LoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(Noop(), context.Background(), "k", time.Minute, func(context.Context) (*payload, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGetOrLoadJSON_Null(t *testing.T) {
	got, err := GetOrLoadJSON(Noop(), context.Background(), "k", time.Minute, func(context.Context) (*payload, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeJSON(t *testing.T) {
	got, err := decodeJSON[payload]([]byte(`{"items":["x"],"total":1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Items)

	got, err = decodeJSON[payload]([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = decodeJSON[payload]([]byte(`{"items":"old-shape"}`))
	assert.Error(t, err)
}

func newRedisCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadJSON_Redis(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	var calls int32
	load := func(context.Context) (*payload, error) {
		n := atomic.AddInt32(&calls, 1)
		return &payload{Total: int(n)}, nil
	}

	got, err := GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, time.Minute, mr.TTL("blog:k"))

	got, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total, "served from redis")

	require.NoError(t, c.Del(ctx, "k", "missing"))
	got, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Total)
}

func TestGetOrLoadJSON_StalePayloadReloaded(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("blog:k", `{"items":"old-shape"}`))

	got, err := GetOrLoadJSON(c, ctx, "k", time.Minute, func(context.Context) (*payload, error) {
		return &payload{Items: []string{"fresh"}, Total: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, got.Items)

	raw, err := mr.Get("blog:k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":["fresh"],"total":1}`, raw)
}

func TestPing_Unreachable(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, c.Ping(ctx))
}

func TestGeneration(t *testing.T) {
	ctx := context.Background()

	n, err := Noop().Generation(ctx, "gen")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = Noop().Bump(ctx, "gen")
	require.NoError(t, err)
	assert.Zero(t, n)

	c, mr := newRedisCache(t)
	n, err = c.Generation(ctx, "gen")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = c.Bump(ctx, "gen")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = c.Generation(ctx, "gen")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	got, err := mr.Get("blog:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, mr.Set("blog:gen", "garbage"))
	_, err = c.Generation(ctx, "gen")
	assert.Error(t, err)
}
