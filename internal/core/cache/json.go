package cache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// GetOrLoadJSON 以 JSON 存取；load 返回 nil 时缓存 null，读出为 nil。
// 缓存里是旧结构解不开时，删掉该 key 再回源一次
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(context.Context) (*T, error)) (*T, error) {
	encode := func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	}

	b, err := c.GetOrLoad(ctx, key, ttl, encode)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[T](b)
	if err == nil {
		return out, nil
	}
	if derr := c.Del(ctx, key); derr != nil {
		return nil, err
	}
	if b, err = c.GetOrLoad(ctx, key, ttl, encode); err != nil {
		return nil, err
	}
	return decodeJSON[T](b)
}

func decodeJSON[T any](b []byte) (*T, error) {
	if bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode cached value: %w", err)
	}
	return &out, nil
}
