package numbering

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RedisNumberer draws suffixes from a per prefix and year counter, so numbers
// stay unique across concurrent runs.
type RedisNumberer struct {
	client incrementer
}

func NewRedisNumberer(client incrementer) *RedisNumberer {
	return &RedisNumberer{client: client}
}

func (n *RedisNumberer) Next(ctx context.Context, prefix string, year int, _ int) (string, error) {
	key := fmt.Sprintf("invoice_number:%s:%d", prefix, year)
	seq, err := n.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("allocate invoice number: %w", err)
	}
	return Format(prefix, year, seq), nil
}
