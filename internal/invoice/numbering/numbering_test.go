package numbering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/agencydesk/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPadsAndWraps(t *testing.T) {
	assert.Equal(t, "INV-2025-000042", Format("INV", 2025, 42))
	assert.Equal(t, "INV-2025-234567", Format("INV", 2025, 1_234_567))
}

func TestTimestampNumbererOffsetsByIndex(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := NewTimestampNumberer(clock.NewFakeClock(now))

	first, err := n.Next(context.Background(), "INV", 2025, 0)
	require.NoError(t, err)
	second, err := n.Next(context.Background(), "INV", 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, Format("INV", 2025, now.UnixMilli()), first)
	assert.Equal(t, Format("INV", 2025, now.UnixMilli()+1), second)
	assert.NotEqual(t, first, second)
}

func TestTimestampNumbererNeverRepeats(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	n := NewTimestampNumberer(clk)

	seen := make(map[string]bool)
	for run := 0; run < 3; run++ {
		for i := 0; i < 12; i++ {
			number, err := n.Next(context.Background(), "INV", 2025, i)
			require.NoError(t, err)
			if seen[number] {
				t.Fatalf("run %d index %d reissued %s", run, i, number)
			}
			seen[number] = true
		}
		clk.Advance(5 * time.Millisecond)
	}
	assert.Len(t, seen, 36)
}

func TestTimestampNumbererFollowsClockWhenAhead(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	n := NewTimestampNumberer(clk)

	_, err := n.Next(context.Background(), "INV", 2025, 0)
	require.NoError(t, err)
	clk.Advance(time.Second)

	number, err := n.Next(context.Background(), "INV", 2025, 0)
	require.NoError(t, err)
	assert.Equal(t, Format("INV", 2025, now.Add(time.Second).UnixMilli()), number)
}

type stubCounter struct {
	keys []string
	next int64
	err  error
}

func (s *stubCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return redis.NewIntResult(0, s.err)
	}
	s.next++
	return redis.NewIntResult(s.next, nil)
}

func TestRedisNumbererUsesSequence(t *testing.T) {
	counter := &stubCounter{}
	n := NewRedisNumberer(counter)

	first, err := n.Next(context.Background(), "INV", 2025, 0)
	require.NoError(t, err)
	second, err := n.Next(context.Background(), "INV", 2025, 1)
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-000001", first)
	assert.Equal(t, "INV-2025-000002", second)
	assert.Equal(t, []string{"invoice_number:INV:2025", "invoice_number:INV:2025"}, counter.keys)
}

func TestRedisNumbererPropagatesErrors(t *testing.T) {
	n := NewRedisNumberer(&stubCounter{err: errors.New("connection refused")})

	_, err := n.Next(context.Background(), "INV", 2025, 0)
	assert.ErrorContains(t, err, "connection refused")
}
