// Package numbering allocates human-readable invoice numbers.
package numbering

import (
	"context"
	"fmt"
	"sync"

	"github.com/smallbiznis/agencydesk/internal/clock"
)

// suffixModulo keeps the numeric suffix at six digits.
const suffixModulo = 1_000_000

// Numberer yields the number for the index-th invoice of one provisioning run.
type Numberer interface {
	Next(ctx context.Context, prefix string, year int, index int) (string, error)
}

// Format renders PREFIX-YEAR-NNNNNN.
func Format(prefix string, year int, n int64) string {
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, n%suffixModulo)
}

// TimestampNumberer derives the suffix from the current millisecond offset by
// the invoice index. Issued values never repeat within one process: a value
// at or below the last one issued is bumped to last+1.
type TimestampNumberer struct {
	clock clock.Clock

	mu   sync.Mutex
	last int64
}

func NewTimestampNumberer(clk clock.Clock) *TimestampNumberer {
	return &TimestampNumberer{clock: clk}
}

func (n *TimestampNumberer) Next(_ context.Context, prefix string, year int, index int) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	value := max(n.clock.Now().UnixMilli()+int64(index), n.last+1)
	n.last = value
	return Format(prefix, year, value), nil
}
