package rustfmt

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
)

// Cached memoizes another formatter's successful results in a bounded LRU.
// Failures are not cached.
type Cached struct {
	next      Formatter
	cache     *lru.Cache[string, string]
	verbosity int
}

// NewCached wraps next with a cache holding at most size entries.
func NewCached(next Formatter, size int) (*Cached, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create format cache of size %d", size)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Format implements Formatter.
func (c *Cached) Format(ctx context.Context, src string) (string, error) {
	out, ok := c.cache.Get(src)
	if logger.ShouldOutput(c.verbosity, logger.OutputFormatter) {
		logger.ComponentLogger("rustfmt").Debugw("format cache lookup",
			"hit", ok,
			"entries", c.cache.Len())
	}
	if ok {
		return out, nil
	}
	out, err := c.next.Format(ctx, src)
	if err != nil {
		return "", err
	}
	c.cache.Add(src, out)
	return out, nil
}

// Len reports the number of cached entries.
func (c *Cached) Len() int {
	return c.cache.Len()
}
