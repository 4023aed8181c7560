package upstream

import (
	"sync"
	"time"

	"github.com/i474232898/city-recipes/internal/city"
)

type cachedInsights struct {
	insights  city.Insights
	expiresAt time.Time
}

// insightsCache keeps successful insights lookups for a fixed TTL.
type insightsCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]cachedInsights
}

func newInsightsCache(ttl time.Duration, now func() time.Time) *insightsCache {
	return &insightsCache{
		ttl:  ttl,
		now:  now,
		data: make(map[string]cachedInsights),
	}
}

func (c *insightsCache) get(cityID string) (city.Insights, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[cityID]
	if !ok || !c.now().Before(e.expiresAt) {
		return city.Insights{}, false
	}
	return e.insights, true
}

func (c *insightsCache) put(cityID string, ins city.Insights) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[cityID] = cachedInsights{insights: ins, expiresAt: c.now().Add(c.ttl)}
}

// sweep drops expired entries and returns how many were removed.
func (c *insightsCache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.data {
		if !now.Before(e.expiresAt) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

func (c *insightsCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
