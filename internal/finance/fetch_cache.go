package finance

import (
	"context"
	"strings"
	"sync"
	"time"
)

// CachedProvider remembers raw rows per request for fetchCacheTTL so that repeated
// fetches of the same range do not hammer the upstream.
type CachedProvider struct {
	next Provider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]fetchCacheEntry
}

func NewCachedProvider(next Provider) *CachedProvider {
	return &CachedProvider{
		next:    next,
		ttl:     fetchCacheTTL,
		now:     time.Now,
		entries: map[string]fetchCacheEntry{},
	}
}

func (c *CachedProvider) Name() string { return c.next.Name() }

func (c *CachedProvider) FetchDaily(ctx context.Context, req FetchRequest) ([]Record, error) {
	key := strings.ToUpper(strings.TrimSpace(req.Symbol)) + "|" + req.Start.Format("2006-01-02") + "|" + req.End.Format("2006-01-02")
	if recs, ok := c.get(key); ok {
		return recs, nil
	}
	recs, err := c.next.FetchDaily(ctx, req)
	if err != nil {
		return nil, err
	}
	c.set(key, recs)
	return copyRecords(recs), nil
}

func (c *CachedProvider) get(key string) ([]Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		if c.now().Before(entry.createdAt.Add(c.ttl)) {
			return copyRecords(entry.records), true
		}
		delete(c.entries, key)
	}
	return nil, false
}

func (c *CachedProvider) set(key string, recs []Record) {
	c.mu.Lock()
	c.entries[key] = fetchCacheEntry{createdAt: c.now(), records: copyRecords(recs)}
	c.mu.Unlock()
}

// copyRecords deep-copies rows so no caller can mutate a cached cell.
func copyRecords(in []Record) []Record {
	dup := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = Record{
			Date:   r.Date,
			Open:   dup(r.Open),
			High:   dup(r.High),
			Low:    dup(r.Low),
			Close:  dup(r.Close),
			Volume: dup(r.Volume),
		}
	}
	return out
}
