package services

import (
	"strings"
	"time"

	"github.com/careerloop/jobfeed/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultResultTTL is how long a computed result set keeps answering
// repeated requests for the same normalized title+city.
const DefaultResultTTL = 60 * time.Second

// RequestCache de-duplicates rapid repeated searches. Expiry is checked
// lazily at lookup time; an expired entry is simply overwritten by the next
// successful compute.
type RequestCache struct {
	cache *gocache.Cache
}

func NewRequestCache(ttl time.Duration) *RequestCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &RequestCache{cache: gocache.New(ttl, 2*ttl)}
}

// CacheKey normalizes title and city so requests differing only in case or
// whitespace hit the same entry.
func CacheKey(title, city string) string {
	return normalize(title) + "::" + normalize(city)
}

func normalize(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

// GetOrCompute returns the cached result for the key when an unexpired entry
// exists, otherwise invokes compute and stores its result. The compute is
// deliberately not guarded by a lock: two concurrent misses for the same key
// may both compute, and the later write wins the slot. That costs at most one
// extra compute and matches how the rest of the system tolerates the race.
func (c *RequestCache) GetOrCompute(title, city string,
	compute func() (*HotJobsResult, error)) (*HotJobsResult, bool, error) {

	key := CacheKey(title, city)

	if cached, found := c.cache.Get(key); found {
		metrics.CacheHitsCounter.Inc()
		return cached.(*HotJobsResult), true, nil
	}
	metrics.CacheMissesCounter.Inc()

	result, err := compute()
	if err != nil {
		return nil, false, err
	}

	c.cache.Set(key, result, gocache.DefaultExpiration)
	return result, false, nil
}
