package services

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_GetOrCompute_ShouldComputeOncePerKeyWithinTtl(t *testing.T) {

	cache := NewRequestCache(time.Minute)
	computed := 0
	compute := func() (*HotJobsResult, error) {
		computed++
		return &HotJobsResult{Rationale: "fresh"}, nil
	}

	first, fromCache, err := cache.GetOrCompute("Software Engineer", "Sydney", compute)
	assert.NoError(t, err)
	assert.False(t, fromCache)

	second, fromCache, err := cache.GetOrCompute("Software Engineer", "Sydney", compute)
	assert.NoError(t, err)
	assert.True(t, fromCache)

	assert.Equal(t, 1, computed)
	assert.Same(t, first, second)
}

func Test_GetOrCompute_ShouldNormalizeCaseAndWhitespace(t *testing.T) {

	cache := NewRequestCache(time.Minute)
	computed := 0
	compute := func() (*HotJobsResult, error) {
		computed++
		return &HotJobsResult{}, nil
	}

	_, _, _ = cache.GetOrCompute("Software Engineer", "Sydney", compute)
	_, fromCache, _ := cache.GetOrCompute("  software   ENGINEER ", "sydney", compute)

	assert.True(t, fromCache)
	assert.Equal(t, 1, computed)
}

func Test_GetOrCompute_ShouldKeepDistinctKeysApart(t *testing.T) {

	cache := NewRequestCache(time.Minute)
	compute := func() (*HotJobsResult, error) { return &HotJobsResult{}, nil }

	_, _, _ = cache.GetOrCompute("Software Engineer", "Sydney", compute)
	_, fromCache, _ := cache.GetOrCompute("Software Engineer", "Melbourne", compute)

	assert.False(t, fromCache)
}

func Test_GetOrCompute_WhenComputeFails_ShouldNotCacheTheFailure(t *testing.T) {

	cache := NewRequestCache(time.Minute)
	calls := 0

	_, _, err := cache.GetOrCompute("Data Analyst", "Perth", func() (*HotJobsResult, error) {
		calls++
		return nil, errors.New("store unavailable")
	})
	assert.Error(t, err)

	result, fromCache, err := cache.GetOrCompute("Data Analyst", "Perth", func() (*HotJobsResult, error) {
		calls++
		return &HotJobsResult{}, nil
	})
	assert.NoError(t, err)
	assert.False(t, fromCache)
	assert.NotNil(t, result)
	assert.Equal(t, 2, calls)
}

func Test_GetOrCompute_ShouldExpireEntries(t *testing.T) {

	cache := NewRequestCache(20 * time.Millisecond)
	compute := func() (*HotJobsResult, error) { return &HotJobsResult{}, nil }

	_, _, _ = cache.GetOrCompute("Product Manager", "Brisbane", compute)
	time.Sleep(40 * time.Millisecond)
	_, fromCache, _ := cache.GetOrCompute("Product Manager", "Brisbane", compute)

	assert.False(t, fromCache)
}

func Test_CacheKey_ShouldSeparateTitleFromCity(t *testing.T) {
	assert.NotEqual(t, CacheKey("engineer sydney", ""), CacheKey("engineer", "sydney"))
	assert.Equal(t, "software engineer::sydney", CacheKey(" Software  Engineer ", "Sydney"))
}
