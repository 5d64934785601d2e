package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/testutil"
)

func newTestCache(t *testing.T, upstream *testutil.FakeUsageSource) *CachedUsageSource {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewCachedUsageSource(upstream, store)
}

func TestCachedUsageSourceFetchesOnce(t *testing.T) {
	upstream := &testutil.FakeUsageSource{Records: []model.UsageRecord{
		testutil.NewUsage(1).On(day(1)).Build(),
		testutil.NewUsage(2).On(day(2)).Build(),
	}}
	cache := newTestCache(t, upstream)
	ctx := context.Background()

	got, err := cache.FetchUsage(ctx, "site-1", day(1), day(2))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, upstream.Calls)

	// The second fetch over the same range is served from the cache.
	got, err = cache.FetchUsage(ctx, "site-1", day(1), day(2))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, upstream.Calls)
}

func TestCachedUsageSourceFetchesOnlyMissingDays(t *testing.T) {
	upstream := &testutil.FakeUsageSource{Records: []model.UsageRecord{
		testutil.NewUsage(1).On(day(1)).Build(),
		testutil.NewUsage(2).On(day(2)).Build(),
		testutil.NewUsage(3).On(day(3)).Build(),
	}}
	cache := newTestCache(t, upstream)
	ctx := context.Background()

	_, err := cache.FetchUsage(ctx, "site-1", day(2), day(2))
	require.NoError(t, err)
	require.Equal(t, 1, upstream.Calls)

	// Extending the range fetches the two gaps around the cached day.
	got, err := cache.FetchUsage(ctx, "site-1", day(1), day(3))
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 3, upstream.Calls)
}

func TestContiguousRanges(t *testing.T) {
	tests := []struct {
		name string
		days []time.Time
		want []dateRange
	}{
		{name: "empty", days: nil, want: nil},
		{name: "single day", days: []time.Time{day(1)}, want: []dateRange{{day(1), day(1)}}},
		{
			name: "one run",
			days: []time.Time{day(1), day(2), day(3)},
			want: []dateRange{{day(1), day(3)}},
		},
		{
			name: "two runs",
			days: []time.Time{day(1), day(2), day(5), day(6)},
			want: []dateRange{{day(1), day(2)}, {day(5), day(6)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contiguousRanges(tt.days))
		})
	}
}
