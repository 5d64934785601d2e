package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/service"
)

// CachedUsageSource composes an upstream usage source with the local cache:
// only dates never fetched before are requested from the API, then the whole
// range is served from the cache.
type CachedUsageSource struct {
	upstream service.UsageSource
	store    service.UsageStore
}

// NewCachedUsageSource wraps upstream with the given store.
func NewCachedUsageSource(upstream service.UsageSource, store service.UsageStore) *CachedUsageSource {
	return &CachedUsageSource{upstream: upstream, store: store}
}

// FetchUsage implements service.UsageSource.
func (c *CachedUsageSource) FetchUsage(ctx context.Context, siteID string, start, end time.Time) ([]model.UsageRecord, error) {
	missing, err := c.store.MissingDays(ctx, siteID, start, end)
	if err != nil {
		return nil, err
	}

	for _, r := range contiguousRanges(missing) {
		records, err := c.upstream.FetchUsage(ctx, siteID, r.start, r.end)
		if err != nil {
			return nil, err
		}
		if err := c.store.SaveUsage(ctx, siteID, daysIn(r.start, r.end), records); err != nil {
			return nil, err
		}
	}
	if len(missing) > 0 {
		slog.Debug("Usage cache updated",
			"site", siteID, "fetched_days", len(missing))
	}

	return c.store.GetUsage(ctx, siteID, start, end)
}

type dateRange struct {
	start, end time.Time
}

// contiguousRanges groups sorted dates into runs of consecutive days.
func contiguousRanges(days []time.Time) []dateRange {
	var ranges []dateRange
	for i := 0; i < len(days); {
		j := i
		for j+1 < len(days) && days[j+1].Sub(days[j]) == 24*time.Hour {
			j++
		}
		ranges = append(ranges, dateRange{start: days[i], end: days[j]})
		i = j + 1
	}
	return ranges
}

func daysIn(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
