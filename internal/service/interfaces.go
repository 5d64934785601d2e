// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/watthour/amber-tools/internal/model"
)

// SiteSource lists the metered sites available to the account.
type SiteSource interface {
	FetchSites(ctx context.Context) ([]model.Site, error)
}

// UsageSource yields metered usage records for a site and date range.
// Both bounds are inclusive; records are returned in interval order.
type UsageSource interface {
	FetchUsage(ctx context.Context, siteID string, start, end time.Time) ([]model.UsageRecord, error)
}

// PriceSource yields actual (settled) price intervals for a site and date
// range. Both bounds are inclusive.
type PriceSource interface {
	FetchPrices(ctx context.Context, siteID string, start, end time.Time) ([]model.PriceInterval, error)
}

// UsageStore defines the contract for the local usage cache.
type UsageStore interface {
	// SaveUsage stores the records and marks the given dates as fully
	// fetched for the site.
	SaveUsage(ctx context.Context, siteID string, days []time.Time, records []model.UsageRecord) error

	// GetUsage returns the cached records for the site between the given
	// dates (inclusive), ordered by start time then channel.
	GetUsage(ctx context.Context, siteID string, start, end time.Time) ([]model.UsageRecord, error)

	// MissingDays returns the dates in the range that have not been fetched
	// for the site, in ascending order.
	MissingDays(ctx context.Context, siteID string, start, end time.Time) ([]time.Time, error)

	Close() error
}

// RetryOptions configures retry behavior for operations against external
// services.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
