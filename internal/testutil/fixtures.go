// Package testutil provides builders and fakes for tariff and usage tests.
package testutil

import (
	"context"
	"time"

	"github.com/watthour/amber-tools/internal/model"
)

// UsageBuilder builds usage records for tests with sensible defaults: a
// 30-minute general-channel interval on 2025-03-03 (a Monday).
type UsageBuilder struct {
	record model.UsageRecord
}

// NewUsage starts a builder for a record of the given consumption.
func NewUsage(kwh float64) *UsageBuilder {
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	return &UsageBuilder{record: model.UsageRecord{
		Date:            date,
		StartTime:       date.Add(10 * time.Hour),
		ChannelID:       "E1",
		ChannelType:     model.ChannelGeneral,
		Period:          model.PeriodPeak,
		DurationMinutes: 30,
		KWH:             kwh,
	}}
}

// On sets the record's date, keeping the start time's time of day.
func (b *UsageBuilder) On(date time.Time) *UsageBuilder {
	clock := b.record.StartTime.Sub(b.record.Date)
	b.record.Date = date
	b.record.StartTime = date.Add(clock)
	return b
}

// At sets the start time's hour of day.
func (b *UsageBuilder) At(hour int) *UsageBuilder {
	b.record.StartTime = b.record.Date.Add(time.Duration(hour) * time.Hour)
	return b
}

// Channel sets the channel identifier and type.
func (b *UsageBuilder) Channel(id string, channelType model.ChannelType) *UsageBuilder {
	b.record.ChannelID = id
	b.record.ChannelType = channelType
	return b
}

// Period sets the tariff period.
func (b *UsageBuilder) Period(period model.TariffPeriod) *UsageBuilder {
	b.record.Period = period
	return b
}

// Duration sets the interval length in minutes.
func (b *UsageBuilder) Duration(minutes int) *UsageBuilder {
	b.record.DurationMinutes = minutes
	return b
}

// Cost sets the record's cost in cents.
func (b *UsageBuilder) Cost(cents float64) *UsageBuilder {
	b.record.CostCents = cents
	return b
}

// Spot sets the record's spot price in cents per kWh.
func (b *UsageBuilder) Spot(centsPerKWH float64) *UsageBuilder {
	b.record.SpotPerKWH = centsPerKWH
	return b
}

// Build returns the record.
func (b *UsageBuilder) Build() model.UsageRecord {
	return b.record
}

// FakeUsageSource returns canned usage records and counts fetches.
type FakeUsageSource struct {
	Records []model.UsageRecord
	Err     error
	Calls   int
}

// FetchUsage implements service.UsageSource.
func (f *FakeUsageSource) FetchUsage(_ context.Context, _ string, start, end time.Time) ([]model.UsageRecord, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	var records []model.UsageRecord
	for _, r := range f.Records {
		if !r.Date.Before(start) && !r.Date.After(end) {
			records = append(records, r)
		}
	}
	return records, nil
}
