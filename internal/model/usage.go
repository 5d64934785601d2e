// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// ChannelType classifies a metered flow of energy.
type ChannelType string

// Channel types reported by the metering API.
const (
	ChannelGeneral        ChannelType = "GENERAL"
	ChannelControlledLoad ChannelType = "CONTROLLED_LOAD"
	ChannelFeedIn         ChannelType = "FEED_IN"
)

// ParseChannelType accepts both the API's camelCase names and the
// canonical uppercase names used in tariff configuration.
func ParseChannelType(s string) (ChannelType, error) {
	switch s {
	case "general", "GENERAL":
		return ChannelGeneral, nil
	case "controlledLoad", "CONTROLLED_LOAD":
		return ChannelControlledLoad, nil
	case "feedIn", "FEED_IN":
		return ChannelFeedIn, nil
	}
	return "", fmt.Errorf("unknown channel type: %q", s)
}

// TariffPeriod is the peak/shoulder/off-peak classification the network
// applies to an interval.
type TariffPeriod string

// Tariff periods reported by the metering API.
const (
	PeriodPeak        TariffPeriod = "PEAK"
	PeriodShoulder    TariffPeriod = "SHOULDER"
	PeriodOffPeak     TariffPeriod = "OFF_PEAK"
	PeriodSolarSponge TariffPeriod = "SOLAR_SPONGE"
)

// ParseTariffPeriod accepts both API camelCase and configuration uppercase
// spellings.
func ParseTariffPeriod(s string) (TariffPeriod, error) {
	switch s {
	case "peak", "PEAK":
		return PeriodPeak, nil
	case "shoulder", "SHOULDER":
		return PeriodShoulder, nil
	case "offPeak", "OFF_PEAK", "OFFPEAK":
		return PeriodOffPeak, nil
	case "solarSponge", "SOLAR_SPONGE":
		return PeriodSolarSponge, nil
	}
	return "", fmt.Errorf("unknown tariff period: %q", s)
}

// UsageRecord is one metered interval for one channel. Records are produced
// by the data source and never mutated by the billing core.
type UsageRecord struct {
	Date            time.Time
	StartTime       time.Time
	ChannelID       string
	ChannelType     ChannelType
	Period          TariffPeriod
	DurationMinutes int
	KWH             float64
	CostCents       float64
	SpotPerKWH      float64
}

// PeakKW converts the interval's energy reading to an equivalent continuous
// draw rate, e.g. 1.5 kWh over 30 minutes = 3 kW.
func (u UsageRecord) PeakKW() float64 {
	if u.DurationMinutes <= 0 {
		return 0
	}
	return u.KWH * (60.0 / float64(u.DurationMinutes))
}

// Site is a metered premises in the provider's account.
type Site struct {
	ID       string
	NMI      string
	Channels []Channel
}

// Channel is one registered meter channel at a site.
type Channel struct {
	Identifier string
	Type       ChannelType
}

// HasFeedIn reports whether the site has a feed-in (solar export) channel.
func (s Site) HasFeedIn() bool {
	for _, ch := range s.Channels {
		if ch.Type == ChannelFeedIn {
			return true
		}
	}
	return false
}

// PriceInterval is one actual (settled) price interval for a channel.
type PriceInterval struct {
	Date        time.Time
	StartTime   time.Time
	NEMTime     time.Time
	ChannelType ChannelType
	PerKWH      float64
	SpotPerKWH  float64
	Renewables  float64
}
