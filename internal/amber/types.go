package amber

import (
	"fmt"
	"time"

	"github.com/watthour/amber-tools/internal/model"
)

// Wire types matching the Amber REST API's JSON shapes.

type siteResponse struct {
	ID       string            `json:"id"`
	NMI      string            `json:"nmi"`
	Channels []channelResponse `json:"channels"`
	Status   string            `json:"status"`
}

type channelResponse struct {
	Identifier string `json:"identifier"`
	Type       string `json:"type"`
	Tariff     string `json:"tariff"`
}

type usageResponse struct {
	Type              string             `json:"type"`
	Date              string             `json:"date"`
	StartTime         time.Time          `json:"startTime"`
	EndTime           time.Time          `json:"endTime"`
	NEMTime           time.Time          `json:"nemTime"`
	Duration          int                `json:"duration"`
	ChannelType       string             `json:"channelType"`
	ChannelIdentifier string             `json:"channelIdentifier"`
	KWH               float64            `json:"kwh"`
	Cost              float64            `json:"cost"`
	PerKWH            float64            `json:"perKwh"`
	SpotPerKWH        float64            `json:"spotPerKwh"`
	Quality           string             `json:"quality"`
	TariffInformation *tariffInformation `json:"tariffInformation"`
}

type tariffInformation struct {
	Period string `json:"period"`
}

type priceResponse struct {
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	NEMTime     time.Time `json:"nemTime"`
	ChannelType string    `json:"channelType"`
	PerKWH      float64   `json:"perKwh"`
	SpotPerKWH  float64   `json:"spotPerKwh"`
	Renewables  float64   `json:"renewables"`
}

func (s siteResponse) toModel() (model.Site, error) {
	site := model.Site{ID: s.ID, NMI: s.NMI}
	for _, ch := range s.Channels {
		ct, err := model.ParseChannelType(ch.Type)
		if err != nil {
			return model.Site{}, fmt.Errorf("site %s: %w", s.ID, err)
		}
		site.Channels = append(site.Channels, model.Channel{Identifier: ch.Identifier, Type: ct})
	}
	return site, nil
}

func (u usageResponse) toModel() (model.UsageRecord, error) {
	date, err := time.Parse("2006-01-02", u.Date)
	if err != nil {
		return model.UsageRecord{}, fmt.Errorf("usage record: bad date %q: %w", u.Date, err)
	}
	ct, err := model.ParseChannelType(u.ChannelType)
	if err != nil {
		return model.UsageRecord{}, fmt.Errorf("usage record: %w", err)
	}
	record := model.UsageRecord{
		Date:            date,
		StartTime:       u.StartTime,
		ChannelID:       u.ChannelIdentifier,
		ChannelType:     ct,
		DurationMinutes: u.Duration,
		KWH:             u.KWH,
		CostCents:       u.Cost,
		SpotPerKWH:      u.SpotPerKWH,
	}
	if u.TariffInformation != nil && u.TariffInformation.Period != "" {
		period, err := model.ParseTariffPeriod(u.TariffInformation.Period)
		if err != nil {
			return model.UsageRecord{}, fmt.Errorf("usage record: %w", err)
		}
		record.Period = period
	}
	return record, nil
}

func (p priceResponse) toModel() (model.PriceInterval, error) {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return model.PriceInterval{}, fmt.Errorf("price interval: bad date %q: %w", p.Date, err)
	}
	ct, err := model.ParseChannelType(p.ChannelType)
	if err != nil {
		return model.PriceInterval{}, fmt.Errorf("price interval: %w", err)
	}
	return model.PriceInterval{
		Date:        date,
		StartTime:   p.StartTime,
		NEMTime:     p.NEMTime,
		ChannelType: ct,
		PerKWH:      p.PerKWH,
		SpotPerKWH:  p.SpotPerKWH,
		Renewables:  p.Renewables,
	}, nil
}
