// Package summary builds CSV reports from usage and price data: daily usage
// per channel, monthly solar export rollups, and spot price grids.
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/watthour/amber-tools/internal/model"
)

// DailyUsage aggregates one channel's consumption and cost for one date.
type DailyUsage struct {
	Date        time.Time
	ChannelID   string
	ChannelType model.ChannelType
	KWH         float64
	CostCents   float64
}

type dateChannelKey struct {
	date      string
	channelID string
}

// SummarizeUsage rolls usage records up into one DailyUsage per date and
// channel.
func SummarizeUsage(records []model.UsageRecord) []DailyUsage {
	byKey := make(map[dateChannelKey]*DailyUsage)
	for _, r := range records {
		key := dateChannelKey{date: r.Date.Format("2006-01-02"), channelID: r.ChannelID}
		s, ok := byKey[key]
		if !ok {
			s = &DailyUsage{Date: r.Date, ChannelID: r.ChannelID, ChannelType: r.ChannelType}
			byKey[key] = s
		}
		s.KWH += r.KWH
		s.CostCents += r.CostCents
	}

	summaries := make([]DailyUsage, 0, len(byKey))
	for _, s := range byKey {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Date.Equal(summaries[j].Date) {
			return summaries[i].Date.Before(summaries[j].Date)
		}
		return summaries[i].ChannelID < summaries[j].ChannelID
	})
	return summaries
}

// Wide enough for "E3 (CONTROLLED_LOAD) Usage (kWh)".
const channelColumnWidth = 32

// WriteUsageCSV writes the daily summaries as a CSV matrix with one column
// per date and one row per channel. With includeCost, each channel gets an
// extra row of daily cost in dollars.
func WriteUsageCSV(w io.Writer, summaries []DailyUsage, includeCost bool) error {
	byKey := make(map[dateChannelKey]DailyUsage, len(summaries))
	dateSet := make(map[string]bool)
	channelSet := make(map[string]model.ChannelType)
	for _, s := range summaries {
		byKey[dateChannelKey{date: s.Date.Format("2006-01-02"), channelID: s.ChannelID}] = s
		dateSet[s.Date.Format("2006-01-02")] = true
		channelSet[s.ChannelID] = s.ChannelType
	}

	dates := sortedKeys(dateSet)
	channelIDs := make([]string, 0, len(channelSet))
	for id := range channelSet {
		channelIDs = append(channelIDs, id)
	}
	sort.Strings(channelIDs)

	if _, err := fmt.Fprintf(w, "%-*s", channelColumnWidth, "CHANNEL"); err != nil {
		return err
	}
	for _, d := range dates {
		if _, err := fmt.Fprintf(w, ", %s", d); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for _, channelID := range channelIDs {
		channelType := channelSet[channelID]

		label := fmt.Sprintf("%s (%s) Usage (kWh)", channelID, channelType)
		if _, err := fmt.Fprintf(w, "%-*s", channelColumnWidth, label); err != nil {
			return err
		}
		for _, d := range dates {
			s := byKey[dateChannelKey{date: d, channelID: channelID}]
			// Width 11 lines the value up under the date column.
			if _, err := fmt.Fprintf(w, ",%11.3f", s.KWH); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if !includeCost {
			continue
		}
		label = fmt.Sprintf("%s (%s) Cost ($)", channelID, channelType)
		if _, err := fmt.Fprintf(w, "%-*s", channelColumnWidth, label); err != nil {
			return err
		}
		for _, d := range dates {
			s := byKey[dateChannelKey{date: d, channelID: channelID}]
			if _, err := fmt.Fprintf(w, ",%11.2f", s.CostCents/100.0); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
