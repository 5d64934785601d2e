package summary

import (
	"fmt"
	"io"
	"time"

	"github.com/watthour/amber-tools/internal/model"
)

type dateChannelTypeKey struct {
	date        string
	channelType model.ChannelType
}

// Wide enough for "CONTROLLED_LOAD (c/kWh)".
const priceChannelColumnWidth = 23

// WritePricesCSV writes price intervals as a CSV grid: one row per date and
// channel type, one column per NEM time of day. Cells with no interval show
// an X, which happens around daylight saving transitions.
func WritePricesCSV(w io.Writer, intervals []model.PriceInterval) error {
	byKey := make(map[dateChannelTypeKey]map[string]model.PriceInterval)
	dateSet := make(map[string]bool)
	timeSet := make(map[string]bool)
	for _, p := range intervals {
		key := dateChannelTypeKey{date: p.Date.Format("2006-01-02"), channelType: p.ChannelType}
		if byKey[key] == nil {
			byKey[key] = make(map[string]model.PriceInterval)
		}
		nemTime := p.NEMTime.Format(time.TimeOnly)
		byKey[key][nemTime] = p
		dateSet[key.date] = true
		timeSet[nemTime] = true
	}

	dates := sortedKeys(dateSet)
	times := sortedKeys(timeSet)

	if _, err := fmt.Fprintf(w, "%-11s", "DATE +10:00"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, ", %-*s", priceChannelColumnWidth, "CHANNEL"); err != nil {
		return err
	}
	for _, t := range times {
		if _, err := fmt.Fprintf(w, ", %s", t); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	channelTypes := []model.ChannelType{model.ChannelGeneral, model.ChannelControlledLoad, model.ChannelFeedIn}
	for _, d := range dates {
		for _, channelType := range channelTypes {
			byTime := byKey[dateChannelTypeKey{date: d, channelType: channelType}]
			if len(byTime) == 0 {
				continue
			}
			label := string(channelType) + " (c/kWh)"
			if _, err := fmt.Fprintf(w, "%s , %-*s", d, priceChannelColumnWidth, label); err != nil {
				return err
			}
			for _, t := range times {
				if p, ok := byTime[t]; ok {
					// Width 9 lines the value up under the " 12:30:00" column.
					if _, err := fmt.Fprintf(w, ",%9.3f", p.PerKWH); err != nil {
						return err
					}
				} else if _, err := fmt.Fprintf(w, ",%-9s", "X"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}
