package summary

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/watthour/amber-tools/internal/model"
)

// DailySolar summarises one day's solar export.
type DailySolar struct {
	Date             time.Time
	PeakPeriodKW     float64
	TotalKWH         float64
	TotalIncomeCents float64
}

// MonthlySolar rolls the daily solar summaries of a month together.
type MonthlySolar struct {
	Month            model.YearMonth
	TotalKWH         float64
	TotalIncomeCents float64
	AverageDailyKWH  float64
	PeakDailyKWH     float64
	PeakPeriodKW     float64
	DaysCovered      int
}

// SummarizeSolarDaily aggregates feed-in records into one summary per date.
// Non-feed-in records are ignored. Export income is the negation of the
// record's cost.
func SummarizeSolarDaily(records []model.UsageRecord) []DailySolar {
	byDate := make(map[string]*DailySolar)
	for _, r := range records {
		if r.ChannelType != model.ChannelFeedIn {
			continue
		}
		key := r.Date.Format("2006-01-02")
		s, ok := byDate[key]
		if !ok {
			s = &DailySolar{Date: r.Date}
			byDate[key] = s
		}
		if kw := r.PeakKW(); kw > s.PeakPeriodKW {
			s.PeakPeriodKW = kw
		}
		s.TotalKWH += r.KWH
		s.TotalIncomeCents += -r.CostCents
	}

	summaries := make([]DailySolar, 0, len(byDate))
	for _, s := range byDate {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Date.Before(summaries[j].Date) })
	return summaries
}

// SummarizeSolarMonthly rolls daily summaries up by calendar month.
func SummarizeSolarMonthly(daily []DailySolar) []MonthlySolar {
	byMonth := make(map[model.YearMonth]*MonthlySolar)
	for _, d := range daily {
		month := model.MonthOf(d.Date)
		m, ok := byMonth[month]
		if !ok {
			m = &MonthlySolar{Month: month}
			byMonth[month] = m
		}
		m.TotalKWH += d.TotalKWH
		m.TotalIncomeCents += d.TotalIncomeCents
		if d.TotalKWH > m.PeakDailyKWH {
			m.PeakDailyKWH = d.TotalKWH
		}
		if d.PeakPeriodKW > m.PeakPeriodKW {
			m.PeakPeriodKW = d.PeakPeriodKW
		}
		m.AverageDailyKWH = (m.AverageDailyKWH*float64(m.DaysCovered) + d.TotalKWH) / float64(m.DaysCovered+1)
		m.DaysCovered++
	}

	summaries := make([]MonthlySolar, 0, len(byMonth))
	for _, m := range byMonth {
		summaries = append(summaries, *m)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Month.Before(summaries[j].Month) })
	return summaries
}

// WriteSolarCSV writes the monthly solar summaries as a CSV matrix with one
// column per month and one row per metric.
func WriteSolarCSV(w io.Writer, summaries []MonthlySolar) error {
	byMonth := make(map[model.YearMonth]MonthlySolar, len(summaries))
	months := make([]model.YearMonth, 0, len(summaries))
	for _, s := range summaries {
		byMonth[s.Month] = s
		months = append(months, s.Month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	metrics := []struct {
		label string
		value func(MonthlySolar) float64
	}{
		{"Total kWh", func(s MonthlySolar) float64 { return s.TotalKWH }},
		{"Total Income $", func(s MonthlySolar) float64 { return roundTo2(s.TotalIncomeCents / 100) }},
		{"Average Daily kWh", func(s MonthlySolar) float64 { return s.AverageDailyKWH }},
		{"Peak Daily kWh", func(s MonthlySolar) float64 { return s.PeakDailyKWH }},
		{"Peak Period kW", func(s MonthlySolar) float64 { return s.PeakPeriodKW }},
	}

	labelWidth := 0
	for _, m := range metrics {
		if len(m.label) > labelWidth {
			labelWidth = len(m.label)
		}
	}

	if _, err := fmt.Fprintf(w, "%-*s", labelWidth, ""); err != nil {
		return err
	}
	for _, month := range months {
		if _, err := fmt.Fprintf(w, ", %s", month); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for _, metric := range metrics {
		if _, err := fmt.Fprintf(w, "%-*s", labelWidth, metric.label); err != nil {
			return err
		}
		for _, month := range months {
			// Width 8 lines the value up under the " YYYY-MM" column.
			if _, err := fmt.Fprintf(w, ",%8.3f", metric.value(byMonth[month])); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
