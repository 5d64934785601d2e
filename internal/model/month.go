package model

import (
	"fmt"
	"time"
)

// YearMonth identifies one billing month.
type YearMonth struct {
	Year  int
	Month int
}

// ParseYearMonth parses a "YYYY-MM" string.
func ParseYearMonth(s string) (YearMonth, error) {
	var ym YearMonth
	if len(s) != 7 || s[4] != '-' {
		return ym, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	if _, err := fmt.Sscanf(s, "%4d-%2d", &ym.Year, &ym.Month); err != nil {
		return ym, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	if ym.Year < 2000 || ym.Year > 3000 || ym.Month < 1 || ym.Month > 12 {
		return ym, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return ym, nil
}

// MonthOf returns the YearMonth containing the given date.
func MonthOf(d time.Time) YearMonth {
	return YearMonth{Year: d.Year(), Month: int(d.Month())}
}

// LastYearMonth returns the calendar month before the given time.
func LastYearMonth(now time.Time) YearMonth {
	return MonthOf(now.AddDate(0, -1, -now.Day()+1))
}

// FirstDate returns midnight UTC on the first day of the month.
func (ym YearMonth) FirstDate() time.Time {
	return time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC)
}

// LastDate returns midnight UTC on the last day of the month.
func (ym YearMonth) LastDate() time.Time {
	return ym.FirstDate().AddDate(0, 1, -1)
}

// Days returns the number of calendar days in the month.
func (ym YearMonth) Days() int {
	return ym.LastDate().Day()
}

// MinusYears returns the same month of an earlier year.
func (ym YearMonth) MinusYears(years int) YearMonth {
	return YearMonth{Year: ym.Year - years, Month: ym.Month}
}

// Before reports whether ym precedes other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}
