// Package calendar classifies dates as working weekdays for tariff filters.
package calendar

import (
	"fmt"
	"regexp"
	"time"
)

// Calendar knows which dates are public holidays. Holidays are configured as
// regular expressions matched against the whole ISO date string, so a single
// pattern can cover a recurring holiday ("\\d{4}-01-01") or a one-off
// ("2022-06-13").
type Calendar struct {
	holidayPatterns []*regexp.Regexp
}

// New compiles the given holiday date patterns into a Calendar.
func New(patterns []string) (*Calendar, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		// Anchor so the pattern must match the full date string.
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid public holiday pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Calendar{holidayPatterns: compiled}, nil
}

// IsWorkingWeekday reports whether the date is a Monday-Friday that is not a
// public holiday.
func (c *Calendar) IsWorkingWeekday(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	dateString := d.Format("2006-01-02")
	for _, p := range c.holidayPatterns {
		if p.MatchString(dateString) {
			return false
		}
	}
	return true
}
