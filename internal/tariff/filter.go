package tariff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/watthour/amber-tools/internal/model"
)

// FilterKind identifies which usage attribute a Filter inspects.
type FilterKind int

// Filter kinds, one per filterable usage attribute.
const (
	FilterPeriod FilterKind = iota
	FilterChannel
	FilterHour
	FilterWorkingWeekday
)

func (k FilterKind) String() string {
	switch k {
	case FilterPeriod:
		return "periodFilter"
	case FilterChannel:
		return "channelTypeFilter"
	case FilterHour:
		return "hourFilter"
	case FilterWorkingWeekday:
		return "workingWeekdayFilter"
	}
	return fmt.Sprintf("FilterKind(%d)", int(k))
}

// Filter is one declared constraint on a usage record: membership of a
// single attribute in a configured set. A component only carries a Filter
// for a dimension when the configuration declared one; an absent dimension
// is unconstrained. Filters are plain data so they stay inspectable in
// tests and trace output.
type Filter struct {
	Kind     FilterKind
	Periods  map[model.TariffPeriod]bool
	Channels map[model.ChannelType]bool
	Hours    map[int]bool
	Working  map[bool]bool
}

// Matches reports whether the usage record passes this filter. The hour
// dimension is evaluated in the account's local timezone; the
// working-weekday dimension consults the account calendar.
func (f Filter) Matches(account *Account, u model.UsageRecord) bool {
	switch f.Kind {
	case FilterPeriod:
		return f.Periods[u.Period]
	case FilterChannel:
		return f.Channels[u.ChannelType]
	case FilterHour:
		return f.Hours[u.StartTime.In(account.Timezone).Hour()]
	case FilterWorkingWeekday:
		return f.Working[account.Calendar.IsWorkingWeekday(u.Date)]
	}
	return false
}

// Name describes the filter for trace output, e.g. "periodFilter[PEAK]".
func (f Filter) Name() string {
	var values []string
	switch f.Kind {
	case FilterPeriod:
		for p := range f.Periods {
			values = append(values, string(p))
		}
	case FilterChannel:
		for c := range f.Channels {
			values = append(values, string(c))
		}
	case FilterHour:
		for h := range f.Hours {
			values = append(values, fmt.Sprintf("%d", h))
		}
	case FilterWorkingWeekday:
		for b := range f.Working {
			values = append(values, fmt.Sprintf("%t", b))
		}
	}
	sort.Strings(values)
	return fmt.Sprintf("%s[%s]", f.Kind, strings.Join(values, ","))
}

// Trace observes the effect of filters and component gates during tariff
// evaluation. Implementations receive explicit callbacks instead of the
// engine writing to ambient logging state; a nil Trace disables tracing.
type Trace interface {
	// FilterApplied reports how one filter narrowed a component's usage set.
	FilterApplied(component, filter string, before, after int)

	// ComponentSkipped reports that a component produced no line item and why.
	ComponentSkipped(component, reason string)
}
