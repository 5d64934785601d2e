// Package tariff implements the tariff evaluation engine: priced components
// gated by filters over usage attributes, and the aggregation of metered
// usage into billable line items.
package tariff

import (
	"time"

	"github.com/watthour/amber-tools/internal/calendar"
)

// Account carries the account-level settings every tariff evaluation needs.
// It is built once per run and shared read-only by all tariffs and
// components.
type Account struct {
	Timezone                *time.Location
	Calendar                *calendar.Calendar
	GreenPowerActive        bool
	FeedInActive            bool
	MarginalLossFactor      float64
	MonthlyFeeDollarsIncGST float64
}
