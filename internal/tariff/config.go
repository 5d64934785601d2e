package tariff

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/watthour/amber-tools/internal/common"
	"github.com/watthour/amber-tools/internal/model"
)

// boolSet accepts either a single boolean or a list of booleans in YAML and
// normalizes both to a membership set.
type boolSet map[bool]bool

func (b *boolSet) UnmarshalYAML(value *yaml.Node) error {
	var single bool
	if err := value.Decode(&single); err == nil {
		*b = boolSet{single: true}
		return nil
	}
	var many []bool
	if err := value.Decode(&many); err != nil {
		return fmt.Errorf("expected a boolean or a list of booleans")
	}
	set := make(boolSet, len(many))
	for _, v := range many {
		set[v] = true
	}
	*b = set
	return nil
}

// componentDoc is the on-disk shape of one tariff component. Pointer and
// custom-set fields distinguish "absent" from "present but empty": an absent
// filter key leaves that dimension unconstrained.
type componentDoc struct {
	AmberLabel                 *string  `yaml:"amberLabel"`
	DNSPLabel                  string   `yaml:"dnspLabel"`
	CentsPerKwh                *float64 `yaml:"centsPerKwh"`
	CentsPerDay                *float64 `yaml:"centsPerDay"`
	CentsPerPeakDemandKwPerDay *float64 `yaml:"centsPerPeakDemandKwPerDay"`
	PeriodFilter               []string `yaml:"periodFilter"`
	ChannelTypeFilter          []string `yaml:"channelTypeFilter"`
	HourFilter                 []int    `yaml:"hourFilter"`
	WorkingWeekdayFilter       *boolSet `yaml:"workingWeekdayFilter"`
	GreenPowerFilter           *boolSet `yaml:"greenPowerFilter"`
	FeedInFilter               *boolSet `yaml:"feedInFilter"`
	MonthFilter                []int    `yaml:"monthFilter"`
}

type tariffDoc struct {
	DistributionLossFactor *float64       `yaml:"distributionLossFactor"`
	Components             []componentDoc `yaml:"components"`
}

// Parse builds a Tariff from a declarative YAML document. Any malformed
// component fails the whole tariff; a partially trusted tariff is worse
// than none.
func Parse(data []byte, account *Account) (*Tariff, error) {
	var doc tariffDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: tariff is not valid YAML: %v", common.ErrInvalidConfig, err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("%w: tariff must contain a 'components' list", common.ErrInvalidConfig)
	}

	t := &Tariff{
		account:                account,
		DistributionLossFactor: 1.0,
	}
	if doc.DistributionLossFactor != nil {
		t.DistributionLossFactor = *doc.DistributionLossFactor
	}

	for i, cd := range doc.Components {
		component, err := newComponent(cd, account)
		if err != nil {
			return nil, fmt.Errorf("%w: component %d: %v", common.ErrInvalidConfig, i, err)
		}
		t.Components = append(t.Components, component)
	}
	return t, nil
}

func newComponent(doc componentDoc, account *Account) (*Component, error) {
	if doc.AmberLabel == nil || *doc.AmberLabel == "" {
		return nil, fmt.Errorf("required property 'amberLabel' not found")
	}

	c := &Component{
		account:    account,
		AmberLabel: *doc.AmberLabel,
		DNSPLabel:  doc.DNSPLabel,
	}

	pricing := 0
	if doc.CentsPerKwh != nil {
		c.Pricing = Pricing{Mode: PerKwh, Cents: *doc.CentsPerKwh}
		pricing++
	}
	if doc.CentsPerDay != nil {
		c.Pricing = Pricing{Mode: PerDay, Cents: *doc.CentsPerDay}
		pricing++
	}
	if doc.CentsPerPeakDemandKwPerDay != nil {
		c.Pricing = Pricing{Mode: PerPeakDemandKw, Cents: *doc.CentsPerPeakDemandKwPerDay}
		pricing++
	}
	if pricing != 1 {
		return nil, fmt.Errorf(
			"component %q must have exactly one of centsPerKwh, centsPerDay, or centsPerPeakDemandKwPerDay",
			c.AmberLabel)
	}

	if doc.PeriodFilter != nil {
		periods := make(map[model.TariffPeriod]bool, len(doc.PeriodFilter))
		for _, s := range doc.PeriodFilter {
			p, err := model.ParseTariffPeriod(s)
			if err != nil {
				return nil, fmt.Errorf("periodFilter: %w", err)
			}
			periods[p] = true
		}
		c.filters = append(c.filters, Filter{Kind: FilterPeriod, Periods: periods})
	}
	if doc.ChannelTypeFilter != nil {
		channels := make(map[model.ChannelType]bool, len(doc.ChannelTypeFilter))
		for _, s := range doc.ChannelTypeFilter {
			ct, err := model.ParseChannelType(s)
			if err != nil {
				return nil, fmt.Errorf("channelTypeFilter: %w", err)
			}
			channels[ct] = true
		}
		c.filters = append(c.filters, Filter{Kind: FilterChannel, Channels: channels})
	}
	if doc.HourFilter != nil {
		hours := make(map[int]bool, len(doc.HourFilter))
		for _, h := range doc.HourFilter {
			if h < 0 || h > 23 {
				return nil, fmt.Errorf("hourFilter: hour %d out of range 0-23", h)
			}
			hours[h] = true
		}
		c.filters = append(c.filters, Filter{Kind: FilterHour, Hours: hours})
	}
	if doc.WorkingWeekdayFilter != nil {
		c.filters = append(c.filters, Filter{Kind: FilterWorkingWeekday, Working: map[bool]bool(*doc.WorkingWeekdayFilter)})
	}

	if doc.GreenPowerFilter != nil {
		c.greenPower = map[bool]bool(*doc.GreenPowerFilter)
	}
	if doc.FeedInFilter != nil {
		c.feedIn = map[bool]bool(*doc.FeedInFilter)
	}
	if doc.MonthFilter != nil {
		months := make(map[int]bool, len(doc.MonthFilter))
		for _, m := range doc.MonthFilter {
			if m < 1 || m > 12 {
				return nil, fmt.Errorf("monthFilter: month %d out of range 1-12", m)
			}
			months[m] = true
		}
		c.months = months
	}

	return c, nil
}
