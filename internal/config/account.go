package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/watthour/amber-tools/internal/billing"
	"github.com/watthour/amber-tools/internal/calendar"
	"github.com/watthour/amber-tools/internal/common"
	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/tariff"
)

// accountDoc is the on-disk shape of an account configuration file. Pointer
// fields let us report missing required keys precisely.
type accountDoc struct {
	Timezone                       *string           `yaml:"timezone"`
	GreenPowerActive               *bool             `yaml:"greenPowerActive"`
	MarginalLossFactor             *float64          `yaml:"marginalLossFactor"`
	AmberMonthlyFeeInDollarsIncGst *float64          `yaml:"amberMonthlyFeeInDollarsIncGst"`
	TariffsByChannelType           map[string]string `yaml:"tariffsByChannelType"`
	OtherCharges                   *string           `yaml:"otherCharges"`
}

// otherChargesDoc is the other-charges file: a tariff document that also
// carries the public holiday calendar.
type otherChargesDoc struct {
	PublicHolidayDatePatterns []string `yaml:"publicHolidayDatePatterns"`
}

// Loaded is everything the billing engine needs for one account:
// the account settings plus the three tariffs.
type Loaded struct {
	Account *tariff.Account
	Tariffs billing.Tariffs
}

// LoadAccount reads the account configuration file and the tariff and
// other-charges files it references. Referenced files resolve relative to
// the account file's directory. feedInActive comes from the selected site's
// channels, not from configuration.
func LoadAccount(path string, feedInActive bool) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read account config: %v", common.ErrInvalidConfig, err)
	}

	var doc accountDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: account config is not valid YAML: %v", common.ErrInvalidConfig, err)
	}

	if doc.Timezone == nil {
		return nil, missingKey("timezone", "must be a valid timezone name, e.g. Australia/Sydney")
	}
	timezone, err := time.LoadLocation(*doc.Timezone)
	if err != nil {
		return nil, missingKey("timezone", "must be a valid timezone name, e.g. Australia/Sydney")
	}
	if doc.GreenPowerActive == nil {
		return nil, missingKey("greenPowerActive", "must be true or false")
	}
	if doc.MarginalLossFactor == nil || *doc.MarginalLossFactor <= 0 {
		return nil, missingKey("marginalLossFactor", "must be a positive decimal number")
	}
	if doc.AmberMonthlyFeeInDollarsIncGst == nil || *doc.AmberMonthlyFeeInDollarsIncGst < 0 {
		return nil, missingKey("amberMonthlyFeeInDollarsIncGst", "must be a non-negative number")
	}
	if doc.TariffsByChannelType == nil {
		return nil, missingKey("tariffsByChannelType", "must map channel type names to tariff files")
	}
	if doc.OtherCharges == nil {
		return nil, missingKey("otherCharges", "must reference an other-charges file")
	}

	baseDir := filepath.Dir(path)

	otherChargesBytes, err := os.ReadFile(resolve(baseDir, *doc.OtherCharges))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read other charges file: %v", common.ErrInvalidConfig, err)
	}
	var ocDoc otherChargesDoc
	if err := yaml.Unmarshal(otherChargesBytes, &ocDoc); err != nil {
		return nil, fmt.Errorf("%w: other charges file is not valid YAML: %v", common.ErrInvalidConfig, err)
	}
	if ocDoc.PublicHolidayDatePatterns == nil {
		return nil, missingKey("publicHolidayDatePatterns", "must be a list of date-matching regular expressions")
	}
	cal, err := calendar.New(ocDoc.PublicHolidayDatePatterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	account := &tariff.Account{
		Timezone:                timezone,
		Calendar:                cal,
		GreenPowerActive:        *doc.GreenPowerActive,
		FeedInActive:            feedInActive,
		MarginalLossFactor:      *doc.MarginalLossFactor,
		MonthlyFeeDollarsIncGST: *doc.AmberMonthlyFeeInDollarsIncGst,
	}

	otherCharges, err := tariff.Parse(otherChargesBytes, account)
	if err != nil {
		return nil, fmt.Errorf("other charges: %w", err)
	}

	tariffs := billing.Tariffs{OtherCharges: otherCharges}
	for channelName, tariffFile := range doc.TariffsByChannelType {
		channelType, err := model.ParseChannelType(channelName)
		if err != nil {
			return nil, fmt.Errorf("%w: tariffsByChannelType: %v", common.ErrInvalidConfig, err)
		}
		tariffBytes, err := os.ReadFile(resolve(baseDir, tariffFile))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read tariff file for %s: %v",
				common.ErrInvalidConfig, channelType, err)
		}
		t, err := tariff.Parse(tariffBytes, account)
		if err != nil {
			return nil, fmt.Errorf("tariff for %s: %w", channelType, err)
		}
		switch channelType {
		case model.ChannelGeneral:
			tariffs.General = t
		case model.ChannelControlledLoad:
			tariffs.ControlledLoad = t
		default:
			return nil, fmt.Errorf("%w: tariffsByChannelType: no tariff applies to channel type %s",
				common.ErrInvalidConfig, channelType)
		}
	}
	if tariffs.General == nil {
		return nil, missingKey("tariffsByChannelType.GENERAL", "a general tariff is required")
	}
	if tariffs.ControlledLoad == nil {
		return nil, missingKey("tariffsByChannelType.CONTROLLED_LOAD", "a controlled load tariff is required")
	}

	return &Loaded{Account: account, Tariffs: tariffs}, nil
}

func resolve(baseDir, path string) string {
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func missingKey(key, hint string) error {
	return fmt.Errorf("%w: %q must be present and %s", common.ErrInvalidConfig, key, hint)
}
