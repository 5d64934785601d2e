package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthour/amber-tools/internal/common"
)

const accountYAML = `
timezone: Australia/Sydney
greenPowerActive: false
marginalLossFactor: 1.0092
amberMonthlyFeeInDollarsIncGst: 11.0
tariffsByChannelType:
  GENERAL: general.yaml
  CONTROLLED_LOAD: controlled.yaml
otherCharges: otherCharges.yaml
`

const generalYAML = `
distributionLossFactor: 1.0464
components:
  - amberLabel: Peak Usage
    centsPerKwh: 20.669
    periodFilter: [PEAK]
`

const controlledYAML = `
components:
  - amberLabel: Controlled Load Usage
    centsPerKwh: 4.0
`

const otherChargesYAML = `
publicHolidayDatePatterns:
  - '\d{4}-01-01'
  - '2025-06-09'
components:
  - amberLabel: Market Charges
    centsPerKwh: 1.1
`

func writeAccountFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return filepath.Join(dir, "account.yaml")
}

func defaultFiles() map[string]string {
	return map[string]string{
		"account.yaml":      accountYAML,
		"general.yaml":      generalYAML,
		"controlled.yaml":   controlledYAML,
		"otherCharges.yaml": otherChargesYAML,
	}
}

func TestLoadAccount(t *testing.T) {
	path := writeAccountFiles(t, defaultFiles())

	loaded, err := LoadAccount(path, true)
	require.NoError(t, err)

	account := loaded.Account
	assert.Equal(t, "Australia/Sydney", account.Timezone.String())
	assert.False(t, account.GreenPowerActive)
	assert.True(t, account.FeedInActive)
	assert.InDelta(t, 1.0092, account.MarginalLossFactor, 1e-9)
	assert.InDelta(t, 11.0, account.MonthlyFeeDollarsIncGST, 1e-9)

	// The holiday calendar comes from the other-charges file.
	assert.False(t, account.Calendar.IsWorkingWeekday(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)))
	assert.True(t, account.Calendar.IsWorkingWeekday(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))

	require.NotNil(t, loaded.Tariffs.General)
	assert.InDelta(t, 1.0464, loaded.Tariffs.General.DistributionLossFactor, 1e-9)
	require.NotNil(t, loaded.Tariffs.ControlledLoad)
	require.NotNil(t, loaded.Tariffs.OtherCharges)
	assert.Len(t, loaded.Tariffs.OtherCharges.Components, 1)
}

func TestLoadAccountFeedInFromSite(t *testing.T) {
	path := writeAccountFiles(t, defaultFiles())

	loaded, err := LoadAccount(path, false)
	require.NoError(t, err)
	assert.False(t, loaded.Account.FeedInActive)
}

func TestLoadAccountErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(files map[string]string)
	}{
		{
			name: "missing timezone",
			mutate: func(files map[string]string) {
				files["account.yaml"] = `
greenPowerActive: false
marginalLossFactor: 1.0
amberMonthlyFeeInDollarsIncGst: 11.0
tariffsByChannelType: {GENERAL: general.yaml, CONTROLLED_LOAD: controlled.yaml}
otherCharges: otherCharges.yaml
`
			},
		},
		{
			name: "bad timezone",
			mutate: func(files map[string]string) {
				files["account.yaml"] = `
timezone: Mars/Olympus_Mons
greenPowerActive: false
marginalLossFactor: 1.0
amberMonthlyFeeInDollarsIncGst: 11.0
tariffsByChannelType: {GENERAL: general.yaml, CONTROLLED_LOAD: controlled.yaml}
otherCharges: otherCharges.yaml
`
			},
		},
		{
			name: "missing general tariff",
			mutate: func(files map[string]string) {
				files["account.yaml"] = `
timezone: Australia/Sydney
greenPowerActive: false
marginalLossFactor: 1.0
amberMonthlyFeeInDollarsIncGst: 11.0
tariffsByChannelType: {CONTROLLED_LOAD: controlled.yaml}
otherCharges: otherCharges.yaml
`
			},
		},
		{
			name: "unknown channel type",
			mutate: func(files map[string]string) {
				files["account.yaml"] = `
timezone: Australia/Sydney
greenPowerActive: false
marginalLossFactor: 1.0
amberMonthlyFeeInDollarsIncGst: 11.0
tariffsByChannelType: {GENERAL: general.yaml, CONTROLLED_LOAD: controlled.yaml, SOLAR: general.yaml}
otherCharges: otherCharges.yaml
`
			},
		},
		{
			name: "missing tariff file",
			mutate: func(files map[string]string) {
				delete(files, "general.yaml")
			},
		},
		{
			name: "other charges without holiday patterns",
			mutate: func(files map[string]string) {
				files["otherCharges.yaml"] = `
components:
  - amberLabel: Market Charges
    centsPerKwh: 1.1
`
			},
		},
		{
			name: "invalid tariff component",
			mutate: func(files map[string]string) {
				files["general.yaml"] = `
components:
  - amberLabel: Broken
`
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := defaultFiles()
			tt.mutate(files)
			path := writeAccountFiles(t, files)

			_, err := LoadAccount(path, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), ExpandPath("~/x"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))

	t.Setenv("AMBER_TEST_DIR", "/tmp/amber")
	assert.Equal(t, "/tmp/amber/config", ExpandPath("$AMBER_TEST_DIR/config"))
}
