package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    YearMonth
		wantErr bool
	}{
		{name: "valid month", input: "2025-03", want: YearMonth{Year: 2025, Month: 3}},
		{name: "december", input: "2024-12", want: YearMonth{Year: 2024, Month: 12}},
		{name: "missing month", input: "2025", wantErr: true},
		{name: "month out of range", input: "2025-13", wantErr: true},
		{name: "zero month", input: "2025-00", wantErr: true},
		{name: "not a date", input: "hello", wantErr: true},
		{name: "full date rejected", input: "2025-03-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYearMonth(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearMonthDates(t *testing.T) {
	ym := YearMonth{Year: 2025, Month: 2}

	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), ym.FirstDate())
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), ym.LastDate())
	assert.Equal(t, 28, ym.Days())

	leap := YearMonth{Year: 2024, Month: 2}
	assert.Equal(t, 29, leap.Days())
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), leap.LastDate())
}

func TestLastYearMonth(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, YearMonth{Year: 2025, Month: 2}, LastYearMonth(now))

	// Year boundary
	january := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, YearMonth{Year: 2024, Month: 12}, LastYearMonth(january))
}

func TestYearMonthMinusYears(t *testing.T) {
	ym := YearMonth{Year: 2025, Month: 7}
	assert.Equal(t, YearMonth{Year: 2024, Month: 7}, ym.MinusYears(1))
}

func TestYearMonthBefore(t *testing.T) {
	assert.True(t, YearMonth{Year: 2024, Month: 12}.Before(YearMonth{Year: 2025, Month: 1}))
	assert.True(t, YearMonth{Year: 2025, Month: 1}.Before(YearMonth{Year: 2025, Month: 2}))
	assert.False(t, YearMonth{Year: 2025, Month: 2}.Before(YearMonth{Year: 2025, Month: 2}))
	assert.False(t, YearMonth{Year: 2025, Month: 3}.Before(YearMonth{Year: 2025, Month: 2}))
}

func TestYearMonthString(t *testing.T) {
	assert.Equal(t, "2025-03", YearMonth{Year: 2025, Month: 3}.String())
}
