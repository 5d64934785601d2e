package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthour/amber-tools/internal/model"
)

func TestParseMonths(t *testing.T) {
	months, err := parseMonths([]string{"2025-03", "2024-12", "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, []model.YearMonth{
		{Year: 2024, Month: 12},
		{Year: 2025, Month: 1},
		{Year: 2025, Month: 3},
	}, months)

	_, err = parseMonths([]string{"March"})
	assert.Error(t, err)
}

func TestParseMonthsDefaultsToLastMonth(t *testing.T) {
	months, err := parseMonths(nil)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, model.LastYearMonth(time.Now()), months[0])
}

func TestParseDateRange(t *testing.T) {
	defaultStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	start, end, err := parseDateRange(nil, defaultStart)
	require.NoError(t, err)
	assert.Equal(t, defaultStart, start)
	assert.Equal(t, yesterday(), end)

	start, end, err = parseDateRange([]string{"2025-03-01", "2025-03-10"}, defaultStart)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), end)

	_, _, err = parseDateRange([]string{"2025-03-10", "2025-03-01"}, defaultStart)
	assert.Error(t, err)

	_, _, err = parseDateRange([]string{"10/03/2025"}, defaultStart)
	assert.Error(t, err)
}
