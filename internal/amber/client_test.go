package amber

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthour/amber-tools/internal/common"
	"github.com/watthour/amber-tools/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-token", WithBaseURL(server.URL))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestFetchSites(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/sites", r.URL.Path)
		fmt.Fprint(w, `[
			{"id": "site-1", "nmi": "41020000000", "channels": [
				{"identifier": "E1", "type": "general", "tariff": "A100"},
				{"identifier": "B1", "type": "feedIn", "tariff": "A100"}
			], "status": "active"}
		]`)
	})

	sites, err := client.FetchSites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)

	require.Len(t, sites, 1)
	assert.Equal(t, "site-1", sites[0].ID)
	assert.Equal(t, "41020000000", sites[0].NMI)
	require.Len(t, sites[0].Channels, 2)
	assert.Equal(t, model.ChannelFeedIn, sites[0].Channels[1].Type)
	assert.True(t, sites[0].HasFeedIn())
}

func TestFetchUsage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-1/usage", r.URL.Path)
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("endDate"))
		fmt.Fprint(w, `[
			{"type": "Usage", "date": "2025-03-01",
			 "startTime": "2025-03-01T10:00:00Z", "endTime": "2025-03-01T10:30:00Z",
			 "nemTime": "2025-03-01T20:30:00+10:00", "duration": 30,
			 "channelType": "general", "channelIdentifier": "E1",
			 "kwh": 1.5, "cost": 45.2, "perKwh": 30.1, "spotPerKwh": 12.3,
			 "quality": "billable", "tariffInformation": {"period": "peak"}}
		]`)
	})

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	records, err := client.FetchUsage(context.Background(), "site-1", start, end)
	require.NoError(t, err)

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "E1", r.ChannelID)
	assert.Equal(t, model.ChannelGeneral, r.ChannelType)
	assert.Equal(t, model.PeriodPeak, r.Period)
	assert.Equal(t, 30, r.DurationMinutes)
	assert.InDelta(t, 1.5, r.KWH, 1e-9)
	assert.InDelta(t, 45.2, r.CostCents, 1e-9)
	assert.InDelta(t, 12.3, r.SpotPerKWH, 1e-9)
}

func TestFetchUsageSplitsLongRanges(t *testing.T) {
	var requests []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests,
			r.URL.Query().Get("startDate")+".."+r.URL.Query().Get("endDate"))
		fmt.Fprint(w, `[]`)
	})

	// 31 days splits into a 20-day window and an 11-day one.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchUsage(context.Background(), "site-1", start, end)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2025-03-01..2025-03-20",
		"2025-03-21..2025-03-31",
	}, requests)
}

func TestFetchUsageEndBeforeStart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchUsage(context.Background(), "site-1", start, end)
	assert.Error(t, err)
}

func TestFetchPricesKeepsOnlyActualIntervals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-1/prices", r.URL.Path)
		fmt.Fprint(w, `[
			{"type": "ActualInterval", "date": "2025-03-01",
			 "startTime": "2025-03-01T10:00:00Z", "endTime": "2025-03-01T10:30:00Z",
			 "nemTime": "2025-03-01T20:30:00+10:00",
			 "channelType": "general", "perKwh": 25.0, "spotPerKwh": 10.0, "renewables": 40.5},
			{"type": "CurrentInterval", "date": "2025-03-01",
			 "startTime": "2025-03-01T10:30:00Z", "endTime": "2025-03-01T11:00:00Z",
			 "nemTime": "2025-03-01T21:00:00+10:00",
			 "channelType": "general", "perKwh": 26.0, "spotPerKwh": 11.0, "renewables": 40.5},
			{"type": "ForecastInterval", "date": "2025-03-01",
			 "startTime": "2025-03-01T11:00:00Z", "endTime": "2025-03-01T11:30:00Z",
			 "nemTime": "2025-03-01T21:30:00+10:00",
			 "channelType": "general", "perKwh": 27.0, "spotPerKwh": 12.0, "renewables": 40.5}
		]`)
	})

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	intervals, err := client.FetchPrices(context.Background(), "site-1", day, day)
	require.NoError(t, err)

	require.Len(t, intervals, 1)
	assert.InDelta(t, 25.0, intervals[0].PerKWH, 1e-9)
}

func TestGetStatusHandling(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		retryable bool
	}{
		{name: "forbidden", status: http.StatusForbidden, wantErr: common.ErrInvalidToken},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: common.ErrRateLimit, retryable: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: common.ErrDataSource, retryable: true},
		{name: "not found", status: http.StatusNotFound, wantErr: common.ErrDataSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			err := client.get(context.Background(), "/sites", nil, &[]siteResponse{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.retryable, common.IsRetryable(err))
		})
	}
}

func TestFetchUsageRetriesServerErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `[]`)
	})
	client.retry.InitialDelay = time.Millisecond

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchUsage(context.Background(), "site-1", day, day)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
