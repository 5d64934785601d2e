// Package amber is a client for the Amber Electric REST API: sites, metered
// usage, and historical price intervals.
package amber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/watthour/amber-tools/internal/common"
	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/service"
)

// DefaultBaseURL is the production Amber API endpoint.
const DefaultBaseURL = "https://api.amber.com.au/v1"

// The API struggled with large responses in testing, so usage and price
// requests are split into windows of at most this many days.
const maxWindowDays = 20

// Client talks to the Amber API with bearer token auth.
type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	retry        service.RetryOptions
	showProgress bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithProgress enables a progress bar on stderr while fetching multi-window
// date ranges.
func WithProgress() Option {
	return func(c *Client) { c.showProgress = true }
}

// NewClient creates an Amber API client for the given token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: API token is required", common.ErrMissingConfig)
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: service.RetryOptions{MaxAttempts: 3},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchSites returns the sites registered to the account.
func (c *Client) FetchSites(ctx context.Context) ([]model.Site, error) {
	var raw []siteResponse
	if err := c.get(ctx, "/sites", nil, &raw); err != nil {
		return nil, err
	}
	sites := make([]model.Site, 0, len(raw))
	for _, s := range raw {
		site, err := s.toModel()
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// FetchUsage returns all usage records for the site between start and end
// (both inclusive), in interval order.
func (c *Client) FetchUsage(ctx context.Context, siteID string, start, end time.Time) ([]model.UsageRecord, error) {
	var records []model.UsageRecord
	err := c.fetchWindows(ctx, start, end, "Fetching usage", func(winStart, winEnd time.Time) error {
		slog.Info("Retrieving usage",
			"start", winStart.Format("2006-01-02"),
			"end", winEnd.Format("2006-01-02"))

		var raw []usageResponse
		query := url.Values{
			"startDate": {winStart.Format("2006-01-02")},
			"endDate":   {winEnd.Format("2006-01-02")},
		}
		if err := c.get(ctx, "/sites/"+siteID+"/usage", query, &raw); err != nil {
			return err
		}
		for _, u := range raw {
			record, err := u.toModel()
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FetchPrices returns the actual (settled) price intervals for the site
// between start and end, both inclusive. Current and forecast intervals are
// dropped.
func (c *Client) FetchPrices(ctx context.Context, siteID string, start, end time.Time) ([]model.PriceInterval, error) {
	var intervals []model.PriceInterval
	err := c.fetchWindows(ctx, start, end, "Fetching prices", func(winStart, winEnd time.Time) error {
		slog.Info("Retrieving prices",
			"start", winStart.Format("2006-01-02"),
			"end", winEnd.Format("2006-01-02"))

		var raw []priceResponse
		query := url.Values{
			"startDate": {winStart.Format("2006-01-02")},
			"endDate":   {winEnd.Format("2006-01-02")},
		}
		if err := c.get(ctx, "/sites/"+siteID+"/prices", query, &raw); err != nil {
			return err
		}
		for _, p := range raw {
			if p.Type != "ActualInterval" {
				continue
			}
			interval, err := p.toModel()
			if err != nil {
				return err
			}
			intervals = append(intervals, interval)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

// fetchWindows splits [start, end] into date windows and runs fetch for
// each, with retries and optional progress reporting.
func (c *Client) fetchWindows(ctx context.Context, start, end time.Time, description string, fetch func(winStart, winEnd time.Time) error) error {
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	windows := dateWindows(start, end, maxWindowDays)

	var bar *progressbar.ProgressBar
	if c.showProgress && len(windows) > 1 {
		bar = progressbar.NewOptions(len(windows),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(description))
	}

	for _, w := range windows {
		err := common.WithRetry(ctx, func() error {
			return fetch(w.start, w.end)
		}, c.retry)
		if err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}

type dateWindow struct {
	start, end time.Time
}

// dateWindows splits an inclusive date range into consecutive windows of at
// most maxDays days.
func dateWindows(start, end time.Time, maxDays int) []dateWindow {
	var windows []dateWindow
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, maxDays) {
		winEnd := cur.AddDate(0, 0, maxDays-1)
		if winEnd.After(end) {
			winEnd = end
		}
		windows = append(windows, dateWindow{start: cur, end: winEnd})
	}
	return windows
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %v", common.ErrDataSource, err),
			Retryable: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusForbidden:
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: the request was forbidden (status 403)", common.ErrInvalidToken),
			Retryable: false,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: status 429", common.ErrRateLimit),
			Retryable: true,
		}
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(resp.Body)
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: status %d - %s", common.ErrDataSource, resp.StatusCode, string(body)),
			Retryable: true,
		}
	default:
		body, _ := io.ReadAll(resp.Body)
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: status %d - %s", common.ErrDataSource, resp.StatusCode, string(body)),
			Retryable: false,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", common.ErrDataSource, err)
	}
	return nil
}
