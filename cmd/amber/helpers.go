package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/watthour/amber-tools/internal/amber"
	"github.com/watthour/amber-tools/internal/common"
	"github.com/watthour/amber-tools/internal/config"
	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/service"
	"github.com/watthour/amber-tools/internal/storage"
)

// newAmberClient builds an API client from the configured token.
func newAmberClient() (*amber.Client, error) {
	token := strings.TrimSpace(viper.GetString("api.token"))
	if token == "" {
		return nil, common.NewUserError(
			"An Amber API token is required: pass --api-token, set AMBER_API_TOKEN, or add api.token to the config file",
			common.ErrMissingConfig)
	}
	return amber.NewClient(token, amber.WithProgress())
}

// initUsageStore opens the local usage cache with proper path expansion.
func initUsageStore() (*storage.SQLiteStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/amber/usage.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage cache: %w", err)
	}
	return store, nil
}

// resolveSite fetches the account's sites and picks the one to operate on,
// honoring the --site-id flag.
func resolveSite(ctx context.Context, client *amber.Client) (model.Site, error) {
	return amber.ResolveSite(ctx, client, viper.GetString("api.site_id"))
}

// fetchUsageCached reads the site's usage for [start, end], going to the API
// only for days not already cached.
func fetchUsageCached(ctx context.Context, client *amber.Client, siteID string, start, end time.Time) ([]model.UsageRecord, error) {
	store, err := initUsageStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	var source service.UsageSource = storage.NewCachedUsageSource(client, store)
	return source.FetchUsage(ctx, siteID, start, end)
}

// parseDate parses a YYYY-MM-DD argument as a UTC date.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// yesterday returns yesterday's date at UTC midnight.
func yesterday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
