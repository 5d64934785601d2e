package amber

import (
	"context"
	"fmt"
	"strings"

	"github.com/watthour/amber-tools/internal/common"
	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/service"
)

// SelectSite picks the site to operate on: the one matching siteID when
// given, otherwise the account's single site. Anything else is an error
// listing the available IDs.
func SelectSite(sites []model.Site, siteID string) (model.Site, error) {
	if len(sites) == 0 {
		return model.Site{}, common.ErrNoSites
	}

	if siteID == "" {
		if len(sites) == 1 {
			return sites[0], nil
		}
		return model.Site{}, fmt.Errorf("%w: available site IDs are %s",
			common.ErrAmbiguousSite, joinSiteIDs(sites))
	}

	for _, s := range sites {
		if s.ID == siteID {
			return s, nil
		}
	}
	return model.Site{}, fmt.Errorf("%w: %q; available site IDs are %s",
		common.ErrSiteNotFound, siteID, joinSiteIDs(sites))
}

// ResolveSite fetches the account's sites and selects one.
func ResolveSite(ctx context.Context, source service.SiteSource, siteID string) (model.Site, error) {
	sites, err := source.FetchSites(ctx)
	if err != nil {
		return model.Site{}, err
	}
	return SelectSite(sites, siteID)
}

func joinSiteIDs(sites []model.Site) string {
	ids := make([]string, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
	}
	return strings.Join(ids, ", ")
}
