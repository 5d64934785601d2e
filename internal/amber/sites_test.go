package amber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watthour/amber-tools/internal/common"
	"github.com/watthour/amber-tools/internal/model"
)

func TestSelectSite(t *testing.T) {
	siteA := model.Site{ID: "site-a"}
	siteB := model.Site{ID: "site-b"}

	tests := []struct {
		name    string
		sites   []model.Site
		siteID  string
		want    string
		wantErr error
	}{
		{name: "no sites", sites: nil, wantErr: common.ErrNoSites},
		{name: "single site no id", sites: []model.Site{siteA}, want: "site-a"},
		{name: "single site matching id", sites: []model.Site{siteA}, siteID: "site-a", want: "site-a"},
		{name: "multiple sites no id", sites: []model.Site{siteA, siteB}, wantErr: common.ErrAmbiguousSite},
		{name: "multiple sites with id", sites: []model.Site{siteA, siteB}, siteID: "site-b", want: "site-b"},
		{name: "unknown id", sites: []model.Site{siteA, siteB}, siteID: "site-c", wantErr: common.ErrSiteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectSite(tt.sites, tt.siteID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestSelectSiteErrorListsAvailableIDs(t *testing.T) {
	sites := []model.Site{{ID: "site-a"}, {ID: "site-b"}}

	_, err := SelectSite(sites, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site-a, site-b")
}
