package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoLevel_Valid(t *testing.T) {
	for _, level := range []GeoLevel{
		GeoLevelState, GeoLevelCounty, GeoLevelSubcounty, GeoLevelCity,
		GeoLevelTown, GeoLevelCDP, GeoLevelTract,
	} {
		assert.True(t, level.Valid(), level)
	}
	assert.False(t, GeoLevel("village").Valid())
	assert.False(t, GeoLevel("").Valid())
}

func TestGeoRecord_Helpers(t *testing.T) {
	county := "Autauga"
	r := GeoRecord{GeoLevel: GeoLevelCounty, County: &county, PovertyHouseholds: 150, AliceHouseholds: 300}

	assert.True(t, r.IsCounty())
	assert.Equal(t, "Autauga", r.CountyName())
	assert.Equal(t, int64(450), r.StrugglingHouseholds())

	cdp := GeoRecord{GeoLevel: GeoLevelCDP}
	assert.False(t, cdp.IsCounty())
	assert.Equal(t, "", cdp.CountyName())
}
