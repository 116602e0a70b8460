package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alicedata/pkg/contracts/domain"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func TestPadCountyGeoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1001", "01001"},
		{"6037", "06037"},
		{"48201", "48201"},
		{"1", "00001"},
		{"123456", "123456"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PadCountyGeoID(tt.in))
		})
	}
}

func TestClassifyType(t *testing.T) {
	tests := []struct {
		label string
		want  domain.GeoLevel
	}{
		{"City", domain.GeoLevelCity},
		{"city", domain.GeoLevelCity},
		{"Town", domain.GeoLevelTown},
		{"CDP", domain.GeoLevelCDP},
		{"Census Designated Place", domain.GeoLevelCDP},
		{"Census Tract", domain.GeoLevelTract},
		{"Borough", domain.GeoLevelSubcounty},
		{"", domain.GeoLevelSubcounty},
		// rules are ordered; city is checked before town
		{"Township City", domain.GeoLevelCity},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyType(tt.label))
		})
	}
}

func TestInferSubcountyLevel(t *testing.T) {
	tests := []struct {
		name      string
		typeLabel *string
		geoID     string
		want      domain.GeoLevel
	}{
		{"type wins over id length", strPtr("City"), "01001020100", domain.GeoLevelCity},
		{"no type and 11 chars is tract", nil, "01001020100", domain.GeoLevelTract},
		{"no type and short id is subcounty", nil, "0100124", domain.GeoLevelSubcounty},
		{"unknown type is subcounty", strPtr("Village"), "01001020100", domain.GeoLevelSubcounty},
		{"blank type is subcounty not tract", strPtr(""), "01001020100", domain.GeoLevelSubcounty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSubcountyLevel(tt.typeLabel, tt.geoID))
		})
	}
}

func TestNormalizeCounty(t *testing.T) {
	row := domain.CountyRow{
		HouseholdColumns: domain.HouseholdColumns{
			GeoID:                "1001",
			GeoDisplayLabel:      "Autauga County, Alabama",
			State:                "Alabama",
			StateAbbr:            "AL",
			Year:                 2022,
			Households:           1000,
			PovertyHouseholds:    150,
			AliceHouseholds:      300,
			AboveAliceHouseholds: 550,
			PovertyHHBlack:       int64Ptr(40),
		},
		County: strPtr("Autauga"),
	}

	record, ok := NormalizeCounty(row)
	require.True(t, ok)

	assert.Equal(t, "01001", record.GeoID)
	assert.Equal(t, domain.GeoLevelCounty, record.GeoLevel)
	assert.Equal(t, "Autauga", record.CountyName())
	assert.Equal(t, 15.0, record.PovertyRate)
	assert.Equal(t, 30.0, record.AliceRate)
	assert.Equal(t, 45.0, record.CombinedRate)
	assert.Equal(t, domain.SheetCounty, record.DataSource)
	require.NotNil(t, record.PovertyHHBlack)
	assert.Equal(t, int64(40), *record.PovertyHHBlack)
	assert.Nil(t, record.AliceHHWhite)
	assert.Equal(t, int64(450), record.StrugglingHouseholds())
}

func TestNormalizeCounty_FloatFormattedID(t *testing.T) {
	record, ok := NormalizeCounty(domain.CountyRow{
		HouseholdColumns: domain.HouseholdColumns{GeoID: " 1001.0 "},
	})
	require.True(t, ok)
	assert.Equal(t, "01001", record.GeoID)
}

func TestNormalizeCounty_ZeroHouseholds(t *testing.T) {
	record, ok := NormalizeCounty(domain.CountyRow{
		HouseholdColumns: domain.HouseholdColumns{
			GeoID:             "1001",
			PovertyHouseholds: 5,
		},
	})
	require.True(t, ok)
	assert.Zero(t, record.PovertyRate)
	assert.Zero(t, record.AliceRate)
	assert.Zero(t, record.CombinedRate)
}

func TestNormalize_DropsMissingID(t *testing.T) {
	_, ok := Normalize(domain.CountyRow{HouseholdColumns: domain.HouseholdColumns{GeoID: "  "}})
	assert.False(t, ok)

	_, ok = Normalize(domain.SubcountyRow{HouseholdColumns: domain.HouseholdColumns{GeoID: ""}})
	assert.False(t, ok)
}

func TestNormalizeSubcounty(t *testing.T) {
	tests := []struct {
		name      string
		row       domain.SubcountyRow
		wantID    string
		wantLevel domain.GeoLevel
		wantType  string
	}{
		{
			name: "census designated place",
			row: domain.SubcountyRow{
				HouseholdColumns: domain.HouseholdColumns{GeoID: "0100124"},
				Type:             strPtr("Census Designated Place"),
			},
			wantID:    "0100124",
			wantLevel: domain.GeoLevelCDP,
			wantType:  "Census Designated Place",
		},
		{
			name: "tract inferred from id length",
			row: domain.SubcountyRow{
				HouseholdColumns: domain.HouseholdColumns{GeoID: "01001020100"},
			},
			wantID:    "01001020100",
			wantLevel: domain.GeoLevelTract,
		},
		{
			name: "short id is not padded",
			row: domain.SubcountyRow{
				HouseholdColumns: domain.HouseholdColumns{GeoID: "124"},
			},
			wantID:    "124",
			wantLevel: domain.GeoLevelSubcounty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := Normalize(tt.row)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, record.GeoID)
			assert.Equal(t, tt.wantLevel, record.GeoLevel)
			assert.Equal(t, tt.wantType, record.GeoType)
			assert.Equal(t, domain.SheetSubcounty, record.DataSource)
			assert.False(t, record.IsCounty())
		})
	}
}
