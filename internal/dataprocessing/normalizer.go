package dataprocessing

import (
	"fmt"
	"strings"

	"alicedata/pkg/contracts/domain"
)

// countyGeoIDWidth is the width of a county FIPS code
const countyGeoIDWidth = 5

// tractGeoIDLength is the length of a census tract FIPS code
const tractGeoIDLength = 11

// LevelRule maps a Type label to a geographic level when the lower-cased
// label contains any of Substrings
type LevelRule struct {
	Level      domain.GeoLevel
	Substrings []string
}

// TypeRules is checked in order and the first match wins
var TypeRules = []LevelRule{
	{Level: domain.GeoLevelCity, Substrings: []string{"city"}},
	{Level: domain.GeoLevelTown, Substrings: []string{"town"}},
	{Level: domain.GeoLevelCDP, Substrings: []string{"cdp", "census designated place"}},
	{Level: domain.GeoLevelTract, Substrings: []string{"tract"}},
}

// ClassifyType applies TypeRules to a Type label, falling back to subcounty
func ClassifyType(label string) domain.GeoLevel {
	lower := strings.ToLower(label)
	for _, rule := range TypeRules {
		for _, sub := range rule.Substrings {
			if strings.Contains(lower, sub) {
				return rule.Level
			}
		}
	}
	return domain.GeoLevelSubcounty
}

// InferSubcountyLevel classifies a subcounty row. A Type column wins even when
// the cell is blank; without one, an 11-character identifier is a census tract.
func InferSubcountyLevel(typeLabel *string, geoID string) domain.GeoLevel {
	switch {
	case typeLabel != nil:
		return ClassifyType(*typeLabel)
	case len(geoID) == tractGeoIDLength:
		return domain.GeoLevelTract
	default:
		return domain.GeoLevelSubcounty
	}
}

// PadCountyGeoID left-pads a county identifier with zeros to five characters
func PadCountyGeoID(id string) string {
	if len(id) >= countyGeoIDWidth {
		return id
	}
	return strings.Repeat("0", countyGeoIDWidth-len(id)) + id
}

// cleanGeoID trims the identifier and drops the ".0" suffix spreadsheets add
// to integers stored as floats
func cleanGeoID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasSuffix(id, ".0") {
		id = strings.TrimSuffix(id, ".0")
	}
	return id
}

// Normalize converts a typed sheet row into a GeoRecord. Rows without a
// geographic identifier are dropped and ok is false.
func Normalize(row domain.SheetRow) (record domain.GeoRecord, ok bool) {
	switch r := row.(type) {
	case domain.CountyRow:
		return NormalizeCounty(r)
	case domain.SubcountyRow:
		return NormalizeSubcounty(r)
	default:
		panic(fmt.Sprintf("dataprocessing: unsupported sheet row %T", row))
	}
}

// NormalizeCounty builds a county-level record with a five-digit geoID
func NormalizeCounty(row domain.CountyRow) (domain.GeoRecord, bool) {
	id := cleanGeoID(row.GeoID)
	if id == "" {
		return domain.GeoRecord{}, false
	}

	record := baseRecord(row.HouseholdColumns, domain.SheetCounty)
	record.GeoID = PadCountyGeoID(id)
	record.GeoLevel = domain.GeoLevelCounty
	record.County = row.County
	return record, true
}

// NormalizeSubcounty builds a subcounty record; the identifier is kept verbatim
func NormalizeSubcounty(row domain.SubcountyRow) (domain.GeoRecord, bool) {
	id := strings.TrimSpace(row.GeoID)
	if id == "" {
		return domain.GeoRecord{}, false
	}

	record := baseRecord(row.HouseholdColumns, domain.SheetSubcounty)
	record.GeoID = id
	record.GeoLevel = InferSubcountyLevel(row.Type, id)
	record.County = row.County
	if row.Type != nil {
		record.GeoType = *row.Type
	}
	return record, true
}

// baseRecord copies shared columns and fills the derived rates
func baseRecord(cols domain.HouseholdColumns, source domain.SheetKind) domain.GeoRecord {
	rates := CalculateRates(cols.Households, cols.PovertyHouseholds, cols.AliceHouseholds)

	return domain.GeoRecord{
		GeoDisplayLabel: cols.GeoDisplayLabel,
		State:           cols.State,
		StateAbbr:       cols.StateAbbr,
		Year:            cols.Year,

		TotalHouseholds:      cols.Households,
		PovertyHouseholds:    cols.PovertyHouseholds,
		AliceHouseholds:      cols.AliceHouseholds,
		AboveAliceHouseholds: cols.AboveAliceHouseholds,

		PovertyRate:  rates.Poverty,
		AliceRate:    rates.Alice,
		CombinedRate: rates.Combined,

		PovertyHHBlack:    cols.PovertyHHBlack,
		PovertyHHHispanic: cols.PovertyHHHispanic,
		PovertyHHWhite:    cols.PovertyHHWhite,
		AliceHHBlack:      cols.AliceHHBlack,
		AliceHHHispanic:   cols.AliceHHHispanic,
		AliceHHWhite:      cols.AliceHHWhite,

		DataSource: source,
	}
}
