package workbook

import (
	"math"
	"strconv"
	"strings"

	"alicedata/pkg/contracts/domain"
)

// DecodeCounty reads the County sheet schema from a raw row
func DecodeCounty(raw domain.RawRow) domain.CountyRow {
	return domain.CountyRow{
		HouseholdColumns: decodeHouseholds(raw),
		County:           optionalString(raw, domain.ColCounty),
	}
}

// DecodeSubcounty reads the Subcounty sheet schema from a raw row
func DecodeSubcounty(raw domain.RawRow) domain.SubcountyRow {
	return domain.SubcountyRow{
		HouseholdColumns: decodeHouseholds(raw),
		County:           optionalString(raw, domain.ColCounty),
		Type:             columnString(raw, domain.ColType),
	}
}

// Decode dispatches on the sheet kind. It returns false for sheets the
// pipeline does not read.
func Decode(kind domain.SheetKind, raw domain.RawRow) (domain.SheetRow, bool) {
	switch kind {
	case domain.SheetCounty:
		return DecodeCounty(raw), true
	case domain.SheetSubcounty:
		return DecodeSubcounty(raw), true
	default:
		return nil, false
	}
}

func decodeHouseholds(raw domain.RawRow) domain.HouseholdColumns {
	text := func(col string) string {
		v, _ := raw.Get(col)
		return v
	}

	return domain.HouseholdColumns{
		GeoID:           text(domain.ColGeoID),
		GeoDisplayLabel: text(domain.ColGeoDisplayLabel),
		State:           text(domain.ColState),
		StateAbbr:       text(domain.ColStateAbbr),
		Year:            int(ParseCount(text(domain.ColYear))),

		Households:           ParseCount(text(domain.ColHouseholds)),
		PovertyHouseholds:    ParseCount(text(domain.ColPovertyHouseholds)),
		AliceHouseholds:      ParseCount(text(domain.ColAliceHouseholds)),
		AboveAliceHouseholds: ParseCount(text(domain.ColAboveAlice)),

		PovertyHHBlack:    optionalCount(raw, domain.ColPovertyHHBlack),
		PovertyHHHispanic: optionalCount(raw, domain.ColPovertyHHHispanic),
		PovertyHHWhite:    optionalCount(raw, domain.ColPovertyHHWhite),
		AliceHHBlack:      optionalCount(raw, domain.ColAliceHHBlack),
		AliceHHHispanic:   optionalCount(raw, domain.ColAliceHHHispanic),
		AliceHHWhite:      optionalCount(raw, domain.ColAliceHHWhite),
	}
}

// ParseCount parses a household count. Malformed or negative values yield 0.
func ParseCount(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// optionalCount returns nil when the column is missing or the cell is blank
func optionalCount(raw domain.RawRow, col string) *int64 {
	v, ok := raw.Get(col)
	if !ok || v == "" {
		return nil
	}
	n := ParseCount(v)
	return &n
}

func optionalString(raw domain.RawRow, col string) *string {
	v, ok := raw.Get(col)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// columnString returns nil only when the sheet has no such column. A blank
// cell in a present column yields an empty string.
func columnString(raw domain.RawRow, col string) *string {
	v, ok := raw.Get(col)
	if !ok {
		return nil
	}
	return &v
}
