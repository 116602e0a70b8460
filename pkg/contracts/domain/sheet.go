package domain

// SheetKind names a recognised worksheet shape. The value doubles as the
// provenance tag stored on each GeoRecord.
type SheetKind string

const (
	SheetCounty    SheetKind = "County"
	SheetSubcounty SheetKind = "Subcounty"
)

// SheetKinds lists the sheets the pipeline reads, in processing order
var SheetKinds = []SheetKind{SheetCounty, SheetSubcounty}

// Recognised column headers (case-sensitive)
const (
	ColGeoID             = "GEO id2"
	ColGeoDisplayLabel   = "GEO display_label"
	ColState             = "State"
	ColStateAbbr         = "State Abbr"
	ColCounty            = "County"
	ColYear              = "Year"
	ColHouseholds        = "Households"
	ColPovertyHouseholds = "Poverty Households"
	ColAliceHouseholds   = "ALICE Households"
	ColAboveAlice        = "Above ALICE Households"
	ColType              = "Type"
	ColPovertyHHBlack    = "Poverty HH Black"
	ColPovertyHHHispanic = "Poverty HH Hispanic"
	ColPovertyHHWhite    = "Poverty HH White"
	ColAliceHHBlack      = "ALICE HH Black"
	ColAliceHHHispanic   = "ALICE HH Hispanic"
	ColAliceHHWhite      = "ALICE HH White"
)

// RawRow is one spreadsheet row keyed by header. Headers keeps the sheet's
// column order.
type RawRow struct {
	File    string
	Sheet   string
	Row     int
	Headers []string
	Values  map[string]string
}

// Get returns the trimmed cell value for a header and whether the column exists
func (r RawRow) Get(header string) (string, bool) {
	v, ok := r.Values[header]
	return v, ok
}

// HouseholdColumns holds the fields shared by every sheet kind
type HouseholdColumns struct {
	GeoID           string
	GeoDisplayLabel string
	State           string
	StateAbbr       string
	Year            int

	Households           int64
	PovertyHouseholds    int64
	AliceHouseholds      int64
	AboveAliceHouseholds int64

	PovertyHHBlack    *int64
	PovertyHHHispanic *int64
	PovertyHHWhite    *int64
	AliceHHBlack      *int64
	AliceHHHispanic   *int64
	AliceHHWhite      *int64
}

// CountyRow is a decoded row of a County sheet
type CountyRow struct {
	HouseholdColumns
	County *string
}

// SubcountyRow is a decoded row of a Subcounty sheet. Type is nil only when the
// sheet has no Type column; a blank cell is an empty string.
type SubcountyRow struct {
	HouseholdColumns
	County *string
	Type   *string
}

// SheetRow is implemented by CountyRow and SubcountyRow
type SheetRow interface {
	Kind() SheetKind
	Columns() HouseholdColumns
}

func (CountyRow) Kind() SheetKind    { return SheetCounty }
func (SubcountyRow) Kind() SheetKind { return SheetSubcounty }

func (r CountyRow) Columns() HouseholdColumns    { return r.HouseholdColumns }
func (r SubcountyRow) Columns() HouseholdColumns { return r.HouseholdColumns }
