package domain

// GeoLevel classifies the geographic granularity of a record
type GeoLevel string

const (
	GeoLevelState     GeoLevel = "state"
	GeoLevelCounty    GeoLevel = "county"
	GeoLevelSubcounty GeoLevel = "subcounty"
	GeoLevelCity      GeoLevel = "city"
	GeoLevelTown      GeoLevel = "town"
	GeoLevelCDP       GeoLevel = "cdp"
	GeoLevelTract     GeoLevel = "tract"
)

// Valid reports whether the level is one of the known classifications
func (l GeoLevel) Valid() bool {
	switch l {
	case GeoLevelState, GeoLevelCounty, GeoLevelSubcounty, GeoLevelCity,
		GeoLevelTown, GeoLevelCDP, GeoLevelTract:
		return true
	default:
		return false
	}
}

// GeoRecord is the canonical unit of the dataset. One record is produced per
// qualifying spreadsheet row and is never mutated after normalization.
type GeoRecord struct {
	GeoID           string   `json:"geoID" validate:"required,numeric"`
	GeoLevel        GeoLevel `json:"geoLevel" validate:"required,geolevel"`
	GeoType         string   `json:"geoType"`
	GeoDisplayLabel string   `json:"geoDisplayLabel"`
	State           string   `json:"state"`
	StateAbbr       string   `json:"stateAbbr"`
	County          *string  `json:"county"`
	Year            int      `json:"year" validate:"min=0"`

	TotalHouseholds      int64 `json:"totalHouseholds" validate:"min=0"`
	PovertyHouseholds    int64 `json:"povertyHouseholds" validate:"min=0"`
	AliceHouseholds      int64 `json:"aliceHouseholds" validate:"min=0"`
	AboveAliceHouseholds int64 `json:"aboveAliceHouseholds" validate:"min=0"`

	PovertyRate  float64 `json:"povertyRate" validate:"min=0"`
	AliceRate    float64 `json:"aliceRate" validate:"min=0"`
	CombinedRate float64 `json:"combinedRate" validate:"min=0"`

	// Demographic breakdowns are nil when the source sheet has no such column
	PovertyHHBlack    *int64 `json:"povertyHH_Black,omitempty"`
	PovertyHHHispanic *int64 `json:"povertyHH_Hispanic,omitempty"`
	PovertyHHWhite    *int64 `json:"povertyHH_White,omitempty"`
	AliceHHBlack      *int64 `json:"aliceHH_Black,omitempty"`
	AliceHHHispanic   *int64 `json:"aliceHH_Hispanic,omitempty"`
	AliceHHWhite      *int64 `json:"aliceHH_White,omitempty"`

	DataSource SheetKind `json:"dataSource" validate:"required"`
	SourceFile string    `json:"sourceFile,omitempty"`
}

// IsCounty reports whether the record participates in national and state rollups
func (r GeoRecord) IsCounty() bool {
	return r.GeoLevel == GeoLevelCounty
}

// CountyName returns the county name, or an empty string for non-county sheets
func (r GeoRecord) CountyName() string {
	if r.County == nil {
		return ""
	}
	return *r.County
}

// StrugglingHouseholds is the count of households below the ALICE threshold
func (r GeoRecord) StrugglingHouseholds() int64 {
	return r.PovertyHouseholds + r.AliceHouseholds
}
