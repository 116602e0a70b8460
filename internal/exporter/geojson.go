package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"alicedata/internal/files"
	"alicedata/pkg/contracts/domain"
)

// FeatureCollection is a GeoJSON collection of county features
type FeatureCollection struct {
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	CRS      CRS       `json:"crs"`
	Features []Feature `json:"features"`
}

// CRS names the coordinate reference system of a collection
type CRS struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// Feature is one county. Geometry is null when no boundary was joined.
type Feature struct {
	Type       string           `json:"type"`
	Geometry   json.RawMessage  `json:"geometry"`
	Properties CountyProperties `json:"properties"`
}

// CountyProperties uses the short upper-case field names GIS tools expect
type CountyProperties struct {
	GeoID     string `json:"GEOID"`
	StateFP   string `json:"STATE_FP"`
	CountyFP  string `json:"COUNTY_FP"`
	Name      string `json:"NAME"`
	State     string `json:"STATE"`
	StateAbbr string `json:"STATE_ABBR"`
	GeoLabel  string `json:"GEO_LABEL"`
	Year      int    `json:"YEAR"`

	TotalHH   int64   `json:"TOTAL_HH"`
	PovertyHH int64   `json:"POVERTY_HH"`
	AliceHH   int64   `json:"ALICE_HH"`
	AboveHH   int64   `json:"ABOVE_HH"`
	PovertyRT float64 `json:"POVERTY_RT"`
	AliceRT   float64 `json:"ALICE_RT"`
	CombRT    float64 `json:"COMBINED_RT"`

	StrugglingHH  int64   `json:"STRUGGLING_HH"`
	StrugglingPct float64 `json:"STRUGGLING_PCT"`

	PovBlack      *int64 `json:"POV_BLACK"`
	PovHispanic   *int64 `json:"POV_HISPANIC"`
	PovWhite      *int64 `json:"POV_WHITE"`
	AliceBlack    *int64 `json:"ALICE_BLACK"`
	AliceHispanic *int64 `json:"ALICE_HISPANIC"`
	AliceWhite    *int64 `json:"ALICE_WHITE"`

	DataSource string `json:"DATA_SOURCE"`
	Updated    string `json:"UPDATED"`
}

// Boundaries maps a five-digit county FIPS code to its GeoJSON geometry
type Boundaries map[string]json.RawMessage

// boundaryFile is the subset of a county boundary FeatureCollection we read
type boundaryFile struct {
	Features []struct {
		ID         json.RawMessage        `json:"id"`
		Properties map[string]interface{} `json:"properties"`
		Geometry   json.RawMessage        `json:"geometry"`
	} `json:"features"`
}

// LoadBoundaries reads a county boundary GeoJSON file. The FIPS code comes
// from the STATE and COUNTY properties, then GEOID, then the feature id.
func LoadBoundaries(path string) (Boundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundaries: %w", err)
	}

	var fc boundaryFile
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse boundaries: %w", err)
	}

	boundaries := make(Boundaries, len(fc.Features))
	for _, f := range fc.Features {
		fips := boundaryFIPS(f.Properties, f.ID)
		if fips == "" || len(f.Geometry) == 0 {
			continue
		}
		boundaries[fips] = f.Geometry
	}
	return boundaries, nil
}

func boundaryFIPS(props map[string]interface{}, id json.RawMessage) string {
	state, _ := props["STATE"].(string)
	county, _ := props["COUNTY"].(string)
	if state != "" && county != "" {
		return padFIPS(state + county)
	}
	if geoid, ok := props["GEOID"].(string); ok && geoid != "" {
		return padFIPS(geoid)
	}
	var s string
	if json.Unmarshal(id, &s) == nil && s != "" {
		return padFIPS(s)
	}
	var n json.Number
	if json.Unmarshal(id, &n) == nil && n != "" {
		return padFIPS(n.String())
	}
	return ""
}

func padFIPS(id string) string {
	if len(id) >= 5 {
		return id
	}
	return strings.Repeat("0", 5-len(id)) + id
}

// GeoJSONExporter writes one county FeatureCollection per year
type GeoJSONExporter struct {
	files      *files.Manager
	boundaries Boundaries
	logger     *slog.Logger
}

// NewGeoJSONExporter creates an exporter. With nil boundaries every county
// record becomes a feature with null geometry; otherwise only counties with a
// matching boundary are written, in boundary-file FIPS order.
func NewGeoJSONExporter(manager *files.Manager, boundaries Boundaries, logger *slog.Logger) *GeoJSONExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoJSONExporter{
		files:      manager,
		boundaries: boundaries,
		logger:     logger.With(slog.String("component", "geojson_exporter")),
	}
}

// CountyYears returns the distinct years of county records, ascending
func CountyYears(records []domain.GeoRecord) []int {
	var years []int
	for _, r := range records {
		if r.IsCounty() && !slices.Contains(years, r.Year) {
			years = append(years, r.Year)
		}
	}
	slices.Sort(years)
	return years
}

// BuildCollection builds the FeatureCollection for one year. A repeated
// geoID within the year keeps the last record.
func (e *GeoJSONExporter) BuildCollection(records []domain.GeoRecord, year int, updated time.Time) FeatureCollection {
	byID := make(map[string]domain.GeoRecord)
	var order []string
	for _, r := range records {
		if !r.IsCounty() || r.Year != year {
			continue
		}
		if _, seen := byID[r.GeoID]; !seen {
			order = append(order, r.GeoID)
		}
		byID[r.GeoID] = r
	}

	stamp := updated.UTC().Format(time.RFC3339)
	fc := FeatureCollection{
		Type: "FeatureCollection",
		Name: fmt.Sprintf("ALICE_Counties_%d", year),
		CRS: CRS{
			Type:       "name",
			Properties: map[string]string{"name": "EPSG:4326"},
		},
		Features: []Feature{},
	}

	if e.boundaries == nil {
		for _, id := range order {
			fc.Features = append(fc.Features, newFeature(byID[id], nil, stamp))
		}
		return fc
	}

	fipsCodes := make([]string, 0, len(e.boundaries))
	for fips := range e.boundaries {
		fipsCodes = append(fipsCodes, fips)
	}
	slices.Sort(fipsCodes)

	matched := 0
	for _, fips := range fipsCodes {
		r, ok := byID[fips]
		if !ok {
			continue
		}
		matched++
		fc.Features = append(fc.Features, newFeature(r, e.boundaries[fips], stamp))
	}

	e.logger.Info("Joined county boundaries",
		slog.Int("year", year),
		slog.Int("matched", matched),
		slog.Int("unmatched", len(order)-matched))

	return fc
}

func newFeature(r domain.GeoRecord, geometry json.RawMessage, updated string) Feature {
	var stateFP, countyFP string
	if len(r.GeoID) == 5 {
		stateFP, countyFP = r.GeoID[:2], r.GeoID[2:]
	}

	return Feature{
		Type:     "Feature",
		Geometry: geometry,
		Properties: CountyProperties{
			GeoID:     r.GeoID,
			StateFP:   stateFP,
			CountyFP:  countyFP,
			Name:      r.CountyName(),
			State:     r.State,
			StateAbbr: r.StateAbbr,
			GeoLabel:  r.GeoDisplayLabel,
			Year:      r.Year,

			TotalHH:   r.TotalHouseholds,
			PovertyHH: r.PovertyHouseholds,
			AliceHH:   r.AliceHouseholds,
			AboveHH:   r.AboveAliceHouseholds,
			PovertyRT: r.PovertyRate,
			AliceRT:   r.AliceRate,
			CombRT:    r.CombinedRate,

			StrugglingHH:  r.StrugglingHouseholds(),
			StrugglingPct: r.CombinedRate,

			PovBlack:      r.PovertyHHBlack,
			PovHispanic:   r.PovertyHHHispanic,
			PovWhite:      r.PovertyHHWhite,
			AliceBlack:    r.AliceHHBlack,
			AliceHispanic: r.AliceHHHispanic,
			AliceWhite:    r.AliceHHWhite,

			DataSource: string(r.DataSource),
			Updated:    updated,
		},
	}
}

// PathFunc names the output file for a year
type PathFunc func(year int) string

// WriteAll writes one file per county year via yearPath and a copy of the
// latest year to masterPath. It returns the years written.
func (e *GeoJSONExporter) WriteAll(records []domain.GeoRecord, updated time.Time, yearPath PathFunc, masterPath string) ([]int, error) {
	years := CountyYears(records)
	var latest FeatureCollection

	for _, year := range years {
		fc := e.BuildCollection(records, year, updated)
		if err := writeJSONCompact(e.files, yearPath(year), fc); err != nil {
			return nil, err
		}
		latest = fc
	}

	if len(years) > 0 {
		if err := writeJSONCompact(e.files, masterPath, latest); err != nil {
			return nil, err
		}
	}
	return years, nil
}
