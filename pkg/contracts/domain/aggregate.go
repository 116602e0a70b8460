package domain

import "time"

// HouseholdTotals sums household counts and carries the rates derived from
// those sums
type HouseholdTotals struct {
	TotalHouseholds      int64   `json:"totalHouseholds"`
	PovertyHouseholds    int64   `json:"povertyHouseholds"`
	AliceHouseholds      int64   `json:"aliceHouseholds"`
	AboveAliceHouseholds int64   `json:"aboveAliceHouseholds"`
	PovertyRate          float64 `json:"povertyRate"`
	AliceRate            float64 `json:"aliceRate"`
	CombinedRate         float64 `json:"combinedRate"`
	CountyCount          int     `json:"countyCount"`
}

// StateSummary is the per-state rollup. Counties is a raw membership list in
// collection order and may contain duplicates.
type StateSummary struct {
	HouseholdTotals
	Counties []string `json:"counties"`
}

// AggregateReport is recomputed from the complete record collection on every run
type AggregateReport struct {
	National            HouseholdTotals          `json:"national"`
	ByState             map[string]*StateSummary `json:"byState"`
	ByYear              map[int]HouseholdTotals  `json:"byYear"`
	LevelCounts         map[GeoLevel]int         `json:"levelCounts"`
	HighestCombinedRate []GeoRecord              `json:"highestCombinedRate"`
	LowestCombinedRate  []GeoRecord              `json:"lowestCombinedRate"`
}

// DatasetMetadata describes one pipeline run
type DatasetMetadata struct {
	GeneratedAt    time.Time `json:"generatedAt"`
	TotalRecords   int       `json:"totalRecords"`
	CountyRecords  int       `json:"countyRecords"`
	FilesProcessed int       `json:"filesProcessed"`
	FilesFailed    int       `json:"filesFailed"`
	Years          []int     `json:"years"`
	DataSources    []string  `json:"dataSources"`
}

// Dataset is the full output of a pipeline run
type Dataset struct {
	Metadata DatasetMetadata `json:"metadata"`
	Records  []GeoRecord     `json:"data"`
	Report   AggregateReport `json:"-"`
}
