package exporter

import (
	"testing"
	"time"

	"alicedata/internal/config"
	"alicedata/internal/files"
	"alicedata/internal/shared/testutil"
	"alicedata/pkg/contracts/domain"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func newTestManager(t *testing.T) (*files.Manager, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{OutputDir: "out"})
	logger, _ := testutil.NewTestLogger(t)
	return files.NewManager(paths, logger), paths
}

func sampleRecords() []domain.GeoRecord {
	return []domain.GeoRecord{
		{
			GeoID: "01001", GeoLevel: domain.GeoLevelCounty,
			GeoDisplayLabel: "Autauga County, Alabama", State: "Alabama", StateAbbr: "AL",
			County: strPtr("Autauga"), Year: 2022,
			TotalHouseholds: 1000, PovertyHouseholds: 150, AliceHouseholds: 300, AboveAliceHouseholds: 550,
			PovertyRate: 15, AliceRate: 30, CombinedRate: 45,
			PovertyHHBlack: int64Ptr(40),
			DataSource:     domain.SheetCounty, SourceFile: "Alabama.xlsx",
		},
		{
			GeoID: "0100124", GeoLevel: domain.GeoLevelCDP, GeoType: "Census Designated Place",
			GeoDisplayLabel: "Prattville CDP, Alabama", State: "Alabama", StateAbbr: "AL",
			County: strPtr("Autauga"), Year: 2022,
			TotalHouseholds: 3, PovertyHouseholds: 1, AliceHouseholds: 1, AboveAliceHouseholds: 1,
			PovertyRate: 33.3, AliceRate: 33.3, CombinedRate: 66.7,
			DataSource: domain.SheetSubcounty, SourceFile: "Alabama.xlsx",
		},
		{
			GeoID: "13001", GeoLevel: domain.GeoLevelCounty,
			GeoDisplayLabel: "Appling County, Georgia", State: "Georgia", StateAbbr: "GA",
			Year: 2021, TotalHouseholds: 3000, PovertyHouseholds: 300, AliceHouseholds: 900,
			AboveAliceHouseholds: 1800, PovertyRate: 10, AliceRate: 30, CombinedRate: 40,
			DataSource: domain.SheetCounty, SourceFile: "Georgia.xlsx",
		},
	}
}

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
