package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SheetFixture describes one worksheet to write into a test workbook
type SheetFixture struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// CountyHeaders is the column layout of a County sheet
var CountyHeaders = []string{
	"GEO id2", "GEO display_label", "State", "State Abbr", "County", "Year",
	"Households", "Poverty Households", "ALICE Households", "Above ALICE Households",
}

// SubcountyHeaders is the column layout of a Subcounty sheet that carries a Type column
var SubcountyHeaders = []string{
	"GEO id2", "GEO display_label", "State", "State Abbr", "County", "Year", "Type",
	"Households", "Poverty Households", "ALICE Households", "Above ALICE Households",
}

// CountyFixture is one County sheet row
type CountyFixture struct {
	GeoID      interface{}
	Label      string
	State      string
	StateAbbr  string
	County     string
	Year       int
	Households interface{}
	Poverty    interface{}
	Alice      interface{}
	Above      interface{}
}

// SubcountyFixture is one Subcounty sheet row
type SubcountyFixture struct {
	GeoID      interface{}
	Label      string
	State      string
	StateAbbr  string
	County     string
	Year       int
	Type       string
	Households interface{}
	Poverty    interface{}
	Alice      interface{}
	Above      interface{}
}

// CountySheet builds a County sheet from fixtures. Empty State defaults to Alabama.
func CountySheet(rows ...CountyFixture) SheetFixture {
	sheet := SheetFixture{Name: "County", Headers: CountyHeaders}
	for _, r := range rows {
		state, abbr := defaultState(r.State, r.StateAbbr)
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.GeoID, r.Label, state, abbr, r.County, defaultYear(r.Year),
			r.Households, r.Poverty, r.Alice, r.Above,
		})
	}
	return sheet
}

// SubcountySheet builds a Subcounty sheet with a Type column
func SubcountySheet(rows ...SubcountyFixture) SheetFixture {
	sheet := SheetFixture{Name: "Subcounty", Headers: SubcountyHeaders}
	for _, r := range rows {
		state, abbr := defaultState(r.State, r.StateAbbr)
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.GeoID, r.Label, state, abbr, r.County, defaultYear(r.Year), r.Type,
			r.Households, r.Poverty, r.Alice, r.Above,
		})
	}
	return sheet
}

// WriteWorkbook saves the sheets into dir/name and returns the file path
func WriteWorkbook(t *testing.T, dir, name string, sheets ...SheetFixture) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	keepDefault := false
	for i, sheet := range sheets {
		if sheet.Name == defaultSheet {
			keepDefault = true
		} else {
			idx, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
			if i == 0 {
				f.SetActiveSheet(idx)
			}
		}

		headers := make([]interface{}, len(sheet.Headers))
		for j, h := range sheet.Headers {
			headers[j] = h
		}
		require.NoError(t, f.SetSheetRow(sheet.Name, "A1", &headers))

		for j, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(sheet.Name, cell, &values))
		}
	}
	if !keepDefault && len(sheets) > 0 {
		require.NoError(t, f.DeleteSheet(defaultSheet))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func defaultState(state, abbr string) (string, string) {
	if state == "" {
		return "Alabama", "AL"
	}
	return state, abbr
}

func defaultYear(year int) int {
	if year == 0 {
		return 2022
	}
	return year
}
