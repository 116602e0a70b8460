// Package workbook opens ALICE spreadsheet workbooks and exposes their sheets
// as header-keyed rows.
//
// Reading is split in two steps. Reader.Read turns every sheet of a file into
// domain.RawRow values in file order. DecodeCounty and DecodeSubcounty then
// validate a RawRow against the column schema of its sheet kind and return a
// typed row, so the normalizer never sees an unexpected shape:
//
//	wb, err := workbook.NewReader(logger).Read("Alabama.xlsx")
//	if err != nil {
//	    // errors.ErrTypeSourceRead; skip the file
//	}
//	for _, raw := range wb.Rows(domain.SheetCounty) {
//	    row := workbook.DecodeCounty(raw)
//	    ...
//	}
//
// Household counts are parsed leniently: thousands separators are removed,
// float cells are truncated and anything unparseable or negative becomes 0.
// Optional demographic columns decode to nil when the column is missing or
// the cell is blank.
package workbook
