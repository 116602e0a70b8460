package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"alicedata/internal/files"
	"alicedata/pkg/contracts/domain"
)

// RecordCSVHeaders is the fixed column order of the master CSV
var RecordCSVHeaders = []string{
	"GeoID",
	"Geographic_Level",
	"Geographic_Type",
	"Location_Name",
	"State",
	"State_Abbr",
	"County",
	"Year",
	"Total_Households",
	"Poverty_Households",
	"ALICE_Households",
	"Above_ALICE_Households",
	"Poverty_Rate_Pct",
	"ALICE_Rate_Pct",
	"Combined_Rate_Pct",
	"Data_Source",
}

// RecordExporter writes the record collection in its flat forms
type RecordExporter struct {
	csv   *CSVWriter
	files *files.Manager
}

// NewRecordExporter creates a record exporter
func NewRecordExporter(manager *files.Manager) *RecordExporter {
	return &RecordExporter{csv: NewCSVWriter(manager), files: manager}
}

// WriteCSV writes one row per record in collection order
func (e *RecordExporter) WriteCSV(path string, records []domain.GeoRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}
	return e.csv.WriteSimpleCSV(path, RecordCSVHeaders, rows)
}

func recordRow(r domain.GeoRecord) []string {
	return []string{
		r.GeoID,
		string(r.GeoLevel),
		r.GeoType,
		r.GeoDisplayLabel,
		r.State,
		r.StateAbbr,
		formatOptional(r.County),
		strconv.Itoa(r.Year),
		formatInt(r.TotalHouseholds),
		formatInt(r.PovertyHouseholds),
		formatInt(r.AliceHouseholds),
		formatInt(r.AboveAliceHouseholds),
		formatRate(r.PovertyRate),
		formatRate(r.AliceRate),
		formatRate(r.CombinedRate),
		string(r.DataSource),
	}
}

// WriteJSON writes the records as a JSON array
func (e *RecordExporter) WriteJSON(path string, records []domain.GeoRecord) error {
	if records == nil {
		records = []domain.GeoRecord{}
	}
	return writeJSON(e.files, path, records)
}

// WriteEnhancedJSON writes the {metadata, data} envelope
func (e *RecordExporter) WriteEnhancedJSON(path string, metadata domain.DatasetMetadata, records []domain.GeoRecord) error {
	if records == nil {
		records = []domain.GeoRecord{}
	}
	return writeJSON(e.files, path, domain.Dataset{Metadata: metadata, Records: records})
}

// writeJSON encodes v with two-space indentation. Map keys come out sorted,
// so equal inputs produce identical bytes.
func writeJSON(manager *files.Manager, path string, v interface{}) error {
	return manager.WriteFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		return nil
	})
}

// writeJSONCompact encodes v without indentation; GeoJSON geometry is large
func writeJSONCompact(manager *files.Manager, path string, v interface{}) error {
	return manager.WriteFile(path, func(w io.Writer) error {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		return nil
	})
}
