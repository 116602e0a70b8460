// Package exporter writes the processed dataset to disk.
//
// RecordExporter produces the flat database (CSV with a UTF-8 BOM for Excel,
// a JSON array, and the {metadata, data} envelope). AggregateExporter writes
// the statistics report. GeoJSONExporter writes one county FeatureCollection
// per year for GIS tools. DatasetWriter runs all of them against the
// configured output layout.
//
// Every file is written through files.Manager, so a failed write never leaves
// a truncated output behind.
package exporter
