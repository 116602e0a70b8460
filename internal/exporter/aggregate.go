package exporter

import (
	"alicedata/internal/files"
	"alicedata/pkg/contracts/domain"
)

// AggregateExporter writes the aggregate report
type AggregateExporter struct {
	files *files.Manager
}

// NewAggregateExporter creates an aggregate exporter
func NewAggregateExporter(manager *files.Manager) *AggregateExporter {
	return &AggregateExporter{files: manager}
}

// WriteJSON writes report as alice_statistics.json
func (e *AggregateExporter) WriteJSON(path string, report domain.AggregateReport) error {
	return writeJSON(e.files, path, report)
}
