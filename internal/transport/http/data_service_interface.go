package http

import (
	"context"

	"alicedata/internal/services"
	"alicedata/internal/validation"
	"alicedata/pkg/contracts/domain"
)

// DataServiceInterface defines the read operations over the generated dataset
type DataServiceInterface interface {
	Metadata(ctx context.Context) (domain.DatasetMetadata, error)
	Records(ctx context.Context, q validation.RecordsQuery) (services.RecordPage, error)
	Record(ctx context.Context, geoID string) ([]domain.GeoRecord, error)
	Statistics(ctx context.Context) (domain.AggregateReport, error)
	States(ctx context.Context) ([]services.StateOverview, error)
	State(ctx context.Context, name string) (*domain.StateSummary, error)
}
