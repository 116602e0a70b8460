package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"alicedata/internal/config"
	apierrors "alicedata/internal/errors"
	"alicedata/internal/validation"
	"alicedata/pkg/contracts/domain"
)

// DefaultPageSize caps a record listing when the query sets no limit
const DefaultPageSize = 500

// RecordPage is one page of a filtered record listing
type RecordPage struct {
	Total   int                `json:"total"`
	Offset  int                `json:"offset"`
	Limit   int                `json:"limit"`
	Records []domain.GeoRecord `json:"records"`
}

// StateOverview is one row of the state listing
type StateOverview struct {
	State string `json:"state"`
	domain.HouseholdTotals
}

// snapshot is the dataset as last read from the output directory
type snapshot struct {
	metadata domain.DatasetMetadata
	records  []domain.GeoRecord
	report   domain.AggregateReport
	byGeoID  map[string][]int
	modTime  time.Time
}

// DataService serves the generated dataset from the output directory. The
// files are re-read when the enhanced JSON changes on disk, so a processor
// run is picked up without a restart.
type DataService struct {
	paths  *config.Paths
	logger *slog.Logger

	mu      sync.RWMutex
	current *snapshot
	loads   singleflight.Group
}

// NewDataService creates a new data service
func NewDataService(paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DataService initialized with paths",
		slog.String("output_dir", paths.OutputDir))

	return &DataService{
		paths:  paths,
		logger: logger.With(slog.String("component", "data_service")),
	}
}

// snapshot returns the cached dataset, reloading it when the file changed
func (ds *DataService) snapshot(ctx context.Context) (*snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(ds.paths.EnhancedJSONPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierrors.ErrDatasetNotFound
		}
		return nil, apierrors.FileSystemError("stat dataset", err)
	}

	ds.mu.RLock()
	cur := ds.current
	ds.mu.RUnlock()
	if cur != nil && cur.modTime.Equal(info.ModTime()) {
		return cur, nil
	}

	v, err, _ := ds.loads.Do("dataset", func() (interface{}, error) {
		snap, err := ds.load(info.ModTime())
		if err != nil {
			return nil, err
		}
		ds.mu.Lock()
		ds.current = snap
		ds.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (ds *DataService) load(modTime time.Time) (*snapshot, error) {
	start := time.Now()

	var dataset domain.Dataset
	if err := readJSON(ds.paths.EnhancedJSONPath(), &dataset); err != nil {
		return nil, err
	}

	var report domain.AggregateReport
	if err := readJSON(ds.paths.StatisticsJSONPath(), &report); err != nil {
		return nil, err
	}

	byGeoID := make(map[string][]int, len(dataset.Records))
	for i, r := range dataset.Records {
		byGeoID[r.GeoID] = append(byGeoID[r.GeoID], i)
	}

	ds.logger.Info("Dataset loaded",
		slog.Int("records", len(dataset.Records)),
		slog.Time("generated_at", dataset.Metadata.GeneratedAt),
		slog.Duration("duration", time.Since(start)))

	return &snapshot{
		metadata: dataset.Metadata,
		records:  dataset.Records,
		report:   report,
		byGeoID:  byGeoID,
		modTime:  modTime,
	}, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apierrors.ErrDatasetNotFound
		}
		return apierrors.FileSystemError("read dataset", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apierrors.NewParsingError(fmt.Sprintf("failed to decode %s", path), err)
	}
	return nil
}

// Metadata returns the run metadata of the current dataset
func (ds *DataService) Metadata(ctx context.Context) (domain.DatasetMetadata, error) {
	snap, err := ds.snapshot(ctx)
	if err != nil {
		return domain.DatasetMetadata{}, err
	}
	return snap.metadata, nil
}

// Records returns the records matching q in collection order
func (ds *DataService) Records(ctx context.Context, q validation.RecordsQuery) (RecordPage, error) {
	snap, err := ds.snapshot(ctx)
	if err != nil {
		return RecordPage{}, err
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}

	page := RecordPage{Offset: q.Offset, Limit: limit, Records: []domain.GeoRecord{}}
	for _, r := range snap.records {
		if !q.Matches(r) {
			continue
		}
		if page.Total >= q.Offset && len(page.Records) < limit {
			page.Records = append(page.Records, r)
		}
		page.Total++
	}

	ds.logger.DebugContext(ctx, "Records listed",
		slog.String("state", q.State),
		slog.String("level", string(q.Level)),
		slog.Int("year", q.Year),
		slog.Int("total", page.Total))

	return page, nil
}

// Record returns every record with the given geoID, one per year
func (ds *DataService) Record(ctx context.Context, geoID string) ([]domain.GeoRecord, error) {
	snap, err := ds.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	idx, ok := snap.byGeoID[geoID]
	if !ok {
		return nil, apierrors.NotFoundError(fmt.Sprintf("record %s", geoID))
	}

	records := make([]domain.GeoRecord, len(idx))
	for i, n := range idx {
		records[i] = snap.records[n]
	}
	return records, nil
}

// Statistics returns the aggregate report of the current dataset
func (ds *DataService) Statistics(ctx context.Context) (domain.AggregateReport, error) {
	snap, err := ds.snapshot(ctx)
	if err != nil {
		return domain.AggregateReport{}, err
	}
	return snap.report, nil
}

// States lists the per-state totals sorted by state name
func (ds *DataService) States(ctx context.Context) ([]StateOverview, error) {
	snap, err := ds.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]StateOverview, 0, len(snap.report.ByState))
	for name, summary := range snap.report.ByState {
		states = append(states, StateOverview{State: name, HouseholdTotals: summary.HouseholdTotals})
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].State < states[j].State
	})
	return states, nil
}

// State returns one state's summary. The name match ignores case.
func (ds *DataService) State(ctx context.Context, name string) (*domain.StateSummary, error) {
	snap, err := ds.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if summary, ok := snap.report.ByState[name]; ok {
		return summary, nil
	}
	for state, summary := range snap.report.ByState {
		if strings.EqualFold(state, name) {
			return summary, nil
		}
	}
	return nil, apierrors.NotFoundError(fmt.Sprintf("state %s", name))
}
