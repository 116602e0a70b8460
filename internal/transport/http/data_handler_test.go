package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "alicedata/internal/errors"
	"alicedata/internal/services"
	"alicedata/internal/shared/testutil"
	"alicedata/internal/validation"
	"alicedata/pkg/contracts/domain"
)

// MockDataService is a mock implementation of DataServiceInterface
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) Metadata(ctx context.Context) (domain.DatasetMetadata, error) {
	args := m.Called()
	return args.Get(0).(domain.DatasetMetadata), args.Error(1)
}

func (m *MockDataService) Records(ctx context.Context, q validation.RecordsQuery) (services.RecordPage, error) {
	args := m.Called(q)
	return args.Get(0).(services.RecordPage), args.Error(1)
}

func (m *MockDataService) Record(ctx context.Context, geoID string) ([]domain.GeoRecord, error) {
	args := m.Called(geoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeoRecord), args.Error(1)
}

func (m *MockDataService) Statistics(ctx context.Context) (domain.AggregateReport, error) {
	args := m.Called()
	return args.Get(0).(domain.AggregateReport), args.Error(1)
}

func (m *MockDataService) States(ctx context.Context) ([]services.StateOverview, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.StateOverview), args.Error(1)
}

func (m *MockDataService) State(ctx context.Context, name string) (*domain.StateSummary, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StateSummary), args.Error(1)
}

func newTestHandler(t *testing.T, service DataServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewDataHandler(service, validation.New(), logger, apierrors.NewErrorHandler(logger, false))
	return h.Routes()
}

func serve(t *testing.T, handler http.Handler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestDataHandler_ListRecords(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(m *MockDataService)
		wantStatus int
		wantType   string
	}{
		{
			name:   "filters passed to service",
			target: "/records?state=Alabama&level=county&year=2022",
			setupMock: func(m *MockDataService) {
				m.On("Records", validation.RecordsQuery{State: "Alabama", Level: domain.GeoLevelCounty, Year: 2022}).
					Return(services.RecordPage{Total: 1, Limit: 500, Records: []domain.GeoRecord{{GeoID: "01001"}}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid level",
			target:     "/records?level=borough",
			setupMock:  func(m *MockDataService) {},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:   "dataset missing",
			target: "/records",
			setupMock: func(m *MockDataService) {
				m.On("Records", validation.RecordsQuery{}).Return(services.RecordPage{}, apierrors.ErrDatasetNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantType:   apierrors.TypeDatasetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDataService)
			tt.setupMock(service)

			rec, body := serve(t, newTestHandler(t, service), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, body["type"])
			} else {
				assert.EqualValues(t, 1, body["total"])
			}
			service.AssertExpectations(t)
		})
	}
}

func TestDataHandler_GetRecord(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMock  func(m *MockDataService)
		wantStatus int
	}{
		{
			name:   "found",
			target: "/records/01001",
			setupMock: func(m *MockDataService) {
				m.On("Record", "01001").Return([]domain.GeoRecord{{GeoID: "01001", Year: 2022}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "not found",
			target: "/records/99999",
			setupMock: func(m *MockDataService) {
				m.On("Record", "99999").Return(nil, apierrors.NotFoundError("record 99999"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-numeric geoID",
			target:     "/records/abc",
			setupMock:  func(m *MockDataService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockDataService)
			tt.setupMock(service)

			rec, _ := serve(t, newTestHandler(t, service), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestDataHandler_States(t *testing.T) {
	service := new(MockDataService)
	service.On("States").Return([]services.StateOverview{
		{State: "Alabama", HouseholdTotals: domain.HouseholdTotals{TotalHouseholds: 1000}},
	}, nil)
	service.On("State", "Alabama").Return(&domain.StateSummary{
		HouseholdTotals: domain.HouseholdTotals{TotalHouseholds: 1000},
		Counties:        []string{"Autauga"},
	}, nil)
	service.On("State", "Atlantis").Return(nil, apierrors.NotFoundError("state Atlantis"))

	handler := newTestHandler(t, service)

	rec, _ := serve(t, handler, "/states")
	require.Equal(t, http.StatusOK, rec.Code)
	var states []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	require.Len(t, states, 1)
	assert.Equal(t, "Alabama", states[0]["state"])
	assert.EqualValues(t, 1000, states[0]["totalHouseholds"])

	rec, body := serve(t, handler, "/states/Alabama")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"Autauga"}, body["counties"])

	rec, _ = serve(t, handler, "/states/Atlantis")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	service.AssertExpectations(t)
}

func TestDataHandler_StatisticsAndMetadata(t *testing.T) {
	service := new(MockDataService)
	service.On("Statistics").Return(domain.AggregateReport{
		National: domain.HouseholdTotals{TotalHouseholds: 4000, CombinedRate: 41.3},
	}, nil)
	service.On("Metadata").Return(domain.DatasetMetadata{TotalRecords: 3}, apierrors.NewParsingError("bad file", nil))

	handler := newTestHandler(t, service)

	rec, body := serve(t, handler, "/statistics")
	require.Equal(t, http.StatusOK, rec.Code)
	national := body["national"].(map[string]interface{})
	assert.EqualValues(t, 4000, national["totalHouseholds"])

	rec, body = serve(t, handler, "/metadata")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierrors.TypeDataCorrupted, body["type"])
}
