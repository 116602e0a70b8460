package validation

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "alicedata/internal/errors"
	"alicedata/pkg/contracts/domain"
)

func validRecord() domain.GeoRecord {
	return domain.GeoRecord{
		GeoID:                "01001",
		GeoLevel:             domain.GeoLevelCounty,
		State:                "Alabama",
		StateAbbr:            "AL",
		Year:                 2022,
		TotalHouseholds:      1000,
		PovertyHouseholds:    150,
		AliceHouseholds:      300,
		AboveAliceHouseholds: 550,
		PovertyRate:          15,
		AliceRate:            30,
		CombinedRate:         45,
		DataSource:           domain.SheetCounty,
	}
}

func TestValidator_ValidateRecord(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *domain.GeoRecord)
		wantField string
	}{
		{name: "valid record", mutate: func(r *domain.GeoRecord) {}},
		{
			name:   "independently rounded rates",
			mutate: func(r *domain.GeoRecord) { r.PovertyRate, r.AliceRate, r.CombinedRate = 33.3, 33.3, 66.7 },
		},
		{name: "missing geoID", mutate: func(r *domain.GeoRecord) { r.GeoID = "" }, wantField: "geoID"},
		{name: "non-numeric geoID", mutate: func(r *domain.GeoRecord) { r.GeoID = "01A01" }, wantField: "geoID"},
		{name: "unknown level", mutate: func(r *domain.GeoRecord) { r.GeoLevel = "borough" }, wantField: "geoLevel"},
		{name: "negative households", mutate: func(r *domain.GeoRecord) { r.TotalHouseholds = -1 }, wantField: "totalHouseholds"},
		{name: "missing data source", mutate: func(r *domain.GeoRecord) { r.DataSource = "" }, wantField: "dataSource"},
		{name: "combined rate mismatch", mutate: func(r *domain.GeoRecord) { r.CombinedRate = 50 }, wantField: "combinedRate"},
		{
			name:      "rate above 100",
			mutate:    func(r *domain.GeoRecord) { r.PovertyRate, r.AliceRate, r.CombinedRate = 60, 60, 120 },
			wantField: "combinedRate",
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)

			err := v.ValidateRecord(r)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, apierrors.IsType(err, apierrors.ErrTypeValidation))

			var appErr *apierrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Context, tt.wantField)
		})
	}
}

func TestValidator_ParseRecordsQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    RecordsQuery
		wantErr bool
	}{
		{name: "empty", query: "", want: RecordsQuery{}},
		{
			name:  "all filters",
			query: "state=Alabama&level=County&year=2022&limit=50&offset=10",
			want:  RecordsQuery{State: "Alabama", Level: domain.GeoLevelCounty, Year: 2022, Limit: 50, Offset: 10},
		},
		{name: "unknown level", query: "level=borough", wantErr: true},
		{name: "non-integer year", query: "year=twenty", wantErr: true},
		{name: "year out of range", query: "year=1800", wantErr: true},
		{name: "limit too large", query: "limit=100000", wantErr: true},
		{name: "negative offset", query: "offset=-1", wantErr: true},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := v.ParseRecordsQuery(values)
			if tt.wantErr {
				require.Error(t, err)
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordsQuery_Matches(t *testing.T) {
	r := validRecord()

	tests := []struct {
		name  string
		query RecordsQuery
		want  bool
	}{
		{"no filters", RecordsQuery{}, true},
		{"state name", RecordsQuery{State: "alabama"}, true},
		{"state abbreviation", RecordsQuery{State: "AL"}, true},
		{"other state", RecordsQuery{State: "Georgia"}, false},
		{"level", RecordsQuery{Level: domain.GeoLevelCounty}, true},
		{"other level", RecordsQuery{Level: domain.GeoLevelCDP}, false},
		{"year", RecordsQuery{Year: 2022}, true},
		{"other year", RecordsQuery{Year: 2021}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Matches(r))
		})
	}
}
