package dataprocessing

import (
	"maps"
	"slices"

	"alicedata/pkg/contracts/domain"
)

// DefaultExtremesSize is the length of the highest and lowest rankings
const DefaultExtremesSize = 10

// householdSums accumulates raw counts; rates are derived only in Finalize
type householdSums struct {
	total      int64
	poverty    int64
	alice      int64
	aboveAlice int64
	counties   int
}

func (s householdSums) add(r domain.GeoRecord) householdSums {
	s.total += r.TotalHouseholds
	s.poverty += r.PovertyHouseholds
	s.alice += r.AliceHouseholds
	s.aboveAlice += r.AboveAliceHouseholds
	s.counties++
	return s
}

func (s householdSums) totals() domain.HouseholdTotals {
	rates := CalculateRates(s.total, s.poverty, s.alice)
	return domain.HouseholdTotals{
		TotalHouseholds:      s.total,
		PovertyHouseholds:    s.poverty,
		AliceHouseholds:      s.alice,
		AboveAliceHouseholds: s.aboveAlice,
		PovertyRate:          rates.Poverty,
		AliceRate:            rates.Alice,
		CombinedRate:         rates.Combined,
		CountyCount:          s.counties,
	}
}

type stateSums struct {
	householdSums
	counties []string
}

// AggregateState is the intermediate value of the aggregation fold. Fold never
// modifies the state it is given, so any intermediate state stays valid.
type AggregateState struct {
	size     int
	national householdSums
	states   map[string]stateSums
	years    map[int]householdSums
	levels   map[domain.GeoLevel]int
	highest  []domain.GeoRecord
	lowest   []domain.GeoRecord
}

// NewAggregateState returns the empty fold state. size bounds the extremes
// rankings; values below 1 use DefaultExtremesSize.
func NewAggregateState(size int) AggregateState {
	if size < 1 {
		size = DefaultExtremesSize
	}
	return AggregateState{
		size:   size,
		states: map[string]stateSums{},
		years:  map[int]householdSums{},
		levels: map[domain.GeoLevel]int{},
	}
}

// Fold adds one record to the aggregate. Only county-level records feed the
// national, state, year and extremes rollups; subcounty rows are nested in
// counties and would count their households twice.
func Fold(state AggregateState, r domain.GeoRecord) AggregateState {
	next := state
	next.levels = cloneMap(state.levels)
	next.levels[r.GeoLevel]++

	if !r.IsCounty() {
		return next
	}

	next.national = state.national.add(r)

	next.states = cloneMap(state.states)
	ss := state.states[r.State]
	ss.householdSums = ss.householdSums.add(r)
	ss.counties = append(slices.Clip(ss.counties), countyLabel(r))
	next.states[r.State] = ss

	next.years = cloneMap(state.years)
	next.years[r.Year] = state.years[r.Year].add(r)

	if r.CombinedRate > 0 {
		size := state.size
		if size < 1 {
			size = DefaultExtremesSize
		}
		next.highest = insertHighest(state.highest, r, size)
		next.lowest = insertLowest(state.lowest, r, size)
	}
	return next
}

// cloneMap copies m, allocating when m is nil so the zero AggregateState folds
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return make(map[K]V)
	}
	return maps.Clone(m)
}

// insertHighest keeps the first n records of a stable descending sort by
// combined rate. r is later in the collection than every ranked record, so it
// goes after all records with an equal or higher rate.
func insertHighest(ranked []domain.GeoRecord, r domain.GeoRecord, n int) []domain.GeoRecord {
	pos := 0
	for pos < len(ranked) && ranked[pos].CombinedRate >= r.CombinedRate {
		pos++
	}
	if pos >= n {
		return ranked
	}
	return bounded(ranked, pos, r, n)
}

// insertLowest keeps the last n records of the same stable descending sort,
// reversed: ascending by rate, later records first among equal rates
func insertLowest(ranked []domain.GeoRecord, r domain.GeoRecord, n int) []domain.GeoRecord {
	pos := 0
	for pos < len(ranked) && ranked[pos].CombinedRate < r.CombinedRate {
		pos++
	}
	if pos >= n {
		return ranked
	}
	return bounded(ranked, pos, r, n)
}

func bounded(ranked []domain.GeoRecord, pos int, r domain.GeoRecord, n int) []domain.GeoRecord {
	out := make([]domain.GeoRecord, 0, min(len(ranked)+1, n))
	out = append(out, ranked[:pos]...)
	out = append(out, r)
	out = append(out, ranked[pos:]...)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func countyLabel(r domain.GeoRecord) string {
	if r.County != nil {
		return *r.County
	}
	return r.GeoDisplayLabel
}

// Finalize derives rates from the accumulated sums and builds the report
func (s AggregateState) Finalize() domain.AggregateReport {
	report := domain.AggregateReport{
		National:            s.national.totals(),
		ByState:             make(map[string]*domain.StateSummary, len(s.states)),
		ByYear:              make(map[int]domain.HouseholdTotals, len(s.years)),
		LevelCounts:         cloneMap(s.levels),
		HighestCombinedRate: slices.Clone(s.highest),
		LowestCombinedRate:  slices.Clone(s.lowest),
	}
	if report.HighestCombinedRate == nil {
		report.HighestCombinedRate = []domain.GeoRecord{}
	}
	if report.LowestCombinedRate == nil {
		report.LowestCombinedRate = []domain.GeoRecord{}
	}

	for name, ss := range s.states {
		report.ByState[name] = &domain.StateSummary{
			HouseholdTotals: ss.householdSums.totals(),
			Counties:        slices.Clone(ss.counties),
		}
	}
	for year, sums := range s.years {
		report.ByYear[year] = sums.totals()
	}
	return report
}

// Aggregate folds the complete record collection into a report
func Aggregate(records []domain.GeoRecord) domain.AggregateReport {
	return AggregateN(records, DefaultExtremesSize)
}

// AggregateN is Aggregate with a custom extremes size
func AggregateN(records []domain.GeoRecord, extremes int) domain.AggregateReport {
	state := NewAggregateState(extremes)
	for _, r := range records {
		state = Fold(state, r)
	}
	return state.Finalize()
}
