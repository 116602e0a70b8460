// Package dataprocessing turns decoded workbook rows into GeoRecords and
// rolls them up into an AggregateReport.
//
// The work is split into small pieces that are tested on their own:
//
//	Normalize       sheet row → GeoRecord (identifier padding, level inference)
//	CalculateRates  household counts → one-decimal percentages
//	Fold/Finalize   GeoRecords → AggregateReport, as a pure fold
//	Pipeline        directory of workbooks → Dataset
//
// Only county-level records feed the national, state and year totals and the
// combined-rate rankings. Subcounty rows nest inside counties and would count
// the same households twice.
//
// # Usage
//
//	p := dataprocessing.NewPipeline(nil, logger, dataprocessing.DefaultOptions())
//	dataset, stats, err := p.RunDir(ctx, "data/raw")
//	if errors.Is(err, apperrors.ErrNoData) {
//	    // nothing to write
//	}
package dataprocessing
