package dataprocessing

import (
	"time"

	"alicedata/internal/workbook"
	"alicedata/pkg/contracts/domain"
)

// WorkbookReader opens one source file
type WorkbookReader interface {
	Read(path string) (*workbook.Workbook, error)
}

// RecordValidator checks a normalized record before it joins the collection
type RecordValidator interface {
	ValidateRecord(record domain.GeoRecord) error
}

// Options configures a pipeline run
type Options struct {
	// ExtremesSize bounds the highest and lowest combined-rate rankings
	ExtremesSize int

	// StrictValidation drops records that fail RecordValidator
	StrictValidation bool

	// Clock stamps the dataset metadata; fix it for reproducible output
	Clock func() time.Time
}

// DefaultOptions returns default processing options
func DefaultOptions() Options {
	return Options{
		ExtremesSize: DefaultExtremesSize,
		Clock:        time.Now,
	}
}

// FileStats describes the outcome of one workbook
type FileStats struct {
	File        string
	RowsRead    int
	RowsDropped int
	RowsInvalid int
	Records     int
	Err         error
}

// RunStats summarizes a pipeline run. Dropped and invalid rows are counted
// here rather than reported as errors.
type RunStats struct {
	Files          []FileStats
	FilesProcessed int
	FilesFailed    int
	RowsRead       int
	RowsDropped    int
	RowsInvalid    int
}

func (s *RunStats) add(fs FileStats) {
	s.Files = append(s.Files, fs)
	if fs.Err != nil {
		s.FilesFailed++
		return
	}
	s.FilesProcessed++
	s.RowsRead += fs.RowsRead
	s.RowsDropped += fs.RowsDropped
	s.RowsInvalid += fs.RowsInvalid
}
