package workbook

import (
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"alicedata/internal/errors"
	"alicedata/pkg/contracts/domain"
)

// Workbook holds the rows of every sheet of one source file
type Workbook struct {
	Path   string
	Sheets []string
	rows   map[string][]domain.RawRow
}

// Rows returns the rows of the sheet whose name equals kind exactly, or nil
func (w *Workbook) Rows(kind domain.SheetKind) []domain.RawRow {
	return w.rows[string(kind)]
}

// SheetRows returns the rows of an arbitrary sheet by name
func (w *Workbook) SheetRows(name string) []domain.RawRow {
	return w.rows[name]
}

// Reader opens spreadsheet files with excelize
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a workbook reader
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With(slog.String("component", "workbook_reader"))}
}

// Read opens path and returns every sheet as RawRows in file order. The first
// non-empty row of a sheet is its header row. A file that cannot be opened or
// parsed yields a SOURCE_READ AppError.
func (r *Reader) Read(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewSourceReadError(path, err)
	}
	defer f.Close()

	wb := &Workbook{
		Path:   path,
		Sheets: f.GetSheetList(),
		rows:   make(map[string][]domain.RawRow),
	}

	for _, sheet := range wb.Sheets {
		// Raw values keep numeric ids such as 1001 from being reformatted by cell styles
		grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.NewSourceReadError(path, err).WithContext("sheet", sheet)
		}
		rows := rowsFromGrid(path, sheet, grid)
		wb.rows[sheet] = rows

		r.logger.Debug("sheet read",
			slog.String("file", path),
			slog.String("sheet", sheet),
			slog.Int("rows", len(rows)))
	}

	return wb, nil
}

// rowsFromGrid converts a cell grid into header-keyed rows
func rowsFromGrid(path, sheet string, grid [][]string) []domain.RawRow {
	headerIdx := -1
	for i, row := range grid {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil
	}

	headers := make([]string, len(grid[headerIdx]))
	for i, h := range grid[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []domain.RawRow
	for i := headerIdx + 1; i < len(grid); i++ {
		cells := grid[i]
		if isBlank(cells) {
			continue
		}

		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(cells) {
				values[h] = strings.TrimSpace(cells[j])
			} else {
				values[h] = ""
			}
		}

		rows = append(rows, domain.RawRow{
			File:    path,
			Sheet:   sheet,
			Row:     i + 1,
			Headers: headers,
			Values:  values,
		})
	}
	return rows
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
