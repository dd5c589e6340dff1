package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
)

var ErrMalformedData = errors.New("malformed data file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format is the tabular encoding of a data file.
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

// FormatOf picks the format from the locator's extension. Anything that is
// not a workbook is read as CSV.
func FormatOf(locator string) Format {
	if u := strings.SplitN(locator, "?", 2)[0]; strings.EqualFold(path.Ext(u), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// RecordRepository turns raw data files into records.
type RecordRepository struct{}

// NewRecordRepository creates a RecordRepository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{}
}

// Decode parses raw as a header-bearing table. Empty lines are skipped.
func (r *RecordRepository) Decode(locator string, raw []byte) ([]entities.Record, error) {
	switch FormatOf(locator) {
	case FormatXLSX:
		return decodeXLSX(raw)
	default:
		return decodeCSV(raw)
	}
}

// Count returns the number of question rows in raw without decoding them.
// For CSV this is the number of non-header lines of the trimmed text.
func (r *RecordRepository) Count(locator string, raw []byte) (int, error) {
	switch FormatOf(locator) {
	case FormatXLSX:
		rows, err := readSheet(raw)
		if err != nil {
			return 0, err
		}
		return max(0, len(rows)-1), nil
	default:
		text := strings.TrimSpace(string(bytes.TrimPrefix(raw, utf8BOM)))
		lines := strings.Split(text, "\n")
		return max(0, len(lines)-1), nil
	}
}

func decodeCSV(raw []byte) ([]entities.Record, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(&alignedReader{r: reader})
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	if err := checkHeader(dec.Header()); err != nil {
		return nil, err
	}

	var records []entities.Record
	for {
		var rec entities.Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// alignedReader feeds csvutil rows cut or padded to the header width.
// Rows whose fields are all blank are dropped, header included.
type alignedReader struct {
	r     *csv.Reader
	width int
}

func (a *alignedReader) Read() ([]string, error) {
	for {
		row, err := a.r.Read()
		if err != nil {
			return nil, err
		}
		if isBlankRow(row) {
			continue
		}

		if a.width == 0 {
			a.width = len(row)
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
			return row, nil
		}

		switch {
		case len(row) < a.width:
			row = append(row, make([]string, a.width-len(row))...)
		case len(row) > a.width:
			row = row[:a.width]
		}
		return row, nil
	}
}

// checkHeader requires the question column; every other column may be
// missing and reads as empty.
func checkHeader(header []string) error {
	for _, column := range header {
		if column == "Question_Text" {
			return nil
		}
	}
	return fmt.Errorf("%w: missing column Question_Text", ErrMalformedData)
}

func decodeXLSX(raw []byte) ([]entities.Record, error) {
	rows, err := readSheet(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, column := range rows[0] {
		header[i] = strings.TrimSpace(column)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	records := make([]entities.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec entities.Record
		for i, cell := range row {
			if i < len(header) {
				rec.SetField(header[i], cell)
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// readSheet returns the non-blank rows of the first worksheet.
func readSheet(raw []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedData)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}

	nonBlank := rows[:0]
	for _, row := range rows {
		if !isBlankRow(row) {
			nonBlank = append(nonBlank, row)
		}
	}

	return nonBlank, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
