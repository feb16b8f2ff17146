package file

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

// Decoder turns an uploaded spreadsheet into a RawTable. The first non-empty
// row becomes the header row; fully empty rows are dropped. Whether the
// table has enough data to import is the pipeline's call, not the decoder's.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(r io.Reader, name string) (domain.RawTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return decodeXLSX(r)
	case ".csv":
		return decodeCSV(r)
	default:
		return domain.RawTable{}, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

func decodeXLSX(r io.Reader) (domain.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawTable{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return buildTable(rows), nil
}

func decodeCSV(r io.Reader) (domain.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read csv: %w", err)
	}
	return buildTable(rows), nil
}

func buildTable(rows [][]string) domain.RawTable {
	var table domain.RawTable
	for _, row := range rows {
		if emptyRow(row) {
			continue
		}
		if table.Headers == nil {
			table.Headers = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
