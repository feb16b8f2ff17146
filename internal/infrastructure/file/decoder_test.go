package file

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"",
		"Nama,Tempat Tugas,Provinsi",
		"Ani,SMA 1,Jawa Barat",
		" , , ",
		"Budi,SMP 2",
		"",
	}, "\n")

	table, err := NewDecoder().Decode(strings.NewReader(input), "members.csv")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(table.Headers) != 3 || table.Headers[0] != "Nama" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("blank rows must be dropped, got %v", table.Rows)
	}
	if len(table.Rows[1]) != 2 {
		t.Fatalf("ragged rows pass through as-is, got %v", table.Rows[1])
	}
}

func TestDecodeXLSX(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	cells := [][]any{
		{"Nama", "Tempat Tugas", "Provinsi"},
		{"Ani", "SMA 1", "Jawa Barat"},
		{"", "", ""},
		{"Budi", "SMP 2", "Banten"},
	}
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	table, err := NewDecoder().Decode(&buf, "members.xlsx")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(table.Headers) != 3 {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 || table.Rows[1][0] != "Budi" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	t.Parallel()

	if _, err := NewDecoder().Decode(strings.NewReader("x"), "members.pdf"); err == nil {
		t.Fatal("expected unsupported file type error")
	}
}

func TestDecodeExtensionIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	table, err := NewDecoder().Decode(strings.NewReader("Nama\nAni\n"), "MEMBERS.CSV")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestReportStoreSave(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "reports")
	store := NewReportStore(dir)

	path, err := store.Save("import-errors-20260115-093042.csv", []byte("baris,kode\n"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "baris,kode\n" {
		t.Fatalf("unexpected content: %q", data)
	}
}
