package member

import (
	"fmt"
	"strconv"
	"time"
)

// RawTable is the decoded spreadsheet: one header row plus data rows of
// untyped cells. Empty rows are filtered out by the decoder.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Record is the sparse normalized form of one data row. Fields holds only
// the cells that were mapped, non-empty and coercible; values are typed
// (string, time.Time or int).
type Record struct {
	RowIndex    int
	Fields      map[FieldKey]any
	BranchID    *string
	IdentityKey string
	// KeyFromNPA reports whether IdentityKey came from the registration
	// number rather than the name+workplace composite.
	KeyFromNPA bool
}

func NewRecord(rowIndex int) Record {
	return Record{RowIndex: rowIndex, Fields: make(map[FieldKey]any)}
}

func (r Record) Has(key FieldKey) bool {
	_, ok := r.Fields[key]
	return ok
}

// Text returns the string value of a field, or "" when absent or not text.
func (r Record) Text(key FieldKey) string {
	v, ok := r.Fields[key].(string)
	if !ok {
		return ""
	}
	return v
}

func (r Record) Date(key FieldKey) *time.Time {
	if v, ok := r.Fields[key].(time.Time); ok {
		return &v
	}
	return nil
}

func (r Record) Int(key FieldKey) *int {
	if v, ok := r.Fields[key].(int); ok {
		return &v
	}
	return nil
}

// Workplace returns the primary workplace value, falling back to the
// alternative field.
func (r Record) Workplace() string {
	if v := r.Text(FieldTempatTugas); v != "" {
		return v
	}
	return r.Text(FieldInstansi)
}

// CellString renders a field value for the error report.
func (r Record) CellString(key FieldKey) string {
	v, ok := r.Fields[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Member builds the persistable entity from the record. The caller assigns
// the ID.
func (r Record) Member() Member {
	return Member{
		NPA:            r.Text(FieldNPA),
		Nama:           r.Text(FieldNama),
		TempatTugas:    r.Text(FieldTempatTugas),
		Instansi:       r.Text(FieldInstansi),
		ProvinsiKantor: r.Text(FieldProvinsiKantor),
		KotaKantor:     r.Text(FieldKotaKantor),
		Email:          r.Text(FieldEmail),
		JenisKelamin:   r.Text(FieldJenisKelamin),
		TanggalLahir:   r.Date(FieldTanggalLahir),
		Status:         r.Text(FieldStatus),
		TahunBergabung: r.Int(FieldTahunBergabung),
		NoHP:           r.Text(FieldNoHP),
		BranchID:       r.BranchID,
		IdentityKey:    r.IdentityKey,
	}
}
