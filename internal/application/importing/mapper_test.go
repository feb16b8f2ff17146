package importing_test

import (
	"reflect"
	"testing"

	"github.com/danisworo/member-import/internal/application/importing"
	domain "github.com/danisworo/member-import/internal/domain/member"
)

func TestAutoMapDeterministic(t *testing.T) {
	t.Parallel()

	headers := []string{"Nama Lengkap", "NPA", "Tempat Tugas", "Provinsi Kantor", "Kolom Misterius"}
	schema := domain.DefaultSchema()

	first := importing.AutoMap(headers, schema)
	second := importing.AutoMap(headers, schema)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("auto-map is not deterministic: %v vs %v", first, second)
	}
	if first["Nama Lengkap"] != domain.FieldNama {
		t.Fatalf("expected nama, got %q", first["Nama Lengkap"])
	}
	if first["Tempat Tugas"] != domain.FieldTempatTugas {
		t.Fatalf("expected tempat_tugas, got %q", first["Tempat Tugas"])
	}
	if _, ok := first["Kolom Misterius"]; ok {
		t.Fatal("unmatched header should stay unmapped")
	}
}

func TestAutoMapEnglishHeaders(t *testing.T) {
	t.Parallel()

	mapping := importing.AutoMap([]string{"Name", "RegNo", "Workplace", "Province"}, domain.DefaultSchema())

	want := importing.ColumnMapping{
		"Name":      domain.FieldNama,
		"RegNo":     domain.FieldNPA,
		"Workplace": domain.FieldTempatTugas,
		"Province":  domain.FieldProvinsiKantor,
	}
	if !reflect.DeepEqual(mapping, want) {
		t.Fatalf("unexpected mapping: %v", mapping)
	}
}

func TestAutoMapCanonicalLabels(t *testing.T) {
	t.Parallel()

	// A sheet whose headers are the schema's own labels must map every
	// column to its own field.
	schema := domain.DefaultSchema()
	headers := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		headers[i] = f.Label
	}

	mapping := importing.AutoMap(headers, schema)
	for _, f := range schema.Fields {
		if got := mapping[f.Label]; got != f.Key {
			t.Fatalf("label %q mapped to %q, want %q", f.Label, got, f.Key)
		}
	}
}

func TestValidateMappingAlternativeWorkplace(t *testing.T) {
	t.Parallel()

	// Primary workplace unmapped, alternative mapped: the group is satisfied.
	mapping := importing.ColumnMapping{
		"Nama":     domain.FieldNama,
		"Instansi": domain.FieldInstansi,
		"Provinsi": domain.FieldProvinsiKantor,
	}

	v := importing.ValidateMapping(mapping, domain.DefaultSchema())
	if !v.OK {
		t.Fatalf("expected valid mapping, missing %v", v.MissingFields)
	}
}

func TestValidateMappingMissingWorkplaceGroup(t *testing.T) {
	t.Parallel()

	mapping := importing.ColumnMapping{
		"Nama":     domain.FieldNama,
		"Provinsi": domain.FieldProvinsiKantor,
	}

	v := importing.ValidateMapping(mapping, domain.DefaultSchema())
	if v.OK {
		t.Fatal("expected incomplete mapping")
	}
	if len(v.MissingFields) == 0 {
		t.Fatal("expected missing fields")
	}
}

func TestCheckMappingRejectsUnknownHeaderAndField(t *testing.T) {
	t.Parallel()

	headers := []string{"Nama"}
	schema := domain.DefaultSchema()

	if err := importing.CheckMapping(importing.ColumnMapping{"Ghost": domain.FieldNama}, headers, schema); err == nil {
		t.Fatal("expected error for header missing from sheet")
	}
	if err := importing.CheckMapping(importing.ColumnMapping{"Nama": domain.FieldKey("bogus")}, headers, schema); err == nil {
		t.Fatal("expected error for unknown field key")
	}
}
