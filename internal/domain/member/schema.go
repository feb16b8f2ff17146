package member

import "strings"

// FieldKey identifies a canonical member field. Keys are validated against
// the active Schema whenever a mapping is set; free-form keys are rejected.
type FieldKey string

const (
	FieldNama           FieldKey = "nama"
	FieldNPA            FieldKey = "npa"
	FieldEmail          FieldKey = "email"
	FieldJenisKelamin   FieldKey = "jenis_kelamin"
	FieldTanggalLahir   FieldKey = "tanggal_lahir"
	FieldTempatTugas    FieldKey = "tempat_tugas"
	FieldInstansi       FieldKey = "instansi"
	FieldProvinsiKantor FieldKey = "provinsi_kantor"
	FieldKotaKantor     FieldKey = "kota_kantor"
	FieldCabang         FieldKey = "cabang"
	FieldStatus         FieldKey = "status"
	FieldTahunBergabung FieldKey = "tahun_bergabung"
	FieldNoHP           FieldKey = "no_hp"
)

type FieldType string

const (
	FieldText   FieldType = "text"
	FieldDate   FieldType = "date"
	FieldNumber FieldType = "number"
	FieldEmailT FieldType = "email"
	FieldEnum   FieldType = "enum"
	FieldGender FieldType = "gender"
)

// Field describes one canonical column of the member sheet.
//
// Aliases drive header auto-mapping: the first alias that is a substring of
// the normalized header wins, in declared order. Group names one alternative
// required group; a row satisfies the group when at least one of its fields
// is present.
type Field struct {
	Key      FieldKey
	Label    string
	Type     FieldType
	Required bool
	Group    string
	Aliases  []string

	// Enum fields only: free-text token -> canonical value, plus the value
	// applied when the cell is empty or unrecognized.
	EnumValues  map[string]string
	EnumDefault string
}

// Schema is the canonical field table the mapper and normalizer operate on.
// It is supplied per deployment; DefaultSchema covers the standard member
// directory layout.
type Schema struct {
	Fields []Field
}

func (s Schema) FieldByKey(key FieldKey) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredGroups returns the alternative groups in declared order, each with
// its member keys.
func (s Schema) RequiredGroups() map[string][]FieldKey {
	groups := make(map[string][]FieldKey)
	for _, f := range s.Fields {
		if f.Group != "" {
			groups[f.Group] = append(groups[f.Group], f.Key)
		}
	}
	return groups
}

const GroupWorkplace = "workplace"

func DefaultSchema() Schema {
	return Schema{Fields: []Field{
		{Key: FieldNama, Label: "Nama Lengkap", Type: FieldText, Required: true,
			Aliases: []string{"nama", "name"}},
		{Key: FieldNPA, Label: "NPA", Type: FieldText,
			Aliases: []string{"npa", "nomorpokok", "noanggota", "regno", "registrasi"}},
		{Key: FieldTempatTugas, Label: "Tempat Tugas", Type: FieldText, Group: GroupWorkplace,
			Aliases: []string{"tempattugas", "workplace", "unitkerja"}},
		// "kantor" is deliberately not an alias here: it is a substring of the
		// normalized provinsi_kantor and kota_kantor labels.
		{Key: FieldInstansi, Label: "Instansi", Type: FieldText, Group: GroupWorkplace,
			Aliases: []string{"instansi", "institution", "lembaga"}},
		{Key: FieldProvinsiKantor, Label: "Provinsi Kantor", Type: FieldText, Required: true,
			Aliases: []string{"provinsi", "province"}},
		{Key: FieldKotaKantor, Label: "Kota Kantor", Type: FieldText,
			Aliases: []string{"kota", "kabupaten", "city"}},
		{Key: FieldCabang, Label: "Cabang", Type: FieldText,
			Aliases: []string{"cabang", "branch"}},
		{Key: FieldEmail, Label: "Email", Type: FieldEmailT,
			Aliases: []string{"email", "surel"}},
		{Key: FieldJenisKelamin, Label: "Jenis Kelamin", Type: FieldGender,
			Aliases: []string{"jeniskelamin", "kelamin", "gender"}},
		{Key: FieldTanggalLahir, Label: "Tanggal Lahir", Type: FieldDate,
			Aliases: []string{"tanggallahir", "tgllahir", "birthdate"}},
		{Key: FieldStatus, Label: "Status Keanggotaan", Type: FieldEnum,
			Aliases: []string{"status"},
			EnumValues: map[string]string{
				"aktif": "aktif", "active": "aktif",
				"nonaktif": "nonaktif", "non-aktif": "nonaktif", "inactive": "nonaktif",
				"pensiun": "pensiun", "retired": "pensiun",
			},
			EnumDefault: "aktif"},
		{Key: FieldTahunBergabung, Label: "Tahun Bergabung", Type: FieldNumber,
			Aliases: []string{"tahunbergabung", "tahunmasuk", "joinyear"}},
		{Key: FieldNoHP, Label: "No. HP", Type: FieldText,
			Aliases: []string{"nohp", "hp", "telepon", "phone", "wa"}},
	}}
}

// NormalizeHeader lowercases a raw header and strips everything that is not
// a letter or digit, so "Tempat Tugas " and "tempat_tugas" compare equal.
func NormalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold produces the comparison form of a name: lowercased with runs of
// whitespace collapsed to single spaces. Used for branch lookup and the
// composite identity key.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CompositeKey builds the fallback identity key for members without an NPA.
func CompositeKey(nama, workplace string) string {
	return Fold(nama) + "|" + Fold(workplace)
}
