package importing

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
}

// boundColumn ties a sheet column index to its canonical field. When two
// headers map to the same field the leftmost column wins.
type boundColumn struct {
	index int
	field domain.Field
}

func bindColumns(headers []string, mapping ColumnMapping, schema domain.Schema) []boundColumn {
	seen := make(map[domain.FieldKey]bool, len(mapping))
	cols := make([]boundColumn, 0, len(mapping))
	for i, header := range headers {
		key, ok := mapping[header]
		if !ok || seen[key] {
			continue
		}
		field, ok := schema.FieldByKey(key)
		if !ok {
			continue
		}
		seen[key] = true
		cols = append(cols, boundColumn{index: i, field: field})
	}
	return cols
}

// normalizeRow coerces one raw row into a sparse typed record. Coercion is
// lenient: unparseable dates, numbers, gender codes and malformed emails are
// dropped from the record rather than failing the row. Only the
// required-field rule produces an error.
func normalizeRow(row []string, cols []boundColumn, schema domain.Schema, rowIndex int) (domain.Record, *domain.ImportError) {
	rec := domain.NewRecord(rowIndex)

	for _, col := range cols {
		if col.index >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[col.index])
		if raw == "" {
			continue
		}
		switch col.field.Type {
		case domain.FieldDate:
			if t, ok := parseDate(raw); ok {
				rec.Fields[col.field.Key] = t
			}
		case domain.FieldNumber:
			if n, err := strconv.Atoi(raw); err == nil {
				rec.Fields[col.field.Key] = n
			}
		case domain.FieldEnum:
			if v, ok := col.field.EnumValues[strings.ToLower(raw)]; ok {
				rec.Fields[col.field.Key] = v
			}
		case domain.FieldGender:
			if code, ok := parseGender(raw); ok {
				rec.Fields[col.field.Key] = code
			}
		case domain.FieldEmailT:
			if _, err := mail.ParseAddress(raw); err == nil {
				rec.Fields[col.field.Key] = raw
			}
		default:
			rec.Fields[col.field.Key] = raw
		}
	}

	// Status always ends up with a value, even when its column is unmapped.
	for _, field := range schema.Fields {
		if field.Type == domain.FieldEnum && !rec.Has(field.Key) && field.EnumDefault != "" {
			rec.Fields[field.Key] = field.EnumDefault
		}
	}

	if missing := missingRequired(rec, schema); len(missing) > 0 {
		return rec, &domain.ImportError{
			RowIndex: rowIndex,
			Reason:   domain.ReasonFieldRequired,
			Details:  fmt.Sprintf("kolom wajib kosong: %s", joinKeys(missing)),
			Snapshot: rec,
		}
	}
	return rec, nil
}

func missingRequired(rec domain.Record, schema domain.Schema) []domain.FieldKey {
	var missing []domain.FieldKey
	for _, field := range schema.Fields {
		if field.Required && rec.Text(field.Key) == "" {
			missing = append(missing, field.Key)
		}
	}
	for _, keys := range schema.RequiredGroups() {
		satisfied := false
		for _, key := range keys {
			if rec.Has(key) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, keys...)
		}
	}
	return missing
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseGender(raw string) (string, bool) {
	switch strings.ToLower(raw) {
	case "l", "laki", "laki-laki", "pria", "m", "male":
		return "L", true
	case "p", "perempuan", "wanita", "f", "female":
		return "P", true
	}
	return "", false
}

func joinKeys(keys []domain.FieldKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
