package importing

import (
	"fmt"
	"strings"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

// ColumnMapping assigns raw spreadsheet headers to canonical field keys.
// A header maps to at most one field; several headers may map to the same
// field, in which case the leftmost column wins at normalization time.
type ColumnMapping map[string]domain.FieldKey

// AutoMap derives a mapping from the headers alone. It is pure: the same
// headers and schema always yield the same mapping. For each header the
// schema fields are scanned in declared order, each field's aliases in
// declared order, and the first alias contained in the normalized header
// wins. Headers with no match stay unmapped.
func AutoMap(headers []string, schema domain.Schema) ColumnMapping {
	mapping := make(ColumnMapping)
	for _, header := range headers {
		norm := domain.NormalizeHeader(header)
		if norm == "" {
			continue
		}
		if key, ok := matchField(norm, schema); ok {
			mapping[header] = key
		}
	}
	return mapping
}

func matchField(norm string, schema domain.Schema) (domain.FieldKey, bool) {
	for _, field := range schema.Fields {
		for _, alias := range field.Aliases {
			if strings.Contains(norm, alias) {
				return field.Key, true
			}
		}
	}
	return "", false
}

// MappingValidation reports whether a mapping covers the required field set.
type MappingValidation struct {
	OK            bool
	MissingFields []domain.FieldKey
}

// CheckMapping verifies structural soundness: every mapped header must exist
// in the sheet and every field key must exist in the schema.
func CheckMapping(mapping ColumnMapping, headers []string, schema domain.Schema) error {
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	for header, key := range mapping {
		if !known[header] {
			return fmt.Errorf("mapped header %q not present in sheet", header)
		}
		if _, ok := schema.FieldByKey(key); !ok {
			return fmt.Errorf("unknown canonical field %q", key)
		}
	}
	return nil
}

// ValidateMapping applies the required-field rule: every atomic required
// field must be mapped, and each alternative group needs at least one of its
// fields mapped.
func ValidateMapping(mapping ColumnMapping, schema domain.Schema) MappingValidation {
	mapped := make(map[domain.FieldKey]bool, len(mapping))
	for _, key := range mapping {
		mapped[key] = true
	}

	var missing []domain.FieldKey
	for _, field := range schema.Fields {
		if field.Required && !mapped[field.Key] {
			missing = append(missing, field.Key)
		}
	}
	for _, keys := range schema.RequiredGroups() {
		satisfied := false
		for _, key := range keys {
			if mapped[key] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, keys...)
		}
	}

	return MappingValidation{OK: len(missing) == 0, MissingFields: missing}
}
