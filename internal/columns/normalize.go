// Package columns canonicalizes export headers and maps them to logical fields.
package columns

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/Veraticus/ageing-report/internal/common"
	"github.com/Veraticus/ageing-report/internal/model"
)

const separator = '_'

// Normalize canonicalizes a raw header: whitespace and periods become a single
// underscore, repeated underscores collapse and leading/trailing ones are trimmed.
// Case is preserved.
func Normalize(header string) string {
	var b strings.Builder
	b.Grow(len(header))

	lastSep := false
	for _, r := range header {
		if unicode.IsSpace(r) || r == '.' || r == separator {
			if !lastSep {
				b.WriteRune(separator)
				lastSep = true
			}
			continue
		}
		b.WriteRune(r)
		lastSep = false
	}

	return strings.Trim(b.String(), string(separator))
}

// NormalizeAll normalizes every header, keeping order.
func NormalizeAll(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Normalize(h)
	}
	return out
}

// fieldSpec describes the accepted spellings of a logical field. The first
// spelling is the preferred one.
type fieldSpec struct {
	field     model.Field
	spellings []string
	required  bool
}

var fieldSpecs = []fieldSpec{
	{field: model.FieldCompany, spellings: []string{"Company", "Comapany"}, required: true},
	{field: model.FieldAccount, spellings: []string{"Account"}, required: true},
	{field: model.FieldDocumentDate, spellings: []string{"Document_Date"}, required: true},
	{field: model.FieldDocumentType, spellings: []string{"Document_Type"}},
	{field: model.FieldText, spellings: []string{"Text"}},
	{field: model.FieldDocumentCurrency, spellings: []string{"Document_currency"}, required: true},
	{field: model.FieldAmountDoc, spellings: []string{"Amount_in_doc_curr"}, required: true},
	{field: model.FieldLocalCurrency, spellings: []string{"Local_Currency"}, required: true},
	{field: model.FieldAmountLocal, spellings: []string{"Amount_in_local_currency"}, required: true},
}

// Fields returns the logical fields in column order.
func Fields() []model.Field {
	fields := make([]model.Field, len(fieldSpecs))
	for i, s := range fieldSpecs {
		fields[i] = s.field
	}
	return fields
}

// Spellings returns the accepted canonical spellings of a field.
func Spellings(field model.Field) []string {
	for _, s := range fieldSpecs {
		if s.field == field {
			return append([]string(nil), s.spellings...)
		}
	}
	return nil
}

// Mapping locates logical fields in a header row.
type Mapping struct {
	index      map[model.Field]int
	Normalized []string
}

// Index returns the column of field, or -1 when the field is absent.
func (m Mapping) Index(field model.Field) int {
	if i, ok := m.index[field]; ok {
		return i
	}
	return -1
}

// Has reports whether the field was found.
func (m Mapping) Has(field model.Field) bool {
	_, ok := m.index[field]
	return ok
}

// MissingColumnsError lists required fields that no header provides.
type MissingColumnsError struct {
	Missing []model.Field
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, f := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s (accepted: %s)", f, strings.Join(Spellings(f), ", ")))
	}
	return fmt.Sprintf("%s: %s; found columns: %s",
		common.ErrMissingColumn, strings.Join(parts, "; "), strings.Join(e.Headers, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return common.ErrMissingColumn
}

// Resolve normalizes headers and maps them to logical fields. Matching is
// case-insensitive on the normalized form. Either company spelling is
// accepted; when both are present the correct one wins.
func Resolve(headers []string) (Mapping, error) {
	normalized := NormalizeAll(headers)

	positions := make(map[string]int, len(normalized))
	for i, h := range normalized {
		key := strings.ToLower(h)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	m := Mapping{
		index:      make(map[model.Field]int, len(fieldSpecs)),
		Normalized: normalized,
	}

	var missing []model.Field
	for _, s := range fieldSpecs {
		found := -1
		var matched []string
		for _, spelling := range s.spellings {
			if i, ok := positions[strings.ToLower(spelling)]; ok {
				if found < 0 {
					found = i
				}
				matched = append(matched, normalized[i])
			}
		}

		if len(matched) > 1 {
			slog.Warn("Several spellings of one field present, using the first",
				"field", s.field,
				"columns", matched,
				"using", normalized[found])
		}

		switch {
		case found >= 0:
			m.index[s.field] = found
		case s.required:
			missing = append(missing, s.field)
		}
	}

	if len(missing) > 0 {
		return m, &MissingColumnsError{Missing: missing, Headers: normalized}
	}

	return m, nil
}
