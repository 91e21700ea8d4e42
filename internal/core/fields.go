package core

// Field identifies one of the normalized record fields.
type Field string

const (
	FieldCode     Field = "code"
	FieldModel    Field = "model"
	FieldLocation Field = "location"
	FieldQuantity Field = "quantity"
)

// FieldSpec defines how a record field is sourced from spreadsheet columns.
// Aliases are listed in priority order; matching is done on normalized header
// text, so "Código", "codigo" and "CÓDIGO " all bind the same column. Header
// is the display spelling used when generating template sheets.
type FieldSpec struct {
	Field   Field
	Header  string
	Aliases []string
	Default string
}

// recordFields is the column contract for uploaded inventory sheets. The
// sheets come out of a Portuguese-language ERP, hence the alias spellings.
var recordFields = []FieldSpec{
	{Field: FieldCode, Header: "Código", Aliases: []string{"codigo", "produto"}},
	{Field: FieldModel, Header: "Modelo", Aliases: []string{"modelo", "descricao"}},
	{Field: FieldLocation, Header: "Local", Aliases: []string{"local"}},
	{Field: FieldQuantity, Header: "Quantidade", Aliases: []string{"quantidade", "qtde"}, Default: "0"},
}

// RecordFields returns the field specs in declaration order.
func RecordFields() []FieldSpec {
	specs := make([]FieldSpec, len(recordFields))
	copy(specs, recordFields)
	return specs
}

// fieldSpec returns the spec for a field. Panics on unknown fields since the
// field set is fixed at compile time.
func fieldSpec(f Field) FieldSpec {
	for _, spec := range recordFields {
		if spec.Field == f {
			return spec
		}
	}
	panic("core: unknown field " + string(f))
}

// ColumnRef points at one spreadsheet column bound to a field.
type ColumnRef struct {
	Index  int    // position in the header row
	Header string // original header text, for diagnostics
}

// ColumnMap holds, per field, the bound columns in priority order: alias
// order first, then column order for repeated headers.
type ColumnMap map[Field][]ColumnRef

// ResolveColumns matches a header row against the field aliases.
func ResolveColumns(header []string) ColumnMap {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = NormalizeKey(CleanCell(h))
	}

	m := make(ColumnMap, len(recordFields))
	for _, spec := range recordFields {
		for _, alias := range spec.Aliases {
			for i, h := range normalized {
				if h == alias {
					m[spec.Field] = append(m[spec.Field], ColumnRef{Index: i, Header: header[i]})
				}
			}
		}
	}
	return m
}

// Has reports whether at least one column is bound to the field.
func (m ColumnMap) Has(f Field) bool {
	return len(m[f]) > 0
}

// Value extracts the field value from a data row: the first bound column
// with a non-empty cleaned cell wins, otherwise the field default applies.
func (m ColumnMap) Value(row []string, f Field) string {
	for _, ref := range m[f] {
		if ref.Index >= len(row) {
			continue
		}
		if v := CleanCell(row[ref.Index]); v != "" {
			return v
		}
	}
	return fieldSpec(f).Default
}
