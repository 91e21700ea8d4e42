package core

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one normalized inventory row. Field values are already cleaned;
// Code is stored as uploaded and matched through NormalizeKey.
type Record struct {
	Code     string   `json:"code"`
	Model    string   `json:"model"`
	Location string   `json:"location"`
	Quantity Quantity `json:"quantity"`
	Row      int      `json:"-"` // 1-based row in the source sheet
}

// Empty reports whether the row carries no identifying data at all.
func (r Record) Empty() bool {
	return r.Code == "" && r.Model == ""
}

// NormalizeRecord maps one data row through the resolved columns. Missing or
// blank cells fall back to the field defaults, so a sheet without a quantity
// column still yields records with quantity "0".
func NormalizeRecord(row []string, cols ColumnMap, rowNum int) Record {
	return Record{
		Code:     cols.Value(row, FieldCode),
		Model:    cols.Value(row, FieldModel),
		Location: cols.Value(row, FieldLocation),
		Quantity: ParseQuantity(cols.Value(row, FieldQuantity)),
		Row:      rowNum,
	}
}

// ============================================================================
// QUANTITY
// ============================================================================

// Quantity holds a stock count as uploaded plus its parsed value. ERP exports
// mix plain integers with formatted numbers ("1.234,56", "R$ 10") and the
// occasional free-text remark; Raw is preserved so nothing is lost when
// parsing fails.
type Quantity struct {
	Raw   string
	Value decimal.Decimal
	Valid bool
}

// ParseQuantity parses a quantity cell. It strips currency symbols, handles
// accounting negatives ("(12)"), and resolves both Brazilian ("1.234,56")
// and US ("1,234.56") separator conventions.
func ParseQuantity(s string) Quantity {
	raw := strings.TrimSpace(s)
	q := Quantity{Raw: raw}
	if raw == "" {
		return q
	}

	n := raw

	// Detect negative accounting format "(123,45)"
	isNegative := false
	if strings.HasPrefix(n, "(") && strings.HasSuffix(n, ")") {
		isNegative = true
		n = strings.TrimSpace(n[1 : len(n)-1])
	}

	// Remove currency symbols and spacing
	n = strings.ReplaceAll(n, "R$", "")
	n = strings.ReplaceAll(n, "$", "")
	n = strings.ReplaceAll(n, "€", "") // Euro
	n = strings.ReplaceAll(n, "£", "") // Pound
	n = strings.ReplaceAll(n, "\u00a0", " ") // nbsp from formatted cells
	n = strings.ReplaceAll(n, " ", "")

	n = resolveSeparators(n)
	if isNegative {
		n = "-" + n
	}

	d, err := decimal.NewFromString(n)
	if err != nil {
		return q
	}
	q.Value = d
	q.Valid = true
	return q
}

var (
	dotGroupedRegex   = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+$`)
	commaGroupedRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+$`)
)

// resolveSeparators rewrites a numeric string to use '.' as the decimal
// separator. When both separators appear the rightmost one is decimal. A
// lone separator in strict 3-digit grouping ("1.234", "12,345,678") is
// treated as a thousands separator.
func resolveSeparators(n string) string {
	dot := strings.LastIndexByte(n, '.')
	comma := strings.LastIndexByte(n, ',')

	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			n = strings.ReplaceAll(n, ".", "")
			n = strings.Replace(n, ",", ".", 1)
		} else {
			n = strings.ReplaceAll(n, ",", "")
		}
	case comma >= 0:
		if commaGroupedRegex.MatchString(n) {
			n = strings.ReplaceAll(n, ",", "")
		} else {
			n = strings.Replace(n, ",", ".", 1)
		}
	case dot >= 0:
		if dotGroupedRegex.MatchString(n) {
			n = strings.ReplaceAll(n, ".", "")
		}
	}
	return n
}

// Low reports whether the quantity flags the record as out of or low on
// stock: a parsed value of zero or below. Unparseable quantities never flag.
func (q Quantity) Low() bool {
	return q.Valid && q.Value.Sign() <= 0
}

// Display returns the parsed value when available, the raw cell otherwise.
func (q Quantity) Display() string {
	if q.Valid {
		return q.Value.String()
	}
	return q.Raw
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Display())
}

// ============================================================================
// DATASET
// ============================================================================

// Dataset is one fully parsed upload. Datasets are immutable after build;
// a new upload replaces the whole value rather than mutating it.
type Dataset struct {
	Records    []Record
	FileName   string
	Format     SheetFormat
	LoadedAt   time.Time
	Seq        uint64 // upload sequence that produced this dataset
	Duplicates int    // rows shadowed by an earlier row with the same key
}

// DatasetSummary is the API-facing description of the live dataset.
type DatasetSummary struct {
	Loaded     bool        `json:"loaded"`
	FileName   string      `json:"fileName,omitempty"`
	Format     SheetFormat `json:"format,omitempty"`
	Records    int         `json:"records"`
	LowStock   int         `json:"lowStock"`
	Duplicates int         `json:"duplicates,omitempty"`
	LoadedAt   time.Time   `json:"loadedAt,omitzero"`
}

// Summary derives the dataset counters. A nil dataset summarizes as empty.
func (d *Dataset) Summary() DatasetSummary {
	if d == nil {
		return DatasetSummary{}
	}
	low := 0
	for _, r := range d.Records {
		if r.Quantity.Low() {
			low++
		}
	}
	return DatasetSummary{
		Loaded:     true,
		FileName:   d.FileName,
		Format:     d.Format,
		Records:    len(d.Records),
		LowStock:   low,
		Duplicates: d.Duplicates,
		LoadedAt:   d.LoadedAt,
	}
}
