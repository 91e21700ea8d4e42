package core

import "testing"

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   map[Field]int // field -> first bound column index
		absent []Field
	}{
		{
			name:   "canonical portuguese headers",
			header: []string{"Código", "Modelo", "Local", "Quantidade"},
			want: map[Field]int{
				FieldCode:     0,
				FieldModel:    1,
				FieldLocation: 2,
				FieldQuantity: 3,
			},
		},
		{
			name:   "unaccented lowercase headers",
			header: []string{"codigo", "modelo", "local", "qtde"},
			want: map[Field]int{
				FieldCode:     0,
				FieldModel:    1,
				FieldLocation: 2,
				FieldQuantity: 3,
			},
		},
		{
			name:   "alternate aliases bind",
			header: []string{"Produto", "Descricao"},
			want: map[Field]int{
				FieldCode:  0,
				FieldModel: 1,
			},
			absent: []Field{FieldLocation, FieldQuantity},
		},
		{
			name:   "shuffled column order",
			header: []string{"Quantidade", "Local", "Código"},
			want: map[Field]int{
				FieldCode:     2,
				FieldLocation: 1,
				FieldQuantity: 0,
			},
			absent: []Field{FieldModel},
		},
		{
			name:   "unknown headers bind nothing",
			header: []string{"Preço", "Fornecedor"},
			absent: []Field{FieldCode, FieldModel, FieldLocation, FieldQuantity},
		},
		{
			name:   "headers with padding and casing",
			header: []string{"  CÓDIGO  ", "MODELO"},
			want: map[Field]int{
				FieldCode:  0,
				FieldModel: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := ResolveColumns(tt.header)

			for field, wantIdx := range tt.want {
				refs := cols[field]
				if len(refs) == 0 {
					t.Errorf("field %s not bound, want column %d", field, wantIdx)
					continue
				}
				if refs[0].Index != wantIdx {
					t.Errorf("field %s bound to column %d, want %d", field, refs[0].Index, wantIdx)
				}
			}
			for _, field := range tt.absent {
				if cols.Has(field) {
					t.Errorf("field %s bound to %v, want unbound", field, cols[field])
				}
			}
		})
	}
}

func TestResolveColumnsAliasPriority(t *testing.T) {
	// Código and Produto both alias the code field; the primary alias wins
	// regardless of column order.
	cols := ResolveColumns([]string{"Produto", "Código"})

	refs := cols[FieldCode]
	if len(refs) != 2 {
		t.Fatalf("code bound to %d columns, want 2", len(refs))
	}
	if refs[0].Index != 1 {
		t.Errorf("primary binding = column %d, want 1 (Código before Produto)", refs[0].Index)
	}
	if refs[1].Index != 0 {
		t.Errorf("fallback binding = column %d, want 0", refs[1].Index)
	}
}

func TestColumnMapValue(t *testing.T) {
	cols := ResolveColumns([]string{"Código", "Produto", "Quantidade"})

	tests := []struct {
		name  string
		row   []string
		field Field
		want  string
	}{
		{
			name:  "primary column wins",
			row:   []string{"A-1", "B-2", "5"},
			field: FieldCode,
			want:  "A-1",
		},
		{
			name:  "falls through empty primary to alias column",
			row:   []string{"", "B-2", "5"},
			field: FieldCode,
			want:  "B-2",
		},
		{
			name:  "all bound columns empty yields default",
			row:   []string{"", "", ""},
			field: FieldQuantity,
			want:  "0",
		},
		{
			name:  "short row falls back to default",
			row:   []string{"A-1"},
			field: FieldQuantity,
			want:  "0",
		},
		{
			name:  "unbound field yields empty default",
			row:   []string{"A-1", "B-2", "5"},
			field: FieldLocation,
			want:  "",
		},
		{
			name:  "cell cleanup applies before fallback",
			row:   []string{`=""`, "B-2", "5"},
			field: FieldCode,
			want:  "B-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cols.Value(tt.row, tt.field); got != tt.want {
				t.Errorf("Value(%v, %s) = %q, want %q", tt.row, tt.field, got, tt.want)
			}
		})
	}
}
