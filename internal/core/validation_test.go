package core

import (
	"errors"
	"testing"
)

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		wantIdx int
		wantErr error
	}{
		{
			name: "header on first row",
			rows: [][]string{
				{"Código", "Modelo", "Quantidade"},
				{"AB-1", "Parafuso", "5"},
			},
			wantIdx: 0,
		},
		{
			name: "header after title rows",
			rows: [][]string{
				{"Relatório de Estoque"},
				{"Gerado em 01/08/2026"},
				{},
				{"Código", "Modelo", "Quantidade"},
				{"AB-1", "Parafuso", "5"},
			},
			wantIdx: 3,
		},
		{
			name: "model column alone is enough",
			rows: [][]string{
				{"Descricao", "Local"},
				{"Parafuso", "P3"},
			},
			wantIdx: 0,
		},
		{
			name:    "empty sheet",
			rows:    [][]string{},
			wantErr: ErrEmptyFile,
		},
		{
			name:    "only blank rows",
			rows:    [][]string{{"", "", ""}, {"  ", "", ""}},
			wantErr: ErrEmptyFile,
		},
		{
			name: "no recognizable header",
			rows: [][]string{
				{"Preço", "Fornecedor"},
				{"1,50", "ACME"},
			},
			wantErr: ErrNoHeader,
		},
		{
			name: "header too deep is not found",
			rows: [][]string{
				{"a"}, {"b"}, {"c"}, {"d"}, {"e"},
				{"f"}, {"g"}, {"h"}, {"i"}, {"j"},
				{"Código", "Modelo"},
			},
			wantErr: ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, cols, err := findHeaderRow(tt.rows)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("findHeaderRow() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("findHeaderRow() unexpected error: %v", err)
			}
			if idx != tt.wantIdx {
				t.Errorf("header index = %d, want %d", idx, tt.wantIdx)
			}
			if !cols.Has(FieldCode) && !cols.Has(FieldModel) {
				t.Error("header row bound neither code nor model")
			}
		})
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name    string
		usable  int
		skipped int
		wantErr error
	}{
		{name: "usable rows pass", usable: 10, skipped: 3},
		{name: "one usable row passes", usable: 1},
		{name: "only skipped rows", skipped: 5, wantErr: ErrNoUsableRows},
		{name: "nothing at all", wantErr: ErrSheetTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecords(tt.usable, tt.skipped)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateRecords(%d, %d) = %v, want %v", tt.usable, tt.skipped, err, tt.wantErr)
			}
		})
	}
}

func TestIsEmptyRow(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want bool
	}{
		{name: "nil row", row: nil, want: true},
		{name: "blank cells", row: []string{"", "  ", "\t"}, want: true},
		{name: "formula wrapping empty", row: []string{`=""`, ""}, want: true},
		{name: "one real value", row: []string{"", "AB-1"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmptyRow(tt.row); got != tt.want {
				t.Errorf("isEmptyRow(%v) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}
