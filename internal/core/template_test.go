package core

import (
	"bytes"
	"reflect"
	"testing"
)

func TestTemplateHeaders(t *testing.T) {
	want := []string{"Código", "Modelo", "Local", "Quantidade"}
	if got := TemplateHeaders(); !reflect.DeepEqual(got, want) {
		t.Errorf("TemplateHeaders() = %v, want %v", got, want)
	}
}

// The generated templates must survive their own importer unchanged.
func TestTemplateCSVRoundTrip(t *testing.T) {
	rows, format, err := ReadRows(bytes.NewReader(TemplateCSV()))
	if err != nil {
		t.Fatalf("ReadRows error: %v", err)
	}
	if format != FormatCSV {
		t.Errorf("format = %s, want %s", format, FormatCSV)
	}

	headerIdx, cols, err := findHeaderRow(rows)
	if err != nil {
		t.Fatalf("findHeaderRow error: %v", err)
	}
	if headerIdx != 0 {
		t.Errorf("headerIdx = %d, want 0", headerIdx)
	}
	for _, field := range []Field{FieldCode, FieldModel, FieldLocation, FieldQuantity} {
		if !cols.Has(field) {
			t.Errorf("template header does not bind %s", field)
		}
	}
	if got := len(rows) - 1; got != len(templateSampleRows) {
		t.Errorf("template has %d data rows, want %d", got, len(templateSampleRows))
	}
}

func TestTemplateXLSXRoundTrip(t *testing.T) {
	data, err := TemplateXLSX()
	if err != nil {
		t.Fatalf("TemplateXLSX error: %v", err)
	}

	rows, format, err := ReadRows(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadRows error: %v", err)
	}
	if format != FormatXLSX {
		t.Errorf("format = %s, want %s", format, FormatXLSX)
	}

	_, cols, err := findHeaderRow(rows)
	if err != nil {
		t.Fatalf("findHeaderRow error: %v", err)
	}
	for _, field := range []Field{FieldCode, FieldModel, FieldLocation, FieldQuantity} {
		if !cols.Has(field) {
			t.Errorf("template header does not bind %s", field)
		}
	}
}

func TestTemplateUploads(t *testing.T) {
	s := newTestService(t)

	res := uploadAndWait(t, s, "modelo.csv", TemplateCSV())
	if res.Error != "" {
		t.Fatalf("template upload failed: %s", res.Error)
	}

	summary := s.DatasetSummary()
	if summary.Records != len(templateSampleRows) {
		t.Errorf("Records = %d, want %d", summary.Records, len(templateSampleRows))
	}
	if summary.LowStock != 1 {
		t.Errorf("LowStock = %d, want 1 for the zero-quantity sample", summary.LowStock)
	}

	state := s.Submit("AB-123", SourceTyped)
	if state.Result == nil {
		t.Fatalf("sample code not found after template upload, error: %+v", state.Error)
	}
}
