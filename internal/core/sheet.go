package core

// sheet.go reads uploaded spreadsheets into raw rows. Two container formats
// are accepted: xlsx (detected by the zip magic) and delimited text. The ERP
// this tool sits next to exports semicolon-separated CSV in its Brazilian
// locale, so the delimiter is sniffed per file instead of assumed.

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetFormat identifies the detected container of an upload.
type SheetFormat string

const (
	FormatCSV  SheetFormat = "csv"
	FormatXLSX SheetFormat = "xlsx"
)

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// ReadRows extracts all rows from an uploaded sheet. xlsx files are read
// from their first worksheet; anything else is parsed as delimited text
// after encoding detection.
func ReadRows(r io.Reader) ([][]string, SheetFormat, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zipMagic))
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}

	if bytes.Equal(head, zipMagic) {
		rows, err := readXLSXRows(br)
		return rows, FormatXLSX, err
	}
	rows, err := readCSVRows(NewDecodingReader(br))
	return rows, FormatCSV, err
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	sample, _ := br.Peek(encodingSniffLen)

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(sample)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// sniffDelimiter counts candidate separators on the first line, outside
// quoted regions. Comma wins ties since it is the csv default.
func sniffDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}

	var commas, semis, tabs int
	inQuotes := false
	for _, b := range line {
		switch b {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semis++
			}
		case '\t':
			if !inQuotes {
				tabs++
			}
		}
	}

	switch {
	case semis > commas && semis >= tabs:
		return ';'
	case tabs > commas && tabs > semis:
		return '\t'
	default:
		return ','
	}
}
