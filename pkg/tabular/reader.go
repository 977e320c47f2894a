// Package tabular turns uploaded spreadsheets into header-keyed rows.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// ErrEmpty is returned when the input holds no header row.
var ErrEmpty = errors.New("tabular input is empty")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one non-empty data row. Line is the 1-based source line of the row.
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed value of the first present column among names.
func (r Row) Get(names ...string) string {
	for _, name := range names {
		if v, ok := r.Values[name]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Table is a parsed dataset with its header row.
type Table struct {
	Header []string
	Rows   []Row
}

// Column returns the first of names present in the header, in the order names are given.
func (t *Table) Column(names ...string) (string, bool) {
	for _, name := range names {
		for _, h := range t.Header {
			if h == name {
				return h, true
			}
		}
	}
	return "", false
}

// Read parses r according to the filename extension. .xlsx files read the first sheet,
// everything else is treated as delimited UTF-8 text.
func Read(r io.Reader, filename string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return ReadXLSX(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ParseDelimited(data)
}

// ParseDelimited parses comma separated text, falling back to tab when the comma
// header yields a single column.
func ParseDelimited(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		data = []byte(strings.ToValidUTF8(string(data), ""))
	}

	table, err := parseWith(data, ',')
	if err != nil {
		return nil, err
	}
	if len(table.Header) <= 1 {
		tabbed, tabErr := parseWith(data, '\t')
		if tabErr == nil && len(tabbed.Header) > 1 {
			return tabbed, nil
		}
	}
	return table, nil
}

func parseWith(data []byte, delim rune) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	table := &Table{Header: normalizeHeader(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}
		if isEmptyRow(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, Row{Line: line, Values: zip(table.Header, record)})
	}
	return table, nil
}

// ReadXLSX parses the first worksheet of an Excel workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !isEmptyRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmpty
	}

	table := &Table{Header: normalizeHeader(rows[headerIdx])}
	for i, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, Row{Line: headerIdx + i + 2, Values: zip(table.Header, row)})
	}
	return table, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// zip keys record values by header. The first occurrence of a duplicated header wins.
func zip(header, record []string) map[string]string {
	values := make(map[string]string, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		if _, seen := values[h]; seen {
			continue
		}
		if i < len(record) {
			values[h] = record[i]
		} else {
			values[h] = ""
		}
	}
	return values
}

func isEmptyRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
