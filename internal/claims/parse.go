// Package claims turns claim CSV documents into rows and derives the
// categories, filtered subsets and map points the viewer draws.
package claims

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when a document has no header line.
var ErrNoHeader = errors.New("csv: missing header line")

// Row is one record keyed by header name. Columns a short record did not
// supply are absent from the map rather than empty.
type Row map[string]string

// Get returns the field value and whether the record supplied it.
func (r Row) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// Table is a parsed document.
type Table struct {
	Header  []string
	Rows    []Row
	Skipped int // records dropped for being unparseable
}

// Parse reads CSV text whose first line is the header.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	header = append([]string(nil), header...)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				t.Skipped++
				continue
			}
			return nil, fmt.Errorf("csv: %w", err)
		}
		if blank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, h := range header {
			if i >= len(rec) {
				break
			}
			row[h] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// blank matches lines holding only whitespace, which encoding/csv reports as
// a single field.
func blank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}
