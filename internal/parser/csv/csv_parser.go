// Package csv reads delimited text into a table.Table and writes tables back
// out. Reading infers a Kind per column (see table.Infer); writing emits a
// header row and one line per row with missing cells left empty.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"custprep/internal/table"
)

// Options configures the reader. The zero value reads comma-separated input
// with a header row.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each cell before inference.
	TrimSpace bool

	// HeaderMap renames source headers to canonical names. Headers that are
	// not in the map keep their original spelling.
	HeaderMap map[string]string
}

// Stats reports what the reader did with malformed lines.
type Stats struct {
	Rows    int // data rows kept
	Skipped int // rows dropped for having more fields than the header
	Padded  int // short rows padded with missing cells
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// logLimit caps per-row diagnostics so a badly broken file does not flood
// the log.
const logLimit = 20

// ErrNoHeader is returned when the input has no header line.
var ErrNoHeader = errors.New("csv: missing header row")

// Read parses r into a table. Rows with fewer cells than the header are
// padded with missing values; rows with more are skipped and counted.
func Read(r io.Reader, opt Options) (*table.Table, Stats, error) {
	var st Stats

	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return nil, st, ErrNoHeader
	}
	if err != nil {
		return nil, st, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, opt)
	if dup := firstDuplicate(headers); dup != "" {
		return nil, st, fmt.Errorf("csv: duplicate header %q", dup)
	}

	raw := make([][]string, len(headers))
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if st.Skipped < logLimit {
				log.Printf("csv: skipping line %d: %v", line, err)
			}
			st.Skipped++
			continue
		}
		if len(row) > len(headers) {
			if st.Skipped < logLimit {
				log.Printf("csv: skipping line %d: expected %d fields, got %d", line, len(headers), len(row))
			}
			st.Skipped++
			continue
		}
		if len(row) < len(headers) {
			st.Padded++
		}
		for j := range headers {
			var v string
			if j < len(row) {
				v = row[j]
			}
			if opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			raw[j] = append(raw[j], v)
		}
		st.Rows++
	}

	cols := make([]*table.Column, len(headers))
	for j, name := range headers {
		if raw[j] == nil {
			raw[j] = []string{}
		}
		cols[j] = table.Infer(name, raw[j])
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, st, err
	}
	return t, st, nil
}

// Write renders t as CSV with a header row. Missing cells are written empty.
func Write(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	cols := t.Columns()
	fmts := make([]table.Formatter, len(cols))
	for j, c := range cols {
		fmts[j] = table.NewFormatter(c)
	}

	rec := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, c := range cols {
			rec[j] = fmts[j].Format(c.Cells[i])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// normalizeHeaders strips a UTF-8 BOM from the first cell, trims spaces and
// applies HeaderMap. Unlike cell values, header case is preserved: column
// names are matched verbatim against configuration.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		c = strings.TrimSpace(c)
		if m, ok := opt.HeaderMap[c]; ok {
			c = m
		}
		res[i] = c
	}
	return res
}

func firstDuplicate(names []string) string {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n
		}
		seen[n] = struct{}{}
	}
	return ""
}
