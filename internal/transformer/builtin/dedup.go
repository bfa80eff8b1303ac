// Package builtin contains the reusable table transformations the cleaning
// and feature stages are assembled from.
//
// DeDup collapses rows sharing a business key and chooses a winner according
// to a policy:
//
//   - "keep-first"   : keep the earliest occurrence
//   - "keep-last"    : keep the latest occurrence (default)
//   - "most-complete": keep the row with the most non-missing cells;
//     ties break by "keep-last"
//
// Surviving rows keep their original relative order. A missing key cell is
// a key value of its own, so two rows with a missing key are duplicates.
//
// DropDuplicates removes rows whose every cell equals an earlier row.
package builtin

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"custprep/internal/table"
)

// DeDup implements a configurable de-duplication by key columns.
type DeDup struct {
	// Keys are the columns that form the business key, e.g. ["ID"]. Keys
	// absent from the table are ignored; with no usable key DeDup is a no-op.
	Keys []string

	// Policy selects the winner among duplicates (default "keep-last").
	Policy string

	// OnDrop, when set, receives the number of rows removed.
	OnDrop func(dropped int)
}

// Apply implements transformer.Transformer.
func (d DeDup) Apply(t *table.Table) *table.Table {
	var keys []*table.Column
	for _, k := range d.Keys {
		if c := t.Col(k); c != nil {
			keys = append(keys, c)
		}
	}
	if t.Len() == 0 || len(keys) == 0 {
		return t
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-last"
	}

	keyOf := func(i int) string {
		var b strings.Builder
		for j, c := range keys {
			if j > 0 {
				b.WriteByte('\x1f')
			}
			writeCellKey(&b, c.Cells[i])
		}
		return b.String()
	}

	cols := t.Columns()
	scoreOf := func(i int) int {
		score := 0
		for _, c := range cols {
			if !c.IsNull(i) {
				score++
			}
		}
		return score
	}

	type slot struct {
		index int
		score int
	}
	winners := make(map[string]slot, t.Len())
	for i := 0; i < t.Len(); i++ {
		key := keyOf(i)
		switch policy {
		case "keep-first":
			if _, exists := winners[key]; !exists {
				winners[key] = slot{index: i}
			}
		case "most-complete":
			s := slot{index: i, score: scoreOf(i)}
			if prev, exists := winners[key]; !exists || s.score >= prev.score {
				winners[key] = s
			}
		default:
			winners[key] = slot{index: i}
		}
	}

	if len(winners) == t.Len() {
		return t
	}
	mask := make([]bool, t.Len())
	for _, s := range winners {
		mask[s.index] = true
	}
	if d.OnDrop != nil {
		d.OnDrop(t.Len() - len(winners))
	}
	return t.Keep(mask)
}

// DropDuplicates removes exact full-row duplicates, keeping the first
// occurrence. Rows are bucketed by an xxh3 hash of their cells and compared
// cell by cell within a bucket, so hash collisions never drop a row.
type DropDuplicates struct {
	// OnDrop, when set, receives the number of rows removed.
	OnDrop func(dropped int)
}

// Apply implements transformer.Transformer.
func (d DropDuplicates) Apply(t *table.Table) *table.Table {
	n := t.Len()
	if n < 2 {
		return t
	}
	cols := t.Columns()
	buckets := make(map[uint64][]int, n)
	mask := make([]bool, n)
	dropped := 0

	var buf []byte
	for i := 0; i < n; i++ {
		buf = buf[:0]
		for _, c := range cols {
			buf = appendCellBytes(buf, c.Cells[i])
		}
		h := xxh3.Hash(buf)

		dup := false
		for _, j := range buckets[h] {
			if rowsEqual(cols, i, j) {
				dup = true
				break
			}
		}
		if dup {
			dropped++
			continue
		}
		buckets[h] = append(buckets[h], i)
		mask[i] = true
	}
	if dropped == 0 {
		return t
	}
	if d.OnDrop != nil {
		d.OnDrop(dropped)
	}
	return t.Keep(mask)
}

func rowsEqual(cols []*table.Column, i, j int) bool {
	for _, c := range cols {
		if !table.CellEqual(c.Cells[i], c.Cells[j]) {
			return false
		}
	}
	return true
}

// appendCellBytes appends a tagged, unambiguous encoding of v.
func appendCellBytes(buf []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(buf, 0)
	case float64:
		if x == 0 {
			x = 0 // fold -0 into +0
		}
		buf = append(buf, 1)
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
	case int64:
		// Integers a float64 holds exactly share the float encoding so that
		// equal mixed cells hash alike.
		if f := float64(x); table.IntEqualsFloat(x, f) {
			return appendCellBytes(buf, f)
		}
		buf = append(buf, 6)
		return binary.LittleEndian.AppendUint64(buf, uint64(x))
	case bool:
		if x {
			return append(buf, 2, 1)
		}
		return append(buf, 2, 0)
	case time.Time:
		buf = append(buf, 3)
		return binary.LittleEndian.AppendUint64(buf, uint64(x.UnixNano()))
	case string:
		buf = append(buf, 4)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(x)))
		return append(buf, x...)
	default:
		return append(buf, 5)
	}
}

func writeCellKey(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteByte('\x00')
	case string:
		b.WriteByte('s')
		b.WriteString(x)
	default:
		b.Write(appendCellBytes(nil, x))
	}
}
