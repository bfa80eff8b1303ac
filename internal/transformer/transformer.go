// Package transformer defines the step contract for table transformations
// and the ordered Chain that runs them.
package transformer

import "custprep/internal/table"

// Transformer is one deterministic table transformation. Implementations may
// modify t in place and return it, or return a new table; callers hand a
// private copy to the first step and use only the returned value.
type Transformer interface {
	Apply(t *table.Table) *table.Table
}

// Func adapts a plain function to Transformer.
type Func func(t *table.Table) *table.Table

// Apply implements Transformer.
func (f Func) Apply(t *table.Table) *table.Table { return f(t) }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer in order, threading the table through.
func (c Chain) Apply(in *table.Table) *table.Table {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
