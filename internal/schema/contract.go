// Package schema names the columns of the customer marketing dataset and
// checks that a parsed table carries the columns a stage requires.
package schema

import (
	"fmt"
	"strings"
)

// Column groups of the marketing dataset. Stages refer to these lists rather
// than spelling column names inline.
const (
	Income    = "Income"
	YearBirth = "Year_Birth"
	Kidhome   = "Kidhome"
	Teenhome  = "Teenhome"
	Recency   = "Recency"

	// DefaultDateColumn is the enrollment date column used when the
	// configuration does not name one.
	DefaultDateColumn = "Dt_Customer"
)

// SpendColumns are the per-category purchase amounts.
var SpendColumns = []string{
	"MntWines", "MntFruits", "MntMeatProducts",
	"MntFishProducts", "MntSweetProducts", "MntGoldProds",
}

// PurchaseColumns are the per-channel purchase and visit counts.
var PurchaseColumns = []string{
	"NumDealsPurchases", "NumWebPurchases", "NumCatalogPurchases",
	"NumStorePurchases", "NumWebVisitsMonth",
}

// CampaignColumns are the binary campaign responses.
var CampaignColumns = []string{
	"AcceptedCmp1", "AcceptedCmp2", "AcceptedCmp3",
	"AcceptedCmp4", "AcceptedCmp5", "Response",
}

// NumericColumns are coerced to numbers during cleaning; unparseable cells
// become missing.
var NumericColumns = concat(
	[]string{YearBirth, Recency, Kidhome, Teenhome},
	SpendColumns,
	PurchaseColumns,
	CampaignColumns,
)

// ZeroFillColumns have missing values replaced by zero during cleaning: an
// absent counter means the event did not occur.
var ZeroFillColumns = concat(
	[]string{Kidhome, Teenhome},
	SpendColumns,
	PurchaseColumns,
	CampaignColumns,
	[]string{Recency},
)

// Field is one required column of a Contract.
type Field struct {
	Name     string
	Required bool
}

// Contract lists the columns a stage expects to find.
type Contract struct {
	Name   string
	Fields []Field
}

// Require builds a contract whose fields are all required. Empty names are
// kept so that a misconfigured (blank) key column is reported as missing.
func Require(name string, cols ...string) Contract {
	c := Contract{Name: name}
	for _, col := range cols {
		c.Fields = append(c.Fields, Field{Name: col, Required: true})
	}
	return c
}

// MissingColumnsError reports required columns absent from a table.
type MissingColumnsError struct {
	Contract  string
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing expected columns [%s]\navailable columns: [%s]",
		e.Contract, quoteJoin(e.Missing), quoteJoin(e.Available))
}

// Check returns a *MissingColumnsError listing, in contract order, every
// required field not present in available. It returns nil when all are
// present.
func (c Contract) Check(available []string) error {
	have := make(map[string]struct{}, len(available))
	for _, a := range available {
		have[a] = struct{}{}
	}
	var missing []string
	for _, f := range c.Fields {
		if !f.Required {
			continue
		}
		if _, ok := have[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingColumnsError{
		Contract:  c.Name,
		Missing:   missing,
		Available: append([]string(nil), available...),
	}
}

func quoteJoin(xs []string) string {
	q := make([]string, len(xs))
	for i, x := range xs {
		q[i] = fmt.Sprintf("%q", x)
	}
	return strings.Join(q, ", ")
}

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
