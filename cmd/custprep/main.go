// Command custprep prepares the customer marketing dataset for modelling:
// it cleans the raw export, builds the scaled feature matrix and optionally
// loads either table into a database.
//
//	custprep --config config/config.yaml run
//	custprep show features_scaled.csv --sample 5
package main

import (
	"context"
	"fmt"
	"os"

	// register the sqlite and postgres export backends.
	_ "custprep/internal/storage/all"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
