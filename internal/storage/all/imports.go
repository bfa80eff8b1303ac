// Package all registers every built-in export backend ("sqlite" and
// "postgres") with the storage factory. Import it for side effects:
//
//	import _ "custprep/internal/storage/all"
package all

import (
	_ "custprep/internal/storage/postgres"
	_ "custprep/internal/storage/sqlite"
)
