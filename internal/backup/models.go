package backup

import (
	"github.com/goliatone/go-footnotes/backups"
)

// Snapshot is the persisted index row for a stored document revision.
type Snapshot = backups.Snapshot
