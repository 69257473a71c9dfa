package footnotes

import (
	"context"
	"embed"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-footnotes/backups"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// SnapshotModels lists the bun models backing the snapshot index. Hosts that
// run their own migration tooling can register these instead of applying the
// embedded SQL.
func SnapshotModels() []any {
	return []any{
		(*backups.Snapshot)(nil),
	}
}

// CreateSnapshotTables creates the snapshot index tables when they do not
// exist yet. It mirrors the embedded SQL migrations for hosts that prefer
// programmatic setup, such as tests and the bundled CLI.
func CreateSnapshotTables(ctx context.Context, db *bun.DB) error {
	for _, model := range SnapshotModels() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
