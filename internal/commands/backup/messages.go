package backupcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	snapshotDocumentMessageType = "footnotes.backups.snapshot"
	pruneBackupsMessageType     = "footnotes.backups.prune"
	restoreBackupMessageType    = "footnotes.backups.restore"
)

// SnapshotDocumentCommand stores a point-in-time copy of a file so a later
// restore can undo whatever the host does next. The index key defaults to the
// path when no explicit key is given.
type SnapshotDocumentCommand struct {
	// Path selects the file whose content is snapshotted.
	Path string `json:"path"`
	// DocumentKey overrides the index key the snapshot is stored under.
	DocumentKey string `json:"document_key,omitempty"`
}

// Type implements command.Message.
func (SnapshotDocumentCommand) Type() string { return snapshotDocumentMessageType }

// Validate ensures the message names a source file before handlers execute.
func (cmd SnapshotDocumentCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(cmd.Path) == "" {
		errs["path"] = validation.NewError("footnotes.backups.snapshot.path_required", "path is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PruneBackupsCommand applies the retention policy to stored snapshots.
// When DryRun is true only the snapshot count is reported.
type PruneBackupsCommand struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (PruneBackupsCommand) Type() string { return pruneBackupsMessageType }

// Validate satisfies command.Message.
func (PruneBackupsCommand) Validate() error {
	return validation.ValidateStruct(&PruneBackupsCommand{})
}

// RestoreBackupCommand writes a stored snapshot back to a file. The snapshot
// is selected by ID, or by document key when the ID is absent; the key picks
// the newest snapshot recorded for that document.
type RestoreBackupCommand struct {
	SnapshotID  uuid.UUID `json:"snapshot_id,omitempty"`
	DocumentKey string    `json:"document_key,omitempty"`
	// OutputPath is the file the restored document is written to.
	OutputPath string `json:"output_path"`
}

// Type implements command.Message.
func (RestoreBackupCommand) Type() string { return restoreBackupMessageType }

// Validate ensures the message names both a snapshot selector and a target.
func (cmd RestoreBackupCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(cmd.OutputPath) == "" {
		errs["output_path"] = validation.NewError("footnotes.backups.restore.output_path_required", "output path is required")
	}
	if cmd.SnapshotID == uuid.Nil && strings.TrimSpace(cmd.DocumentKey) == "" {
		errs["snapshot_id"] = validation.NewError("footnotes.backups.restore.selector_required", "snapshot id or document key is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
