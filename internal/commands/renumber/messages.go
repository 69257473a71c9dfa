package renumbercmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	renumberFileMessageType      = "footnotes.renumber.file"
	renumberDirectoryMessageType = "footnotes.renumber.directory"
)

// RenumberFileCommand renumbers the footnotes of a single Markdown file. When
// DryRun is set the pending change is reported without writing to disk.
type RenumberFileCommand struct {
	// Path selects the file, relative to the document service base directory.
	Path string `json:"path"`
	// DryRun computes the renumbered text and a diff without writing.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (RenumberFileCommand) Type() string { return renumberFileMessageType }

// Validate ensures path input is present before handlers execute.
func (cmd RenumberFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("footnotes.renumber.file.path_required", "path is required")
			}
			return nil
		})),
	)
}

// RenumberDirectoryCommand renumbers every matching Markdown file under the
// provided directory.
type RenumberDirectoryCommand struct {
	// Directory selects the directory, relative to the document service base directory.
	Directory string `json:"directory"`
	// Pattern narrows the walk to files matching the glob (defaults to the service pattern).
	Pattern string `json:"pattern,omitempty"`
	// Recursive overrides the service's directory traversal setting when non-nil.
	Recursive *bool `json:"recursive,omitempty"`
	// DryRun computes the renumbered text and diffs without writing.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (RenumberDirectoryCommand) Type() string { return renumberDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd RenumberDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("footnotes.renumber.directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
