package insertcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const insertFootnoteMessageType = "footnotes.insert.footnote"

// InsertFootnoteCommand inserts a fresh footnote marker into a Markdown file
// and appends the matching definition, renumbering the document as part of the
// edit.
type InsertFootnoteCommand struct {
	// Path selects the target file on disk.
	Path string `json:"path"`
	// Offset is the byte position for the new marker. Ignored when AtEnd is set.
	Offset int `json:"offset,omitempty"`
	// AtEnd places the marker after the last byte of the document.
	AtEnd bool `json:"at_end,omitempty"`
	// Text seeds the footnote definition. May be empty to leave a stub.
	Text string `json:"text,omitempty"`
}

// Type implements command.Message.
func (InsertFootnoteCommand) Type() string { return insertFootnoteMessageType }

// Validate ensures the message carries a usable target before handlers execute.
func (cmd InsertFootnoteCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(cmd.Path) == "" {
		errs["path"] = validation.NewError("footnotes.insert.footnote.path_required", "path is required")
	}
	if cmd.Offset < 0 {
		errs["offset"] = validation.NewError("footnotes.insert.footnote.offset_invalid", "offset must be zero or positive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
