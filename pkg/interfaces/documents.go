package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should expose reusable parser instances plus extension
// toggles so hosts can adjust rendering without swapping the service.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// DocumentService exposes the file workflows built on top of the renumber
// engine: load Markdown documents from disk, renumber them in place or as a
// dry run, and render previews.
type DocumentService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
	Process(ctx context.Context, path string, opts ProcessOptions) (*ProcessReport, error)
	ProcessDirectory(ctx context.Context, dir string, opts ProcessOptions) (*ProcessResult, error)
}

// Document represents a Markdown file with parsed metadata and content. The
// struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	Path         string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so
	// callers can detect concurrent edits before writing results back.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. The Custom map
// keeps host-specific values without forcing schema changes here.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Summary string         `yaml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Author  string         `yaml:"author" json:"author"`
	Date    time.Time      `yaml:"date" json:"date"`
	Draft   bool           `yaml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// ProcessOptions controls how renumbering is applied to files on disk.
type ProcessOptions struct {
	// DryRun computes the renumbered text and a diff without writing.
	DryRun bool
	// Recursive and Pattern narrow directory walks, mirroring LoadOptions.
	Recursive *bool
	Pattern   string
}

// ProcessReport captures the outcome of renumbering one document.
type ProcessReport struct {
	Path    string
	Changed bool
	// Count is the number of distinct footnotes found in the document.
	Count int
	// SnapshotID identifies the pre-change backup when backups are enabled,
	// uuid.Nil otherwise.
	SnapshotID uuid.UUID
	// Diff holds a rendered preview of the pending change on dry runs.
	Diff string
}

// ProcessResult summarises a renumber run across many files.
type ProcessResult struct {
	Processed int
	Changed   int
	// Footnotes totals the distinct footnotes across processed documents.
	Footnotes int
	Reports   []ProcessReport
	Errors    []error
}

// PruneReport summarises a retention sweep over stored snapshots.
type PruneReport struct {
	Examined     int
	Removed      int
	BlobsRemoved int
}
