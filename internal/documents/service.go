package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-footnotes/backups"
	"github.com/goliatone/go-footnotes/internal/editor"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/internal/renumber"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// Backups captures the single backup operation Process depends on. The full
// backup service satisfies it.
type Backups interface {
	Snapshot(ctx context.Context, documentKey string, document string) (*backups.Snapshot, error)
}

// Config controls how the document service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service implements interfaces.DocumentService for filesystem-backed documents.
type Service struct {
	cfg     Config
	parser  interfaces.MarkdownParser
	loader  *Loader
	backups Backups
	logger  interfaces.Logger
}

var _ interfaces.DocumentService = (*Service)(nil)

// Option configures optional service collaborators.
type Option func(*Service)

// WithParser overrides the default goldmark parser.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithBackups snapshots each document before Process writes it back.
func WithBackups(b Backups) Option {
	return func(s *Service) {
		if b != nil {
			s.backups = b
		}
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a document service rooted at cfg.BasePath.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if svc.parser == nil {
		svc.parser = NewGoldmarkParser(cfg.Parser)
	}

	svc.loader = NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return svc, nil
}

// Load reads a single Markdown document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every Markdown document within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}
	return docs, nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument converts the document's Markdown body into HTML.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("documents: document is nil")
	}
	return s.Render(ctx, doc.Body, opts)
}

// Process renumbers the footnotes of a single file. The raw file text is
// renumbered as a whole; frontmatter lines never form footnote definitions so
// they ride along untouched.
func (s *Service) Process(ctx context.Context, path string, opts interfaces.ProcessOptions) (*interfaces.ProcessReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := s.normalisePath(path)

	data, err := fs.ReadFile(s.loader.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("documents: read %s: %w", rel, err)
	}

	original := string(data)
	result := renumber.Renumber(original)

	report := &interfaces.ProcessReport{
		Path:    rel,
		Changed: result.Changed,
		Count:   result.Count,
	}

	if opts.DryRun {
		if result.Changed {
			report.Diff = Preview(original, result.Document)
		}
		return report, nil
	}

	if !result.Changed {
		return report, nil
	}

	if s.backups != nil {
		snapshot, err := s.backups.Snapshot(ctx, rel, original)
		if err != nil {
			return nil, fmt.Errorf("documents: snapshot %s: %w", rel, err)
		}
		report.SnapshotID = snapshot.ID
	}

	target, err := editor.NewFile(s.absolutePath(rel))
	if err != nil {
		return nil, err
	}
	if err := target.Apply(ctx, result.Document); err != nil {
		return nil, fmt.Errorf("documents: write %s: %w", rel, err)
	}

	s.logger.Info("documents.renumber.applied",
		"path", rel,
		"footnotes", result.Count,
		"snapshot_id", report.SnapshotID,
	)
	return report, nil
}

// ProcessDirectory renumbers every matching file under dir, collecting
// per-file reports. Individual file failures are recorded and do not stop the
// run.
func (s *Service) ProcessDirectory(ctx context.Context, dir string, opts interfaces.ProcessOptions) (*interfaces.ProcessResult, error) {
	paths, err := s.loader.Discover(ctx, s.normalisePath(dir), LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, err
	}

	result := &interfaces.ProcessResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, err := s.Process(ctx, path, opts)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		result.Processed++
		result.Footnotes += report.Count
		if report.Changed {
			result.Changed++
		}
		result.Reports = append(result.Reports, *report)
	}

	s.logger.Info("documents.renumber.completed",
		"dir", s.normalisePath(dir),
		"processed", result.Processed,
		"changed", result.Changed,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func (s *Service) absolutePath(rel string) string {
	base := strings.TrimSpace(s.cfg.BasePath)
	if base == "" {
		base = "."
	}
	return filepath.Join(base, filepath.FromSlash(rel))
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func toLoaderParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	}
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("documents: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
