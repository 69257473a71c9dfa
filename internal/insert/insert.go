// Package insert implements the insert-footnote flow: splice a reference
// marker into the text, append its definition line, and renumber so the new
// footnote takes its sequential place among the existing ones.
package insert

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/internal/renumber"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// InsertRequest describes a footnote insertion into a document snapshot.
type InsertRequest struct {
	// Document is the full text to insert into.
	Document string
	// Offset is the byte position for the reference marker. It is clamped
	// into the document and backed off to a rune boundary.
	Offset int
	// Text is the definition text. It may be empty; the definition line is
	// created either way so the author can fill it in. A definition is one
	// physical line, so newlines in Text are folded to spaces.
	Text string
}

// InsertResult reports the outcome of an insertion. All offsets refer to
// Document, the renumbered text.
type InsertResult struct {
	// Document is the rewritten text including the new footnote.
	Document string
	// Label is the new footnote's final numeric label.
	Label string
	// Number is the new footnote's sequential number.
	Number int
	// RefEnd is the byte offset just past the inserted reference marker.
	RefEnd int
	// DefTextStart is the byte offset where the definition text begins.
	DefTextStart int
	// Count is the number of distinct referenced labels after insertion.
	Count int
}

// Service implements footnote insertion over plain documents and editors.
type Service struct {
	cursorToDefinition bool
	logger             interfaces.Logger
}

// ServiceOption configures the insert service.
type ServiceOption func(*Service)

// WithCursorToDefinition makes the editor flows place the cursor at the
// definition text even when definition text was supplied.
func WithCursorToDefinition(enabled bool) ServiceOption {
	return func(s *Service) {
		s.cursorToDefinition = enabled
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds an insert service.
func NewService(opts ...ServiceOption) *Service {
	service := &Service{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service
}

// Insert splices a reference marker at the request offset, appends the
// matching definition line, and renumbers the result. Document content
// never causes an error; the only failure source is the context.
func (s *Service) Insert(ctx context.Context, req InsertRequest) (*InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	document := req.Document
	offset := clampToRuneBoundary(document, req.Offset)
	label := freshLabel(document)
	text := foldLineBreaks(req.Text)

	sep := renumber.LineSeparator(document)
	spliced := document[:offset] + "[^" + label + "]" + document[offset:]
	defLine := "[^" + label + "]: " + text

	var draft string
	if strings.HasSuffix(spliced, sep) {
		// Keep the document's trailing newline after the definition block.
		draft = spliced + defLine + sep
	} else {
		draft = spliced + sep + defLine
	}

	result := renumber.Renumber(draft)
	final := result.Document

	number := 0
	for i, l := range renumber.Labels(draft) {
		if l == label {
			number = i + 1
			break
		}
	}
	numberLabel := strconv.Itoa(number)

	refEnd := 0
	for _, ref := range renumber.References(final) {
		if ref.Label == numberLabel {
			refEnd = ref.End
			break
		}
	}

	// The new definition is the only line in the appended block carrying
	// this number, so the last match is the definition line.
	defNeedle := sep + "[^" + numberLabel + "]: "
	defTextStart := len(final)
	if idx := strings.LastIndex(final, defNeedle); idx >= 0 {
		defTextStart = idx + len(defNeedle)
	}

	s.logger.Debug("insert.footnote.created",
		"number", number,
		"footnotes", result.Count,
	)

	return &InsertResult{
		Document:     final,
		Label:        numberLabel,
		Number:       number,
		RefEnd:       refEnd,
		DefTextStart: defTextStart,
		Count:        result.Count,
	}, nil
}

// InsertAt inserts a footnote into the editor's document at the given
// offset, applies the rewritten text, and positions the cursor: at the
// definition text when there is text to write, past the reference marker
// otherwise.
func (s *Service) InsertAt(ctx context.Context, ed interfaces.Editor, offset int, text string) (*InsertResult, error) {
	if ed == nil {
		return nil, errors.New("insert: editor is required")
	}
	document, err := ed.Document(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.Insert(ctx, InsertRequest{Document: document, Offset: offset, Text: text})
	if err != nil {
		return nil, err
	}
	if err := ed.Apply(ctx, result.Document); err != nil {
		return nil, err
	}

	cursor := result.RefEnd
	if text == "" || s.cursorToDefinition {
		cursor = result.DefTextStart
	}
	if err := ed.MoveCursor(ctx, cursor); err != nil {
		return nil, err
	}
	s.logger.Info("insert.footnote.applied",
		"number", result.Number,
		"footnotes", result.Count,
	)
	return result, nil
}

// InsertAtCursor inserts at the editor's current cursor position.
func (s *Service) InsertAtCursor(ctx context.Context, ed interfaces.Editor, text string) (*InsertResult, error) {
	if ed == nil {
		return nil, errors.New("insert: editor is required")
	}
	cursor, err := ed.Cursor(ctx)
	if err != nil {
		return nil, err
	}
	return s.InsertAt(ctx, ed, cursor, text)
}

// freshLabel picks a numeric label no existing reference or definition
// uses, counting up from one past the referenced label count.
func freshLabel(document string) string {
	taken := make(map[string]struct{})
	labels := renumber.Labels(document)
	for _, label := range labels {
		taken[label] = struct{}{}
	}
	for _, label := range renumber.DefinitionLabels(document) {
		taken[label] = struct{}{}
	}

	n := len(labels) + 1
	for {
		candidate := strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		n++
	}
}

func clampToRuneBoundary(document string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(document) {
		return len(document)
	}
	for offset > 0 && offset < len(document) && !utf8.RuneStart(document[offset]) {
		offset--
	}
	return offset
}

func foldLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
