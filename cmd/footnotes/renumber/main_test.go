package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-footnotes/cmd/footnotes/internal/bootstrap"
	"github.com/goliatone/go-footnotes/internal/logging"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

type stubDocumentService struct {
	processCalls   int
	processPath    string
	processOpts    interfaces.ProcessOptions
	directoryCalls int
	directoryDir   string
}

func (s *stubDocumentService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubDocumentService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubDocumentService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubDocumentService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubDocumentService) Process(_ context.Context, path string, opts interfaces.ProcessOptions) (*interfaces.ProcessReport, error) {
	s.processCalls++
	s.processPath = path
	s.processOpts = opts
	return &interfaces.ProcessReport{Path: path}, nil
}

func (s *stubDocumentService) ProcessDirectory(_ context.Context, dir string, _ interfaces.ProcessOptions) (*interfaces.ProcessResult, error) {
	s.directoryCalls++
	s.directoryDir = dir
	return &interfaces.ProcessResult{}, nil
}

func TestRunRenumberFileUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubDocumentService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Documents: svc,
			Logger:    logging.NoOp(),
		}, nil
	}

	if err := runRenumber([]string{
		"-path", "guide.md",
		"-dry-run",
	}); err != nil {
		t.Fatalf("runRenumber returned error: %v", err)
	}
	if svc.processCalls != 1 {
		t.Fatalf("expected process to be called once, got %d", svc.processCalls)
	}
	if svc.processPath != "guide.md" {
		t.Fatalf("expected process path guide.md, got %s", svc.processPath)
	}
	if !svc.processOpts.DryRun {
		t.Fatal("expected dry run to be forwarded to the service")
	}
	if svc.directoryCalls != 0 {
		t.Fatalf("expected no directory processing, got %d", svc.directoryCalls)
	}
}

func TestRunRenumberDirectoryUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubDocumentService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Documents: svc,
			Logger:    logging.NoOp(),
		}, nil
	}

	if err := runRenumber([]string{
		"-directory", "docs",
	}); err != nil {
		t.Fatalf("runRenumber returned error: %v", err)
	}
	if svc.directoryCalls != 1 {
		t.Fatalf("expected directory processing once, got %d", svc.directoryCalls)
	}
	if svc.directoryDir != "docs" {
		t.Fatalf("expected directory docs, got %s", svc.directoryDir)
	}
	if svc.processCalls != 0 {
		t.Fatalf("expected no single file processing, got %d", svc.processCalls)
	}
}
