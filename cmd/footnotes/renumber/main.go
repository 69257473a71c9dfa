package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-footnotes/cmd/footnotes/internal/bootstrap"
	renumbercmd "github.com/goliatone/go-footnotes/internal/commands/renumber"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runRenumber(os.Args[1:]); err != nil {
		log.Fatalf("footnotes renumber: %v", err)
	}
}

func runRenumber(args []string) error {
	fs := flag.NewFlagSet("footnotes-renumber", flag.ExitOnError)
	documentsDir := fs.String("documents-dir", "content", "Path to the Markdown document root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering Markdown files")
	recursive := fs.Bool("recursive", true, "Walk subdirectories when renumbering a directory")
	path := fs.String("path", "", "Single file to renumber, relative to the document root")
	directory := fs.String("directory", ".", "Directory to renumber, relative to the document root")
	dryRun := fs.Bool("dry-run", false, "Preview changes without writing files")
	backups := fs.Bool("backups", false, "Snapshot documents before rewriting them")
	backupsDir := fs.String("backups-dir", "", "Blob store root for snapshots (defaults to .footnotes/backups)")
	compression := fs.String("compression", "", "Snapshot compression: none, gzip, or xz")

	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := bootstrap.Options{
		DocumentsDir:   *documentsDir,
		Pattern:        *pattern,
		Recursive:      *recursive,
		BackupsEnabled: *backups,
		BackupsDir:     *backupsDir,
		Compression:    *compression,
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Documents == nil {
		return fmt.Errorf("document service not configured; ensure Features.Documents is enabled")
	}

	ctx := context.Background()

	gates := renumbercmd.FeatureGates{
		DocumentsEnabled: func() bool { return true },
	}

	if *path != "" {
		handler := renumbercmd.NewRenumberFileHandler(module.Documents, module.Logger, gates)
		cmd := renumbercmd.RenumberFileCommand{
			Path:   *path,
			DryRun: *dryRun,
		}
		if err := handler.Execute(ctx, cmd); err != nil {
			return fmt.Errorf("execute renumber command: %w", err)
		}
		fmt.Fprintln(os.Stdout, "renumber file command executed successfully")
		return nil
	}

	handler := renumbercmd.NewRenumberDirectoryHandler(module.Documents, module.Logger, gates)
	cmd := renumbercmd.RenumberDirectoryCommand{
		Directory: *directory,
		DryRun:    *dryRun,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute renumber command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "renumber directory command executed successfully")

	return nil
}
