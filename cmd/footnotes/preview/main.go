package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-footnotes/cmd/footnotes/internal/bootstrap"
	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	var (
		documentsDir = flag.String("documents-dir", "content", "Path to the Markdown document root")
		pattern      = flag.String("pattern", "*.md", "Glob pattern applied when discovering Markdown files")
		filePath     = flag.String("file", "", "Markdown file to preview (relative to the document root)")
		showDiff     = flag.Bool("diff", true, "Show the pending renumber diff for the document")
		renderHTML   = flag.Bool("render-html", false, "Render the Markdown body into HTML as part of the preview")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	opts := bootstrap.Options{
		DocumentsDir: *documentsDir,
		Pattern:      *pattern,
		Recursive:    true,
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}

	if module == nil || module.Documents == nil {
		log.Fatalf("document service not configured; ensure Features.Documents is enabled")
	}

	ctx := context.Background()

	doc, err := module.Documents.Load(ctx, *filePath, interfaces.LoadOptions{})
	if err != nil {
		log.Fatalf("load document: %v", err)
	}

	fmt.Fprintf(os.Stdout, "Path: %s\nChecksum: %x\n\n", doc.Path, doc.Checksum)

	if doc.FrontMatter.Raw != nil {
		frontmatter, err := json.MarshalIndent(doc.FrontMatter.Raw, "", "  ")
		if err == nil {
			fmt.Fprintf(os.Stdout, "Frontmatter:\n%s\n\n", frontmatter)
		}
	}

	if *showDiff {
		report, err := module.Documents.Process(ctx, *filePath, interfaces.ProcessOptions{DryRun: true})
		if err != nil {
			log.Fatalf("compute renumber preview: %v", err)
		}
		if report.Changed {
			fmt.Fprintf(os.Stdout, "Renumbering would touch %d footnote(s):\n%s\n", report.Count, report.Diff)
		} else {
			fmt.Fprintf(os.Stdout, "Footnotes already sequential (%d found)\n", report.Count)
		}
	}

	if *renderHTML {
		html, err := module.Documents.RenderDocument(ctx, doc, interfaces.ParseOptions{})
		if err != nil {
			log.Fatalf("render markdown: %v", err)
		}
		fmt.Fprintf(os.Stdout, "\nRendered HTML:\n%s\n", html)
	}
}
