package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-footnotes/cmd/footnotes/internal/bootstrap"
	insertcmd "github.com/goliatone/go-footnotes/internal/commands/insert"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runInsert(os.Args[1:]); err != nil {
		log.Fatalf("footnotes insert: %v", err)
	}
}

func runInsert(args []string) error {
	fs := flag.NewFlagSet("footnotes-insert", flag.ExitOnError)
	file := fs.String("file", "", "Markdown file to edit")
	offset := fs.Int("offset", -1, "Byte position for the new marker (defaults to end of document)")
	atEnd := fs.Bool("at-end", false, "Place the marker after the last byte of the document")
	text := fs.String("text", "", "Definition text for the new footnote")
	backups := fs.Bool("backups", false, "Snapshot the file before editing")
	backupsDir := fs.String("backups-dir", "", "Blob store root for snapshots (defaults to .footnotes/backups)")
	compression := fs.String("compression", "", "Snapshot compression: none, gzip, or xz")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file == "" {
		return fmt.Errorf("file is required")
	}

	opts := bootstrap.Options{
		BackupsEnabled: *backups,
		BackupsDir:     *backupsDir,
		Compression:    *compression,
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Insert == nil {
		return fmt.Errorf("insert service not configured")
	}

	ctx := context.Background()

	handler := insertcmd.NewInsertFootnoteHandler(module.Insert, module.Backups, module.Logger, insertcmd.FeatureGates{
		InsertEnabled: func() bool { return true },
	})
	cmd := insertcmd.InsertFootnoteCommand{
		Path: *file,
		Text: *text,
	}
	if *atEnd || *offset < 0 {
		cmd.AtEnd = true
	} else {
		cmd.Offset = *offset
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute insert command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "insert command executed successfully")

	return nil
}
