package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	footnotes "github.com/goliatone/go-footnotes"
)

const sample = `---
title: Release Notes
---
Shipping[^5] the new parser[^2] closed most issues[^note].

[^5]: Rolled out behind a flag.
[^2]: Rewritten from scratch.
[^note]: Tracked in the bug tracker.
`

func main() {
	ctx := context.Background()

	baseDir, err := os.MkdirTemp("", "footnotes-example-docs-")
	if err != nil {
		log.Fatalf("create documents dir: %v", err)
	}
	defer os.RemoveAll(baseDir)

	backupsDir, err := os.MkdirTemp("", "footnotes-example-backups-")
	if err != nil {
		log.Fatalf("create backups dir: %v", err)
	}
	defer os.RemoveAll(backupsDir)

	cfg := footnotes.DefaultConfig()
	cfg.Features.Documents = true
	cfg.Features.Backups = true
	cfg.Backups.Enabled = true
	cfg.Backups.Dir = backupsDir
	cfg.Documents.BaseDir = baseDir
	cfg.Settings.Path = filepath.Join(baseDir, "settings.json")

	module, err := footnotes.New(cfg)
	if err != nil {
		log.Fatalf("initialise footnotes module: %v", err)
	}

	// In-memory renumbering, no services involved.
	result := footnotes.Renumber(sample)
	prettyPrint("Renumber outcome", map[string]any{
		"changed":   result.Changed,
		"footnotes": result.Count,
	})
	fmt.Println("=== Renumbered Document ===")
	fmt.Println(result.Document)

	// File workflow: dry-run diff first, then rewrite with a snapshot.
	const docKey = "release-notes.md"
	path := filepath.Join(baseDir, docKey)
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		log.Fatalf("write sample document: %v", err)
	}

	documents := module.Documents()
	report, err := documents.Process(ctx, docKey, footnotes.ProcessOptions{DryRun: true})
	if err != nil {
		log.Fatalf("dry-run renumber: %v", err)
	}
	fmt.Println("=== Pending Diff ===")
	fmt.Println(report.Diff)

	report, err = documents.Process(ctx, docKey, footnotes.ProcessOptions{})
	if err != nil {
		log.Fatalf("renumber file: %v", err)
	}
	prettyPrint("File renumber report", map[string]any{
		"path":        report.Path,
		"changed":     report.Changed,
		"footnotes":   report.Count,
		"snapshot_id": report.SnapshotID,
	})

	// Insert a new footnote right after the third reference.
	file, err := footnotes.NewFile(path)
	if err != nil {
		log.Fatalf("open document: %v", err)
	}
	document, err := file.Document(ctx)
	if err != nil {
		log.Fatalf("read document: %v", err)
	}
	anchor := "issues[^3]."
	offset := strings.Index(document, anchor)
	if offset < 0 {
		log.Fatalf("anchor %q not found after renumbering", anchor)
	}
	insertResult, err := module.Insert().InsertAt(ctx, file, offset+len(anchor), "Follow-up scheduled for the next sprint.")
	if err != nil {
		log.Fatalf("insert footnote: %v", err)
	}
	prettyPrint("Insert outcome", map[string]any{
		"label":     insertResult.Label,
		"number":    insertResult.Number,
		"footnotes": insertResult.Count,
	})

	// Snapshots accumulated so far, newest first.
	backups := module.Backups()
	snapshots, err := backups.List(ctx, docKey)
	if err != nil {
		log.Fatalf("list snapshots: %v", err)
	}
	fmt.Printf("\n%d snapshot(s) for %s\n", len(snapshots), docKey)
	for _, snapshot := range snapshots {
		fmt.Printf("  %s  %d bytes  %s\n", snapshot.ID, snapshot.Size, snapshot.Compression)
	}

	restored, err := backups.RestoreLatest(ctx, docKey)
	if err != nil {
		log.Fatalf("restore latest snapshot: %v", err)
	}
	fmt.Println("=== Latest Snapshot Content ===")
	fmt.Println(restored)

	pruneReport, err := backups.Prune(ctx)
	if err != nil {
		log.Fatalf("prune snapshots: %v", err)
	}
	prettyPrint("Prune report", map[string]any{
		"examined":      pruneReport.Examined,
		"removed":       pruneReport.Removed,
		"blobs_removed": pruneReport.BlobsRemoved,
	})

	// Host-editable settings round-trip.
	store := module.Settings()
	settings, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	settings.CursorToDefinition = true
	if err := store.Save(ctx, settings); err != nil {
		log.Fatalf("save settings: %v", err)
	}
	prettyPrint("Settings", settings)
}

func prettyPrint(label string, payload any) {
	fmt.Printf("\n%s:\n", label)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Printf("pretty print %s: %v", label, err)
	}
}
