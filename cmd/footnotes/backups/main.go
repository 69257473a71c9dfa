package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-footnotes/cmd/footnotes/internal/bootstrap"
	backupcmd "github.com/goliatone/go-footnotes/internal/commands/backup"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBackups(os.Args[1:]); err != nil {
		log.Fatalf("footnotes backups: %v", err)
	}
}

func runBackups(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: footnotes-backups <snapshot|prune|restore|list> [flags]")
	}

	switch args[0] {
	case "snapshot":
		return runSnapshot(args[1:])
	case "prune":
		return runPrune(args[1:])
	case "restore":
		return runRestore(args[1:])
	case "list":
		return runList(args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q (expected snapshot, prune, restore, or list)", args[0])
	}
}

// storeFlags are shared by every subcommand: where blobs live and,
// optionally, which database keeps the snapshot index between runs.
type storeFlags struct {
	backupsDir  *string
	compression *string
	indexDriver *string
	indexDSN    *string
}

func registerStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		backupsDir:  fs.String("backups-dir", "", "Blob store root for snapshots (defaults to .footnotes/backups)"),
		compression: fs.String("compression", "", "Snapshot compression: none, gzip, or xz"),
		indexDriver: fs.String("index-driver", "", "Snapshot index database driver: sqlite or postgres"),
		indexDSN:    fs.String("index-dsn", "", "Snapshot index DSN; empty keeps the index in memory"),
	}
}

func buildBackupModule(flags storeFlags) (*bootstrap.Module, error) {
	module, err := moduleBuilder(bootstrap.Options{
		BackupsEnabled: true,
		BackupsDir:     *flags.backupsDir,
		Compression:    *flags.compression,
		IndexDriver:    *flags.indexDriver,
		IndexDSN:       *flags.indexDSN,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Backups == nil {
		return nil, fmt.Errorf("backup service not configured; ensure Features.Backups is enabled")
	}
	return module, nil
}

func runSnapshot(args []string) error {
	fs := flag.NewFlagSet("footnotes-backups-snapshot", flag.ExitOnError)
	store := registerStoreFlags(fs)
	file := fs.String("file", "", "File whose content is snapshotted")
	key := fs.String("key", "", "Index key for the snapshot (defaults to the file path)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("file is required")
	}

	module, err := buildBackupModule(store)
	if err != nil {
		return err
	}
	defer module.Module.Close()

	handler := backupcmd.NewSnapshotDocumentHandler(module.Backups, module.Logger, backupcmd.FeatureGates{
		BackupsEnabled: func() bool { return true },
	})
	cmd := backupcmd.SnapshotDocumentCommand{
		Path:        *file,
		DocumentKey: *key,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute snapshot command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "snapshot command executed successfully")

	return nil
}

func runPrune(args []string) error {
	fs := flag.NewFlagSet("footnotes-backups-prune", flag.ExitOnError)
	store := registerStoreFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Report what the retention policy would remove without deleting")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := buildBackupModule(store)
	if err != nil {
		return err
	}
	defer module.Module.Close()

	handler := backupcmd.NewPruneBackupsHandler(module.Backups, module.Logger, backupcmd.FeatureGates{
		BackupsEnabled: func() bool { return true },
	})
	if err := handler.Execute(context.Background(), backupcmd.PruneBackupsCommand{DryRun: *dryRun}); err != nil {
		return fmt.Errorf("execute prune command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "prune command executed successfully")

	return nil
}

func runRestore(args []string) error {
	fs := flag.NewFlagSet("footnotes-backups-restore", flag.ExitOnError)
	store := registerStoreFlags(fs)
	snapshot := fs.String("snapshot", "", "Snapshot ID to restore")
	key := fs.String("key", "", "Document key whose latest snapshot should be restored")
	output := fs.String("output", "", "Path the restored document is written to")

	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := bootstrap.ParseUUID(*snapshot)
	if err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	module, err := buildBackupModule(store)
	if err != nil {
		return err
	}
	defer module.Module.Close()

	handler := backupcmd.NewRestoreBackupHandler(module.Backups, module.Logger, backupcmd.FeatureGates{
		BackupsEnabled: func() bool { return true },
	})
	cmd := backupcmd.RestoreBackupCommand{
		SnapshotID:  id,
		DocumentKey: *key,
		OutputPath:  *output,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute restore command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "restore command executed successfully")

	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("footnotes-backups-list", flag.ExitOnError)
	store := registerStoreFlags(fs)
	key := fs.String("key", "", "Document key to list (empty lists every snapshot)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := buildBackupModule(store)
	if err != nil {
		return err
	}
	defer module.Module.Close()

	snapshots, err := module.Backups.List(context.Background(), *key)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	for _, snapshot := range snapshots {
		fmt.Fprintf(os.Stdout, "%s  %s  %d bytes  %s\n",
			snapshot.ID, snapshot.DocumentKey, snapshot.Size, snapshot.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(os.Stdout, "%d snapshot(s)\n", len(snapshots))

	return nil
}
