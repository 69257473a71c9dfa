package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-footnotes/internal/validation"
)

func TestStoreLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != Default() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestStoreSaveThenLoadRoundTrips(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "nested", "settings.json"))
	want := Settings{
		AutoRenumberOnInsert:  false,
		CursorToDefinition:    true,
		BackupsEnabled:        true,
		BackupDir:             "backups",
		RetentionDays:         7,
		MaxBackupsPerDocument: 3,
	}

	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestStoreLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"retention_days": 5}`), 0o644); err != nil {
		t.Fatalf("seed settings file: %v", err)
	}

	got, err := NewStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.RetentionDays != 5 {
		t.Fatalf("expected retention_days=5, got %d", got.RetentionDays)
	}
	if !got.AutoRenumberOnInsert {
		t.Fatal("expected auto_renumber_on_insert default to survive")
	}
}

func TestStoreLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"retention_dayz": 5}`), 0o644); err != nil {
		t.Fatalf("seed settings file: %v", err)
	}

	_, err := NewStore(path).Load(context.Background())
	if err == nil {
		t.Fatal("expected validation error for unknown key")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestStoreLoadRejectsWrongTypes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"retention_days": "soon"}`), 0o644); err != nil {
		t.Fatalf("seed settings file: %v", err)
	}

	_, err := NewStore(path).Load(context.Background())
	if err == nil {
		t.Fatal("expected validation error for wrong type")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestStoreSaveRejectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	if err := store.Save(ctx, Default()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
