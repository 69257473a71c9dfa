package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-footnotes/pkg/interfaces"
)

// File is an editor backed by a file on disk. Document reads the file on
// every call and Apply replaces it atomically, so a crash mid-write never
// leaves a half-written document behind. The cursor lives in memory only.
type File struct {
	mu     sync.Mutex
	path   string
	cursor int
}

var _ interfaces.Editor = (*File)(nil)

// NewFile creates a file editor for the given path. The file does not have
// to exist yet; Document returns an empty string until the first Apply.
func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("editor: file path is required")
	}
	return &File{path: path}, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Document(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("editor: read %s: %w", f.path, err)
	}
	return string(data), nil
}

func (f *File) Apply(ctx context.Context, document string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("editor: create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".footnotes-*")
	if err != nil {
		return fmt.Errorf("editor: create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(document); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("editor: write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("editor: close %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("editor: replace %s: %w", f.path, err)
	}
	f.cursor = clampOffset(f.cursor, len(document))
	return nil
}

func (f *File) Cursor(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor, nil
}

func (f *File) MoveCursor(ctx context.Context, offset int) error {
	document, err := f.Document(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = clampOffset(offset, len(document))
	return nil
}
