package testsupport

import (
	"os"
	"path/filepath"
)

// WriteDocuments seeds a directory tree with Markdown documents. Keys are
// paths relative to dir, values the file content.
func WriteDocuments(dir string, files map[string]string) error {
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// ReadDocument returns the content of one seeded document.
func ReadDocument(dir, rel string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
