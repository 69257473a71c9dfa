package backup

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
)

// NormalizeDocumentKey converts a host supplied name or path into a stable
// key. Each path segment is slugified independently so related documents
// keep their hierarchy, and the same input always yields the same key.
func NormalizeDocumentKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	normalizer := slug.Default()
	segments := strings.Split(filepath.ToSlash(trimmed), "/")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" || segment == "." {
			continue
		}
		normalized, err := normalizer.Normalize(segment)
		if err != nil || normalized == "" {
			normalized = segment
		}
		out = append(out, normalized)
	}
	return strings.Join(out, "/")
}
