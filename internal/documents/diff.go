package documents

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Preview renders a terminal-friendly diff between two versions of a
// document. Insertions and deletions are colourised by diffmatchpatch, so the
// output is meant for interactive dry runs rather than machine parsing.
func Preview(before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}
