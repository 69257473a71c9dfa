package footnotes

import "github.com/goliatone/go-footnotes/internal/renumber"

// RenumberResult exports the outcome of renumbering a document in memory.
type RenumberResult = renumber.Result

// Reference exports one footnote marker occurrence with its byte offsets.
type Reference = renumber.Reference

// Renumber rewrites footnote markers so they count 1..N in reading order and
// reorders the definition block to match. The function is pure: no IO, no
// errors, and input without recognizable footnotes comes back unchanged.
func Renumber(document string) RenumberResult {
	return renumber.Renumber(document)
}

// References lists every footnote marker in the document, in reading order.
func References(document string) []Reference {
	return renumber.References(document)
}

// Labels lists distinct referenced footnote labels by first appearance.
func Labels(document string) []string {
	return renumber.Labels(document)
}
