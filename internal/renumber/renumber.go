// Package renumber rewrites Markdown footnotes so markers count 1..N in
// reading order and the definition block at the bottom of the document lists
// definitions in the same order. The package is pure string manipulation: it
// performs no IO and never fails, so hosts can run it on every keystroke or
// save without guarding against errors.
package renumber

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Result describes the outcome of renumbering a single document.
type Result struct {
	// Document is the renumbered text. When Changed is false it is
	// byte-identical to the input.
	Document string
	// Changed reports whether renumbering produced different bytes.
	Changed bool
	// Count is the number of distinct referenced footnote labels.
	Count int
}

// Reference is one footnote marker occurrence, in document order.
type Reference struct {
	// Label is the text between "[^" and "]" with escape pairs kept verbatim.
	Label string
	// Start and End are byte offsets bounding the full "[^label]" marker.
	Start int
	End   int
}

// referencePattern matches footnote markers such as [^1] or [^long-note].
// A label character is anything except a bare backslash or closing bracket;
// a backslash escapes whatever follows it. RE2 has no negative lookahead, so
// the optional trailing colon is captured instead and colon matches are
// treated as definition markers rather than references.
var referencePattern = regexp.MustCompile(`\[\^((?:[^\\\]]|\\.)+)\](:?)`)

// definitionPattern matches definition lines such as "[^1]: text". Leading
// whitespace and the text after the colon are captured so both survive the
// rewrite byte for byte.
var definitionPattern = regexp.MustCompile(`^(\s*)\[\^([^\]]+)\]:(.*)$`)

type definition struct {
	indent string
	number int
	text   string
}

// Renumber rewrites footnote markers to sequential numbers assigned by first
// appearance, reorders the matching definition lines to follow, and leaves
// everything else alone. Definitions nothing points at stay where they are,
// untouched. Input without recognizable footnotes is returned as-is with
// Changed false; malformed markup is never an error.
func Renumber(document string) Result {
	labels := Labels(document)
	if len(labels) == 0 {
		return Result{Document: document}
	}

	numbers := make(map[string]int, len(labels))
	for i, label := range labels {
		numbers[label] = i + 1
	}

	lines := splitLines(document)
	// Blank lines at the very end of the document are a suffix to restore
	// after the definition block, not spacing between body and definitions.
	suffix := trailingBlankLines(lines)

	body := make([]string, 0, len(lines))
	var defs []definition
	for _, line := range lines {
		match := definitionPattern.FindStringSubmatch(line)
		if match == nil {
			body = append(body, line)
			continue
		}
		number, live := numbers[match[2]]
		if !live {
			// Orphan definition: no marker references it, keep the line
			// in place exactly as written.
			body = append(body, line)
			continue
		}
		defs = append(defs, definition{indent: match[1], number: number, text: match[3]})
	}

	var out string
	if len(defs) == 0 {
		out = renumberReferences(strings.Join(body, "\n"), labels, numbers)
	} else {
		sort.SliceStable(defs, func(i, j int) bool { return defs[i].number < defs[j].number })
		rewritten := make([]string, len(defs))
		for i, def := range defs {
			rewritten[i] = def.indent + "[^" + strconv.Itoa(def.number) + "]:" + def.text
		}

		// blanks never undercounts suffix: a blank line is never a
		// definition, so the document's trailing blanks survive into body.
		blanks := trailingBlankLines(body)
		between := blanks - suffix
		trimmed := body[:len(body)-blanks]
		out = renumberReferences(strings.Join(trimmed, "\n"), labels, numbers)

		// Keep the blank-line spacing the document had between body and
		// definitions, inserting one blank line when there was none.
		separators := between + 1
		if between == 0 {
			separators = 2
		}
		if len(trimmed) == 0 {
			separators = 0
		}
		out += strings.Repeat("\n", separators) + strings.Join(rewritten, "\n") + strings.Repeat("\n", suffix)
	}

	if sep := LineSeparator(document); sep != "\n" {
		out = strings.ReplaceAll(out, "\n", sep)
	}

	return Result{
		Document: out,
		Changed:  out != document,
		Count:    len(labels),
	}
}

// References returns every footnote marker in document order. Markers
// followed by a colon introduce definitions and are excluded.
func References(document string) []Reference {
	matches := referencePattern.FindAllStringSubmatchIndex(document, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		// m[4]:m[5] bounds the optional colon capture.
		if m[5] > m[4] {
			continue
		}
		refs = append(refs, Reference{
			Label: document[m[2]:m[3]],
			Start: m[0],
			End:   m[1],
		})
	}
	return refs
}

// Labels returns the distinct referenced labels in order of first appearance.
// The position of a label in the slice is its assigned number minus one.
func Labels(document string) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, ref := range References(document) {
		if _, ok := seen[ref.Label]; ok {
			continue
		}
		seen[ref.Label] = struct{}{}
		labels = append(labels, ref.Label)
	}
	return labels
}

// DefinitionLabels returns the label of every definition line in document
// order, orphans included.
func DefinitionLabels(document string) []string {
	var labels []string
	for _, line := range splitLines(document) {
		if match := definitionPattern.FindStringSubmatch(line); match != nil {
			labels = append(labels, match[2])
		}
	}
	return labels
}

// LineSeparator reports the separator a rebuilt document will use: CRLF when
// the input contains at least one CRLF, LF otherwise.
func LineSeparator(document string) string {
	if strings.Contains(document, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// renumberReferences swaps each marker for its assigned number in two
// phases: every marker becomes a placeholder token first, then tokens become
// numbers. Without the intermediate step a chain such as "2"->"1" followed
// by "10"->"2" would rewrite markers it already produced.
func renumberReferences(body string, labels []string, numbers map[string]int) string {
	marker := "\x00footnote\x00"
	for strings.Contains(body, marker) {
		marker = "\x00" + marker
	}

	for i, label := range labels {
		pattern := regexp.MustCompile(`\[\^` + regexp.QuoteMeta(label) + `\](:?)`)
		token := marker + strconv.Itoa(i) + "\x00"
		body = pattern.ReplaceAllStringFunc(body, func(match string) string {
			if strings.HasSuffix(match, ":") {
				return match
			}
			return token
		})
	}

	for i, label := range labels {
		token := marker + strconv.Itoa(i) + "\x00"
		body = strings.ReplaceAll(body, token, "[^"+strconv.Itoa(numbers[label])+"]")
	}

	return body
}

func splitLines(document string) []string {
	return strings.Split(strings.ReplaceAll(document, "\r\n", "\n"), "\n")
}

func trailingBlankLines(lines []string) int {
	blank := 0
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			break
		}
		blank++
	}
	return blank
}
