// Package documents implements the file-facing footnote workflows: it
// discovers Markdown files on disk, parses frontmatter and content, renders
// HTML previews, and applies renumbering to files in place or as a dry run.
package documents
