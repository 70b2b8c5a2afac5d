// Package chunk groups raw document text into ordered sections for
// downstream summarization. The heuristic is deterministic and performs
// no I/O: markdown headings open a new section, and paragraphs accumulate
// until a target size is reached.
package chunk

import (
	"fmt"
	"strings"
)

// targetSectionSize is the soft cap on section text length in bytes.
// Sections close at the first paragraph boundary past this size.
const targetSectionSize = 2400

// Section is one ordered chunk of an input document.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Chunk splits raw text into ordered sections. Empty or whitespace-only
// input yields no sections.
func Chunk(rawText string) []Section {
	paragraphs := splitParagraphs(rawText)
	if len(paragraphs) == 0 {
		return nil
	}

	var sections []Section
	var current []string
	currentTitle := ""
	currentSize := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		sections = append(sections, Section{
			ID:    fmt.Sprintf("section_%03d", len(sections)+1),
			Title: currentTitle,
			Text:  strings.Join(current, "\n\n"),
		})
		current = current[:0]
		currentSize = 0
	}

	for _, p := range paragraphs {
		if title, ok := headingTitle(p); ok {
			flush()
			currentTitle = title
			continue
		}

		current = append(current, p)
		currentSize += len(p)
		if currentSize >= targetSectionSize {
			flush()
		}
	}
	flush()

	return sections
}

// splitParagraphs splits text on blank lines, trimming each paragraph.
func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	blocks := strings.Split(normalized, "\n\n")

	paragraphs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		p := strings.TrimSpace(b)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// headingTitle reports whether a paragraph is a markdown heading and
// returns its text.
func headingTitle(p string) (string, bool) {
	if !strings.HasPrefix(p, "#") {
		return "", false
	}
	// Multi-line blocks are body text even if they start with '#'.
	if strings.Contains(p, "\n") {
		return "", false
	}
	trimmed := strings.TrimLeft(p, "#")
	if trimmed == p || !strings.HasPrefix(trimmed, " ") {
		return "", false
	}
	return strings.TrimSpace(trimmed), true
}
