package docx

import "sort"

// Edit is one resolved replacement: the byte span of a paragraph in the
// document XML and the rewritten span that replaces it.
type Edit struct {
	Start  int
	End    int
	NewXML string
}

// SkippedEdit records a replacement that could not be resolved to a
// paragraph. Skips are diagnostics, not failures: the rest of the batch
// still applies.
type SkippedEdit struct {
	Index  int
	Reason string
}

// ApplyEdits applies a batch of index-addressed replacements to a document
// XML string. paragraphs must come from ParseParagraphs over the same xml,
// so every index resolves to the span it was assigned during extraction.
//
// Out-of-range indices are skipped and reported. Accepted edits are applied
// in descending Start order: every span is rewritten before any span that
// precedes it in the document, so no substitution can shift the offsets of
// an edit that has not been applied yet.
func ApplyEdits(xml string, replacements map[int]string, paragraphs []Paragraph) (string, []SkippedEdit) {
	var edits []Edit
	var skipped []SkippedEdit

	for index, newText := range replacements {
		if index < 0 || index >= len(paragraphs) {
			skipped = append(skipped, SkippedEdit{Index: index, Reason: "index out of range"})
			continue
		}
		p := paragraphs[index]
		edits = append(edits, Edit{
			Start:  p.Start,
			End:    p.End,
			NewXML: ReplaceText(xml[p.Start:p.End], newText),
		})
	}

	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Start > edits[j].Start
	})

	for _, e := range edits {
		xml = xml[:e.Start] + e.NewXML + xml[e.End:]
	}

	return xml, skipped
}
