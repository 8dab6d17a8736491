package docx

import (
	"regexp"
	"strings"
)

// Paragraph is one <w:p> element located inside a document.xml string.
// Index is assigned by document order and is the stable address the
// external generator refers back to when it returns rewritten text.
type Paragraph struct {
	// Index is the zero-based position in the parsed sequence.
	Index int `json:"index"`
	// Start is the byte offset of "<w:p" in the document XML.
	Start int `json:"start"`
	// End is the byte offset immediately after "</w:p>".
	End int `json:"end"`
	// Text is the concatenation of every <w:t> content in this paragraph.
	Text string `json:"text"`
}

const (
	openPrefix  = "<w:p"
	closeMarker = "</w:p>"
)

// textLeafRe matches a single <w:t> element, tolerating attributes on the
// opening tag (notably xml:space="preserve").
var textLeafRe = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)

// ParseParagraphs scans a document.xml string and returns every <w:p>
// element in document order, including empty ones. Deterministic over the
// same bytes, so indices are stable between the extraction pass and a later
// patch pass.
//
// Elements that merely share the "<w:p" prefix (<w:pPr>, <w:pStyle>,
// <w:pBdr>, ...) are filtered by a one-character lookahead after the prefix.
// A paragraph whose close marker is missing ends the scan: the paragraphs
// found so far are returned rather than failing the whole parse.
func ParseParagraphs(xml string) []Paragraph {
	paragraphs := []Paragraph{}
	i := 0

	for i < len(xml) {
		rel := strings.Index(xml[i:], openPrefix)
		if rel < 0 {
			break
		}
		start := i + rel

		// The character after "<w:p" decides whether this is a real
		// paragraph opening. Only '>', space, tab, CR or LF qualify.
		next := start + len(openPrefix)
		if next >= len(xml) {
			break
		}
		switch xml[next] {
		case '>', ' ', '\t', '\r', '\n':
		default:
			i = start + len(openPrefix) + 1
			continue
		}

		closeRel := strings.Index(xml[start:], closeMarker)
		if closeRel < 0 {
			break
		}
		end := start + closeRel + len(closeMarker)

		paragraphs = append(paragraphs, Paragraph{
			Index: len(paragraphs),
			Start: start,
			End:   end,
			Text:  ExtractText(xml[start:end]),
		})

		i = end
	}

	return paragraphs
}

// ExtractText concatenates the content of every <w:t> element inside one
// paragraph span, in document order and with no separator. Formatting
// elements contribute nothing; a paragraph without text leaves yields "".
// Entity references are decoded, so the result is plain displayable text.
func ExtractText(paragraphXML string) string {
	matches := textLeafRe.FindAllStringSubmatch(paragraphXML, -1)
	if len(matches) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(Unescape(m[1]))
	}
	return sb.String()
}
