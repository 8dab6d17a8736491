package section

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nuritravel/go-docx-enhancer/internal/docx"
)

// The heading policy works on a rendered HTML view of the document rather
// than on raw OOXML, mirroring how the documents were originally inspected.
// The rendering is deliberately minimal: paragraph styles decide the tag,
// everything else is dropped.

var (
	headingStyleRe = regexp.MustCompile(`<w:pStyle w:val="[Hh]eading ?([1-9])"`)
	titleStyleRe   = regexp.MustCompile(`<w:pStyle w:val="Title"`)
	outlineLvlRe   = regexp.MustCompile(`<w:outlineLvl w:val="([0-8])"`)
)

// headingLevel returns 1..6 for a heading paragraph, 0 for body text.
func headingLevel(paragraphXML string) int {
	if m := headingStyleRe.FindStringSubmatch(paragraphXML); m != nil {
		level, _ := strconv.Atoi(m[1])
		if level > 6 {
			level = 6
		}
		return level
	}
	if titleStyleRe.MatchString(paragraphXML) {
		return 1
	}
	if m := outlineLvlRe.FindStringSubmatch(paragraphXML); m != nil {
		level, _ := strconv.Atoi(m[1])
		if level >= 6 {
			level = 6
		} else {
			level++
		}
		return level
	}
	return 0
}

// RenderHTML produces the plain HTML view the heading policy scans: one
// <hN> or <p> element per paragraph, in document order.
func RenderHTML(xml string, paragraphs []docx.Paragraph) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, p := range paragraphs {
		level := headingLevel(xml[p.Start:p.End])
		tag := "p"
		if level > 0 {
			tag = "h" + strconv.Itoa(level)
		}
		sb.WriteString("<" + tag + ">")
		sb.WriteString(docx.Escape(p.Text))
		sb.WriteString("</" + tag + ">")
	}
	sb.WriteString("</body></html>")
	return sb.String()
}
