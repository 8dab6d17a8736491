package docx

import (
	"regexp"
	"strings"
)

// textLeafSplitRe captures the opening tag and closing tag of a <w:t>
// element separately so the content can be swapped without touching either.
var textLeafSplitRe = regexp.MustCompile(`(<w:t(?:\s[^>]*)?>)[^<]*(</w:t>)`)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// Escape converts XML metacharacters in s to their entity forms. It is
// applied to replacement text only, never to structural markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape is the inverse of Escape.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// ReplaceText rewrites the text content of a single <w:p> span.
//
// Index-based strategy: the first <w:t> receives the full new text, with
// xml:space="preserve" asserted on its opening tag so leading and trailing
// spaces survive rendering; every subsequent <w:t> is emptied. <w:pPr>,
// <w:rPr> and every other structural element are preserved byte-for-byte,
// which keeps paragraph styles, run formatting and text direction intact.
//
// A paragraph with no <w:t> at all is returned unchanged: there is no leaf
// to host the new text, and inventing one would mean inventing formatting.
func ReplaceText(paragraphXML, newText string) string {
	firstSeen := false
	return textLeafSplitRe.ReplaceAllStringFunc(paragraphXML, func(leaf string) string {
		groups := textLeafSplitRe.FindStringSubmatch(leaf)
		openTag, closeTag := groups[1], groups[2]
		if firstSeen {
			return openTag + closeTag
		}
		firstSeen = true
		if !strings.Contains(openTag, "xml:space") {
			openTag = strings.Replace(openTag, "<w:t", `<w:t xml:space="preserve"`, 1)
		}
		return openTag + Escape(newText) + closeTag
	})
}
