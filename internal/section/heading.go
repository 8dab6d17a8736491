package section

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nuritravel/go-docx-enhancer/internal/docx"
)

// ExtractSections runs the heading-delimited policy over a parsed document.
//
// A heading whose text matches the day pattern opens a bucket keyed
// "day<N>"; a heading containing an excluded keyword never opens one, even
// if the pattern matches. An open bucket captures the first following
// paragraph longer than the minimum length and ignores everything after it
// until the next heading. The result maps bucket key to captured text; an
// empty map means the document does not have the expected shape.
func ExtractSections(xml string, paragraphs []docx.Paragraph, cfg HeadingConfig) (map[string]string, error) {
	dayRe, err := cfg.compile()
	if err != nil {
		return nil, err
	}
	minLen := cfg.MinParagraphLen
	if minLen <= 0 {
		minLen = DefaultHeadingConfig().MinParagraphLen
	}

	view := RenderHTML(xml, paragraphs)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(view))
	if err != nil {
		return nil, fmt.Errorf("section: failed to parse rendered view: %w", err)
	}

	sections := make(map[string]string)
	currentKey := ""

	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		name := goquery.NodeName(sel)
		text := strings.TrimSpace(sel.Text())

		if isHeading(name) {
			currentKey = ""
			if excluded(text, cfg.ExcludedKeywords) {
				return
			}
			if m := dayRe.FindStringSubmatch(text); m != nil {
				currentKey = "day" + m[1]
			}
			return
		}

		if currentKey == "" {
			return
		}
		if _, taken := sections[currentKey]; taken {
			return
		}
		if len([]rune(text)) > minLen {
			sections[currentKey] = text
		}
	})

	return sections, nil
}

func isHeading(nodeName string) bool {
	return len(nodeName) == 2 && nodeName[0] == 'h' && nodeName[1] >= '1' && nodeName[1] <= '6'
}

func excluded(headingText string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(headingText, kw) {
			return true
		}
	}
	return false
}
