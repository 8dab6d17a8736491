// Package section decides which paragraphs of a parsed document are offered
// to the external rewriting service. Two policies exist: exhaustive indexing
// (every paragraph, addressed by index; the default) and heading-delimited
// extraction (the legacy itinerary shape, one keyed paragraph per "day"
// section).
package section

import (
	"fmt"
	"regexp"

	"github.com/nuritravel/go-docx-enhancer/internal/docx"
)

// Policy names accepted from config and per-request overrides.
const (
	PolicyIndex   = "index"
	PolicyHeading = "heading"
)

// IndexedParagraph is one entry of the exhaustive-indexing payload. The
// generator answers with a replacements object keyed by these indices.
type IndexedParagraph struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// SelectAll implements the exhaustive policy: every paragraph, empty ones
// included, so the generator's index space matches the parser's exactly.
func SelectAll(paragraphs []docx.Paragraph) []IndexedParagraph {
	out := make([]IndexedParagraph, len(paragraphs))
	for i, p := range paragraphs {
		out[i] = IndexedParagraph{Index: p.Index, Text: p.Text}
	}
	return out
}

// HeadingConfig tunes the heading-delimited policy. Defaults reproduce the
// itinerary documents this policy was built for: Hebrew "יום N" headings
// keyed as dayN, with pricing/terms sections excluded.
type HeadingConfig struct {
	// DayPattern must contain one capture group for the section number.
	DayPattern string `mapstructure:"day_pattern"`
	// ExcludedKeywords suppress a heading even when DayPattern matches.
	ExcludedKeywords []string `mapstructure:"excluded_keywords"`
	// MinParagraphLen is the minimum text length for a captured paragraph.
	MinParagraphLen int `mapstructure:"min_paragraph_len"`
}

// DefaultHeadingConfig returns the itinerary defaults.
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		DayPattern:       `יום\s*(\d+)`,
		ExcludedKeywords: []string{"כולל", "לא כולל", "ביטול", "מחיר", "תנאי", "הערות"},
		MinParagraphLen:  30,
	}
}

func (c HeadingConfig) compile() (*regexp.Regexp, error) {
	pattern := c.DayPattern
	if pattern == "" {
		pattern = DefaultHeadingConfig().DayPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("section: invalid day pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("section: day pattern %q needs a capture group for the section number", pattern)
	}
	return re, nil
}
