package section

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuritravel/go-docx-enhancer/internal/docx"
)

func heading(level int, text string) string {
	return fmt.Sprintf(`<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr><w:r><w:t>%s</w:t></w:r></w:p>`, level, text)
}

func body(text string) string {
	return fmt.Sprintf(`<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, text)
}

func docXML(parts ...string) string {
	return "<w:document><w:body>" + strings.Join(parts, "") + "</w:body></w:document>"
}

const longText = "A full day of touring with enough text to clear the minimum length threshold."
const otherLong = "Another substantial paragraph describing the afternoon program in detail."

func TestSelectAll(t *testing.T) {
	xml := docXML(body("one"), "<w:p><w:pPr/></w:p>", body("three"))
	paragraphs := docx.ParseParagraphs(xml)

	selected := SelectAll(paragraphs)
	require.Len(t, selected, 3)
	assert.Equal(t, IndexedParagraph{Index: 0, Text: "one"}, selected[0])
	assert.Equal(t, IndexedParagraph{Index: 1, Text: ""}, selected[1], "empty paragraphs keep their index slot")
	assert.Equal(t, IndexedParagraph{Index: 2, Text: "three"}, selected[2])
}

func TestExtractSections(t *testing.T) {
	cfg := DefaultHeadingConfig()

	t.Run("DayHeadingsOpenBuckets", func(t *testing.T) {
		xml := docXML(
			heading(1, "יום 1 - תל אביב"),
			body(longText),
			body(otherLong),
			heading(1, "יום 2"),
			body("short"),
			body(otherLong),
		)
		sections, err := ExtractSections(xml, docx.ParseParagraphs(xml), cfg)
		require.NoError(t, err)

		require.Len(t, sections, 2)
		assert.Equal(t, longText, sections["day1"], "only the first qualifying paragraph is captured")
		assert.Equal(t, otherLong, sections["day2"], "short paragraphs are passed over")
	})

	t.Run("ExcludedKeywordSuppressesHeading", func(t *testing.T) {
		xml := docXML(
			heading(2, "יום 3 - מחיר"),
			body(longText),
		)
		sections, err := ExtractSections(xml, docx.ParseParagraphs(xml), cfg)
		require.NoError(t, err)
		assert.Empty(t, sections)
	})

	t.Run("NonDayHeadingClosesBucket", func(t *testing.T) {
		xml := docXML(
			heading(1, "יום 1"),
			heading(2, "הערות"),
			body(longText),
		)
		sections, err := ExtractSections(xml, docx.ParseParagraphs(xml), cfg)
		require.NoError(t, err)
		assert.Empty(t, sections, "paragraph after a non-day heading belongs to no bucket")
	})

	t.Run("NoHeadings", func(t *testing.T) {
		xml := docXML(body(longText), body(otherLong))
		sections, err := ExtractSections(xml, docx.ParseParagraphs(xml), cfg)
		require.NoError(t, err)
		assert.Empty(t, sections)
	})

	t.Run("CustomPattern", func(t *testing.T) {
		custom := HeadingConfig{DayPattern: `Day\s*(\d+)`, MinParagraphLen: 10}
		xml := docXML(
			heading(1, "Day 4: Jerusalem"),
			body(longText),
		)
		sections, err := ExtractSections(xml, docx.ParseParagraphs(xml), custom)
		require.NoError(t, err)
		assert.Equal(t, longText, sections["day4"])
	})

	t.Run("PatternWithoutGroupRejected", func(t *testing.T) {
		bad := HeadingConfig{DayPattern: `Day\s*\d+`}
		xml := docXML(heading(1, "Day 1"), body(longText))
		_, err := ExtractSections(xml, docx.ParseParagraphs(xml), bad)
		assert.Error(t, err)
	})
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, headingLevel(`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr></w:p>`))
	assert.Equal(t, 3, headingLevel(`<w:p><w:pPr><w:pStyle w:val="heading 3"/></w:pPr></w:p>`))
	assert.Equal(t, 1, headingLevel(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr></w:p>`))
	assert.Equal(t, 2, headingLevel(`<w:p><w:pPr><w:outlineLvl w:val="1"/></w:pPr></w:p>`))
	assert.Equal(t, 6, headingLevel(`<w:p><w:pPr><w:pStyle w:val="Heading9"/></w:pPr></w:p>`))
	assert.Equal(t, 0, headingLevel(`<w:p><w:pPr><w:pStyle w:val="Body"/></w:pPr></w:p>`))
}
