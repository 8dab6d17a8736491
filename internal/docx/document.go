package docx

// Document is a parsed docx held in memory for the duration of one request:
// the original archive bytes, its document.xml and the paragraph sequence
// addressed over it. Nothing here is shared or cached between requests.
type Document struct {
	Raw        []byte
	XML        string
	Paragraphs []Paragraph
}

// Open reads raw docx bytes and parses its paragraph sequence.
func Open(raw []byte) (*Document, error) {
	xml, err := ReadDocumentXML(raw)
	if err != nil {
		return nil, err
	}
	return &Document{
		Raw:        raw,
		XML:        xml,
		Paragraphs: ParseParagraphs(xml),
	}, nil
}

// Patch applies index-addressed replacements and repacks the archive.
// Unresolvable indices are skipped and reported, never fatal.
func (d *Document) Patch(replacements map[int]string) ([]byte, []SkippedEdit, error) {
	patched, skipped := ApplyEdits(d.XML, replacements, d.Paragraphs)
	out, err := WriteDocumentXML(d.Raw, patched)
	if err != nil {
		return nil, skipped, err
	}
	return out, skipped, nil
}
