package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// documentEntry is the archive entry holding the document's markup.
const documentEntry = "word/document.xml"

// ErrMissingDocumentEntry reports a readable archive that is not a usable
// docx: the word/document.xml entry is absent.
var ErrMissingDocumentEntry = errors.New("docx: word/document.xml not found in archive")

// ReadDocumentXML opens raw docx bytes as a zip archive and returns the
// contents of word/document.xml as a string. An unreadable archive or a
// missing document entry is a hard error; no partial result is returned.
func ReadDocumentXML(raw []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("docx: failed to open archive: %w", err)
	}

	for _, f := range reader.File {
		if f.Name != documentEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("docx: failed to open %s: %w", documentEntry, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("docx: failed to read %s: %w", documentEntry, err)
		}
		return string(data), nil
	}

	return "", ErrMissingDocumentEntry
}

// WriteDocumentXML repacks a docx archive with word/document.xml replaced by
// documentXML. Every other entry is copied through byte-for-byte, so styles,
// relationships, media and metadata survive untouched.
func WriteDocumentXML(raw []byte, documentXML string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("docx: failed to open archive: %w", err)
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	found := false
	for _, f := range reader.File {
		w, err := writer.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("docx: failed to create entry %s: %w", f.Name, err)
		}

		if f.Name == documentEntry {
			found = true
			if _, err := w.Write([]byte(documentXML)); err != nil {
				return nil, fmt.Errorf("docx: failed to write %s: %w", documentEntry, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: failed to open entry %s: %w", f.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("docx: failed to copy entry %s: %w", f.Name, err)
		}
		rc.Close()
	}

	if !found {
		return nil, ErrMissingDocumentEntry
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("docx: failed to close archive: %w", err)
	}

	return buf.Bytes(), nil
}
