package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/resume-screener/internal/models"
)

// TextExtractor turns one uploaded document into plain text. An empty string
// with a nil error means nothing could be recovered.
type TextExtractor interface {
	Extract(ctx context.Context, doc models.UploadedDocument) (string, error)
}

type textExtractor struct {
	pdfStrategies []PDFStrategy
}

// NewTextExtractor builds an extractor that tries the PDF strategies in order.
func NewTextExtractor(pdfStrategies ...PDFStrategy) TextExtractor {
	return &textExtractor{pdfStrategies: pdfStrategies}
}

func (e *textExtractor) Extract(ctx context.Context, doc models.UploadedDocument) (string, error) {
	kind := DetectKind(doc)

	if kind == models.FileKindUnknown {
		return "", fmt.Errorf("%s (%q): %w", doc.Filename, doc.DeclaredType, ErrUnsupportedFormat)
	}

	if len(doc.Content) == 0 {
		return "", nil
	}

	switch kind {
	case models.FileKindPDF:
		return e.extractPDF(ctx, doc), nil
	case models.FileKindDOCX:
		return extractDOCX(doc.Content)
	case models.FileKindDOC:
		return extractDOC(doc.Content), nil
	default:
		return decodeText(doc.Filename, doc.Content)
	}
}

// DetectKind resolves the document kind from its declared type. Generic or
// missing declarations fall back to content sniffing, then to the extension.
func DetectKind(doc models.UploadedDocument) models.FileKind {
	declared := strings.ToLower(strings.TrimSpace(doc.DeclaredType))

	if strings.HasPrefix(declared, ".") {
		return models.KindFromFilename(declared)
	}

	if kind := models.KindFromMIME(declared); kind != models.FileKindUnknown {
		return kind
	}

	if !isGenericType(declared) {
		return models.FileKindUnknown
	}

	if len(doc.Content) > 0 {
		if kind := models.KindFromMIME(mimetype.Detect(doc.Content).String()); kind != models.FileKindUnknown {
			return kind
		}
	}

	return models.KindFromFilename(doc.Filename)
}

func isGenericType(declared string) bool {
	switch strings.Split(declared, ";")[0] {
	case "", "application/octet-stream", "application/zip", "application/x-zip-compressed", "binary/octet-stream":
		return true
	}
	return false
}

func (e *textExtractor) extractPDF(ctx context.Context, doc models.UploadedDocument) string {
	for _, strategy := range e.pdfStrategies {
		text, err := runStrategy(ctx, strategy, doc.Content)
		if err != nil {
			log.Printf("⚠️  PDF strategy %s failed for %s: %v\n", strategy.Name(), doc.Filename, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text
		}
		log.Printf("⚠️  PDF strategy %s returned no text for %s\n", strategy.Name(), doc.Filename)
	}

	log.Printf("⚠️  All PDF strategies exhausted for %s\n", doc.Filename)
	return ""
}

func runStrategy(ctx context.Context, strategy PDFStrategy, data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s strategy panicked: %v", strategy.Name(), rec)
		}
	}()
	return strategy.ExtractText(ctx, data)
}

func extractDOCX(data []byte) (string, error) {
	content, err := readDocumentXML(data)
	if err != nil {
		return "", fmt.Errorf("failed to read docx: %w", err)
	}

	text, err := documentXMLText(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx body: %w", err)
	}

	return text, nil
}

// readDocumentXML returns the raw word/document.xml part. The docx library
// insists on a relationships part, so archives without one are read directly.
func readDocumentXML(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		defer doc.Close()
		return doc.Editable().GetContent(), nil
	}

	zr, zipErr := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if zipErr != nil {
		return "", err
	}

	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		b, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	return "", errors.New("word/document.xml not found")
}

// documentXMLText walks WordprocessingML and returns paragraph text joined by
// newlines in document order.
func documentXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		inTabStops int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tabs":
				inTabStops++
			case "tab":
				if inTabStops == 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabStops--
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}

// extractDOC handles legacy Word uploads. Many are OOXML under the old
// extension; true binary files only yield their printable runs.
func extractDOC(data []byte) string {
	if text, err := extractDOCX(data); err == nil {
		return text
	}
	return printableRuns(data, 4)
}

func printableRuns(data []byte, minRun int) string {
	var (
		runs    []string
		current []byte
	)

	flush := func() {
		if len(bytes.TrimSpace(current)) >= minRun {
			runs = append(runs, string(bytes.TrimSpace(current)))
		}
		current = current[:0]
	}

	for _, b := range data {
		if (b >= 0x20 && b < 0x7f) || b == '\t' {
			current = append(current, b)
			continue
		}
		flush()
	}
	flush()

	return strings.Join(runs, "\n")
}

func decodeText(filename string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", filename, ErrDecode)
	}
	return string(data), nil
}
