package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFStrategy is one PDF text backend. Implementations receive the full
// document and must not retain or mutate it.
type PDFStrategy interface {
	Name() string
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// plainTextStrategy reads the whole document through the library's content
// stream walker. Fast, but one broken page fails the document.
type plainTextStrategy struct{}

func NewPlainTextPDFStrategy() PDFStrategy {
	return &plainTextStrategy{}
}

func (p *plainTextStrategy) Name() string {
	return "fast"
}

func (p *plainTextStrategy) ExtractText(ctx context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return buf.String(), nil
}

// pageRowStrategy walks pages one by one and rebuilds lines from text rows,
// skipping pages that fail.
type pageRowStrategy struct{}

func NewPageRowPDFStrategy() PDFStrategy {
	return &pageRowStrategy{}
}

func (p *pageRowStrategy) Name() string {
	return "robust"
}

func (p *pageRowStrategy) ExtractText(ctx context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := readPageRows(r, pageIndex)
		if err != nil {
			log.Printf("⚠️  PDF page %d skipped: %v\n", pageIndex, err)
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

func readPageRows(r *pdf.Reader, pageIndex int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic reading page: %v", rec)
		}
	}()

	page := r.Page(pageIndex)
	if page.V.IsNull() {
		return "", nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var line strings.Builder
		for _, word := range row.Content {
			line.WriteString(word.S)
		}
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n"), nil
}
