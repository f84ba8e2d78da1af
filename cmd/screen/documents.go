package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

// collectDocuments reads every file argument and every supported file directly
// inside a directory argument. Directory entries are taken in name order.
func collectDocuments(paths []string) ([]models.UploadedDocument, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() || models.KindFromFilename(e.Name()) == models.FileKindUnknown {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, filepath.Join(p, name))
		}
	}

	docs := make([]models.UploadedDocument, 0, len(files))
	for _, f := range files {
		doc, err := readDocument(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// readDocument declares the type by extension; files without one are sniffed
// by the extractor.
func readDocument(path string) (models.UploadedDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return models.UploadedDocument{
		Filename:     filepath.Base(path),
		DeclaredType: strings.ToLower(filepath.Ext(path)),
		Content:      content,
	}, nil
}

// readText extracts and normalizes the text of a JD or resume file.
func readText(ctx context.Context, extractor services.TextExtractor, path string) (string, error) {
	doc, err := readDocument(path)
	if err != nil {
		return "", err
	}

	raw, err := extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", path, err)
	}

	text := services.NormalizeText(raw)
	if text == "" {
		return "", fmt.Errorf("%s: %s", path, services.ErrNoExtractableText)
	}
	return text, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
