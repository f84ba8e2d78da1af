package models

import (
	"path/filepath"
	"strings"
)

// UploadedDocument is one resume as received from the upload source. Content is
// never persisted; only the text derived from it is kept.
type UploadedDocument struct {
	Filename     string
	DeclaredType string
	Content      []byte
}

type FileKind string

const (
	FileKindPDF     FileKind = "pdf"
	FileKindDOCX    FileKind = "docx"
	FileKindDOC     FileKind = "doc"
	FileKindTXT     FileKind = "txt"
	FileKindUnknown FileKind = "unknown"
)

var mimeKinds = map[string]FileKind{
	"application/pdf": FileKindPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileKindDOCX,
	"application/msword": FileKindDOC,
	"text/plain":         FileKindTXT,
}

var extensionKinds = map[string]FileKind{
	".pdf":  FileKindPDF,
	".docx": FileKindDOCX,
	".doc":  FileKindDOC,
	".txt":  FileKindTXT,
}

// KindFromMIME maps a declared MIME type (parameters ignored) to a FileKind.
func KindFromMIME(mimeType string) FileKind {
	base := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if kind, ok := mimeKinds[base]; ok {
		return kind
	}
	return FileKindUnknown
}

func KindFromFilename(name string) FileKind {
	if kind, ok := extensionKinds[strings.ToLower(filepath.Ext(name))]; ok {
		return kind
	}
	return FileKindUnknown
}
