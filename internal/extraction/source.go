package extraction

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
)

// PageSource turns the bytes of an uploaded file into page-ordered plain text.
type PageSource interface {
	Name() string
	Pages(ctx context.Context, data []byte) ([]string, error)
}

// SourceFor picks a source by file extension, then by content type.
func SourceFor(filename, contentType string) (PageSource, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDFSource{}, nil
	case ".docx":
		return DOCXSource{}, nil
	case ".html", ".htm":
		return HTMLSource{}, nil
	case ".txt", ".text", ".md":
		return TextSource{}, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch mediaType {
		case "application/pdf":
			return PDFSource{}, nil
		case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
			return DOCXSource{}, nil
		case "text/html", "application/xhtml+xml":
			return HTMLSource{}, nil
		case "text/plain", "text/markdown":
			return TextSource{}, nil
		}
	}
	return nil, &ExtractionError{Source: "upload", Message: "unsupported file type: " + filename}
}
